package geocoder

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/joshua-takyi/eventspark/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL + "/", UserAgent: "events-app/1.0", Timeout: time.Second}, nil)
}

func TestForwardGeocode(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Pike Place Market, Seattle, WA", r.URL.Query().Get("q"))
		assert.Equal(t, "events-app/1.0", r.Header.Get("User-Agent"))
		w.Write([]byte(`[{"lat":"47.6097","lon":"-122.3422","display_name":"Pike Place Market, Seattle","address":{"city":"Seattle","state":"Washington","country":"United States"}}]`))
	})

	res, err := c.ForwardGeocode(context.Background(), "Pike Place Market, Seattle, WA")
	require.NoError(t, err)
	assert.InDelta(t, 47.6097, res.Lat, 1e-9)
	assert.InDelta(t, -122.3422, res.Lng, 1e-9)
	assert.Equal(t, "Seattle", res.City)
	assert.Equal(t, "United States", res.Country)
	assert.Equal(t, "Pike Place Market, Seattle", res.FormattedAddress)
}

func TestForwardGeocode_CityFallbacks(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    string
	}{
		{"town", `{"town":"Banff","county":"Division 15","state":"Alberta"}`, "Banff"},
		{"village", `{"village":"Giverny","state":"Normandy"}`, "Giverny"},
		{"county", `{"county":"Marin County","state":"California"}`, "Marin County"},
		{"state", `{"state":"Bavaria"}`, "Bavaria"},
		{"none", `{}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`[{"lat":"1","lon":"2","address":` + tt.address + `}]`))
			})
			res, err := c.ForwardGeocode(context.Background(), "somewhere")
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.City)
			assert.Equal(t, "somewhere", res.FormattedAddress)
		})
	}
}

func TestForwardGeocode_NoResults(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	_, err := c.ForwardGeocode(context.Background(), "nowhere at all")
	assert.ErrorIs(t, err, models.ErrGeocodeFailure)
	assert.Equal(t, "Unable to geocode address", models.PublicMessage(err))
}

func TestForwardGeocode_UpstreamError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	_, err := c.ForwardGeocode(context.Background(), "x")
	assert.ErrorIs(t, err, models.ErrUpstreamUnavailable)
}

func TestReverseGeocode(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantCity  string
		wantFound bool
	}{
		{"city", `{"address":{"city":"Chicago","county":"Cook County"}}`, "Chicago", true},
		{"town", `{"address":{"town":"Evanston"}}`, "Evanston", true},
		{"village", `{"address":{"village":"Hallstatt"}}`, "Hallstatt", true},
		{"county", `{"address":{"county":"Cook County","state":"Illinois"}}`, "Cook County", true},
		{"state only", `{"address":{"state":"Illinois"}}`, "", false},
		{"ocean", `{"error":"Unable to geocode"}`, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/reverse", r.URL.Path)
				assert.Equal(t, "41.8781", r.URL.Query().Get("lat"))
				assert.Equal(t, "-87.6298", r.URL.Query().Get("lon"))
				w.Write([]byte(tt.body))
			})
			city, found, err := c.ReverseGeocode(context.Background(), 41.8781, -87.6298)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCity, city)
			assert.Equal(t, tt.wantFound, found)
		})
	}
}

func TestReverseGeocode_NonSuccessStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	_, _, err := c.ReverseGeocode(context.Background(), 0, 0)
	assert.ErrorIs(t, err, models.ErrUpstreamUnavailable)
}

func TestReverseGeocode_RespectsContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, _, err := c.ReverseGeocode(ctx, 0, 0)
	assert.ErrorIs(t, err, models.ErrUpstreamUnavailable)
}
