// Package geocoder resolves addresses to coordinates and coordinates to
// locality names using an OpenStreetMap Nominatim endpoint.
package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joshua-takyi/eventspark/internal/models"
)

// Result is a forward geocoding match.
type Result struct {
	Lat              float64
	Lng              float64
	FormattedAddress string
	City             string
	Country          string
}

type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
	}
}

type nominatimAddress struct {
	City    string `json:"city"`
	Town    string `json:"town"`
	Village string `json:"village"`
	Hamlet  string `json:"hamlet"`
	County  string `json:"county"`
	State   string `json:"state"`
	Country string `json:"country"`
}

type nominatimPlace struct {
	Lat         string            `json:"lat"`
	Lon         string            `json:"lon"`
	DisplayName string            `json:"display_name"`
	Address     *nominatimAddress `json:"address"`
}

// locality picks the most specific settlement name available.
func (a *nominatimAddress) locality() string {
	for _, v := range []string{a.City, a.Town, a.Village, a.Hamlet} {
		if v != "" {
			return v
		}
	}
	return ""
}

// ForwardGeocode resolves address to its first match. City falls back from
// locality to county, then state.
func (c *Client) ForwardGeocode(ctx context.Context, address string) (*Result, error) {
	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "jsonv2")
	q.Set("addressdetails", "1")
	q.Set("limit", "1")

	var places []nominatimPlace
	if err := c.get(ctx, "/search", q, &places); err != nil {
		return nil, err
	}
	if len(places) == 0 {
		return nil, models.NewError(models.ErrGeocodeFailure, "Unable to geocode address")
	}

	p := places[0]
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return nil, models.WrapError(models.ErrGeocodeFailure, "Unable to geocode address", err)
	}
	lng, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return nil, models.WrapError(models.ErrGeocodeFailure, "Unable to geocode address", err)
	}

	res := &Result{
		Lat:              lat,
		Lng:              lng,
		FormattedAddress: p.DisplayName,
	}
	if res.FormattedAddress == "" {
		res.FormattedAddress = address
	}
	if a := p.Address; a != nil {
		res.Country = a.Country
		switch {
		case a.locality() != "":
			res.City = a.locality()
		case a.County != "":
			res.City = a.County
		default:
			res.City = a.State
		}
	}
	return res, nil
}

// ReverseGeocode returns the locality at (lat, lng). found is false when the
// provider knows no city, town, village or county there.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lng float64) (city string, found bool, err error) {
	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))

	var place nominatimPlace
	if err := c.get(ctx, "/reverse", q, &place); err != nil {
		return "", false, err
	}
	if place.Address == nil {
		return "", false, nil
	}

	a := place.Address
	for _, v := range []string{a.City, a.Town, a.Village, a.County} {
		if v != "" {
			return v, true, nil
		}
	}
	return "", false, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	endpoint := fmt.Sprintf("%s%s?%s", c.baseURL, path, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create geocoder request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.WrapError(models.ErrUpstreamUnavailable, "Geocoding service unavailable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.WrapError(models.ErrUpstreamUnavailable, "Geocoding service unavailable",
			fmt.Errorf("geocoder returned status: %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return models.WrapError(models.ErrUpstreamUnavailable, "Geocoding service returned an invalid response", err)
	}
	return nil
}
