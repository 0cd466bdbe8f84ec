package models

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

// earthRadiusMeters is the radius $centerSphere expects distances to be
// divided by.
const earthRadiusMeters = 6378100.0

type EventsRepo interface {
	CreateEvent(ctx context.Context, event *Event) (*Event, error)
	GetEventByID(ctx context.Context, id primitive.ObjectID) (*EventView, error)
	ListEvents(ctx context.Context, p Pagination) (*EventPage, error)
	ListEventsByOrganizer(ctx context.Context, organizerID primitive.ObjectID, p Pagination) (*EventPage, error)
	ListEventsByCity(ctx context.Context, city string, p Pagination) (*EventPage, error)
	ListEventsWithinRadius(ctx context.Context, center GeoPoint, radiusMeters float64, p Pagination) (*EventPage, error)
	DeleteEvent(ctx context.Context, id primitive.ObjectID) error
}

func (mdb *MongodbRepo) EnsureEventIndexes(ctx context.Context) error {
	col, err := mdb.GetCollection(ctx, EventsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "geo", Value: "2dsphere"}},
			Options: options.Index().SetName("geo_2dsphere"),
		},
		// City searches sorted by date
		{
			Keys: bson.D{
				{Key: "city", Value: 1},
				{Key: "date", Value: 1},
			},
			Options: options.Index().SetName("city_date_idx"),
		},
		// Organizer's own events sorted by date; also backs the organizer join
		{
			Keys: bson.D{
				{Key: "organizer", Value: 1},
				{Key: "date", Value: 1},
			},
			Options: options.Index().SetName("organizer_date_idx"),
		},
		{
			Keys:    bson.D{{Key: "date", Value: 1}},
			Options: options.Index().SetName("date_idx"),
		},
	}

	if _, err := col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("error creating event indexes: %v", err)
	}
	return nil
}

func (mdb *MongodbRepo) CreateEvent(ctx context.Context, event *Event) (*Event, error) {
	col, err := mdb.GetCollection(ctx, EventsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = now
	}
	event.UpdatedAt = now

	if _, err := col.InsertOne(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to insert event into database: %w", err)
	}
	return event, nil
}

func (mdb *MongodbRepo) GetEventByID(ctx context.Context, id primitive.ObjectID) (*EventView, error) {
	col, err := mdb.GetCollection(ctx, EventsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	pipeline := append(mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "_id", Value: id}}}},
		{{Key: "$limit", Value: 1}},
	}, organizerLookupStages()...)

	cursor, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("error finding event: %w", err)
	}
	defer cursor.Close(ctx)

	var events []*EventView
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("error decoding event: %w", err)
	}
	if len(events) == 0 {
		return nil, NewError(ErrNotFound, "Event not found")
	}
	return events[0], nil
}

func (mdb *MongodbRepo) ListEvents(ctx context.Context, p Pagination) (*EventPage, error) {
	return mdb.listEvents(ctx, bson.D{}, p)
}

func (mdb *MongodbRepo) ListEventsByOrganizer(ctx context.Context, organizerID primitive.ObjectID, p Pagination) (*EventPage, error) {
	return mdb.listEvents(ctx, bson.D{{Key: "organizer", Value: organizerID}}, p)
}

func (mdb *MongodbRepo) ListEventsByCity(ctx context.Context, city string, p Pagination) (*EventPage, error) {
	return mdb.listEvents(ctx, bson.D{{Key: "city", Value: NormalizeCity(city)}}, p)
}

func (mdb *MongodbRepo) ListEventsWithinRadius(ctx context.Context, center GeoPoint, radiusMeters float64, p Pagination) (*EventPage, error) {
	col, err := mdb.GetCollection(ctx, EventsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}
	return runPagedQuery(ctx, col, geoNearPipeline(center, radiusMeters, p), withinRadiusFilter(center, radiusMeters), p)
}

func (mdb *MongodbRepo) DeleteEvent(ctx context.Context, id primitive.ObjectID) error {
	col, err := mdb.GetCollection(ctx, EventsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	res, err := col.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if res.DeletedCount == 0 {
		return NewError(ErrNotFound, "Event not found")
	}
	return nil
}

func (mdb *MongodbRepo) listEvents(ctx context.Context, match bson.D, p Pagination) (*EventPage, error) {
	col, err := mdb.GetCollection(ctx, EventsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}
	return runPagedQuery(ctx, col, listPipeline(match, p), match, p)
}

// runPagedQuery fetches the page and the total count concurrently.
func runPagedQuery(ctx context.Context, col *mongo.Collection, pipeline mongo.Pipeline, countFilter bson.D, p Pagination) (*EventPage, error) {
	page := &EventPage{Events: []*EventView{}, Pagination: p}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cursor, err := col.Aggregate(gctx, pipeline)
		if err != nil {
			return fmt.Errorf("error aggregating events: %w", err)
		}
		defer cursor.Close(gctx)

		var events []*EventView
		if err := cursor.All(gctx, &events); err != nil {
			return fmt.Errorf("error decoding events: %w", err)
		}
		if events != nil {
			page.Events = events
		}
		return nil
	})
	g.Go(func() error {
		total, err := col.CountDocuments(gctx, countFilter)
		if err != nil {
			return fmt.Errorf("error counting events: %w", err)
		}
		page.Total = total
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return page, nil
}

// dateOrder sorts by date with _id as tie-break so identical (page, limit)
// requests over unchanged data return identical slices.
func dateOrder() bson.D {
	return bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}}
}

func pageStages(p Pagination) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$sort", Value: dateOrder()}},
		{{Key: "$skip", Value: p.Skip()}},
		{{Key: "$limit", Value: int64(p.Limit)}},
	}
}

// organizerLookupStages joins the organizer's public fields. Sensitive user
// fields are projected away before they leave the database.
func organizerLookupStages() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: UsersColName},
			{Key: "localField", Value: "organizer"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "organizer_info"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$organizer_info"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "organizer_info.password", Value: 0},
			{Key: "organizer_info.password_changed_at", Value: 0},
			{Key: "organizer_info.role", Value: 0},
			{Key: "organizer_info.is_active", Value: 0},
			{Key: "organizer_info.created_at", Value: 0},
			{Key: "organizer_info.updated_at", Value: 0},
		}}},
	}
}

func listPipeline(match bson.D, p Pagination) mongo.Pipeline {
	pipeline := mongo.Pipeline{{{Key: "$match", Value: match}}}
	pipeline = append(pipeline, pageStages(p)...)
	return append(pipeline, organizerLookupStages()...)
}

// geoNearPipeline must keep $geoNear as its first stage.
func geoNearPipeline(center GeoPoint, radiusMeters float64, p Pagination) mongo.Pipeline {
	pipeline := mongo.Pipeline{
		{{Key: "$geoNear", Value: bson.D{
			{Key: "near", Value: bson.D{
				{Key: "type", Value: GeoPointType},
				{Key: "coordinates", Value: bson.A{center.Lng(), center.Lat()}},
			}},
			{Key: "key", Value: "geo"},
			{Key: "distanceField", Value: "distance_km"},
			{Key: "distanceMultiplier", Value: 0.001},
			{Key: "maxDistance", Value: radiusMeters},
			{Key: "spherical", Value: true},
		}}},
	}
	pipeline = append(pipeline, pageStages(p)...)
	return append(pipeline, organizerLookupStages()...)
}

func withinRadiusFilter(center GeoPoint, radiusMeters float64) bson.D {
	return bson.D{{Key: "geo", Value: bson.D{
		{Key: "$geoWithin", Value: bson.D{
			{Key: "$centerSphere", Value: bson.A{
				bson.A{center.Lng(), center.Lat()},
				radiusMeters / earthRadiusMeters,
			}},
		}},
	}}}
}
