package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"siteadmin/internal/changes"
	"siteadmin/internal/models"
	"siteadmin/internal/uuid"
)

// MongoCollection is the collection audit entries are written to.
const MongoCollection = "seoauditlogs"

// auditDocument is the stored shape of an audit entry in MongoDB.
type auditDocument struct {
	ID          string                `bson:"_id"`
	Action      string                `bson:"action"`
	EntityType  string                `bson:"entity_type"`
	EntityID    *string               `bson:"entity_id,omitempty"`
	Path        *string               `bson:"path,omitempty"`
	Changes     []changes.FieldChange `bson:"changes"`
	Metadata    models.AuditMetadata  `bson:"metadata"`
	PerformedBy string                `bson:"performed_by"`
	IPAddress   string                `bson:"ip_address,omitempty"`
	CreatedAt   time.Time             `bson:"created_at"`
}

// MongoStore keeps audit entries in a MongoDB collection.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// ConnectMongo opens a client against uri and returns a MongoStore over the
// audit collection of database.
func ConnectMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	s := &MongoStore{client: client, collection: client.Database(database).Collection(MongoCollection)}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "entity_type", Value: 1}, {Key: "entity_id", Value: 1}}},
		{Keys: bson.D{{Key: "path", Value: 1}}},
		{Keys: bson.D{{Key: "performed_by", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create audit indexes: %w", err)
	}
	return nil
}

// Close disconnects the underlying client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Insert writes a new entry.
func (s *MongoStore) Insert(ctx context.Context, entry *models.AuditLog) error {
	if entry.ID == "" {
		entry.ID = uuid.New()
	}
	_, err := s.collection.InsertOne(ctx, toDocument(entry))
	return err
}

// Query returns one page of entries matching filter, newest first, and the
// total number of matches.
func (s *MongoStore) Query(ctx context.Context, filter Filter) ([]models.AuditLog, int64, error) {
	filter.Page.Defaults()
	q := mongoFilter(filter)

	total, err := s.collection.CountDocuments(ctx, q)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(filter.Page.Offset())).
		SetLimit(int64(filter.Page.PageSize))

	cursor, err := s.collection.Find(ctx, q, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var docs []auditDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, err
	}

	entries := make([]models.AuditLog, 0, len(docs))
	for i := range docs {
		entries = append(entries, fromDocument(&docs[i]))
	}
	return entries, total, nil
}

// Get returns the entry with the given id.
func (s *MongoStore) Get(ctx context.Context, id string) (*models.AuditLog, error) {
	var doc auditDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	entry := fromDocument(&doc)
	return &entry, nil
}

func mongoFilter(f Filter) bson.M {
	q := bson.M{}
	if f.EntityType != "" {
		q["entity_type"] = f.EntityType
	}
	if f.EntityID != "" {
		q["entity_id"] = f.EntityID
	}
	if f.Action != "" {
		q["action"] = string(f.Action)
	}
	if f.Path != "" {
		q["path"] = f.Path
	}
	if f.PerformedBy != "" {
		q["performed_by"] = f.PerformedBy
	}
	if f.Since != nil || f.Until != nil {
		created := bson.M{}
		if f.Since != nil {
			created["$gte"] = f.Since.UTC()
		}
		if f.Until != nil {
			created["$lte"] = f.Until.UTC()
		}
		q["created_at"] = created
	}
	return q
}

func toDocument(e *models.AuditLog) auditDocument {
	return auditDocument{
		ID:          e.ID,
		Action:      string(e.Action),
		EntityType:  e.EntityType,
		EntityID:    e.EntityID,
		Path:        e.Path,
		Changes:     e.ChangeList(),
		Metadata:    e.MetadataValue(),
		PerformedBy: e.PerformedBy,
		IPAddress:   e.IPAddress,
		CreatedAt:   e.CreatedAt.UTC(),
	}
}

func fromDocument(d *auditDocument) models.AuditLog {
	entry := models.AuditLog{
		ID:          d.ID,
		Action:      models.AuditAction(d.Action),
		EntityType:  d.EntityType,
		EntityID:    d.EntityID,
		Path:        d.Path,
		PerformedBy: d.PerformedBy,
		IPAddress:   d.IPAddress,
		CreatedAt:   d.CreatedAt,
	}
	entry.Changes = newChangeList(d.Changes)
	meta := d.Metadata
	entry.SetMetadata(&meta)
	return entry
}
