package source

import (
	"context"
	stderrors "errors"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/orakul/orakul/pkg/cache"
	"github.com/orakul/orakul/pkg/errors"
	"github.com/orakul/orakul/pkg/projection"
)

// Defaults for MongoOptions.
const (
	DefaultMongoDatabase   = "orakul"
	DefaultMongoCollection = "systems"
	DefaultMongoTimeout    = 10 * time.Second
)

// MongoOptions selects the document a Mongo source reads.
type MongoOptions struct {
	// Database defaults to the URI path, then to "orakul".
	Database string
	// Collection defaults to "systems".
	Collection string
	// ID is the document _id. A 24-digit hex id also matches an ObjectID.
	// Empty selects the most recently inserted document.
	ID string
	// Timeout bounds connecting and reading. Defaults to 10s.
	Timeout time.Duration
}

// Mongo reads raw data from one MongoDB document. The document holds the
// level sections at top level; _id is dropped.
type Mongo struct {
	URI  string
	opts MongoOptions
}

// NewMongo returns a Mongo source for uri.
func NewMongo(uri string, opts MongoOptions) (*Mongo, error) {
	if err := errors.ValidateURL(uri); err != nil {
		return nil, err
	}
	if !IsMongoURI(uri) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "not a MongoDB URI")
	}
	if opts.Database == "" {
		opts.Database = databaseFromURI(uri)
	}
	if opts.Collection == "" {
		opts.Collection = DefaultMongoCollection
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultMongoTimeout
	}
	return &Mongo{URI: uri, opts: opts}, nil
}

// Options returns the resolved options.
func (m *Mongo) Options() MongoOptions { return m.opts }

// String returns the URI without credentials plus the document selector.
func (m *Mongo) String() string {
	s := redact(m.URI) + "/" + m.opts.Database + "." + m.opts.Collection
	if m.opts.ID != "" {
		s += "#" + m.opts.ID
	}
	return s
}

// Load implements Source. Network failures while connecting are retried
// with backoff.
func (m *Mongo) Load(ctx context.Context) (projection.RawData, error) {
	ctx, cancel := context.WithTimeout(ctx, m.opts.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(m.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "mongo client")
	}
	defer client.Disconnect(context.Background())

	var doc bson.M
	err = cache.RetryWithBackoff(ctx, func() error {
		doc, err = m.find(ctx, client)
		if mongo.IsNetworkError(err) {
			return cache.Retryable(err)
		}
		return err
	})
	switch {
	case err == nil:
	case stderrors.Is(err, mongo.ErrNoDocuments):
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "no document in %s", m)
	case mongo.IsTimeout(err), stderrors.Is(err, context.DeadlineExceeded):
		return nil, errors.Wrap(errors.ErrCodeTimeout, err, "load %s", m)
	default:
		return nil, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "load %s", m)
	}

	delete(doc, "_id")
	return projection.RawData(normalize(doc).(map[string]any)), nil
}

func (m *Mongo) find(ctx context.Context, client *mongo.Client) (bson.M, error) {
	coll := client.Database(m.opts.Database).Collection(m.opts.Collection)

	filter, opts := bson.M{}, options.FindOne()
	if m.opts.ID != "" {
		filter = idFilter(m.opts.ID)
	} else {
		opts.SetSort(bson.D{{Key: "_id", Value: -1}})
	}

	var doc bson.M
	if err := coll.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// idFilter matches id as a string and, when it parses, as an ObjectID.
func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": bson.M{"$in": bson.A{id, oid}}}
	}
	return bson.M{"_id": id}
}

func databaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return DefaultMongoDatabase
	}
	if db := strings.Trim(u.Path, "/"); db != "" {
		return db
	}
	return DefaultMongoDatabase
}

func redact(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return "mongodb://"
	}
	u.User = nil
	u.Path = ""
	u.RawQuery = ""
	return u.String()
}
