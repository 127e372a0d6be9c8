// Package source loads the raw system document that projections are built
// from.
//
// A [Source] returns a [projection.RawData]: a generic map with one section
// per level. Two backends exist:
//
//   - [File] reads a JSON, YAML or TOML file (picked by extension)
//   - [Mongo] reads one document from a MongoDB collection
//
// [Open] picks the backend from a reference string:
//
//	src, err := source.Open("system.yaml", source.MongoOptions{})
//	src, err := source.Open("mongodb://localhost:27017", source.MongoOptions{
//	    Database: "orakul", Collection: "systems", ID: "shop",
//	})
//	raw, err := src.Load(ctx)
//
// Values are normalised to JSON-compatible types (map[string]any, []any,
// string, float64, bool, nil) whatever the backend.
package source

import (
	"context"
	"strings"

	"github.com/orakul/orakul/pkg/projection"
)

// Source loads raw data.
type Source interface {
	// Load fetches the raw document. Errors carry an errors.Code.
	Load(ctx context.Context) (projection.RawData, error)

	// String identifies the source in logs and cache keys.
	String() string
}

// Open returns the source for ref: a MongoDB URI selects [Mongo], anything
// else is a file path.
func Open(ref string, mongo MongoOptions) (Source, error) {
	if IsMongoURI(ref) {
		return NewMongo(ref, mongo)
	}
	return NewFile(ref)
}

// IsMongoURI reports whether ref is a MongoDB connection string.
func IsMongoURI(ref string) bool {
	return strings.HasPrefix(ref, "mongodb://") || strings.HasPrefix(ref, "mongodb+srv://")
}
