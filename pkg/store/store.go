// Package store persists named graphs.
//
// Graphs are serialized through the pkg/dot codec and stored as opaque
// blobs under a caller-chosen name. Two backends are provided:
//   - [FileStore]: a directory of JSON documents, for CLI usage
//   - [MongoStore]: a MongoDB collection, for server deployments
package store

import (
	"context"

	"github.com/matzehuels/dotforge/pkg/dot"
)

// Store is the persistence interface for named graphs.
//
// Load returns an error with code GRAPH_NOT_FOUND when no graph exists under
// the name. Delete of a missing name is not an error.
type Store interface {
	Save(ctx context.Context, name string, g *dot.Graph) error
	Load(ctx context.Context, name string) (*dot.Graph, error)
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, name string) error
	Close(ctx context.Context) error
}
