package cli

import (
	"context"
	"io"
	"os"

	"github.com/matzehuels/dotforge/pkg/cache"
	"github.com/matzehuels/dotforge/pkg/dot"
	"github.com/matzehuels/dotforge/pkg/errors"
	"github.com/matzehuels/dotforge/pkg/store"
)

// openCache builds the artifact cache selected by the configuration.
func openCache(ctx context.Context, cfg *Config) (cache.Cache, error) {
	switch cfg.CacheBackend {
	case "none":
		return cache.NewNullCache(), nil
	case "redis":
		return cache.NewRedisCache(ctx, cfg.RedisAddr)
	case "file", "":
		return cache.NewFileCache(cfg.CacheDir)
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown cache backend: %s", cfg.CacheBackend)
	}
}

// openStore builds the graph store selected by the configuration.
func openStore(ctx context.Context, cfg *Config) (store.Store, error) {
	switch cfg.StoreBackend {
	case "mongo":
		return store.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	case "file", "":
		return store.NewFileStore(cfg.StoreDir)
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown store backend: %s", cfg.StoreBackend)
	}
}

// readGraphFile loads a graph blob from a file, or from stdin when path
// is "-".
func readGraphFile(path string) (*dot.Graph, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "file %s not found", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}

	g, err := dot.Decode(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "decode %s", path)
	}
	return g, nil
}

// graphStats counts nodes and edges across all groups.
func graphStats(g *dot.Graph) (nodes, edges int) {
	for _, group := range g.NodeGroups() {
		nodes += len(g.NodesIn(group))
	}
	g.EachEdge(func(from, to string, id int, rec *dot.EdgeRecord) {
		edges++
	})
	return nodes, edges
}
