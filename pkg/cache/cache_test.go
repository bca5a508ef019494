package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/dotforge/pkg/errors"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	// Miss before any write
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("expected miss on empty cache")
	}

	// Round trip
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !hit || string(data) != "value" {
		t.Errorf("Get = %q (hit=%v), want value", data, hit)
	}

	// Delete
	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("expected miss after delete")
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), -time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}
	// A non-positive TTL stores without expiration.
	if _, hit, _ := c.Get(ctx, "key"); !hit {
		t.Error("non-positive TTL should store without expiration")
	}

	if err := c.Set(ctx, "expired", []byte("value"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "expired"); hit {
		t.Error("expected miss after expiry")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	path := c.(*FileCache).entryPath("key")
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatalf("corrupt entry: %v", err)
	}

	// An undecodable entry reads as a miss and is evicted.
	if _, hit, err := c.Get(ctx, "key"); err != nil || hit {
		t.Errorf("Get on corrupt entry = (hit=%v, err=%v), want clean miss", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestNewFileCacheError(t *testing.T) {
	// A regular file where the directory should go fails with a cache code.
	blocked := filepath.Join(t.TempDir(), "occupied")
	if err := os.WriteFile(blocked, []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := NewFileCache(filepath.Join(blocked, "sub"))
	if err == nil {
		t.Fatal("NewFileCache over a file should fail")
	}
	if !errors.Is(err, errors.ErrCodeCache) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeCache)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestArtifactKey(t *testing.T) {
	k1 := ArtifactKey("digraph G {\n}\n", "svg", "dot")
	k2 := ArtifactKey("digraph G {\n}\n", "svg", "dot")
	if k1 != k2 {
		t.Error("same inputs should produce the same key")
	}

	if k1 == ArtifactKey("digraph G {\n}\n", "png", "dot") {
		t.Error("format should be part of the key")
	}
	if k1 == ArtifactKey("digraph G {\n}\n", "svg", "neato") {
		t.Error("engine should be part of the key")
	}
	if k1 == ArtifactKey("digraph H {\n}\n", "svg", "dot") {
		t.Error("DOT text should be part of the key")
	}
}
