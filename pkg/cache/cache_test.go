package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/orakul/orakul/pkg/observability"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get = %q, %v, %v; want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, hit, _ := c.Get(ctx, "missing"); hit {
		t.Error("empty cache should miss")
	}

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("deleted key should miss")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k"); !hit {
		t.Fatal("fresh entry should hit")
	}

	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	path := c.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit=%v err=%v", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("%d entries left after Clear", len(entries))
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("Clear removed the cache dir: %v", err)
	}
}

func TestNewFileCacheInvalidPath(t *testing.T) {
	if _, err := NewFileCache(""); err == nil {
		t.Error("empty dir should fail")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("different inputs should hash differently")
	}
	if len(h1) != 64 {
		t.Errorf("len(Hash) = %d, want 64", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	if k.SourceKey("a.json") == k.SourceKey("b.json") {
		t.Error("different sources should produce different keys")
	}

	sk1 := k.SceneKey("raw", SceneKeyOpts{Level: "abstract"})
	sk2 := k.SceneKey("raw", SceneKeyOpts{Level: "modules"})
	if sk1 == sk2 {
		t.Error("different levels should produce different scene keys")
	}
	if k.SceneKey("raw", SceneKeyOpts{NodeHeight: 36}) == k.SceneKey("raw", SceneKeyOpts{NodeHeight: 60}) {
		t.Error("different node heights should produce different scene keys")
	}
	if !strings.HasPrefix(sk1, "scene:") {
		t.Errorf("scene key %q lacks prefix", sk1)
	}

	ak1 := k.ArtifactKey("scene", ArtifactKeyOpts{Format: "svg"})
	ak2 := k.ArtifactKey("scene", ArtifactKeyOpts{Format: "png"})
	if ak1 == ak2 {
		t.Error("different formats should produce different artifact keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(nil, "tenant:42:")
	key := scoped.SourceKey("a.json")
	if !strings.HasPrefix(key, "tenant:42:source:") {
		t.Errorf("scoped key = %q", key)
	}
	if key != "tenant:42:"+NewDefaultKeyer().SourceKey("a.json") {
		t.Error("scoped key should prefix the inner key")
	}
}

func TestKeyType(t *testing.T) {
	k := NewScopedKeyer(nil, "t:")
	tests := map[string]string{
		k.SourceKey("x"):                                KeyTypeSource,
		k.SceneKey("h", SceneKeyOpts{}):                 KeyTypeScene,
		k.ArtifactKey("h", ArtifactKeyOpts{}):           KeyTypeArtifact,
		NewDefaultKeyer().SceneKey("h", SceneKeyOpts{}): KeyTypeScene,
		"plain":       "",
		"scene:short": "",
	}
	for key, want := range tests {
		if got := KeyType(key); got != want {
			t.Errorf("KeyType(%q) = %q, want %q", key, got, want)
		}
	}
}

type cacheRecorder struct {
	observability.NoopCacheHooks
	mu                sync.Mutex
	hits, misses, set []string
}

func (r *cacheRecorder) OnCacheHit(_ context.Context, kt string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hits = append(r.hits, kt)
}

func (r *cacheRecorder) OnCacheMiss(_ context.Context, kt string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.misses = append(r.misses, kt)
}

func (r *cacheRecorder) OnCacheSet(_ context.Context, kt string, _ int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.set = append(r.set, kt)
}

func TestInstrument(t *testing.T) {
	rec := &cacheRecorder{}
	observability.SetCacheHooks(rec)
	t.Cleanup(observability.Reset)

	ctx := context.Background()
	fc, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := Instrument(fc)
	key := NewDefaultKeyer().SceneKey("h", SceneKeyOpts{})

	c.Get(ctx, key)
	c.Set(ctx, key, []byte("x"), 0)
	c.Get(ctx, key)

	if len(rec.misses) != 1 || len(rec.set) != 1 || len(rec.hits) != 1 {
		t.Fatalf("hooks: hits=%v misses=%v set=%v", rec.hits, rec.misses, rec.set)
	}
	if rec.hits[0] != KeyTypeScene {
		t.Errorf("key type = %q", rec.hits[0])
	}

	if err := c.(Clearer).Clear(ctx); err != nil {
		t.Fatalf("Clear through wrapper: %v", err)
	}
	if _, hit, _ := fc.Get(ctx, key); hit {
		t.Error("Clear should reach the file cache")
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should be nil")
	}
	err := Retryable(ErrNetwork)
	if !IsRetryable(err) {
		t.Error("wrapped error should be retryable")
	}
	if !errors.Is(err, ErrNetwork) {
		t.Error("wrapped error should unwrap")
	}
	if IsRetryable(errors.New("boom")) {
		t.Error("plain error should not be retryable")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	old := retryDelay
	retryDelay = time.Millisecond
	t.Cleanup(func() { retryDelay = old })
	ctx := context.Background()

	calls := 0
	if err := RetryWithBackoff(ctx, func() error { calls++; return nil }); err != nil || calls != 1 {
		t.Errorf("success: err=%v calls=%d", err, calls)
	}

	boom := errors.New("boom")
	calls = 0
	if err := RetryWithBackoff(ctx, func() error { calls++; return boom }); err != boom || calls != 1 {
		t.Errorf("non-retryable: err=%v calls=%d", err, calls)
	}

	calls = 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrNetwork)
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("retry once: err=%v calls=%d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error { calls++; return Retryable(ErrNetwork) })
	if !IsRetryable(err) || calls != 3 {
		t.Errorf("exhausted: err=%v calls=%d", err, calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := RetryWithBackoff(ctx, func() error { return Retryable(ErrNetwork) })
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRedisCache(t *testing.T) {
	url := os.Getenv("ORAKUL_TEST_REDIS_URL")
	if url == "" {
		t.Skip("ORAKUL_TEST_REDIS_URL not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, RedisConfig{URL: url, Prefix: "orakul-test:"})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	t.Cleanup(func() { c.Clear(ctx) })

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}
	if err := c.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("Clear should remove prefixed keys")
	}
}

func TestNewRedisCacheInvalidURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), RedisConfig{URL: "http://x"}); err == nil {
		t.Error("non-redis URL should fail")
	}
}
