package cache

// Key types reported to the observability hooks.
const (
	KeyTypeSource   = "source"
	KeyTypeScene    = "scene"
	KeyTypeArtifact = "artifact"
)

// Keyer derives cache keys.
type Keyer interface {
	// SourceKey identifies the raw document loaded from source (a path or
	// a connection string plus collection).
	SourceKey(source string) string

	// SceneKey identifies the laid-out scene of a raw document.
	SceneKey(rawHash string, opts SceneKeyOpts) string

	// ArtifactKey identifies a rendered output of a scene.
	ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string
}

// SceneKeyOpts lists what changes a laid-out scene.
type SceneKeyOpts struct {
	Level      string  `json:"level"`
	Direction  string  `json:"direction"`
	NodeWidth  float64 `json:"node_width"`
	NodeHeight float64 `json:"node_height"`
	NodeSep    float64 `json:"node_sep"`
	RankSep    float64 `json:"rank_sep"`
	Passes     int     `json:"passes"`
}

// ArtifactKeyOpts lists what changes a rendered output.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Engine   string `json:"engine"`
	Detailed bool   `json:"detailed"`
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// SourceKey implements Keyer.
func (DefaultKeyer) SourceKey(source string) string {
	return hashKey(KeyTypeSource, source)
}

// SceneKey implements Keyer.
func (DefaultKeyer) SceneKey(rawHash string, opts SceneKeyOpts) string {
	return hashKey(KeyTypeScene, rawHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return hashKey(KeyTypeArtifact, sceneHash, opts)
}

// ScopedKeyer prefixes every key of an inner Keyer, giving each tenant its
// own namespace in a shared backend.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner (the default keyer when nil) with prefix.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// SourceKey implements Keyer.
func (k *ScopedKeyer) SourceKey(source string) string {
	return k.prefix + k.inner.SourceKey(source)
}

// SceneKey implements Keyer.
func (k *ScopedKeyer) SceneKey(rawHash string, opts SceneKeyOpts) string {
	return k.prefix + k.inner.SceneKey(rawHash, opts)
}

// ArtifactKey implements Keyer.
func (k *ScopedKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(sceneHash, opts)
}

// KeyType returns the key type of a key built by a Keyer, ignoring any
// scope prefix. It returns "" for foreign keys.
func KeyType(key string) string {
	for _, t := range []string{KeyTypeSource, KeyTypeScene, KeyTypeArtifact} {
		if hasTypeSegment(key, t) {
			return t
		}
	}
	return ""
}

// hasTypeSegment reports whether key ends in "<t>:<64 hex chars>".
func hasTypeSegment(key, t string) bool {
	const hashLen = 64
	n := len(key) - hashLen - 1 - len(t)
	if n < 0 || key[n:n+len(t)] != t || key[n+len(t)] != ':' {
		return false
	}
	return n == 0 || key[n-1] == ':'
}
