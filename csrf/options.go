package csrf

import (
	"strings"

	"github.com/JeanGrijp/go-csrf-nonce/session"
	"github.com/JeanGrijp/go-csrf-nonce/stats"
)

const (
	// DefaultParamName is the query/form parameter carrying the nonce.
	DefaultParamName = "CSRF_NONCE"

	// DefaultSessionAttribute is the session attribute holding the NonceCache.
	DefaultSessionAttribute = "csrf_nonce_cache"

	// DefaultCacheSize bounds the replay window per session.
	DefaultCacheSize = 5
)

type Config struct {
	// Nonce transport
	ParamName        string `yaml:"param_name"`        // e.g.: "CSRF_NONCE"
	SessionAttribute string `yaml:"session_attribute"` // session attribute holding the cache

	// EntryPoints is a comma-separated list of paths exempt from nonce
	// validation. Entry points are limited to GET requests and exist so
	// clients can navigate back into the application from the outside;
	// they should not trigger anything security sensitive.
	EntryPoints string `yaml:"entry_points"`

	// CacheSize is the number of recently issued nonces kept valid per
	// session (the replay window).
	CacheSize int `yaml:"cache_size"`

	// Collaborators, injected rather than ambient. Not YAML-configurable.
	Store session.Store  `yaml:"-"`
	Stats stats.Recorder `yaml:"-"` // optional, best-effort decision audit
}

type Protector struct {
	cfg         Config
	entryPoints map[string]struct{}
}

func New(cfg Config) *Protector {
	// reasonable defaults
	if cfg.ParamName == "" {
		cfg.ParamName = DefaultParamName
	}
	if cfg.SessionAttribute == "" {
		cfg.SessionAttribute = DefaultSessionAttribute
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = DefaultCacheSize
	}
	if cfg.Store == nil {
		cfg.Store = session.NewMemStore()
	}
	return &Protector{
		cfg:         cfg,
		entryPoints: parseEntryPoints(cfg.EntryPoints),
	}
}

// parseEntryPoints splits the comma-separated list, trimming whitespace
// around each entry. The resulting set is never mutated after New.
func parseEntryPoints(raw string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, value := range strings.Split(raw, ",") {
		if value = strings.TrimSpace(value); value != "" {
			set[value] = struct{}{}
		}
	}
	return set
}
