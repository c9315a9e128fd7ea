package model

// Defaults of the engine configuration
const (
	DefaultRootKey   = "entity.n.01" + SenseSeparator + "entity"
	DefaultMaxLength = 100
)

// EngineConfig configures a taxonomy engine
type EngineConfig struct {
	// RootKey names the most general sense of the taxonomy
	RootKey string `json:"root_key"`
	// MaxLength is the distance PathSimilarity assumes for unconnected senses
	MaxLength float64 `json:"max_length"`
	// CacheSize enables an LRU cache of pairwise distances when positive
	CacheSize int `json:"cache_size,omitempty"`
}

// DefaultEngineConfig returns the configuration for WordNet style graphs
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		RootKey:   DefaultRootKey,
		MaxLength: DefaultMaxLength,
		CacheSize: 0,
	}
}

// WithDefaults fills unset fields with their defaults
func (c EngineConfig) WithDefaults() EngineConfig {
	if c.RootKey == "" {
		c.RootKey = DefaultRootKey
	}
	if c.MaxLength <= 0 {
		c.MaxLength = DefaultMaxLength
	}
	if c.CacheSize < 0 {
		c.CacheSize = 0
	}
	return c
}
