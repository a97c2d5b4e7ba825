package driven

// ConfigStore holds the persisted settings as dotted keys such as
// "email.signature_trim" or "pipeline.technical.min_matches".
// Typed getters return the zero value when a key is absent or has
// another type.
type ConfigStore interface {
	// Get returns the raw value and whether the key exists.
	Get(key string) (any, bool)

	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool

	// GetStringSlice returns a copy of a stored list.
	GetStringSlice(key string) []string

	// Set stores a value and persists it immediately.
	Set(key string, value any) error

	// Save writes the current values to storage.
	Save() error

	// Load replaces the current values with those in storage.
	Load() error

	// Keys returns every stored key in sorted order.
	Keys() []string

	// Path returns where the settings are stored; ":memory:" for memory stores.
	Path() string
}
