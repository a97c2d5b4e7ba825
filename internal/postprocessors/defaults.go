package postprocessors

import (
	"strings"

	"github.com/custodia-labs/qapairs/internal/core/ports/driven"
	"github.com/custodia-labs/qapairs/internal/postprocessors/technical"
)

// RegisterDefaults registers all built-in processors with the registry.
// Call this during application initialisation to enable standard processors.
func RegisterDefaults(r *Registry) {
	r.Register(technical.Name, buildTechnical)
}

// buildTechnical creates a technical classifier from generic config.
// Supported config keys:
//   - tag (string): classification applied to matches (default: exclude)
//   - min_matches (int): distinct patterns that must match (default: 2)
//   - patterns ([]string or comma-separated string): replaces the built-in patterns
func buildTechnical(cfg map[string]any) (driven.PairProcessor, error) {
	var opts []technical.Option

	if cfg != nil {
		if tag, ok := cfg["tag"].(string); ok && tag != "" {
			opts = append(opts, technical.WithTag(tag))
		}
		if n := getIntFromConfig(cfg, "min_matches"); n > 0 {
			opts = append(opts, technical.WithMinMatches(n))
		}
		if patterns := getStringsFromConfig(cfg, "patterns"); len(patterns) > 0 {
			opts = append(opts, technical.WithPatterns(patterns...))
		}
	}

	return technical.New(opts...)
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// getStringsFromConfig extracts a string list from generic config map.
func getStringsFromConfig(cfg map[string]any, key string) []string {
	switch v := cfg[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		var out []string
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
