// Package advice derives the human-facing risk advisories (summary,
// explanation, weak links, recommendations, loan evaluation, graph view)
// from a RiskContext.
package advice

import (
	"encoding/json"
)

// Scorer features arrive as float64 over HTTP but as ints or bools from the
// in-process scorer; number normalises both.
func number(features map[string]any, key string) float64 {
	switch v := features[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()
		return f
	case bool:
		if v {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func flag(features map[string]any, key string) bool {
	return number(features, key) != 0
}
