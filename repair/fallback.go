package repair

import (
	"unicode/utf8"

	"github.com/poiesic/jsonmend/core"
)

const (
	// FallbackProvider is the value of the "provider" marker field on
	// synthesized fallback objects, letting callers distinguish
	// placeholders from real content.
	FallbackProvider = "jsonmend-fallback"

	// excerptLimit bounds the input excerpt carried by fallback objects.
	excerptLimit = 120
)

// SynthesizeFallback builds the placeholder object returned when every
// repair stage failed. The object always contains the "error" and
// "provider" marker fields plus the original input's length and a short
// excerpt; each hinted field is added with an empty-typed placeholder so
// naive downstream field access does not itself fail.
//
// The object is built from fixed templates, so this function cannot
// fail and its output is always strictly valid JSON.
func SynthesizeFallback(original, reason string, hint core.ShapeHint) map[string]any {
	obj := map[string]any{
		"error":        reason,
		"provider":     FallbackProvider,
		"input_length": len(original),
	}
	if excerpt := truncateUTF8(original, excerptLimit); excerpt != "" {
		obj["input_excerpt"] = excerpt
	}
	for name, kind := range hint {
		if _, taken := obj[name]; taken {
			// Marker fields win over colliding hint names.
			continue
		}
		obj[name] = kind.Placeholder()
	}
	return obj
}

// truncateUTF8 shortens s to at most limit bytes without splitting a
// multi-byte rune.
func truncateUTF8(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
