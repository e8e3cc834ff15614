package patchbay

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of a configuration document.
type Format int

// Supported document encodings. JSON is the default for streams and raw
// bytes; files are inferred from their extension.
const (
	FormatJSON Format = iota
	FormatYAML
	FormatTOML
)

// String returns the conventional lowercase name of the encoding.
func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	default:
		return "json"
	}
}

// formatForPath infers a Format from a file extension. Unknown extensions
// fall back to JSON, the broker's native config encoding.
func formatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// document is a decoded configuration document. The loader only reads it
// through pointer lookups for the paths its schema recognizes; anything else
// in the document is never visited.
type document map[string]any

// decodeDocument parses raw bytes into a generic document. JSON numbers are
// kept lexical (json.Number) so that integer and float shapes stay
// distinguishable; the YAML and TOML decoders produce native integer types
// directly.
func decodeDocument(data []byte, format Format) (document, error) {
	var raw map[string]any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, &DecodeError{Format: format, Err: err}
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, &DecodeError{Format: format, Err: err}
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, &DecodeError{Format: format, Err: err}
		}
	}
	return document(raw), nil
}

// lookup resolves a slash-separated pointer ("/dns_sd/model") within the
// document. The bool reports presence: traversing through a missing key or a
// non-object value is absence, not an error, so "dns_sd": 7 simply leaves
// every /dns_sd/... setting at its default.
func (d document) lookup(path string) (any, bool) {
	if d == nil {
		return nil, false
	}
	var cur any = map[string]any(d)
	for _, seg := range strings.Split(strings.TrimPrefix(path, "/"), "/") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// valueKind is the primitive shape of a document value, checked against a
// schema entry's expected kind before semantic validation runs.
type valueKind int

const (
	kindNull valueKind = iota
	kindString
	kindBool
	kindUnsigned // integer without a sign
	kindSigned   // integer with a negative sign
	kindFloat
	kindObject
	kindArray
	kindUnknown
)

// kindName returns the shape name used in error messages.
func kindName(k valueKind) string {
	switch k {
	case kindNull:
		return "null"
	case kindString:
		return "string"
	case kindBool:
		return "boolean"
	case kindUnsigned:
		return "unsigned integer"
	case kindSigned:
		return "integer"
	case kindFloat:
		return "float"
	case kindObject:
		return "object"
	case kindArray:
		return "array"
	default:
		return "unknown"
	}
}

// kindOf classifies a decoded value. The cases cover everything the three
// decoders produce for an `any` target.
func kindOf(v any) valueKind {
	switch val := v.(type) {
	case nil:
		return kindNull
	case string:
		return kindString
	case bool:
		return kindBool
	case json.Number:
		return kindOfNumber(string(val))
	case int:
		if val < 0 {
			return kindSigned
		}
		return kindUnsigned
	case int64:
		if val < 0 {
			return kindSigned
		}
		return kindUnsigned
	case uint64:
		return kindUnsigned
	case float64:
		return kindFloat
	case map[string]any:
		return kindObject
	case []any:
		return kindArray
	default:
		return kindUnknown
	}
}

// kindOfNumber classifies a lexical JSON number. Anything with a fraction or
// exponent is a float even when its value is integral, so 1024.0 does not
// pass for an unsigned integer.
func kindOfNumber(s string) valueKind {
	if strings.ContainsAny(s, ".eE") {
		return kindFloat
	}
	if strings.HasPrefix(s, "-") {
		return kindSigned
	}
	return kindUnsigned
}

// isIntegerKind reports whether the shape is an integer of either sign.
// Settings that only need "an integer" (device ids before range checks)
// accept both and range-check afterwards.
func isIntegerKind(k valueKind) bool {
	return k == kindUnsigned || k == kindSigned
}
