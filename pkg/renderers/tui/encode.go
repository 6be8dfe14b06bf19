package tui

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Encode serializes collected values. Form encoding and pretty text use
// dotted paths with numeric segments for array positions.
func Encode(values map[string]any, format OutputFormat) ([]byte, error) {
	switch format {
	case OutputFormatFormURLEncoded:
		flattened := url.Values{}
		flatten("", values, func(path string, value any) {
			flattened.Set(path, scalarString(value))
		})
		return []byte(flattened.Encode()), nil
	case OutputFormatPrettyText:
		var b strings.Builder
		flatten("", values, func(path string, value any) {
			b.WriteString(path)
			b.WriteString(" = ")
			b.WriteString(scalarString(value))
			b.WriteByte('\n')
		})
		return []byte(b.String()), nil
	case OutputFormatJSON, "":
		payload, err := json.MarshalIndent(values, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("tui: encode values: %w", err)
		}
		return append(payload, '\n'), nil
	default:
		return nil, fmt.Errorf("tui: unknown output format %q", format)
	}
}

// ContentType maps an output format onto its media type.
func ContentType(format OutputFormat) string {
	switch format {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

func flatten(prefix string, value any, emit func(path string, value any)) {
	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			flatten(joinPath(prefix, key), v[key], emit)
		}
	case []any:
		for idx, item := range v {
			flatten(joinPath(prefix, strconv.Itoa(idx)), item, emit)
		}
	default:
		if prefix != "" {
			emit(prefix, v)
		}
	}
}

func joinPath(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return prefix + "." + segment
}

func scalarString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
