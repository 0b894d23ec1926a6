package manifest

import (
	"bytes"
	"encoding/json"
	"maps"
	"regexp"
	"slices"
	"strings"
)

// Strict decodes the manifest as a JSON object. Keys match case-insensitively;
// numbers and booleans are kept as their literal text. When a key appears in
// several casings the all-lowercase spelling wins, then the first in byte order.
type Strict struct{}

func (Strict) Name() string { return "strict" }

func (Strict) Parse(data []byte) (Fields, bool) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return Fields{}, false
	}

	var f Fields
	seen := make(map[string]bool, len(raw))
	for _, key := range keyPrecedence(raw) {
		field := strings.ToLower(key)
		if seen[field] {
			continue
		}
		seen[field] = true
		f.set(field, scalarText(raw[key]))
	}
	return f, true
}

// keyPrecedence orders keys so that exact lowercase spellings come first
func keyPrecedence(raw map[string]json.RawMessage) []string {
	keys := slices.Collect(maps.Keys(raw))
	slices.SortFunc(keys, func(a, b string) int {
		la, lb := a == strings.ToLower(a), b == strings.ToLower(b)
		switch {
		case la && !lb:
			return -1
		case lb && !la:
			return 1
		}
		return strings.Compare(a, b)
	})
	return keys
}

// scalarText returns strings unquoted, other scalars verbatim, and "" for null, arrays and objects
func scalarText(value json.RawMessage) string {
	value = bytes.TrimSpace(value)
	if len(value) == 0 {
		return ""
	}
	switch value[0] {
	case '"':
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return ""
		}
		return s
	case '{', '[', 'n':
		return ""
	default:
		return string(value)
	}
}

// Cleanup repairs the usual hand-editing damage and retries strict decoding
type Cleanup struct{}

func (Cleanup) Name() string { return "cleanup" }

func (Cleanup) Parse(data []byte) (Fields, bool) {
	return Strict{}.Parse(Clean(data))
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Clean strips a BOM, normalizes line endings, drops control characters other than
// newline and tab, and removes trailing commas before a closing brace or bracket
func Clean(data []byte) []byte {
	data = bytes.TrimPrefix(data, utf8BOM)
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	data = bytes.ReplaceAll(data, []byte("\r"), []byte("\n"))

	out := make([]byte, 0, len(data))
	for _, b := range data {
		if (b < 0x20 && b != '\n' && b != '\t') || b == 0x7f {
			continue
		}
		out = append(out, b)
	}
	return dropTrailingCommas(out)
}

// dropTrailingCommas removes a comma followed only by whitespace and a closing
// brace or bracket. Text inside string literals is left alone.
func dropTrailingCommas(data []byte) []byte {
	out := make([]byte, 0, len(data))
	inString, escaped := false, false
	for i, b := range data {
		if inString {
			switch {
			case escaped:
				escaped = false
			case b == '\\':
				escaped = true
			case b == '"':
				inString = false
			}
			out = append(out, b)
			continue
		}
		if b == '"' {
			inString = true
		}
		if b == ',' && closesNext(data[i+1:]) {
			continue
		}
		out = append(out, b)
	}
	return out
}

func closesNext(rest []byte) bool {
	rest = bytes.TrimLeft(rest, " \t\n")
	return len(rest) > 0 && (rest[0] == '}' || rest[0] == ']')
}

// Regex pulls each key out independently with a pattern match. It succeeds if at
// least one key was found, which lets badly broken manifests still yield a descriptor.
type Regex struct{}

func (Regex) Name() string { return "regex" }

var keyPatterns = func() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp, len(fieldKeys))
	for _, key := range fieldKeys {
		m[key] = regexp.MustCompile(`(?i)"` + key + `"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	}
	return m
}()

func (Regex) Parse(data []byte) (Fields, bool) {
	text := Clean(data)

	var f Fields
	found := false
	for _, key := range fieldKeys {
		match := keyPatterns[key].FindSubmatch(text)
		if match == nil {
			continue
		}
		f.set(key, unescape(match[1]))
		found = true
	}
	return f, found
}

// unescape decodes JSON string escapes, keeping the raw text if they are malformed
func unescape(raw []byte) string {
	var s string
	quoted := make([]byte, 0, len(raw)+2)
	quoted = append(quoted, '"')
	quoted = append(quoted, raw...)
	quoted = append(quoted, '"')
	if err := json.Unmarshal(quoted, &s); err != nil {
		return string(raw)
	}
	return s
}
