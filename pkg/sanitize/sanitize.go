// Package sanitize strips markup from user supplied text before it reaches the services.
package sanitize

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// unescaper restores the entities bluemonday writes for plain punctuation; &lt; and &gt; stay escaped
var unescaper = strings.NewReplacer("&amp;", "&", "&#39;", "'", "&#34;", `"`, "&quot;", `"`)

// Sanitizer removes every HTML element from strings. Safe for concurrent use.
type Sanitizer struct {
	policy *bluemonday.Policy
	skip   map[string]bool
}

// New strict sanitizer. Object keys listed in skipKeys (e.g. passwords) are left untouched.
func New(skipKeys ...string) *Sanitizer {
	skip := make(map[string]bool, len(skipKeys))
	for _, k := range skipKeys {
		skip[k] = true
	}
	return &Sanitizer{policy: bluemonday.StrictPolicy(), skip: skip}
}

// String strips tags and trims surrounding whitespace
func (s *Sanitizer) String(v string) string {
	if !strings.ContainsAny(v, "<>&'\"") {
		return strings.TrimSpace(v)
	}
	return strings.TrimSpace(unescaper.Replace(s.policy.Sanitize(v)))
}

// JSON sanitizes every string value of a JSON document. Numbers keep their literal form.
func (s *Sanitizer) JSON(body []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s.walk(v)); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func (s *Sanitizer) walk(v any) any {
	switch t := v.(type) {
	case string:
		return s.String(t)
	case []any:
		for i := range t {
			t[i] = s.walk(t[i])
		}
		return t
	case map[string]any:
		for k, val := range t {
			if s.skip[k] {
				continue
			}
			t[k] = s.walk(val)
		}
		return t
	default:
		return v
	}
}
