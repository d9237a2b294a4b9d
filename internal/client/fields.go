package client

import (
	"strconv"
	"strings"
	"time"
)

// fields is one undecoded JSON object. The backend spells the same field
// several ways depending on endpoint; every accessor takes the accepted
// spellings in precedence order so normalisation happens here and nowhere
// else.
type fields map[string]any

func (f fields) lookup(keys ...string) (any, bool) {
	for _, k := range keys {
		if dot := strings.IndexByte(k, '.'); dot > 0 {
			if v, ok := f.obj(k[:dot]).lookup(k[dot+1:]); ok {
				return v, true
			}
			continue
		}
		v, ok := f[k]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && s == "" {
			continue
		}
		return v, true
	}
	return nil, false
}

// str returns the first present key as a string. Numbers are formatted
// without exponent so numeric ids survive.
func (f fields) str(keys ...string) string {
	v, ok := f.lookup(keys...)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case map[string]any:
		if id, ok := fields(t).lookup("_id", "id", "$oid"); ok {
			if s, isStr := id.(string); isStr {
				return s
			}
		}
		return ""
	default:
		return ""
	}
}

func (f fields) num(keys ...string) float64 {
	v, ok := f.lookup(keys...)
	if !ok {
		return 0
	}
	switch t := v.(type) {
	case float64:
		return t
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

func (f fields) integer(keys ...string) int {
	return int(f.num(keys...))
}

func (f fields) flag(keys ...string) bool {
	v, ok := f.lookup(keys...)
	if !ok {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, _ := strconv.ParseBool(t)
		return b
	case float64:
		return t != 0
	default:
		return false
	}
}

// time parses RFC 3339 and the backend's naive "2006-01-02T15:04:05"
// and date-only forms. Unparseable values yield the zero time.
func (f fields) time(keys ...string) time.Time {
	s := f.str(keys...)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func (f fields) obj(key string) fields {
	if m, ok := f[key].(map[string]any); ok {
		return fields(m)
	}
	return fields{}
}

func (f fields) list(key string) []fields {
	raw, ok := f[key].([]any)
	if !ok {
		return nil
	}
	out := make([]fields, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			out = append(out, fields(m))
		}
	}
	return out
}

func (f fields) strings(key string) []string {
	raw, ok := f[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
