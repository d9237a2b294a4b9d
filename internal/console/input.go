package console

import (
	"io"
	"strconv"
	"strings"

	"github.com/dolabb/dolabbctl/internal/domain"
)

// Input carries the free-form arguments of one action, gathered from
// command flags or a submitted form.
type Input struct {
	Reason string
	Values map[string]string
	// File is an optional upload named FileName.
	File     io.Reader
	FileName string
}

// Get returns the trimmed value for key, or "".
func (in Input) Get(key string) string {
	return strings.TrimSpace(in.Values[key])
}

// Has reports whether key was supplied, even as an empty value.
func (in Input) Has(key string) bool {
	_, ok := in.Values[key]
	return ok
}

// Text returns a pointer to the value of key when supplied, so absent
// fields stay absent in the request body.
func (in Input) Text(key string) *string {
	if !in.Has(key) {
		return nil
	}
	v := in.Get(key)
	return &v
}

// Float parses key as a number. An absent or empty key yields nil.
func (in Input) Float(key string) (*float64, error) {
	v := in.Get(key)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, &domain.ValidationError{Field: key, Message: "must be a number"}
	}
	return &n, nil
}

// Bool parses key as a boolean. An absent or empty key yields nil.
func (in Input) Bool(key string) (*bool, error) {
	v := in.Get(key)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, &domain.ValidationError{Field: key, Message: "must be true or false"}
	}
	return &b, nil
}

// List splits a comma-separated value, dropping empty items.
func (in Input) List(key string) []string {
	var out []string
	for item := range strings.SplitSeq(in.Get(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// ReasonOr returns the reason, or the value of key when no reason was given.
func (in Input) ReasonOr(key string) string {
	if r := strings.TrimSpace(in.Reason); r != "" {
		return r
	}
	return in.Get(key)
}
