package transport

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
)

// Multipart is a multipart/form-data body. Empty text fields are never
// written, so absent optional values are not sent.
type Multipart struct {
	fields []formField
	files  []formFile
}

type formField struct {
	name, value string
}

type formFile struct {
	field, filename string
	content         io.Reader
}

// Set adds a text field when value is non-empty.
func (m *Multipart) Set(name, value string) *Multipart {
	if value != "" {
		m.fields = append(m.fields, formField{name: name, value: value})
	}
	return m
}

// SetPresent adds a text field when value is non-nil, even if empty, so a
// caller can clear a server-side value explicitly.
func (m *Multipart) SetPresent(name string, value *string) *Multipart {
	if value != nil {
		m.fields = append(m.fields, formField{name: name, value: *value})
	}
	return m
}

// SetFile adds a file part when content is non-nil.
func (m *Multipart) SetFile(field, filename string, content io.Reader) *Multipart {
	if content != nil {
		m.files = append(m.files, formFile{field: field, filename: filename, content: content})
	}
	return m
}

// Fields returns the text fields keyed by name.
func (m *Multipart) Fields() map[string]string {
	out := make(map[string]string, len(m.fields))
	for _, f := range m.fields {
		out[f.name] = f.value
	}
	return out
}

func (m *Multipart) encode() (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range m.fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", err
		}
	}
	for _, f := range m.files {
		part, err := w.CreateFormFile(f.field, f.filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, f.content); err != nil {
			return nil, "", fmt.Errorf("copying %s: %w", f.filename, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
