package document

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	apperrors "github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/errors"
)

// Source is the raw content of a document file before normalization.
type Source struct {
	ID            string
	Title         string
	Body          string
	Persons       []string
	Organizations []string
}

type record struct {
	UUID     *string `json:"uuid"`
	Title    *string `json:"title"`
	Text     string  `json:"text"`
	Entities struct {
		Persons       []namedEntity `json:"persons"`
		Organizations []namedEntity `json:"organizations"`
	} `json:"entities"`
}

type namedEntity struct {
	Name string `json:"name"`
}

// ValidationError holds per-field decode failure messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	var parts []string
	for _, field := range []string{"uuid", "title"} {
		if msg, ok := e.Fields[field]; ok {
			parts = append(parts, fmt.Sprintf("%s:%s", field, msg))
		}
	}
	return strings.Join(parts, "; ")
}

// ReadSource reads and decodes the document file at path.
func ReadSource(path string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return Source{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	src, err := DecodeSource(f)
	if err != nil {
		return Source{}, fmt.Errorf("decoding %s: %w", path, err)
	}
	return src, nil
}

// DecodeSource decodes one JSON document record. Errors wrap ErrDecode.
func DecodeSource(r io.Reader) (Source, error) {
	var rec record
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		return Source{}, fmt.Errorf("%w: %v", apperrors.ErrDecode, err)
	}
	if err := validate(&rec); err != nil {
		return Source{}, fmt.Errorf("%w: %w", apperrors.ErrDecode, err)
	}
	return Source{
		ID:            *rec.UUID,
		Title:         *rec.Title,
		Body:          rec.Text,
		Persons:       names(rec.Entities.Persons),
		Organizations: names(rec.Entities.Organizations),
	}, nil
}

func validate(rec *record) error {
	errs := make(map[string]string)
	if rec.UUID == nil || strings.TrimSpace(*rec.UUID) == "" {
		errs["uuid"] = "uuid is required"
	}
	if rec.Title == nil {
		errs["title"] = "title is required"
	}
	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

func names(entities []namedEntity) []string {
	if len(entities) == 0 {
		return nil
	}
	out := make([]string, 0, len(entities))
	for _, e := range entities {
		if strings.TrimSpace(e.Name) == "" {
			continue
		}
		out = append(out, e.Name)
	}
	return out
}
