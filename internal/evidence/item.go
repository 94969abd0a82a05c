package evidence

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidEvidenceType is returned by Validate for an unknown evidence kind
var ErrInvalidEvidenceType = errors.New("invalid evidence type")

// Kind is the evidence variant tag
type Kind string

const (
	Book     Kind = "book"
	Insight  Kind = "insight"
	Project  Kind = "project"
	Activity Kind = "activity"
)

// Kinds returns the accepted evidence kinds
func Kinds() []Kind {
	return []Kind{Book, Insight, Project, Activity}
}

// Normalize lowercases and trims the tag
func (k Kind) Normalize() Kind {
	return Kind(strings.ToLower(strings.TrimSpace(string(k))))
}

// Valid reports whether k is one of the known kinds
func (k Kind) Valid() bool {
	switch k.Normalize() {
	case Book, Insight, Project, Activity:
		return true
	}
	return false
}

// Item is one piece of supporting evidence. Absent flags read as false and
// absent ratings as zero.
type Item struct {
	Kind        Kind               `json:"type" yaml:"type"`
	Title       string             `json:"title,omitempty" yaml:"title"`
	Description string             `json:"description,omitempty" yaml:"description"`
	Content     string             `json:"content,omitempty" yaml:"content"`
	Source      string             `json:"source,omitempty" yaml:"source"`
	Subject     string             `json:"subject,omitempty" yaml:"subject"`
	Notes       []string           `json:"notes,omitempty" yaml:"notes"`
	Flags       map[string]bool    `json:"flags,omitempty" yaml:"flags"`
	Ratings     map[string]float64 `json:"ratings,omitempty" yaml:"ratings"`
}

// Flag returns the named signal flag
func (i Item) Flag(name string) bool {
	return i.Flags[name]
}

// Rating returns the named rating
func (i Item) Rating(name string) float64 {
	return i.Ratings[name]
}

// FreeText joins the item's descriptive text fields
func (i Item) FreeText() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{i.Title, i.Description, i.Content} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}

// Target is the optional university/course context used for relevance
type Target struct {
	Name   string `json:"name,omitempty" yaml:"name"`
	Course string `json:"course,omitempty" yaml:"course"`
}

// IsZero reports whether the target carries no information
func (t *Target) IsZero() bool {
	return t == nil || (strings.TrimSpace(t.Name) == "" && strings.TrimSpace(t.Course) == "")
}

// Validate checks that the item's kind is known
func Validate(item Item) error {
	if !item.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidEvidenceType, item.Kind)
	}
	return nil
}
