package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Instructor defines the instructor model based on the 'instructors' table.
type Instructor struct {
	ID              int64     `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Bio             *string   `json:"bio,omitempty" db:"bio"`
	ImageURL        *string   `json:"imageUrl,omitempty" db:"image_url"`
	ExperienceYears int       `json:"experienceYears" db:"experience_years"`
	Rating          float64   `json:"rating" db:"rating"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
}

// InstructorDetails is the inline variant of a course's instructor: the full
// details embedded in the course itself instead of a catalog reference.
type InstructorDetails struct {
	Name            string  `json:"name"`
	Bio             string  `json:"bio,omitempty"`
	ImageURL        string  `json:"imageUrl,omitempty"`
	ExperienceYears int     `json:"experienceYears,omitempty"`
	Rating          float64 `json:"rating,omitempty"`
}

// InstructorRefKind tags which variant of InstructorRef is populated.
type InstructorRefKind string

const (
	InstructorRefNone       InstructorRefKind = ""
	InstructorRefReferenced InstructorRefKind = "referenced"
	InstructorRefInline     InstructorRefKind = "inline"
)

// InstructorRef is a tagged union: a course's instructor is either a
// reference into the instructors table or a one-off inline details object.
// Exactly one variant may be set.
type InstructorRef struct {
	Kind         InstructorRefKind
	InstructorID *int64
	Inline       *InstructorDetails
}

// NewReferencedInstructor builds the referenced variant.
func NewReferencedInstructor(id int64) InstructorRef {
	return InstructorRef{Kind: InstructorRefReferenced, InstructorID: &id}
}

// NewInlineInstructor builds the inline variant.
func NewInlineInstructor(details InstructorDetails) InstructorRef {
	return InstructorRef{Kind: InstructorRefInline, Inline: &details}
}

// Validate checks the one-of invariant: the populated variant must match the
// tag, and the two variants are mutually exclusive.
func (r InstructorRef) Validate() error {
	switch r.Kind {
	case InstructorRefNone:
		if r.InstructorID != nil || r.Inline != nil {
			return fmt.Errorf("instructor ref: untagged variant populated")
		}
		return nil
	case InstructorRefReferenced:
		if r.InstructorID == nil || r.Inline != nil {
			return fmt.Errorf("instructor ref: referenced variant requires instructorId only")
		}
		return nil
	case InstructorRefInline:
		if r.Inline == nil || r.InstructorID != nil {
			return fmt.Errorf("instructor ref: inline variant requires details only")
		}
		if r.Inline.Name == "" {
			return fmt.Errorf("instructor ref: inline instructor name is required")
		}
		return nil
	}
	return fmt.Errorf("instructor ref: unknown kind %q", r.Kind)
}

// instructorRefJSON is the wire shape of the union.
type instructorRefJSON struct {
	Kind         InstructorRefKind  `json:"kind"`
	InstructorID *int64             `json:"instructorId,omitempty"`
	Details      *InstructorDetails `json:"details,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (r InstructorRef) MarshalJSON() ([]byte, error) {
	if r.Kind == InstructorRefNone {
		return []byte("null"), nil
	}
	return json.Marshal(instructorRefJSON{
		Kind:         r.Kind,
		InstructorID: r.InstructorID,
		Details:      r.Inline,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *InstructorRef) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = InstructorRef{}
		return nil
	}
	var raw instructorRefJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = InstructorRef{
		Kind:         raw.Kind,
		InstructorID: raw.InstructorID,
		Inline:       raw.Details,
	}
	return r.Validate()
}
