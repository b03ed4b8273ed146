package models

import (
	"encoding/json"
	"testing"
)

func TestInstructorRefValidate(t *testing.T) {
	id := int64(3)

	tests := []struct {
		name    string
		ref     InstructorRef
		wantErr bool
	}{
		{"empty ref", InstructorRef{}, false},
		{"referenced", NewReferencedInstructor(3), false},
		{"inline", NewInlineInstructor(InstructorDetails{Name: "Ada Lovelace"}), false},
		{"untagged with id", InstructorRef{InstructorID: &id}, true},
		{"referenced without id", InstructorRef{Kind: InstructorRefReferenced}, true},
		{"inline without details", InstructorRef{Kind: InstructorRefInline}, true},
		{"inline without name", NewInlineInstructor(InstructorDetails{Bio: "no name"}), true},
		{
			"both variants populated",
			InstructorRef{Kind: InstructorRefReferenced, InstructorID: &id, Inline: &InstructorDetails{Name: "x"}},
			true,
		},
		{"unknown kind", InstructorRef{Kind: "external"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ref.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestInstructorRefJSON(t *testing.T) {
	ref := NewInlineInstructor(InstructorDetails{Name: "Ada Lovelace", ExperienceYears: 12})
	data, err := json.Marshal(ref)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var decoded InstructorRef
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if decoded.Kind != InstructorRefInline || decoded.Inline == nil || decoded.Inline.Name != "Ada Lovelace" {
		t.Errorf("round trip lost inline details: %+v", decoded)
	}

	var fromNull InstructorRef
	if err := json.Unmarshal([]byte("null"), &fromNull); err != nil {
		t.Fatalf("Unmarshal(null) error: %v", err)
	}
	if fromNull.Kind != InstructorRefNone {
		t.Errorf("Unmarshal(null) kind = %q, want empty", fromNull.Kind)
	}

	// A payload whose tag and variant disagree must be rejected at decode time.
	bad := []byte(`{"kind":"referenced","details":{"name":"x"}}`)
	var invalid InstructorRef
	if err := json.Unmarshal(bad, &invalid); err == nil {
		t.Error("Unmarshal of mismatched variant expected error, got nil")
	}
}
