package gesture

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParsePattern(t *testing.T) {
	tests := []struct {
		in       string
		expected Pattern
	}{
		{"012345670", Circle},
		{"71", UpCaret},
		{"right, down-right", NewPattern(Right, DownRight)},
		{"UP  downleft\t0", NewPattern(Up, DownLeft, Right)},
		{"", Pattern{}},
	}

	for _, tt := range tests {
		got, err := ParsePattern(tt.in)
		if err != nil {
			t.Errorf("ParsePattern(%q) error = %v", tt.in, err)
			continue
		}
		if diff := cmp.Diff(tt.expected, got); diff != "" {
			t.Errorf("ParsePattern(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestParsePattern_Invalid(t *testing.T) {
	for _, in := range []string{"0128", "right, sideways"} {
		if _, err := ParsePattern(in); !errors.Is(err, ErrInvalidDirection) {
			t.Errorf("ParsePattern(%q) error = %v, want ErrInvalidDirection", in, err)
		}
	}
}

func TestPattern_String(t *testing.T) {
	if got := Circle.String(); got != "012345670" {
		t.Errorf("Circle.String() = %q", got)
	}
	if got := NewPattern(Up).String(); got != "6" {
		t.Errorf("single direction String() = %q", got)
	}
}

func TestPattern_Collapse(t *testing.T) {
	got := MustParsePattern("0111122222233445555666700000").Collapse()
	if diff := cmp.Diff(Circle, got); diff != "" {
		t.Errorf("Collapse mismatch (-want +got):\n%s", diff)
	}
	if got := (Pattern{}).Collapse(); len(got) != 0 {
		t.Errorf("Collapse of empty pattern = %v", got)
	}
}

func TestPattern_Validate(t *testing.T) {
	if err := (Pattern{}).Validate(); !errors.Is(err, ErrEmptyPattern) {
		t.Errorf("empty pattern error = %v, want ErrEmptyPattern", err)
	}
	if err := NewPattern(Right, Direction(8)).Validate(); !errors.Is(err, ErrInvalidDirection) {
		t.Errorf("invalid direction error = %v, want ErrInvalidDirection", err)
	}
	if err := Circle.Validate(); err != nil {
		t.Errorf("Circle.Validate() error = %v", err)
	}
}

func TestPattern_JSON(t *testing.T) {
	data, err := json.Marshal(UpCaret)
	if err != nil {
		t.Fatalf("Marshal error = %v", err)
	}
	if string(data) != `"71"` {
		t.Errorf("Marshal = %s, want \"71\"", data)
	}

	var fromString, fromArray Pattern
	if err := json.Unmarshal([]byte(`"up, down"`), &fromString); err != nil {
		t.Fatalf("Unmarshal string error = %v", err)
	}
	if err := json.Unmarshal([]byte(`[6, 2]`), &fromArray); err != nil {
		t.Fatalf("Unmarshal array error = %v", err)
	}
	if diff := cmp.Diff(fromString, fromArray); diff != "" {
		t.Errorf("string and array forms differ (-string +array):\n%s", diff)
	}

	if err := json.Unmarshal([]byte(`{"x":1}`), &fromString); err == nil {
		t.Error("expected error for object pattern")
	}
}
