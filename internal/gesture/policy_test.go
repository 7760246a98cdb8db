package gesture

import (
	"errors"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"valid", DefaultConfig(Circle), nil},
		{"zero thresholds", Config{Pattern: UpCaret}, nil},
		{"empty pattern", DefaultConfig(nil), ErrEmptyPattern},
		{"negative min moves", Config{MinMoves: -1, Pattern: UpCaret}, ErrNegativeMinMoves},
		{"negative fudge", Config{FudgeFactor: -0.5, Pattern: UpCaret}, ErrNegativeFudgeFactor},
		{"bad direction", DefaultConfig(NewPattern(Direction(12))), ErrInvalidDirection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEvaluate_TooShort(t *testing.T) {
	cfg := Config{MinMoves: 8, FudgeFactor: 5, Pattern: UpCaret}

	// A perfect path that is one move too short never matches
	path := MustParsePattern("7777111")
	if Evaluate(path, cfg) {
		t.Error("expected no match for a path shorter than MinMoves")
	}

	matched, score := EvaluateScore(path, cfg)
	if matched || score != NoMatchScore {
		t.Errorf("EvaluateScore = (%v, %d), want (false, %d)", matched, score, NoMatchScore)
	}
}

func TestEvaluate_Threshold(t *testing.T) {
	// "77777777001111111" scores 2 against the up caret
	path := MustParsePattern("77777777001111111")

	tests := []struct {
		fudge    float64
		expected bool
	}{
		{3, true},
		{2.5, true},
		{2, false}, // boundary-equal does not match
		{1, false},
	}

	for _, tt := range tests {
		cfg := Config{MinMoves: 8, FudgeFactor: tt.fudge, Pattern: UpCaret}
		if got := Evaluate(path, cfg); got != tt.expected {
			t.Errorf("Evaluate with fudge %v = %v, expected %v", tt.fudge, got, tt.expected)
		}
	}
}

func TestEvaluate_EmptyPathNeverMatches(t *testing.T) {
	cfg := Config{MinMoves: 0, FudgeFactor: 1e9, Pattern: UpCaret}
	if Evaluate(nil, cfg) {
		t.Error("an empty path must never match")
	}
}
