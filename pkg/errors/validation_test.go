package errors

import (
	"math"
	"testing"
)

func TestValidateSplitRatio(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		wantErr bool
	}{
		{"one third", 1.0 / 3, false},
		{"small", 0.01, false},
		{"just below half", 0.49, false},

		{"zero", 0, true},
		{"negative", -0.2, true},
		{"half", 0.5, true},
		{"above half", 0.7, true},
		{"NaN", math.NaN(), true},
		{"Inf", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSplitRatio(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSplitRatio(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidOptions) {
				t.Errorf("ValidateSplitRatio(%v) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidOptions)
			}
		})
	}
}

func TestValidateMaxDeletions(t *testing.T) {
	tests := []struct {
		input   int
		wantErr bool
	}{
		{1, false},
		{5, false},
		{8, false},
		{0, true},
		{-1, true},
		{9, true},
	}

	for _, tt := range tests {
		err := ValidateMaxDeletions(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateMaxDeletions(%d) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "data/instance.json", false},
		{"absolute", "/tmp/instance.json", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 600)), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"redis://localhost:6379/0", false},
		{"mongodb://localhost:27017", false},
		{"mongodb+srv://cluster.example.net", false},
		{"", true},
		{"http://localhost", true},
		{"localhost:6379", true},
	}

	for _, tt := range tests {
		err := ValidateURL(tt.input, "redis", "rediss", "mongodb", "mongodb+srv")
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}
