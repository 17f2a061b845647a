package domain

import (
	"errors"
	"testing"
)

func TestRetentionPolicy_Mode(t *testing.T) {
	if m := DefaultPolicy().Mode(); m != ModeDelete {
		t.Errorf("default mode = %s, want %s", m, ModeDelete)
	}
	if m := (RetentionPolicy{Destination: "/out"}).Mode(); m != ModeMove {
		t.Errorf("mode with destination = %s, want %s", m, ModeMove)
	}
}

func TestRetentionPolicy_Validate(t *testing.T) {
	tests := []struct {
		name    string
		policy  RetentionPolicy
		wantErr bool
	}{
		{"default", DefaultPolicy(), false},
		{"zero keep", RetentionPolicy{KeepCount: 0}, false},
		{"negative keep", RetentionPolicy{KeepCount: -1}, true},
		{"move", RetentionPolicy{KeepCount: 1, Destination: "/out"}, false},
		{"blank destination", RetentionPolicy{KeepCount: 1, Destination: "   "}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrConfig) {
					t.Errorf("Validate() = %v, want ErrConfig", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}
