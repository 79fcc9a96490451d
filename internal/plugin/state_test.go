package plugin

import "testing"

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateDefault, "default"},
		{StateEnabled, "enabled"},
		{StateDisabled, "disabled"},
		{StateStatic, "static"},
		{State(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestStateEnabled(t *testing.T) {
	tests := []struct {
		state            State
		enabledByDefault bool
		want             bool
	}{
		{StateDefault, true, true},
		{StateDefault, false, false},
		{StateEnabled, false, true},
		{StateDisabled, true, false},
		{StateStatic, false, true},
	}

	for _, tt := range tests {
		if got := tt.state.Enabled(tt.enabledByDefault); got != tt.want {
			t.Errorf("%v.Enabled(%v) = %v, want %v",
				tt.state, tt.enabledByDefault, got, tt.want)
		}
	}
}
