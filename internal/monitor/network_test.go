package monitor

import "testing"

func TestIsLoopback(t *testing.T) {
	flagged := map[string]bool{"lo1": true}

	tests := []struct {
		name    string
		flagged map[string]bool
		want    bool
	}{
		{"lo", nil, true},
		{"lo0", nil, true},
		{"lo1", flagged, true},
		{"en0", flagged, false},
		{"eth0", nil, false},
		{"lower0", nil, false},
	}

	for _, tt := range tests {
		if got := isLoopback(tt.name, tt.flagged); got != tt.want {
			t.Errorf("isLoopback(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
