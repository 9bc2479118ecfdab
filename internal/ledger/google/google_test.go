package google

import "testing"

func TestYearPrefixedName(t *testing.T) {
	tests := []struct {
		name string
		base string
		year int
		want string
	}{
		{"plain base", "Records", 2024, "2024 Records"},
		{"already prefixed", "2024 Records", 2024, "2024 Records"},
		{"different year prefix kept and re-prefixed", "2023 Records", 2024, "2024 2023 Records"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := yearPrefixedName(tt.base, tt.year); got != tt.want {
				t.Errorf("yearPrefixedName(%q, %d) = %q, want %q", tt.base, tt.year, got, tt.want)
			}
		})
	}
}
