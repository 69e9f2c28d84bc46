package main

import "testing"

// TestSanitizeLabel verifies trademark marks are stripped and spaces become
// underscores, keeping the label filename-safe.
func TestSanitizeLabel(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Intel(R) Core(TM) i7-8550U-RAM16GB", "Intel_Core_i7-8550U-RAM16GB"},
		{"Apple M2 Pro-RAM32GB", "Apple_M2_Pro-RAM32GB"},
		{"UnknownCPU-RAM0GB", "UnknownCPU-RAM0GB"},
		{"AMD Ryzen™ 7-RAM64GB", "AMD_Ryzen_7-RAM64GB"},
	}
	for _, tc := range cases {
		if got := sanitizeLabel(tc.in); got != tc.want {
			t.Errorf("sanitizeLabel(%q) = %q, expected %q", tc.in, got, tc.want)
		}
	}
}
