package model

import "testing"

func TestValidPriority(t *testing.T) {
	cases := map[int]bool{
		PriorityHigh:   true,
		PriorityNormal: true,
		PriorityLow:    true,
		0:              false,
		4:              false,
		-1:             false,
	}
	for p, want := range cases {
		if got := ValidPriority(p); got != want {
			t.Errorf("ValidPriority(%d) = %v, want %v", p, got, want)
		}
	}
}
