package model

import "strings"

// Tiers lists the evidence tiers from strongest to weakest.
var Tiers = []string{"A", "B", "C", "D"}

// Phases lists the SDD phases reported in registry summaries.
var Phases = []string{"foundational", "specify", "plan", "tasks", "implement", "cross-phase"}

// NormalizeTier uppercases s and reports whether it is a known tier.
func NormalizeTier(s string) (string, bool) {
	t := strings.ToUpper(strings.TrimSpace(s))
	for _, known := range Tiers {
		if t == known {
			return t, true
		}
	}
	return "", false
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}
