package model

import (
	"math"
	"slices"
)

// Transitions maps a status to the statuses it may move to next.
// A status with no entry, or an empty slice, is terminal.
type Transitions[S ~string] map[S][]S

// Allows reports whether moving from one status to another is permitted.
func (t Transitions[S]) Allows(from, to S) bool {
	return slices.Contains(t[from], to)
}

// Next returns the statuses reachable from the given one.
func (t Transitions[S]) Next(from S) []S {
	return slices.Clone(t[from])
}

// Terminal reports whether no transitions leave the given status.
func (t Transitions[S]) Terminal(from S) bool {
	return len(t[from]) == 0
}

// statusMeta holds presentation attributes of a status value.
type statusMeta struct {
	description string
	color       string
	icon        string
	priority    int
}

// StatusInfo is the catalog view of a single status.
type StatusInfo struct {
	Value       string   `json:"value"`
	Description string   `json:"description"`
	Color       string   `json:"color"`
	Icon        string   `json:"icon"`
	Priority    int      `json:"priority_order"`
	Final       bool     `json:"is_final"`
	Editable    bool     `json:"can_be_edited"`
	Next        []string `json:"allowed_transitions"`
}

func toStrings[S ~string](in []S) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = string(s)
	}
	return out
}

// sortedByPriority orders values by their priority field.
func sortedByPriority(infos []StatusInfo) []StatusInfo {
	slices.SortStableFunc(infos, func(a, b StatusInfo) int {
		return a.Priority - b.Priority
	})
	return infos
}

// Active flags for simple on/off records such as providers and customers.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// percentage returns part/total as a percentage rounded to one decimal.
func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	v := float64(part) / float64(total) * 100
	return math.Round(v*10) / 10
}
