package models

import (
	"fmt"
	"strings"
)

// Category is one of the four fixed labels a task can carry.
type Category string

const (
	CategoryCreating      Category = "creating"
	CategoryCollaborating Category = "collaborating"
	CategoryCommunicating Category = "communicating"
	CategoryOrganizing    Category = "organizing"
)

// Categories returns every category in its canonical order.
func Categories() []Category {
	return []Category{CategoryCreating, CategoryCollaborating, CategoryCommunicating, CategoryOrganizing}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryCreating, CategoryCollaborating, CategoryCommunicating, CategoryOrganizing:
		return true
	}
	return false
}

// ParseCategory converts a string into a Category, ignoring case and surrounding space.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("invalid category %q: must be creating, collaborating, communicating, or organizing", s)
	}
	return c, nil
}

// Task is a single completed action and its category.
type Task struct {
	TaskText string   `json:"task_text"`
	Category Category `json:"category"`
}

// Scenario is a role-based bundle of facts used as seed material for
// synthetic transcripts.
type Scenario struct {
	Role        string   `json:"role"`
	Wins        []string `json:"wins"`
	Drains      []string `json:"drains"`
	FutureFocus []string `json:"future_focus"`
	Tasks       []Task   `json:"tasks"`
}

// Clone returns a deep copy of the scenario.
func (s Scenario) Clone() Scenario {
	return Scenario{
		Role:        s.Role,
		Wins:        cloneStrings(s.Wins),
		Drains:      cloneStrings(s.Drains),
		FutureFocus: cloneStrings(s.FutureFocus),
		Tasks:       cloneTasks(s.Tasks),
	}
}

// GroundTruth returns the scenario facts as a sample's expected answer.
func (s Scenario) GroundTruth() GroundTruth {
	return GroundTruth{
		Wins:        cloneStrings(s.Wins),
		Drains:      cloneStrings(s.Drains),
		FutureFocus: cloneStrings(s.FutureFocus),
		Tasks:       cloneTasks(s.Tasks),
	}
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneTasks(in []Task) []Task {
	if in == nil {
		return nil
	}
	out := make([]Task, len(in))
	copy(out, in)
	return out
}
