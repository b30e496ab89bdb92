package domain

import (
	"strings"
	"time"
)

// Difficulty levels for exercises. Labels are the Portuguese UI values and are
// persisted as-is.
const (
	DifficultyBeginner     = "Iniciante"
	DifficultyIntermediate = "Intermediário"
	DifficultyAdvanced     = "Avançado"
)

// MuscleGroups is the fixed vocabulary for a single muscle group. An exercise
// may target several groups at once using a "/"-delimited composite value,
// e.g. "Peito/Tríceps".
var MuscleGroups = []string{
	"Peito", "Costas", "Pernas", "Ombros", "Bíceps", "Tríceps", "Abdômen", "Glúteos", "Cardio",
}

// DefaultEquipment is used when an exercise is created without equipment.
const DefaultEquipment = "Nenhum"

// Exercise represents a single exercise definition in the catalog.
type Exercise struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	MuscleGroup string    `json:"muscleGroup"` // Single group or "/"-composite
	Equipment   string    `json:"equipment"`
	Description *string   `json:"description,omitempty"`
	Difficulty  string    `json:"difficulty"`
	CreatedBy   *string   `json:"createdBy,omitempty"` // Authoring user, nil after creator deletion
	CreatedAt   time.Time `json:"createdAt"`
}

// TargetsGroup reports whether the exercise targets the given muscle group,
// honoring "/"-composite values.
func (e *Exercise) TargetsGroup(group string) bool {
	for _, g := range strings.Split(e.MuscleGroup, "/") {
		if strings.TrimSpace(g) == group {
			return true
		}
	}
	return false
}

// ValidDifficulty reports whether d is one of the accepted difficulty labels.
func ValidDifficulty(d string) bool {
	return d == DifficultyBeginner || d == DifficultyIntermediate || d == DifficultyAdvanced
}
