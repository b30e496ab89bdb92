package domain

import (
	"time"
)

// Weekdays is the fixed vocabulary for workout plan scheduling days.
var Weekdays = []string{
	"Segunda", "Terça", "Quarta", "Quinta", "Sexta", "Sábado", "Domingo",
}

// ValidWeekday reports whether day is one of the seven accepted weekday names.
func ValidWeekday(day string) bool {
	for _, d := range Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

// WorkoutPlan is a named, ordered set of exercises a trainer assigns to one
// student, optionally scoped to specific weekdays. Deleting a plan deletes its
// WorkoutExercise rows (composition, not aggregation).
type WorkoutPlan struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	TrainerID   string    `json:"trainerId"`
	StudentID   string    `json:"studentId"`
	DayOfWeek   []string  `json:"dayOfWeek"` // Subset of Weekdays, order preserved
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`

	// Ordered by SortOrder, populated on reads.
	Exercises []WorkoutExercise `json:"exercises,omitempty"`

	// Lightweight student summary for trainer-facing plan listings.
	StudentName *string `json:"studentName,omitempty"`
}

// WorkoutExercise is one row of a plan: a reference into the exercise catalog
// plus the prescription (sets/reps/rest) for this plan. Pure composition child
// of WorkoutPlan with no independent lifecycle.
type WorkoutExercise struct {
	ID            string  `json:"id"`
	WorkoutPlanID string  `json:"workoutPlanId"`
	ExerciseID    string  `json:"exerciseId"`
	Sets          int     `json:"sets"`        // >= 1
	Reps          string  `json:"reps"`        // Free form: "8-12", "20", "45s"
	RestSeconds   int     `json:"restSeconds"` // >= 0
	Weight        *string `json:"weight,omitempty"`
	Notes         *string `json:"notes,omitempty"`
	SortOrder     int     `json:"sortOrder"` // Contiguous from 0 within one plan

	// Catalog metadata joined on reads.
	ExerciseName *string `json:"exerciseName,omitempty"`
	MuscleGroup  *string `json:"muscleGroup,omitempty"`
	Equipment    *string `json:"equipment,omitempty"`
}

// CompletedExercise records a student marking one exercise done on a given
// calendar day within a plan. At most one row may exist per
// (student, plan, exercise, day); toggling again the same day removes it.
type CompletedExercise struct {
	ID            string    `json:"id"`
	StudentID     string    `json:"studentId"`
	WorkoutPlanID string    `json:"workoutPlanId"`
	ExerciseID    string    `json:"exerciseId"`
	CompletedAt   time.Time `json:"completedAt"`
}
