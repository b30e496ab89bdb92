package domain

import (
	"time"
)

// SessionType enumerates the kinds of appointments a trainer can book.
const (
	SessionTypeWorkout    = "Treino"
	SessionTypeAssessment = "Avaliação"
	SessionTypeConsult    = "Consulta"
)

// SessionStatus for the session lifecycle. Rescheduling is expressed by
// editing date/time on a "scheduled" session; there is no separate status.
type SessionStatus string

const (
	StatusScheduled SessionStatus = "scheduled"
	StatusCompleted SessionStatus = "completed"
	StatusCancelled SessionStatus = "cancelled"
)

// ValidSessionType reports whether t is an accepted session type.
func ValidSessionType(t string) bool {
	return t == SessionTypeWorkout || t == SessionTypeAssessment || t == SessionTypeConsult
}

// ValidSessionStatus reports whether s is an accepted session status.
func ValidSessionStatus(s SessionStatus) bool {
	return s == StatusScheduled || s == StatusCompleted || s == StatusCancelled
}

// ScheduleSession is a calendar appointment between one trainer and one
// student.
type ScheduleSession struct {
	ID        string        `json:"id"`
	TrainerID string        `json:"trainerId"`
	StudentID string        `json:"studentId"`
	Date      string        `json:"date"` // Calendar date, "2006-01-02"
	Time      string        `json:"time"` // Clock time, "15:04"
	Duration  int           `json:"duration"` // Minutes
	Type      string        `json:"type"`
	Status    SessionStatus `json:"status"`
	Notes     *string       `json:"notes,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`

	// Joined names for the admin dashboard view.
	TrainerName *string `json:"trainerName,omitempty"`
	StudentName *string `json:"studentName,omitempty"`
}
