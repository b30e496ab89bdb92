package domain

import (
	"time"
)

// StudentProgress is a dated snapshot of body measurements for one student.
// Multiple entries per day are allowed.
type StudentProgress struct {
	ID        string    `json:"id"`
	StudentID string    `json:"studentId"`
	SessionID *string   `json:"sessionId,omitempty"` // Session during which it was recorded
	Date      string    `json:"date"`                // "2006-01-02"
	Weight    float64   `json:"weight"`              // kg, required
	BodyFat   *float64  `json:"bodyFat,omitempty"`   // percent
	Chest     *float64  `json:"chest,omitempty"`     // cm
	Waist     *float64  `json:"waist,omitempty"`
	Hips      *float64  `json:"hips,omitempty"`
	Arms      *float64  `json:"arms,omitempty"`
	Thighs    *float64  `json:"thighs,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
