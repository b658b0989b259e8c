package feedback

import (
	"time"
)

type Status string

const (
	StatusNew      Status = "new"
	StatusReviewed Status = "reviewed"
)

// Feedback is a free-text note a user leaves about a generated plan.
type Feedback struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	PlanID    *uint     `gorm:"index" json:"plan_id,omitempty"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Status    Status    `gorm:"type:varchar(16);not null;default:'new'" json:"status"`
	CreatedAt time.Time `json:"submitted_at"`
}
