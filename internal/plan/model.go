package plan

import (
	"time"

	"gorm.io/datatypes"
)

// PlanRecord stores a generated plan with the answers and features that
// produced it, so past plans can be replayed and audited.
type PlanRecord struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    string         `gorm:"index;size:64;not null" json:"user_id"`
	Topic     string         `gorm:"size:16;not null" json:"topic"`
	Category  string         `gorm:"size:64;not null" json:"category"`
	PlanText  string         `gorm:"type:text;not null" json:"plan_text"`
	Answers   datatypes.JSON `gorm:"type:jsonb" json:"answers"`
	Features  datatypes.JSON `gorm:"type:jsonb" json:"features"`
	CreatedAt time.Time      `json:"created_at"`
}
