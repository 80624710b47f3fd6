package model

import (
	"time"
)

// Response is one respondent's full submission of a form. It is created
// exactly once, together with all of its answers, and never mutated.
type Response struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	FormID      uint      `json:"form_id" gorm:"not null;index"`
	SubmittedAt time.Time `json:"submitted_at" gorm:"not null"`
	Answers     []Answer  `json:"answers,omitempty" gorm:"foreignKey:ResponseID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
