package model

import (
	"time"
)

// Question types. Multiple choice questions own an ordered list of choices,
// short answer questions have none.
const (
	QuestionTypeText           = "text"
	QuestionTypeMultipleChoice = "mc"
)

type Question struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	FormID    uint      `json:"form_id" gorm:"not null;index"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	Type      string    `json:"type" gorm:"not null"` // "text", "mc"
	Order     int       `json:"order" gorm:"column:display_order;not null"`
	Choices   []Choice  `json:"choices,omitempty" gorm:"foreignKey:QuestionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidQuestionType reports whether t is one of the recognized question types.
func ValidQuestionType(t string) bool {
	return t == QuestionTypeText || t == QuestionTypeMultipleChoice
}
