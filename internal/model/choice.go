package model

import (
	"time"
)

type Choice struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	QuestionID uint      `json:"question_id" gorm:"not null;index"`
	Text       string    `json:"text" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
