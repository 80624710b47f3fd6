package model

import (
	"time"
)

type Form struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	Title       string     `json:"title" gorm:"not null"`
	Slug        string     `json:"slug" gorm:"not null;uniqueIndex"`
	Description string     `json:"description,omitempty" gorm:"type:text"`
	Published   bool       `json:"published" gorm:"not null;default:false"`
	Archived    bool       `json:"archived" gorm:"not null;default:false"`
	Questions   []Question `json:"questions,omitempty" gorm:"foreignKey:FormID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Responses   []Response `json:"responses,omitempty" gorm:"foreignKey:FormID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
