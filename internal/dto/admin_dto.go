package dto

import "time"

// QuestionCreateDTO describes one question inside a form creation request.
// Entries are deliberately not validated with binding tags: a malformed entry
// (empty text, unknown type) is skipped by the service instead of failing the
// whole request.
type QuestionCreateDTO struct {
	Text    string   `json:"text"`
	Type    string   `json:"type"` // "text" or "mc"
	Choices []string `json:"choices,omitempty"`
}

// FormCreateDTO is the admin payload for creating a form with all of its
// questions in one request.
type FormCreateDTO struct {
	Title       string              `json:"title" binding:"required"`
	Description string              `json:"description,omitempty"`
	Questions   []QuestionCreateDTO `json:"questions"`
}

// FormSummaryDTO is one row of the admin dashboard listing.
type FormSummaryDTO struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Published     bool      `json:"published"`
	Archived      bool      `json:"archived"`
	QuestionCount int       `json:"question_count"`
	ResponseCount int       `json:"response_count"`
	CreatedAt     time.Time `json:"created_at"`
}

type LoginRequestDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponseDTO struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
