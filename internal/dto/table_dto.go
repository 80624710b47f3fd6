package dto

import "time"

// ResponseRowDTO is one response rendered as a dense row: exactly one cell
// per column of the table, missing answers rendered as "".
type ResponseRowDTO struct {
	ResponseID  uint      `json:"response_id"`
	SubmittedAt time.Time `json:"submitted_at"`
	Cells       []string  `json:"cells"`
}

// ResponseTableDTO is the tabulated view of a form's responses: columns are
// the form's questions in display order, rows are responses. The CSV and
// XLSX encoders serialize this table as-is.
type ResponseTableDTO struct {
	FormID    uint             `json:"form_id"`
	FormTitle string           `json:"form_title"`
	FormSlug  string           `json:"form_slug"`
	Columns   []QuestionDTO    `json:"columns"`
	Rows      []ResponseRowDTO `json:"rows"`
}
