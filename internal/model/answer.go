package model

// Answer stores what a respondent answered to a single question. For multiple
// choice answers the selected choice's text is copied into Text at submission
// time, so deleting the choice later only clears ChoiceID and the historical
// answer keeps its value.
type Answer struct {
	ID         uint    `gorm:"primarykey" json:"id"`
	ResponseID uint    `json:"response_id" gorm:"not null;index"`
	QuestionID uint    `json:"question_id" gorm:"not null;index"`
	Text       string  `json:"text" gorm:"type:text"`
	ChoiceID   *uint   `json:"choice_id,omitempty"`
	Choice     *Choice `json:"choice,omitempty" gorm:"foreignKey:ChoiceID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
}
