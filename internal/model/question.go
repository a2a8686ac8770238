package model

import "github.com/google/uuid"

// Question represents a single multiple-choice exam question.
// CorrectAnswer is compared against submitted answers by exact,
// case-sensitive string equality.
type Question struct {
	ID            uuid.UUID `json:"id"`
	ExamID        uuid.UUID `json:"exam_id"`
	QuestionText  string    `json:"question_text"`
	Marks         int       `json:"marks"`
	Options       []string  `json:"options"`
	CorrectAnswer string    `json:"correct_answer"`
}

// QuestionDraft is the authoring payload for one question inside
// CreateExamRequest. CorrectAnswer is not required to be a member of Options;
// grading compares raw strings either way.
type QuestionDraft struct {
	QuestionText  string   `json:"question_text" binding:"required,min=1,max=2000"`
	Marks         int      `json:"marks" binding:"required,min=1"`
	Options       []string `json:"options" binding:"required,min=2,dive,required"`
	CorrectAnswer string   `json:"correct_answer" binding:"required"`
}
