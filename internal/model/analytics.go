package model

import "github.com/google/uuid"

// ExamAnalytics is the aggregate view computed over all submissions of an
// exam. Percentages and the average are rounded to 2 decimals.
type ExamAnalytics struct {
	ExamID               uuid.UUID          `json:"exam_id"`
	TotalSubmissions     int                `json:"total_submissions"`
	AverageMarks         float64            `json:"average_marks"`
	HighestMarks         int                `json:"highest_marks"`
	LowestMarks          int                `json:"lowest_marks"`
	PassPercentage       float64            `json:"pass_percentage"`
	QuestionWiseAnalysis []QuestionAnalysis `json:"question_wise_analysis"`
}

// QuestionAnalysis reports how many submissions answered one question
// correctly.
type QuestionAnalysis struct {
	QuestionID        uuid.UUID `json:"question_id"`
	QuestionText      string    `json:"question_text"`
	CorrectAnswers    int       `json:"correct_answers"`
	TotalAttempts     int       `json:"total_attempts"`
	CorrectPercentage float64   `json:"correct_percentage"`
}

// AnalyticsSnapshot is the raw per-exam data the repository collects in a
// single read transaction; the analytics service derives the percentages.
type AnalyticsSnapshot struct {
	TotalPossibleMarks int
	Totals             []int
	Questions          []QuestionCorrectness
}

// QuestionCorrectness counts correct answers for one question.
type QuestionCorrectness struct {
	QuestionID   uuid.UUID
	QuestionText string
	CorrectCount int
}
