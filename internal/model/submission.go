package model

import (
	"time"

	"github.com/google/uuid"
)

// ExamSubmission is a student's single, final attempt at an exam.
// At most one exists per (exam, student) pair; created exactly once at
// submit time and read-only afterwards.
type ExamSubmission struct {
	ID             uuid.UUID          `json:"id"`
	ExamID         uuid.UUID          `json:"exam_id"`
	StudentID      int                `json:"student_id"`
	SubmissionTime time.Time          `json:"submission_time"`
	TotalMarks     int                `json:"total_marks"`
	IsSubmitted    bool               `json:"is_submitted"`
	Answers        []AnswerSubmission `json:"answers,omitempty"`
}

// AnswerSubmission is one graded answer inside a submission.
// MarksObtained is either 0 or the question's full marks.
type AnswerSubmission struct {
	ID            uuid.UUID `json:"id"`
	SubmissionID  uuid.UUID `json:"submission_id"`
	QuestionID    uuid.UUID `json:"question_id"`
	Answer        string    `json:"answer"`
	MarksObtained int       `json:"marks_obtained"`
}

// AnswerInput is one submitted answer in the batch submission payload.
type AnswerInput struct {
	QuestionID uuid.UUID `json:"question_id" binding:"required"`
	Answer     string    `json:"answer" binding:"required"`
}

// SubmitExamRequest is the batch submission payload.
type SubmitExamRequest struct {
	Answers []AnswerInput `json:"answers" binding:"required,min=1,dive"`
}

// SubmissionWithStudent is a submission row joined with the student's name,
// as shown to faculty.
type SubmissionWithStudent struct {
	ID             uuid.UUID `json:"id"`
	ExamID         uuid.UUID `json:"exam_id"`
	StudentID      int       `json:"student_id"`
	StudentName    string    `json:"student_name"`
	SubmissionTime time.Time `json:"submission_time"`
	TotalMarks     int       `json:"total_marks"`
	IsSubmitted    bool      `json:"is_submitted"`
}

// AnswerDetail is one answer in a submission detail view, joined with its
// question.
type AnswerDetail struct {
	QuestionID    uuid.UUID `json:"question_id"`
	QuestionText  string    `json:"question_text"`
	CorrectAnswer string    `json:"correct_answer"`
	StudentAnswer string    `json:"student_answer"`
	MarksObtained int       `json:"marks_obtained"`
	TotalMarks    int       `json:"total_marks"`
}

// SubmissionDetails is the full faculty view of one submission.
type SubmissionDetails struct {
	ID             uuid.UUID      `json:"id"`
	ExamID         uuid.UUID      `json:"exam_id"`
	ExamTitle      string         `json:"exam_title"`
	StudentName    string         `json:"student_name"`
	SubmissionTime time.Time      `json:"submission_time"`
	TotalMarks     int            `json:"total_marks"`
	MarksObtained  int            `json:"marks_obtained"`
	Answers        []AnswerDetail `json:"answers"`
}

// ExamResultsSummary is one exam with its submissions, for the faculty
// results overview.
type ExamResultsSummary struct {
	ExamID      uuid.UUID               `json:"exam_id"`
	Title       string                  `json:"title"`
	TotalMarks  int                     `json:"total_marks"`
	Submissions []SubmissionWithStudent `json:"submissions"`
}
