package model

import (
	"time"

	"github.com/google/uuid"
)

// ExamStatus is a derived, informational field. It starts as PENDING and
// rolls to COMPLETED whenever a submission settles. It is never read for
// control flow.
type ExamStatus string

const (
	ExamStatusPending   ExamStatus = "PENDING"
	ExamStatusCompleted ExamStatus = "COMPLETED"
	ExamStatusFailed    ExamStatus = "FAILED"
)

// Exam represents an exam entity. Ownership is fixed at creation.
type Exam struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         time.Time  `json:"end_time"`
	DurationMinutes int        `json:"duration_minutes"`
	FacultyID       int        `json:"faculty_id"`
	Status          ExamStatus `json:"status"`
	IsActive        bool       `json:"is_active"`
	Questions       []Question `json:"questions,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TotalMarks returns the sum of question marks, the exam's total possible score.
func (e *Exam) TotalMarks() int {
	total := 0
	for _, q := range e.Questions {
		total += q.Marks
	}
	return total
}

// CreateExamRequest is the payload for creating a new exam with its questions.
type CreateExamRequest struct {
	Title           string          `json:"title" binding:"required,min=3,max=255"`
	Description     string          `json:"description" binding:"max=2000"`
	StartTime       time.Time       `json:"start_time" binding:"required"`
	EndTime         time.Time       `json:"end_time" binding:"required"`
	DurationMinutes int             `json:"duration_minutes" binding:"required,min=1,max=480"`
	Questions       []QuestionDraft `json:"questions" binding:"required,min=1,dive"`
}

// ExamFilter selects exams in listing queries. The boolean filters compose.
type ExamFilter struct {
	Upcoming  bool
	Previous  bool
	Attempted bool
	// StudentID scopes the Attempted filter to the caller.
	StudentID int
	Skip      int
	Limit     int
}

// ExamPaper is the student-facing view of an exam: questions without the
// correct answers. Cached in Redis until the exam window closes.
type ExamPaper struct {
	ExamID          uuid.UUID            `json:"exam_id"`
	Title           string               `json:"title"`
	Description     string               `json:"description"`
	DurationMinutes int                  `json:"duration_minutes"`
	EndTime         time.Time            `json:"end_time"`
	Questions       []QuestionForStudent `json:"questions"`
}

// QuestionForStudent is a question stripped of its correct answer.
type QuestionForStudent struct {
	ID           uuid.UUID `json:"id"`
	QuestionText string    `json:"question_text"`
	Marks        int       `json:"marks"`
	Options      []string  `json:"options"`
}
