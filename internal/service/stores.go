package service

import (
	"context"

	"github.com/examina/examina-backend/internal/model"
	"github.com/google/uuid"
)

// The store interfaces are the persistence gateway contract the services
// consume. The pgx repositories implement them; tests substitute in-memory
// fakes. Absent rows surface as pgx.ErrNoRows.

// UserStore persists and resolves users.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id int) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}

// ExamStore persists and resolves exams.
type ExamStore interface {
	CreateWithQuestions(ctx context.Context, e *model.Exam) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error)
	List(ctx context.Context, filter model.ExamFilter) ([]model.Exam, error)
	ListByFaculty(ctx context.Context, facultyID int) ([]model.Exam, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.ExamStatus) error
}

// QuestionStore resolves the questions of an exam.
type QuestionStore interface {
	ListByExam(ctx context.Context, examID uuid.UUID) ([]model.Question, error)
}

// SubmissionStore persists and resolves submissions and their answers.
type SubmissionStore interface {
	GetByExamAndStudent(ctx context.Context, examID uuid.UUID, studentID int) (*model.ExamSubmission, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.ExamSubmission, error)
	CreateWithAnswers(ctx context.Context, s *model.ExamSubmission, answers []model.AnswerSubmission) error
	ListByExam(ctx context.Context, examID uuid.UUID) ([]model.SubmissionWithStudent, error)
	ListAnswerDetails(ctx context.Context, submissionID uuid.UUID) ([]model.AnswerDetail, error)
	AnalyticsSnapshot(ctx context.Context, examID uuid.UUID) (*model.AnalyticsSnapshot, error)
}
