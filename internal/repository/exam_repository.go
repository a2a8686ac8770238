package repository

import (
	"context"
	"fmt"

	"github.com/examina/examina-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ExamRepository handles exam data access.
type ExamRepository struct {
	pool *pgxpool.Pool
}

// NewExamRepository creates a new ExamRepository.
func NewExamRepository(pool *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{pool: pool}
}

const examColumns = `id, title, description, start_time, end_time,
	duration_minutes, faculty_id, status, is_active, created_at, updated_at`

func scanExam(row pgx.Row) (*model.Exam, error) {
	e := &model.Exam{}
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.StartTime, &e.EndTime,
		&e.DurationMinutes, &e.FacultyID, &e.Status, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// CreateWithQuestions inserts an exam and all its questions in a single
// transaction. A partially written exam is never observable: either the exam
// and every question commit together, or nothing does.
func (r *ExamRepository) CreateWithQuestions(ctx context.Context, e *model.Exam) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO exams (title, description, start_time, end_time, duration_minutes, faculty_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, status, is_active, created_at, updated_at`,
		e.Title, e.Description, e.StartTime, e.EndTime, e.DurationMinutes, e.FacultyID,
	).Scan(&e.ID, &e.Status, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert exam: %w", err)
	}

	for i := range e.Questions {
		q := &e.Questions[i]
		q.ExamID = e.ID
		err = tx.QueryRow(ctx,
			`INSERT INTO questions (exam_id, question_text, marks, options, correct_answer, position)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id`,
			q.ExamID, q.QuestionText, q.Marks, q.Options, q.CorrectAnswer, i,
		).Scan(&q.ID)
		if err != nil {
			return fmt.Errorf("insert question %d: %w", i, err)
		}
	}

	return tx.Commit(ctx)
}

// GetByID retrieves an exam by its UUID, without its questions.
func (r *ExamRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	return scanExam(r.pool.QueryRow(ctx,
		`SELECT `+examColumns+` FROM exams WHERE id = $1`, id))
}

// List retrieves exams matching the filter, ordered by start time.
// The upcoming/previous/attempted filters compose with AND.
func (r *ExamRepository) List(ctx context.Context, filter model.ExamFilter) ([]model.Exam, error) {
	query := `SELECT ` + examColumns + ` FROM exams WHERE is_active`
	var args []any

	if filter.Upcoming {
		query += ` AND start_time > NOW()`
	}
	if filter.Previous {
		query += ` AND end_time < NOW()`
	}
	if filter.Attempted {
		args = append(args, filter.StudentID)
		query += fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM exam_submissions s
			WHERE s.exam_id = exams.id AND s.student_id = $%d)`, len(args))
	}

	args = append(args, filter.Limit, filter.Skip)
	query += fmt.Sprintf(` ORDER BY start_time ASC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exams []model.Exam
	for rows.Next() {
		e, err := scanExam(rows)
		if err != nil {
			return nil, err
		}
		exams = append(exams, *e)
	}
	return exams, rows.Err()
}

// ListByFaculty retrieves all exams owned by a faculty member, newest first.
func (r *ExamRepository) ListByFaculty(ctx context.Context, facultyID int) ([]model.Exam, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+examColumns+` FROM exams
		 WHERE faculty_id = $1
		 ORDER BY created_at DESC`, facultyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exams []model.Exam
	for rows.Next() {
		e, err := scanExam(rows)
		if err != nil {
			return nil, err
		}
		exams = append(exams, *e)
	}
	return exams, rows.Err()
}

// UpdateStatus updates an exam's rolling status field.
func (r *ExamRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ExamStatus) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE exams SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id)
	return err
}
