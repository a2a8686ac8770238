package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/examina/examina-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SubmissionRepository handles exam submission data access.
type SubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepository creates a new SubmissionRepository.
func NewSubmissionRepository(pool *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{pool: pool}
}

// GetByExamAndStudent retrieves the submission for a specific exam-student pair.
func (r *SubmissionRepository) GetByExamAndStudent(ctx context.Context, examID uuid.UUID, studentID int) (*model.ExamSubmission, error) {
	s := &model.ExamSubmission{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, exam_id, student_id, submission_time, total_marks, is_submitted
		 FROM exam_submissions
		 WHERE exam_id = $1 AND student_id = $2`, examID, studentID,
	).Scan(&s.ID, &s.ExamID, &s.StudentID, &s.SubmissionTime, &s.TotalMarks, &s.IsSubmitted)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetByID retrieves a submission by its UUID.
func (r *SubmissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ExamSubmission, error) {
	s := &model.ExamSubmission{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, exam_id, student_id, submission_time, total_marks, is_submitted
		 FROM exam_submissions WHERE id = $1`, id,
	).Scan(&s.ID, &s.ExamID, &s.StudentID, &s.SubmissionTime, &s.TotalMarks, &s.IsSubmitted)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// CreateWithAnswers settles a submission: the submission row and every graded
// answer commit as one atomic unit. The insert races through the
// (exam_id, student_id) uniqueness constraint; a concurrent loser gets
// ErrDuplicateSubmission and no partial rows are left behind.
func (r *SubmissionRepository) CreateWithAnswers(ctx context.Context, s *model.ExamSubmission, answers []model.AnswerSubmission) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO exam_submissions (exam_id, student_id, submission_time, total_marks, is_submitted)
		 VALUES ($1, $2, $3, $4, TRUE)
		 ON CONFLICT (exam_id, student_id) DO NOTHING
		 RETURNING id, is_submitted`,
		s.ExamID, s.StudentID, s.SubmissionTime, s.TotalMarks,
	).Scan(&s.ID, &s.IsSubmitted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrDuplicateSubmission
		}
		return fmt.Errorf("insert submission: %w", err)
	}

	batch := &pgx.Batch{}
	for i := range answers {
		answers[i].SubmissionID = s.ID
		batch.Queue(
			`INSERT INTO answer_submissions (submission_id, question_id, answer, marks_obtained)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id`,
			answers[i].SubmissionID, answers[i].QuestionID, answers[i].Answer, answers[i].MarksObtained,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for i := range answers {
		if err := br.QueryRow().Scan(&answers[i].ID); err != nil {
			br.Close()
			return fmt.Errorf("insert answer %d: %w", i, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.Answers = answers
	return nil
}

// ListByExam retrieves all submissions for an exam joined with student names.
func (r *SubmissionRepository) ListByExam(ctx context.Context, examID uuid.UUID) ([]model.SubmissionWithStudent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT s.id, s.exam_id, s.student_id, u.name, s.submission_time, s.total_marks, s.is_submitted
		 FROM exam_submissions s
		 JOIN users u ON s.student_id = u.id
		 WHERE s.exam_id = $1
		 ORDER BY s.submission_time ASC`, examID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []model.SubmissionWithStudent
	for rows.Next() {
		var s model.SubmissionWithStudent
		if err := rows.Scan(&s.ID, &s.ExamID, &s.StudentID, &s.StudentName, &s.SubmissionTime, &s.TotalMarks, &s.IsSubmitted); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

// ListAnswerDetails retrieves the graded answers of a submission joined with
// their questions, in authoring order.
func (r *SubmissionRepository) ListAnswerDetails(ctx context.Context, submissionID uuid.UUID) ([]model.AnswerDetail, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT q.id, q.question_text, q.correct_answer, a.answer, a.marks_obtained, q.marks
		 FROM answer_submissions a
		 JOIN questions q ON a.question_id = q.id
		 WHERE a.submission_id = $1
		 ORDER BY q.position`, submissionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []model.AnswerDetail
	for rows.Next() {
		var d model.AnswerDetail
		if err := rows.Scan(&d.QuestionID, &d.QuestionText, &d.CorrectAnswer, &d.StudentAnswer, &d.MarksObtained, &d.TotalMarks); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// AnalyticsSnapshot collects the raw analytics inputs for an exam inside one
// repeatable-read transaction, so the totals and the per-question counts
// describe the same set of submissions even while new ones are settling.
func (r *SubmissionRepository) AnalyticsSnapshot(ctx context.Context, examID uuid.UUID) (*model.AnalyticsSnapshot, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	snap := &model.AnalyticsSnapshot{}

	err = tx.QueryRow(ctx,
		`SELECT COALESCE(SUM(marks), 0) FROM questions WHERE exam_id = $1`, examID,
	).Scan(&snap.TotalPossibleMarks)
	if err != nil {
		return nil, fmt.Errorf("sum marks: %w", err)
	}

	rows, err := tx.Query(ctx,
		`SELECT total_marks FROM exam_submissions WHERE exam_id = $1`, examID)
	if err != nil {
		return nil, fmt.Errorf("query totals: %w", err)
	}
	for rows.Next() {
		var total int
		if err := rows.Scan(&total); err != nil {
			rows.Close()
			return nil, err
		}
		snap.Totals = append(snap.Totals, total)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = tx.Query(ctx,
		`SELECT q.id, q.question_text,
		        COUNT(a.id) FILTER (WHERE a.answer = q.correct_answer)
		 FROM questions q
		 LEFT JOIN answer_submissions a ON a.question_id = q.id
		 WHERE q.exam_id = $1
		 GROUP BY q.id, q.question_text, q.position
		 ORDER BY q.position`, examID)
	if err != nil {
		return nil, fmt.Errorf("query question correctness: %w", err)
	}
	for rows.Next() {
		var qc model.QuestionCorrectness
		if err := rows.Scan(&qc.QuestionID, &qc.QuestionText, &qc.CorrectCount); err != nil {
			rows.Close()
			return nil, err
		}
		snap.Questions = append(snap.Questions, qc)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return snap, tx.Commit(ctx)
}
