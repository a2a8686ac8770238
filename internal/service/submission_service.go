package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/examina/examina-backend/internal/config"
	"github.com/examina/examina-backend/internal/model"
	"github.com/examina/examina-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// SubmissionService is the submission engine. Per (exam, student) pair the
// state machine is NotSubmitted → Submitted, terminal: once a submission
// commits, the pair can never transition back.
type SubmissionService struct {
	exams     ExamStore
	questions QuestionStore
	subs      SubmissionStore
	users     UserStore
	rdb       *redis.Client
	log       zerolog.Logger
	// now is swapped out in tests to pin the clock.
	now func() time.Time
}

// NewSubmissionService creates a new SubmissionService. rdb may be nil, in
// which case analytics cache invalidation is skipped.
func NewSubmissionService(exams ExamStore, questions QuestionStore, subs SubmissionStore, users UserStore, rdb *redis.Client, log zerolog.Logger) *SubmissionService {
	return &SubmissionService{
		exams:     exams,
		questions: questions,
		subs:      subs,
		users:     users,
		rdb:       rdb,
		log:       log.With().Str("component", "submission_service").Logger(),
		now:       time.Now,
	}
}

// Submit grades and settles a student's one-shot exam submission.
//
// The wall clock is captured once and reused for both the window decision and
// the stored submission time. The window is boundary-inclusive: equality with
// start_time or end_time is inside. Any failure before settlement leaves no
// trace; a concurrent duplicate loses against the storage uniqueness
// constraint and surfaces as ErrAlreadySubmitted.
func (s *SubmissionService) Submit(ctx context.Context, examID uuid.UUID, studentID int, req *model.SubmitExamRequest) (*model.ExamSubmission, error) {
	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("get exam: %w", err)
	}

	now := s.now()
	if now.Before(exam.StartTime) {
		return nil, ErrExamNotStarted
	}
	if now.After(exam.EndTime) {
		return nil, ErrExamEnded
	}

	if _, err := s.subs.GetByExamAndStudent(ctx, examID, studentID); err == nil {
		return nil, ErrAlreadySubmitted
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("check existing submission: %w", err)
	}

	questions, err := s.questions.ListByExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	graded, total, err := gradeAnswers(questions, req.Answers)
	if err != nil {
		return nil, err
	}

	sub := &model.ExamSubmission{
		ExamID:         examID,
		StudentID:      studentID,
		SubmissionTime: now,
		TotalMarks:     total,
	}

	if err := s.subs.CreateWithAnswers(ctx, sub, graded); err != nil {
		if errors.Is(err, repository.ErrDuplicateSubmission) {
			// Lost the race against a concurrent submit.
			return nil, ErrAlreadySubmitted
		}
		return nil, fmt.Errorf("settle submission: %w", err)
	}

	// Rolling informational status; never read for control flow, so a
	// failure here must not fail the settled submission.
	if err := s.exams.UpdateStatus(ctx, examID, model.ExamStatusCompleted); err != nil {
		s.log.Warn().Err(err).Stringer("exam_id", examID).Msg("status update failed")
	}

	if s.rdb != nil {
		if err := s.rdb.Del(ctx, config.CacheKey.ExamAnalyticsKey(examID.String())).Err(); err != nil {
			s.log.Warn().Err(err).Stringer("exam_id", examID).Msg("analytics cache invalidation failed")
		}
	}

	s.log.Info().
		Stringer("exam_id", examID).
		Int("student_id", studentID).
		Int("total_marks", total).
		Msg("submission settled")

	return sub, nil
}

// gradeAnswers is the pure grading function: deterministic and replayable
// from stored question data and the submitted answers alone. An answer scores
// the question's full marks on exact, case-sensitive string equality with the
// stored correct answer, and zero otherwise. Exactly one graded answer per
// question: an answer referencing a question outside the exam, or repeating a
// question already answered in the batch, rejects the whole batch.
func gradeAnswers(questions []model.Question, answers []model.AnswerInput) ([]model.AnswerSubmission, int, error) {
	byID := make(map[uuid.UUID]model.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	graded := make([]model.AnswerSubmission, 0, len(answers))
	seen := make(map[uuid.UUID]bool, len(answers))
	total := 0
	for _, a := range answers {
		q, ok := byID[a.QuestionID]
		if !ok {
			return nil, 0, fmt.Errorf("%w: %s", ErrUnknownQuestion, a.QuestionID)
		}
		if seen[a.QuestionID] {
			return nil, 0, fmt.Errorf("%w: %s", ErrDuplicateAnswer, a.QuestionID)
		}
		seen[a.QuestionID] = true
		marks := 0
		if a.Answer == q.CorrectAnswer {
			marks = q.Marks
		}
		graded = append(graded, model.AnswerSubmission{
			QuestionID:    a.QuestionID,
			Answer:        a.Answer,
			MarksObtained: marks,
		})
		total += marks
	}
	return graded, total, nil
}

// GetSubmissions lists all submissions for an exam. Restricted to the owning
// faculty.
func (s *SubmissionService) GetSubmissions(ctx context.Context, examID uuid.UUID, callerID int, role model.Role) ([]model.SubmissionWithStudent, error) {
	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("get exam: %w", err)
	}

	if role != model.RoleFaculty || exam.FacultyID != callerID {
		return nil, ErrPermissionDenied
	}

	subs, err := s.subs.ListByExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return subs, nil
}

// GetSubmissionDetails returns one submission with its per-answer breakdown.
// Restricted to the owning faculty.
func (s *SubmissionService) GetSubmissionDetails(ctx context.Context, examID, submissionID uuid.UUID, callerID int, role model.Role) (*model.SubmissionDetails, error) {
	if role != model.RoleFaculty {
		return nil, ErrPermissionDenied
	}

	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("get exam: %w", err)
	}
	if exam.FacultyID != callerID {
		return nil, ErrPermissionDenied
	}

	sub, err := s.subs.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("get submission: %w", err)
	}
	if sub.ExamID != examID {
		return nil, ErrSubmissionNotFound
	}

	student, err := s.users.GetByID(ctx, sub.StudentID)
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}

	answers, err := s.subs.ListAnswerDetails(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}

	questions, err := s.questions.ListByExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	totalPossible := 0
	for _, q := range questions {
		totalPossible += q.Marks
	}

	return &model.SubmissionDetails{
		ID:             sub.ID,
		ExamID:         sub.ExamID,
		ExamTitle:      exam.Title,
		StudentName:    student.Name,
		SubmissionTime: sub.SubmissionTime,
		TotalMarks:     totalPossible,
		MarksObtained:  sub.TotalMarks,
		Answers:        answers,
	}, nil
}

// GetResultsOverview returns every exam owned by the caller with its
// submissions and total possible marks.
func (s *SubmissionService) GetResultsOverview(ctx context.Context, facultyID int, role model.Role) ([]model.ExamResultsSummary, error) {
	if role != model.RoleFaculty {
		return nil, ErrPermissionDenied
	}

	exams, err := s.exams.ListByFaculty(ctx, facultyID)
	if err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}

	summaries := make([]model.ExamResultsSummary, 0, len(exams))
	for _, exam := range exams {
		questions, err := s.questions.ListByExam(ctx, exam.ID)
		if err != nil {
			return nil, fmt.Errorf("list questions: %w", err)
		}
		totalMarks := 0
		for _, q := range questions {
			totalMarks += q.Marks
		}

		subs, err := s.subs.ListByExam(ctx, exam.ID)
		if err != nil {
			return nil, fmt.Errorf("list submissions: %w", err)
		}

		summaries = append(summaries, model.ExamResultsSummary{
			ExamID:      exam.ID,
			Title:       exam.Title,
			TotalMarks:  totalMarks,
			Submissions: subs,
		})
	}
	return summaries, nil
}
