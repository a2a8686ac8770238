package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/examina/examina-backend/internal/config"
	"github.com/examina/examina-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	defaultListLimit = 100
	maxListLimit     = 100
)

// ExamService is the exam catalog: authoring, point reads, and filtered
// listing.
type ExamService struct {
	exams     ExamStore
	questions QuestionStore
	rdb       *redis.Client
	log       zerolog.Logger
	now       func() time.Time
}

// NewExamService creates a new ExamService. rdb may be nil, in which case the
// paper cache is bypassed.
func NewExamService(exams ExamStore, questions QuestionStore, rdb *redis.Client, log zerolog.Logger) *ExamService {
	return &ExamService{
		exams:     exams,
		questions: questions,
		rdb:       rdb,
		log:       log.With().Str("component", "exam_service").Logger(),
		now:       time.Now,
	}
}

// Create authors a new exam with its questions. Only faculty may create
// exams; authoring invariants (start before end, positive marks) are enforced
// before anything is written, and the exam with all its questions persists
// atomically.
func (s *ExamService) Create(ctx context.Context, facultyID int, role model.Role, req *model.CreateExamRequest) (*model.Exam, error) {
	if role != model.RoleFaculty {
		return nil, ErrPermissionDenied
	}
	if !req.StartTime.Before(req.EndTime) {
		return nil, ErrInvalidSchedule
	}

	questions := make([]model.Question, 0, len(req.Questions))
	for _, d := range req.Questions {
		if d.Marks <= 0 {
			return nil, ErrInvalidMarks
		}
		questions = append(questions, model.Question{
			QuestionText:  d.QuestionText,
			Marks:         d.Marks,
			Options:       d.Options,
			CorrectAnswer: d.CorrectAnswer,
		})
	}

	exam := &model.Exam{
		Title:           req.Title,
		Description:     req.Description,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		DurationMinutes: req.DurationMinutes,
		FacultyID:       facultyID,
		Questions:       questions,
	}

	if err := s.exams.CreateWithQuestions(ctx, exam); err != nil {
		return nil, fmt.Errorf("create exam: %w", err)
	}

	s.log.Info().
		Stringer("exam_id", exam.ID).
		Int("faculty_id", facultyID).
		Int("questions", len(exam.Questions)).
		Msg("exam created")

	return exam, nil
}

// Get retrieves an exam with its questions. Any authenticated principal may
// read.
func (s *ExamService) Get(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	exam, err := s.exams.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("get exam: %w", err)
	}

	questions, err := s.questions.ListByExam(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	exam.Questions = questions
	return exam, nil
}

// List retrieves exams matching the filter with skip/limit pagination.
// Out-of-range pagination values fall back to skip=0, limit=100.
func (s *ExamService) List(ctx context.Context, filter model.ExamFilter) ([]model.Exam, error) {
	if filter.Skip < 0 {
		filter.Skip = 0
	}
	if filter.Limit <= 0 || filter.Limit > maxListLimit {
		filter.Limit = defaultListLimit
	}

	exams, err := s.exams.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}
	return exams, nil
}

// GetPaper returns the student-facing view of an exam, with correct answers
// stripped. Available once the window has opened; the rendered paper is
// cached in Redis until the window closes.
func (s *ExamService) GetPaper(ctx context.Context, examID uuid.UUID) (*model.ExamPaper, error) {
	cacheKey := config.CacheKey.ExamPaperKey(examID.String())

	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			paper := &model.ExamPaper{}
			if err := json.Unmarshal([]byte(raw), paper); err == nil {
				return paper, nil
			}
			// Corrupt cache entry; fall through to rebuild.
		}
	}

	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("get exam: %w", err)
	}

	if s.now().Before(exam.StartTime) {
		return nil, ErrExamNotStarted
	}

	questions, err := s.questions.ListByExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	paper := &model.ExamPaper{
		ExamID:          exam.ID,
		Title:           exam.Title,
		Description:     exam.Description,
		DurationMinutes: exam.DurationMinutes,
		EndTime:         exam.EndTime,
		Questions:       make([]model.QuestionForStudent, 0, len(questions)),
	}
	for _, q := range questions {
		paper.Questions = append(paper.Questions, model.QuestionForStudent{
			ID:           q.ID,
			QuestionText: q.QuestionText,
			Marks:        q.Marks,
			Options:      q.Options,
		})
	}

	if s.rdb != nil {
		if ttl := time.Until(exam.EndTime); ttl > 0 {
			raw, _ := json.Marshal(paper)
			if err := s.rdb.Set(ctx, cacheKey, raw, ttl).Err(); err != nil {
				s.log.Warn().Err(err).Stringer("exam_id", examID).Msg("paper cache write failed")
			}
		}
	}

	return paper, nil
}
