package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/examina/examina-backend/internal/config"
	"github.com/examina/examina-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// passThreshold is the passing score as a fraction of the exam's total
// possible marks.
const passThreshold = 0.4

// analyticsCacheTTL bounds staleness of the cached snapshot; the cache is
// also invalidated on every settled submission.
const analyticsCacheTTL = 30 * time.Second

// AnalyticsService computes per-exam aggregate statistics over the
// submission set.
type AnalyticsService struct {
	exams ExamStore
	subs  SubmissionStore
	rdb   *redis.Client
	log   zerolog.Logger
}

// NewAnalyticsService creates a new AnalyticsService. rdb may be nil, in
// which case caching is bypassed.
func NewAnalyticsService(exams ExamStore, subs SubmissionStore, rdb *redis.Client, log zerolog.Logger) *AnalyticsService {
	return &AnalyticsService{
		exams: exams,
		subs:  subs,
		rdb:   rdb,
		log:   log.With().Str("component", "analytics_service").Logger(),
	}
}

// GetExamAnalytics computes statistics over all submissions for an exam.
// Restricted to the owning faculty. Zero submissions yield zeros, not an
// error.
func (s *AnalyticsService) GetExamAnalytics(ctx context.Context, examID uuid.UUID, callerID int, role model.Role) (*model.ExamAnalytics, error) {
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

	cacheKey := config.CacheKey.ExamAnalyticsKey(examID.String())
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			analytics := &model.ExamAnalytics{}
			if err := json.Unmarshal([]byte(raw), analytics); err == nil {
				return analytics, nil
			}
		}
	}

	snap, err := s.subs.AnalyticsSnapshot(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("analytics snapshot: %w", err)
	}

	analytics := computeAnalytics(examID, snap)

	if s.rdb != nil {
		raw, _ := json.Marshal(analytics)
		if err := s.rdb.Set(ctx, cacheKey, raw, analyticsCacheTTL).Err(); err != nil {
			s.log.Warn().Err(err).Stringer("exam_id", examID).Msg("analytics cache write failed")
		}
	}

	return analytics, nil
}

// computeAnalytics derives the aggregate view from a consistent snapshot.
// Pure: same snapshot in, same analytics out. The average and all
// percentages are rounded to 2 decimals.
func computeAnalytics(examID uuid.UUID, snap *model.AnalyticsSnapshot) *model.ExamAnalytics {
	analytics := &model.ExamAnalytics{
		ExamID:               examID,
		TotalSubmissions:     len(snap.Totals),
		QuestionWiseAnalysis: []model.QuestionAnalysis{},
	}

	if len(snap.Totals) == 0 {
		return analytics
	}

	sum := 0
	highest := snap.Totals[0]
	lowest := snap.Totals[0]
	passing := float64(snap.TotalPossibleMarks) * passThreshold
	passCount := 0
	for _, total := range snap.Totals {
		sum += total
		if total > highest {
			highest = total
		}
		if total < lowest {
			lowest = total
		}
		if float64(total) >= passing {
			passCount++
		}
	}

	n := float64(len(snap.Totals))
	analytics.AverageMarks = round2(float64(sum) / n)
	analytics.HighestMarks = highest
	analytics.LowestMarks = lowest
	analytics.PassPercentage = round2(float64(passCount) / n * 100)

	for _, qc := range snap.Questions {
		analytics.QuestionWiseAnalysis = append(analytics.QuestionWiseAnalysis, model.QuestionAnalysis{
			QuestionID:        qc.QuestionID,
			QuestionText:      qc.QuestionText,
			CorrectAnswers:    qc.CorrectCount,
			TotalAttempts:     len(snap.Totals),
			CorrectPercentage: round2(float64(qc.CorrectCount) / n * 100),
		})
	}

	return analytics
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
