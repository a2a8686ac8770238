package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/examina/examina-backend/internal/model"
)

func newAnalyticsFixture(t *testing.T) (*AnalyticsService, *fakeSubmissionStore, *model.Exam) {
	t.Helper()

	exams := newFakeExamStore()
	subs := newFakeSubmissionStore()

	exam := &model.Exam{
		Title:     "Physics Final",
		StartTime: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC),
		FacultyID: 1,
	}
	if err := exams.CreateWithQuestions(context.Background(), exam); err != nil {
		t.Fatalf("create exam: %v", err)
	}

	svc := NewAnalyticsService(exams, subs, nil, zerolog.Nop())
	return svc, subs, exam
}

func TestGetExamAnalyticsEmpty(t *testing.T) {
	svc, _, exam := newAnalyticsFixture(t)

	a, err := svc.GetExamAnalytics(context.Background(), exam.ID, 1, model.RoleFaculty)
	if err != nil {
		t.Fatalf("GetExamAnalytics: %v", err)
	}
	if a.TotalSubmissions != 0 {
		t.Errorf("total submissions = %d, want 0", a.TotalSubmissions)
	}
	if a.AverageMarks != 0 || a.HighestMarks != 0 || a.LowestMarks != 0 || a.PassPercentage != 0 {
		t.Errorf("empty exam should yield zeros, got %+v", a)
	}
	if a.QuestionWiseAnalysis == nil || len(a.QuestionWiseAnalysis) != 0 {
		t.Errorf("question analysis should be empty, got %v", a.QuestionWiseAnalysis)
	}
}

func TestGetExamAnalyticsAggregates(t *testing.T) {
	svc, subs, exam := newAnalyticsFixture(t)

	q1 := uuid.New()
	q2 := uuid.New()
	subs.snapshot = &model.AnalyticsSnapshot{
		TotalPossibleMarks: 20,
		Totals:             []int{5, 8, 15},
		Questions: []model.QuestionCorrectness{
			{QuestionID: q1, QuestionText: "Q1", CorrectCount: 2},
			{QuestionID: q2, QuestionText: "Q2", CorrectCount: 1},
		},
	}

	a, err := svc.GetExamAnalytics(context.Background(), exam.ID, 1, model.RoleFaculty)
	if err != nil {
		t.Fatalf("GetExamAnalytics: %v", err)
	}
	if a.TotalSubmissions != 3 {
		t.Errorf("total submissions = %d, want 3", a.TotalSubmissions)
	}
	if a.AverageMarks != 9.33 {
		t.Errorf("average = %v, want 9.33", a.AverageMarks)
	}
	if a.HighestMarks != 15 || a.LowestMarks != 5 {
		t.Errorf("highest/lowest = %d/%d, want 15/5", a.HighestMarks, a.LowestMarks)
	}
	// Pass bar is 40% of 20 = 8; two of three totals reach it.
	if a.PassPercentage != 66.67 {
		t.Errorf("pass percentage = %v, want 66.67", a.PassPercentage)
	}
	if len(a.QuestionWiseAnalysis) != 2 {
		t.Fatalf("question analysis = %d entries, want 2", len(a.QuestionWiseAnalysis))
	}
	if a.QuestionWiseAnalysis[0].CorrectPercentage != 66.67 {
		t.Errorf("q1 correct %% = %v, want 66.67", a.QuestionWiseAnalysis[0].CorrectPercentage)
	}
	if a.QuestionWiseAnalysis[1].CorrectPercentage != 33.33 {
		t.Errorf("q2 correct %% = %v, want 33.33", a.QuestionWiseAnalysis[1].CorrectPercentage)
	}
	if a.QuestionWiseAnalysis[0].TotalAttempts != 3 {
		t.Errorf("q1 attempts = %d, want 3", a.QuestionWiseAnalysis[0].TotalAttempts)
	}
}

func TestGetExamAnalyticsBoundaryPass(t *testing.T) {
	svc, subs, exam := newAnalyticsFixture(t)

	// Exactly 40% of total counts as passing.
	subs.snapshot = &model.AnalyticsSnapshot{
		TotalPossibleMarks: 20,
		Totals:             []int{8},
	}

	a, err := svc.GetExamAnalytics(context.Background(), exam.ID, 1, model.RoleFaculty)
	if err != nil {
		t.Fatalf("GetExamAnalytics: %v", err)
	}
	if a.PassPercentage != 100 {
		t.Errorf("pass percentage = %v, want 100", a.PassPercentage)
	}
}

func TestGetExamAnalyticsAccess(t *testing.T) {
	svc, _, exam := newAnalyticsFixture(t)

	if _, err := svc.GetExamAnalytics(context.Background(), exam.ID, 2, model.RoleStudent); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("student err = %v, want ErrPermissionDenied", err)
	}
	if _, err := svc.GetExamAnalytics(context.Background(), exam.ID, 99, model.RoleFaculty); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("non-owner err = %v, want ErrPermissionDenied", err)
	}
	if _, err := svc.GetExamAnalytics(context.Background(), uuid.New(), 1, model.RoleFaculty); !errors.Is(err, ErrExamNotFound) {
		t.Errorf("missing exam err = %v, want ErrExamNotFound", err)
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{1.0 / 3.0 * 100, 33.33},
		{2.0 / 3.0 * 100, 66.67},
		{10, 10},
		{66.666, 66.67},
	}
	for _, tt := range tests {
		if got := round2(tt.in); got != tt.want {
			t.Errorf("round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
