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

func newSubmissionFixture(t *testing.T, start, end time.Time) (*SubmissionService, *fakeExamStore, *fakeQuestionStore, *fakeSubmissionStore, *model.Exam) {
	t.Helper()

	exams := newFakeExamStore()
	questions := newFakeQuestionStore()
	subs := newFakeSubmissionStore()
	users := newFakeUserStore()

	exam := &model.Exam{
		Title:     "Algorithms Midterm",
		StartTime: start,
		EndTime:   end,
		FacultyID: 1,
		Questions: []model.Question{
			{QuestionText: "Q1", Marks: 10, Options: []string{"A", "B"}, CorrectAnswer: "B"},
			{QuestionText: "Q2", Marks: 5, Options: []string{"A", "B"}, CorrectAnswer: "A"},
		},
	}
	if err := exams.CreateWithQuestions(context.Background(), exam); err != nil {
		t.Fatalf("create exam: %v", err)
	}
	questions.byExam[exam.ID] = exam.Questions

	users.users[2] = &model.User{ID: 2, Name: "Student", Role: model.RoleStudent}

	svc := NewSubmissionService(exams, questions, subs, users, nil, zerolog.Nop())
	return svc, exams, questions, subs, exam
}

func TestSubmitGradesAnswers(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	svc, exams, _, subs, exam := newSubmissionFixture(t, start, end)
	svc.now = fixedClock(start.Add(30 * time.Minute))

	req := &model.SubmitExamRequest{Answers: []model.AnswerInput{
		{QuestionID: exam.Questions[0].ID, Answer: "B"},
		{QuestionID: exam.Questions[1].ID, Answer: "B"},
	}}

	sub, err := svc.Submit(context.Background(), exam.ID, 2, req)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if sub.TotalMarks != 10 {
		t.Errorf("total marks = %d, want 10", sub.TotalMarks)
	}
	if len(sub.Answers) != 2 {
		t.Fatalf("answers = %d, want 2", len(sub.Answers))
	}
	if sub.Answers[0].MarksObtained != 10 || sub.Answers[1].MarksObtained != 0 {
		t.Errorf("per-answer marks = %d, %d; want 10, 0", sub.Answers[0].MarksObtained, sub.Answers[1].MarksObtained)
	}
	if !sub.SubmissionTime.Equal(start.Add(30 * time.Minute)) {
		t.Errorf("submission time = %v, want the captured clock", sub.SubmissionTime)
	}
	if len(subs.subs) != 1 {
		t.Errorf("stored submissions = %d, want 1", len(subs.subs))
	}
	if exams.exams[exam.ID].Status != model.ExamStatusCompleted {
		t.Errorf("exam status = %s, want COMPLETED", exams.exams[exam.ID].Status)
	}
}

func TestSubmitWindowBoundaries(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	tests := []struct {
		name    string
		now     time.Time
		wantErr error
	}{
		{"before start", start.Add(-time.Second), ErrExamNotStarted},
		{"exactly at start", start, nil},
		{"exactly at end", end, nil},
		{"after end", end.Add(time.Second), ErrExamEnded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _, subs, exam := newSubmissionFixture(t, start, end)
			svc.now = fixedClock(tt.now)

			req := &model.SubmitExamRequest{Answers: []model.AnswerInput{
				{QuestionID: exam.Questions[0].ID, Answer: "B"},
			}}
			_, err := svc.Submit(context.Background(), exam.ID, 2, req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Submit err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil && len(subs.subs) != 0 {
				t.Errorf("rejected submission persisted state")
			}
		})
	}
}

func TestSubmitExactlyOnce(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc, _, _, subs, exam := newSubmissionFixture(t, start, start.Add(2*time.Hour))
	svc.now = fixedClock(start.Add(time.Minute))

	req := &model.SubmitExamRequest{Answers: []model.AnswerInput{
		{QuestionID: exam.Questions[0].ID, Answer: "B"},
	}}

	if _, err := svc.Submit(context.Background(), exam.ID, 2, req); err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	_, err := svc.Submit(context.Background(), exam.ID, 2, req)
	if !errors.Is(err, ErrAlreadySubmitted) {
		t.Fatalf("second Submit err = %v, want ErrAlreadySubmitted", err)
	}
	if len(subs.subs) != 1 {
		t.Errorf("stored submissions = %d, want 1", len(subs.subs))
	}

	// A different student is unaffected.
	if _, err := svc.Submit(context.Background(), exam.ID, 3, req); err != nil {
		t.Fatalf("other student Submit: %v", err)
	}
}

func TestSubmitUnknownQuestionRejectsBatch(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc, _, _, subs, exam := newSubmissionFixture(t, start, start.Add(2*time.Hour))
	svc.now = fixedClock(start.Add(time.Minute))

	req := &model.SubmitExamRequest{Answers: []model.AnswerInput{
		{QuestionID: exam.Questions[0].ID, Answer: "B"},
		{QuestionID: uuid.New(), Answer: "A"},
	}}
	_, err := svc.Submit(context.Background(), exam.ID, 2, req)
	if !errors.Is(err, ErrUnknownQuestion) {
		t.Fatalf("Submit err = %v, want ErrUnknownQuestion", err)
	}
	if len(subs.subs) != 0 {
		t.Errorf("rejected batch persisted state")
	}
}

func TestSubmitRepeatedQuestionRejectsBatch(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc, _, _, subs, exam := newSubmissionFixture(t, start, start.Add(2*time.Hour))
	svc.now = fixedClock(start.Add(time.Minute))

	// Repeating a correct answer must not stack its marks.
	req := &model.SubmitExamRequest{Answers: []model.AnswerInput{
		{QuestionID: exam.Questions[0].ID, Answer: "B"},
		{QuestionID: exam.Questions[0].ID, Answer: "B"},
		{QuestionID: exam.Questions[0].ID, Answer: "B"},
	}}
	_, err := svc.Submit(context.Background(), exam.ID, 2, req)
	if !errors.Is(err, ErrDuplicateAnswer) {
		t.Fatalf("Submit err = %v, want ErrDuplicateAnswer", err)
	}
	if len(subs.subs) != 0 {
		t.Errorf("rejected batch persisted state")
	}
}

func TestGradeAnswersOnePerQuestion(t *testing.T) {
	q := model.Question{ID: uuid.New(), Marks: 10, CorrectAnswer: "B"}

	// A wrong repeat of an already-graded question also rejects: the
	// invariant is one graded answer per question, not just capped marks.
	answers := []model.AnswerInput{
		{QuestionID: q.ID, Answer: "B"},
		{QuestionID: q.ID, Answer: "A"},
	}
	if _, _, err := gradeAnswers([]model.Question{q}, answers); !errors.Is(err, ErrDuplicateAnswer) {
		t.Fatalf("gradeAnswers err = %v, want ErrDuplicateAnswer", err)
	}
}

func TestSubmitExamNotFound(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc, _, _, _, _ := newSubmissionFixture(t, start, start.Add(time.Hour))
	svc.now = fixedClock(start)

	_, err := svc.Submit(context.Background(), uuid.New(), 2, &model.SubmitExamRequest{
		Answers: []model.AnswerInput{{QuestionID: uuid.New(), Answer: "A"}},
	})
	if !errors.Is(err, ErrExamNotFound) {
		t.Fatalf("Submit err = %v, want ErrExamNotFound", err)
	}
}

func TestGradeAnswersDeterministic(t *testing.T) {
	q1 := model.Question{ID: uuid.New(), Marks: 10, CorrectAnswer: "B"}
	q2 := model.Question{ID: uuid.New(), Marks: 5, CorrectAnswer: "b"}
	questions := []model.Question{q1, q2}
	answers := []model.AnswerInput{
		{QuestionID: q1.ID, Answer: "B"},
		{QuestionID: q2.ID, Answer: "B"}, // case-sensitive mismatch
	}

	first, total, err := gradeAnswers(questions, answers)
	if err != nil {
		t.Fatalf("gradeAnswers: %v", err)
	}
	if total != 10 {
		t.Errorf("total = %d, want 10", total)
	}

	// Replaying the same inputs yields the same grades.
	for i := 0; i < 10; i++ {
		replay, replayTotal, err := gradeAnswers(questions, answers)
		if err != nil {
			t.Fatalf("replay: %v", err)
		}
		if replayTotal != total {
			t.Fatalf("replay total = %d, want %d", replayTotal, total)
		}
		for j := range first {
			if replay[j] != first[j] {
				t.Fatalf("replay grade %d = %+v, want %+v", j, replay[j], first[j])
			}
		}
	}
}

func TestGetSubmissionsOwnership(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc, _, _, _, exam := newSubmissionFixture(t, start, start.Add(time.Hour))

	if _, err := svc.GetSubmissions(context.Background(), exam.ID, 1, model.RoleFaculty); err != nil {
		t.Fatalf("owner GetSubmissions: %v", err)
	}
	if _, err := svc.GetSubmissions(context.Background(), exam.ID, 99, model.RoleFaculty); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("non-owner err = %v, want ErrPermissionDenied", err)
	}
	if _, err := svc.GetSubmissions(context.Background(), exam.ID, 1, model.RoleStudent); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("student err = %v, want ErrPermissionDenied", err)
	}
}

func TestGetSubmissionDetails(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc, _, _, _, exam := newSubmissionFixture(t, start, start.Add(time.Hour))
	svc.now = fixedClock(start.Add(time.Minute))

	sub, err := svc.Submit(context.Background(), exam.ID, 2, &model.SubmitExamRequest{
		Answers: []model.AnswerInput{
			{QuestionID: exam.Questions[0].ID, Answer: "B"},
			{QuestionID: exam.Questions[1].ID, Answer: "A"},
		},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	details, err := svc.GetSubmissionDetails(context.Background(), exam.ID, sub.ID, 1, model.RoleFaculty)
	if err != nil {
		t.Fatalf("GetSubmissionDetails: %v", err)
	}
	if details.MarksObtained != 15 {
		t.Errorf("marks obtained = %d, want 15", details.MarksObtained)
	}
	if details.TotalMarks != 15 {
		t.Errorf("total marks = %d, want 15", details.TotalMarks)
	}
	if details.StudentName != "Student" {
		t.Errorf("student name = %q", details.StudentName)
	}
	if len(details.Answers) != 2 {
		t.Errorf("answers = %d, want 2", len(details.Answers))
	}

	// Mismatched exam ID behaves like a missing submission.
	if _, err := svc.GetSubmissionDetails(context.Background(), uuid.New(), sub.ID, 1, model.RoleFaculty); !errors.Is(err, ErrExamNotFound) {
		t.Errorf("foreign exam err = %v, want ErrExamNotFound", err)
	}
}

func TestGetResultsOverview(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc, _, _, _, exam := newSubmissionFixture(t, start, start.Add(time.Hour))
	svc.now = fixedClock(start.Add(time.Minute))

	if _, err := svc.Submit(context.Background(), exam.ID, 2, &model.SubmitExamRequest{
		Answers: []model.AnswerInput{{QuestionID: exam.Questions[0].ID, Answer: "B"}},
	}); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	results, err := svc.GetResultsOverview(context.Background(), 1, model.RoleFaculty)
	if err != nil {
		t.Fatalf("GetResultsOverview: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	if results[0].TotalMarks != 15 {
		t.Errorf("total marks = %d, want 15", results[0].TotalMarks)
	}
	if len(results[0].Submissions) != 1 {
		t.Errorf("submissions = %d, want 1", len(results[0].Submissions))
	}

	if _, err := svc.GetResultsOverview(context.Background(), 2, model.RoleStudent); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("student overview err = %v, want ErrPermissionDenied", err)
	}
}
