package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/examina/examina-backend/internal/model"
	"github.com/examina/examina-backend/internal/repository"
)

// In-memory fakes backing the store interfaces. Absent rows surface as
// pgx.ErrNoRows, matching the real repositories.

type fakeUserStore struct {
	users  map[int]*model.User
	nextID int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int]*model.User), nextID: 1}
}

func (f *fakeUserStore) Create(_ context.Context, u *model.User) error {
	for _, existing := range f.users {
		if existing.Email == u.Email || (u.RollNumber != "" && existing.RollNumber == u.RollNumber) {
			return repository.ErrDuplicateUser
		}
	}
	u.ID = f.nextID
	f.nextID++
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id int) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return u, nil
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == username || (u.RollNumber != "" && u.RollNumber == username) {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeExamStore struct {
	exams map[uuid.UUID]*model.Exam
}

func newFakeExamStore() *fakeExamStore {
	return &fakeExamStore{exams: make(map[uuid.UUID]*model.Exam)}
}

func (f *fakeExamStore) CreateWithQuestions(_ context.Context, e *model.Exam) error {
	e.ID = uuid.New()
	e.Status = model.ExamStatusPending
	e.IsActive = true
	for i := range e.Questions {
		e.Questions[i].ID = uuid.New()
		e.Questions[i].ExamID = e.ID
	}
	f.exams[e.ID] = e
	return nil
}

func (f *fakeExamStore) GetByID(_ context.Context, id uuid.UUID) (*model.Exam, error) {
	e, ok := f.exams[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *e
	cp.Questions = nil
	return &cp, nil
}

func (f *fakeExamStore) List(_ context.Context, filter model.ExamFilter) ([]model.Exam, error) {
	out := make([]model.Exam, 0, len(f.exams))
	for _, e := range f.exams {
		out = append(out, *e)
	}
	if filter.Skip >= len(out) {
		return []model.Exam{}, nil
	}
	out = out[filter.Skip:]
	if filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeExamStore) ListByFaculty(_ context.Context, facultyID int) ([]model.Exam, error) {
	out := []model.Exam{}
	for _, e := range f.exams {
		if e.FacultyID == facultyID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeExamStore) UpdateStatus(_ context.Context, id uuid.UUID, status model.ExamStatus) error {
	e, ok := f.exams[id]
	if !ok {
		return pgx.ErrNoRows
	}
	e.Status = status
	return nil
}

type fakeQuestionStore struct {
	byExam map[uuid.UUID][]model.Question
}

func newFakeQuestionStore() *fakeQuestionStore {
	return &fakeQuestionStore{byExam: make(map[uuid.UUID][]model.Question)}
}

func (f *fakeQuestionStore) ListByExam(_ context.Context, examID uuid.UUID) ([]model.Question, error) {
	return f.byExam[examID], nil
}

type fakeSubmissionStore struct {
	subs     map[uuid.UUID]*model.ExamSubmission
	answers  map[uuid.UUID][]model.AnswerSubmission
	snapshot *model.AnalyticsSnapshot
}

func newFakeSubmissionStore() *fakeSubmissionStore {
	return &fakeSubmissionStore{
		subs:    make(map[uuid.UUID]*model.ExamSubmission),
		answers: make(map[uuid.UUID][]model.AnswerSubmission),
	}
}

func (f *fakeSubmissionStore) GetByExamAndStudent(_ context.Context, examID uuid.UUID, studentID int) (*model.ExamSubmission, error) {
	for _, s := range f.subs {
		if s.ExamID == examID && s.StudentID == studentID {
			return s, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeSubmissionStore) GetByID(_ context.Context, id uuid.UUID) (*model.ExamSubmission, error) {
	s, ok := f.subs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return s, nil
}

func (f *fakeSubmissionStore) CreateWithAnswers(_ context.Context, s *model.ExamSubmission, answers []model.AnswerSubmission) error {
	for _, existing := range f.subs {
		if existing.ExamID == s.ExamID && existing.StudentID == s.StudentID {
			return repository.ErrDuplicateSubmission
		}
	}
	s.ID = uuid.New()
	s.IsSubmitted = true
	for i := range answers {
		answers[i].ID = uuid.New()
		answers[i].SubmissionID = s.ID
	}
	s.Answers = answers
	f.subs[s.ID] = s
	f.answers[s.ID] = answers
	return nil
}

func (f *fakeSubmissionStore) ListByExam(_ context.Context, examID uuid.UUID) ([]model.SubmissionWithStudent, error) {
	out := []model.SubmissionWithStudent{}
	for _, s := range f.subs {
		if s.ExamID == examID {
			out = append(out, model.SubmissionWithStudent{
				ID:             s.ID,
				ExamID:         s.ExamID,
				StudentID:      s.StudentID,
				SubmissionTime: s.SubmissionTime,
				TotalMarks:     s.TotalMarks,
				IsSubmitted:    s.IsSubmitted,
			})
		}
	}
	return out, nil
}

func (f *fakeSubmissionStore) ListAnswerDetails(_ context.Context, submissionID uuid.UUID) ([]model.AnswerDetail, error) {
	out := []model.AnswerDetail{}
	for _, a := range f.answers[submissionID] {
		out = append(out, model.AnswerDetail{
			QuestionID:    a.QuestionID,
			StudentAnswer: a.Answer,
			MarksObtained: a.MarksObtained,
		})
	}
	return out, nil
}

func (f *fakeSubmissionStore) AnalyticsSnapshot(_ context.Context, _ uuid.UUID) (*model.AnalyticsSnapshot, error) {
	if f.snapshot != nil {
		return f.snapshot, nil
	}
	return &model.AnalyticsSnapshot{}, nil
}

// fixedClock returns a now func pinned to t.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
