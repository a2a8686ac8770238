package service

import "errors"

// Sentinel errors for the operation contracts. Handlers translate these into
// response codes; nothing here is retried internally, and every rejected
// operation leaves persisted state unchanged.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPermissionDenied   = errors.New("permission denied")

	ErrUserAlreadyExists  = errors.New("user already registered")
	ErrExamNotFound       = errors.New("exam not found")
	ErrSubmissionNotFound = errors.New("submission not found")

	ErrInvalidSchedule = errors.New("exam start time must be before end time")
	ErrInvalidMarks    = errors.New("question marks must be positive")

	ErrExamNotStarted   = errors.New("exam has not started yet")
	ErrExamEnded        = errors.New("exam has ended")
	ErrAlreadySubmitted = errors.New("exam already submitted")
	ErrUnknownQuestion  = errors.New("question does not belong to this exam")
	ErrDuplicateAnswer  = errors.New("question answered more than once in the batch")
)
