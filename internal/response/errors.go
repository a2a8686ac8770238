package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrPermissionDenied  ErrCode = "PERMISSION_DENIED"
	ErrFacultyAccessOnly ErrCode = "FACULTY_ACCESS_ONLY"
	ErrStudentAccessOnly ErrCode = "STUDENT_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation      ErrCode = "VALIDATION_ERROR"
	ErrInvalidID       ErrCode = "INVALID_ID"
	ErrInvalidSchedule ErrCode = "INVALID_SCHEDULE"
	ErrInvalidMarks    ErrCode = "INVALID_MARKS"
	ErrUnknownQuestion ErrCode = "UNKNOWN_QUESTION"
	ErrDuplicateAnswer ErrCode = "DUPLICATE_ANSWER"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound     ErrCode = "NOT_FOUND"
	ErrUserConflict ErrCode = "USER_ALREADY_EXISTS"

	// ─── Submission window / idempotence ───────────────────────────────
	ErrExamNotStarted   ErrCode = "EXAM_NOT_STARTED"
	ErrExamEnded        ErrCode = "EXAM_ENDED"
	ErrAlreadySubmitted ErrCode = "ALREADY_SUBMITTED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrInvalidCredentials:
		return "Incorrect username or password."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid or expired."
	case ErrPermissionDenied:
		return "Permission denied."
	case ErrFacultyAccessOnly:
		return "This resource is restricted to faculty."
	case ErrStudentAccessOnly:
		return "This resource is restricted to students."
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid identifier format."
	case ErrInvalidSchedule:
		return "The exam start time must be before its end time."
	case ErrInvalidMarks:
		return "Question marks must be positive."
	case ErrUnknownQuestion:
		return "One of the answers references a question that does not belong to this exam."
	case ErrDuplicateAnswer:
		return "A question may only be answered once per submission."
	case ErrNotFound:
		return "Resource not found."
	case ErrUserConflict:
		return "A user with this email or roll number is already registered."
	case ErrExamNotStarted:
		return "The exam has not started yet."
	case ErrExamEnded:
		return "The exam has already ended."
	case ErrAlreadySubmitted:
		return "This exam has already been submitted."
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
