package repository

import "errors"

// ErrDuplicateSubmission is returned when an insert hits the
// (exam_id, student_id) uniqueness constraint. It is the storage-level
// backstop guaranteeing at most one committed submission per pair even
// under concurrent submit attempts.
var ErrDuplicateSubmission = errors.New("submission already exists for this exam and student")

// ErrDuplicateUser is returned when a user insert violates the email or
// roll number uniqueness constraint.
var ErrDuplicateUser = errors.New("user already exists")
