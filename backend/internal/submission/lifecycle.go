package submission

import (
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"neurocampus/backend/internal/shared"
)

// The lifecycle is deliberately small: Submitted is the only initial state,
// Graded the only other one, and grading is valid from both so a teacher can
// correct an earlier grade. These functions are the single place that touch
// status/grade/feedback together, which keeps the invariant
// "status == graded <=> grade present" from ever being split across callers.

// New creates a submission in the Submitted state. At least one of content or
// fileURL must be non-empty.
func New(assignmentID, studentID, content, fileURL string, now time.Time) (*shared.Submission, error) {
	if content == "" && fileURL == "" {
		return nil, status.Error(codes.InvalidArgument, "submission requires content or an attached file")
	}

	return &shared.Submission{
		ID:           shared.GenerateSubmissionID(),
		AssignmentID: assignmentID,
		StudentID:    studentID,
		Content:      content,
		FileURL:      fileURL,
		Status:       shared.StatusSubmitted,
		SubmittedAt:  now,
		UpdatedAt:    now,
	}, nil
}

// ValidateGrade checks the inclusive [0,100] range.
func ValidateGrade(grade int32) error {
	if grade < shared.MinGrade || grade > shared.MaxGrade {
		return status.Errorf(codes.InvalidArgument, "grade must be between %d and %d", shared.MinGrade, shared.MaxGrade)
	}
	return nil
}

// ApplyGrade performs the grade transition on the in-memory submission. Valid
// from Submitted and from Graded (re-grading overwrites grade and feedback).
func ApplyGrade(sub *shared.Submission, grade int32, feedback string, now time.Time) error {
	if err := ValidateGrade(grade); err != nil {
		return err
	}

	g := grade
	sub.Status = shared.StatusGraded
	sub.Grade = &g
	sub.Feedback = feedback
	sub.UpdatedAt = now
	return nil
}
