package assignment

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/darasa-lms/darasa/core"
)

// Submission statuses.
//
// pending ──(grade)──────────────► graded (terminal)
// pending ──(sweep, due elapsed)─► late
// late    ──(grade)──────────────► graded
const (
	StatusPending = "pending"
	StatusLate    = "late"
	StatusGraded  = "graded"
)

var (
	NowFunc = time.Now // mockable

	errDueDateInPast = errors.New("due date cannot be in the past")
)

// Submission is a value object owned by its Assignment; it is never
// addressed outside the (assignment, submission) pair.
type Submission struct {
	ID           string    `json:"id" db:"id"`
	AssignmentID string    `json:"assignment_id" db:"assignment_id"`
	StudentID    string    `json:"student_id" db:"student_id"`
	FileID       string    `json:"file_id" db:"file_id"`
	SubmittedAt  time.Time `json:"submitted_at" db:"submitted_at"` // UTC
	Grade        *float64  `json:"grade,omitempty" db:"grade"`
	Feedback     string    `json:"feedback,omitempty" db:"feedback"`
	Status       string    `json:"status" db:"status"`
}

func (s *Submission) IsGraded() bool { return s.Status == StatusGraded }

// Assignment is the aggregate root owning an ordered list of Submissions.
// Duplicate submissions from the same student are permitted and form a
// chronological list.
type Assignment struct {
	ID               string    `json:"id" db:"id"`
	CourseID         string    `json:"course_id" db:"course_id"`
	Title            string    `json:"title" db:"title"`
	Description      string    `json:"description,omitempty" db:"description"`
	DueDate          time.Time `json:"due_date" db:"due_date"` // UTC
	MaxPoints        float64   `json:"max_points" db:"max_points"`
	AllowPastDueDate bool      `json:"allow_past_due_date" db:"allow_past_due_date"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"` // UTC

	Submissions []Submission `json:"submissions" db:"-"`
}

// NewAssignment contains information needed to create a new Assignment.
type NewAssignment struct {
	CourseID         string    `json:"course_id" validate:"required"`
	Title            string    `json:"title" validate:"required"`
	Description      string    `json:"description"`
	DueDate          time.Time `json:"due_date" validate:"required"`
	MaxPoints        float64   `json:"max_points" validate:"gte=0"`
	AllowPastDueDate bool      `json:"allow_past_due_date"`
}

// Validate applies the creation-time rules. The past-due-date rule is
// enforced here only; later saves of the aggregate do not re-check it.
func (na *NewAssignment) Validate(validate *validator.Validate) error {
	na.Title = core.CleanString(na.Title)
	na.Description = core.CleanString(na.Description)

	if err := validate.Struct(na); err != nil {
		return err
	}
	if na.DueDate.Before(NowFunc()) && !na.AllowPastDueDate {
		return core.NewValidationError(errDueDateInPast, core.FieldError{Field: "due_date", Error: errDueDateInPast.Error()})
	}
	return nil
}

// UpdateAssignment defines what may be modified on an existing Assignment.
type UpdateAssignment struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	MaxPoints   *float64   `json:"max_points" validate:"omitempty,gte=0"`
}

func (ua *UpdateAssignment) Validate(validate *validator.Validate) error {
	ua.Title = core.CleanString(ua.Title)
	ua.Description = core.CleanString(ua.Description)
	return validate.Struct(ua)
}

// NewSubmission contains information needed to add a Submission.
type NewSubmission struct {
	StudentID string `json:"student_id" validate:"required"`
	FileID    string `json:"file_id" validate:"required"`
}

func (ns *NewSubmission) Validate(validate *validator.Validate) error {
	return validate.Struct(ns)
}

// GradeSubmission contains the grading input.
type GradeSubmission struct {
	Grade    *float64 `json:"grade" validate:"required,gte=0"`
	Feedback string   `json:"feedback"`
}

func (gs *GradeSubmission) Validate(validate *validator.Validate) error {
	gs.Feedback = core.CleanString(gs.Feedback)
	return validate.Struct(gs)
}

// Stats is the per-assignment read-only aggregation for a course.
// AverageGrade is computed over graded submissions only; it is nil when
// nothing has been graded yet.
type Stats struct {
	AssignmentID      string   `json:"assignment_id" db:"assignment_id"`
	Title             string   `json:"title" db:"title"`
	TotalSubmissions  int      `json:"total_submissions" db:"total_submissions"`
	GradedSubmissions int      `json:"graded_submissions" db:"graded_submissions"`
	AverageGrade      *float64 `json:"average_grade" db:"average_grade"`
}
