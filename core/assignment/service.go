package assignment

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/darasa-lms/darasa/core"
)

var (
	// errors
	ErrNotFound           = errors.New("assignment not found")
	ErrSubmissionNotFound = errors.New("submission not found")

	errGradeAboveMax = errors.New("grade cannot exceed the assignment's max points")
)

type (
	Repository interface {
		CreateAssignment(ctx context.Context, asg Assignment) (Assignment, error)
		QueryAssignments(ctx context.Context, ordering ...core.DBOrdering) ([]Assignment, error)
		GetAssignmentByID(ctx context.Context, id string) (Assignment, error)
		UpdateAssignment(ctx context.Context, asg Assignment) (Assignment, error)
		DeleteAssignment(ctx context.Context, id string) error

		// AppendSubmission atomically appends a submission to its assignment;
		// implementations must not read-modify-write the whole aggregate.
		AppendSubmission(ctx context.Context, sub Submission) (Submission, error)
		// SetSubmissionGrade is a targeted update matching the embedded
		// submission by (assignmentID, submissionID). Concurrent grading of
		// the same submission is last-write-wins.
		SetSubmissionGrade(ctx context.Context, assignmentID, submissionID string, grade float64, feedback string) (Submission, error)
		// MarkLateSubmissions transitions every pending submission of every
		// assignment due before `now` to late, via targeted updates. Returns
		// the number of transitioned submissions; re-running is a no-op.
		MarkLateSubmissions(ctx context.Context, now time.Time) (int, error)

		QueryCourseStats(ctx context.Context, courseID string) ([]Stats, error)
	}

	Service interface {
		Create(ctx context.Context, na NewAssignment) (Assignment, error)
		Query(ctx context.Context, ordering ...core.DBOrdering) ([]Assignment, error)
		GetByID(ctx context.Context, id string) (Assignment, error)
		Update(ctx context.Context, id string, ua UpdateAssignment) (Assignment, error)
		Delete(ctx context.Context, id string) error
		AddSubmission(ctx context.Context, assignmentID string, ns NewSubmission) (Submission, error)
		Grade(ctx context.Context, assignmentID, submissionID string, gs GradeSubmission) (Submission, error)
		SweepLateSubmissions(ctx context.Context) (int, error)
		CourseStats(ctx context.Context, courseID string) ([]Stats, error)
	}

	service struct {
		repo   Repository
		logger core.Logger
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, logger core.Logger) *service {
	return &service{repo: repo, logger: logger}
}

func (svc *service) Create(ctx context.Context, na NewAssignment) (Assignment, error) {
	asg := Assignment{
		CourseID:         na.CourseID,
		Title:            na.Title,
		Description:      na.Description,
		DueDate:          na.DueDate.UTC(),
		MaxPoints:        na.MaxPoints,
		AllowPastDueDate: na.AllowPastDueDate,
		CreatedAt:        NowFunc().UTC(),
	}
	return svc.repo.CreateAssignment(ctx, asg)
}

func (svc *service) Query(ctx context.Context, ordering ...core.DBOrdering) ([]Assignment, error) {
	return svc.repo.QueryAssignments(ctx, ordering...)
}

func (svc *service) GetByID(ctx context.Context, id string) (Assignment, error) {
	return svc.repo.GetAssignmentByID(ctx, id)
}

func (svc *service) Update(ctx context.Context, id string, ua UpdateAssignment) (Assignment, error) {
	asg, err := svc.repo.GetAssignmentByID(ctx, id)
	if err != nil {
		return Assignment{}, err
	}
	if ua.Title != "" {
		asg.Title = ua.Title
	}
	if ua.Description != "" {
		asg.Description = ua.Description
	}
	if ua.DueDate != nil {
		asg.DueDate = ua.DueDate.UTC()
	}
	if ua.MaxPoints != nil {
		asg.MaxPoints = *ua.MaxPoints
	}
	return svc.repo.UpdateAssignment(ctx, asg)
}

func (svc *service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteAssignment(ctx, id)
}

// AddSubmission appends a submission to the assignment. The initial status
// is decided once, here: late when the due date has already elapsed,
// pending otherwise.
func (svc *service) AddSubmission(ctx context.Context, assignmentID string, ns NewSubmission) (Submission, error) {
	asg, err := svc.repo.GetAssignmentByID(ctx, assignmentID)
	if err != nil {
		return Submission{}, err
	}

	now := NowFunc().UTC()
	status := StatusPending
	if now.After(asg.DueDate) {
		status = StatusLate
	}

	sub := Submission{
		AssignmentID: asg.ID,
		StudentID:    ns.StudentID,
		FileID:       ns.FileID,
		SubmittedAt:  now,
		Status:       status,
	}
	return svc.repo.AppendSubmission(ctx, sub)
}

// Grade sets grade, feedback and the graded status in one targeted update.
// Grading is allowed from both pending and late; graded is terminal and
// repeating the same call is idempotent.
func (svc *service) Grade(ctx context.Context, assignmentID, submissionID string, gs GradeSubmission) (Submission, error) {
	asg, err := svc.repo.GetAssignmentByID(ctx, assignmentID)
	if err != nil {
		return Submission{}, err
	}
	if *gs.Grade > asg.MaxPoints {
		return Submission{}, core.NewValidationError(errGradeAboveMax, core.FieldError{Field: "grade", Error: errGradeAboveMax.Error()})
	}
	return svc.repo.SetSubmissionGrade(ctx, asg.ID, submissionID, *gs.Grade, gs.Feedback)
}

// SweepLateSubmissions is the periodic maintenance operation: every
// submission still pending on an assignment whose due date has elapsed is
// transitioned to late. Safe to re-run; the second pass finds nothing.
func (svc *service) SweepLateSubmissions(ctx context.Context) (int, error) {
	count, err := svc.repo.MarkLateSubmissions(ctx, NowFunc().UTC())
	if err != nil {
		return 0, errors.Wrap(err, "marking late submissions")
	}
	if count > 0 && svc.logger != nil {
		svc.logger.Info("late submission sweep", map[string]interface{}{"transitioned": count})
	}
	return count, nil
}

func (svc *service) CourseStats(ctx context.Context, courseID string) ([]Stats, error) {
	return svc.repo.QueryCourseStats(ctx, courseID)
}
