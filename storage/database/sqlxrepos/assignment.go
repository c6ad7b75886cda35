package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/darasa-lms/darasa/core"
	"github.com/darasa-lms/darasa/core/assignment"
)

type assignmentRepository struct {
	db *sqlx.DB
}

var _ assignment.Repository = (*assignmentRepository)(nil)

func NewAssignmentRepository(db *sqlx.DB) *assignmentRepository {
	return &assignmentRepository{db: db}
}

const assignmentColumns = "id, course_id, title, description, due_date, max_points, allow_past_due_date, created_at"
const submissionColumns = "id, assignment_id, student_id, file_id, submitted_at, grade, feedback, status"

func (repo *assignmentRepository) CreateAssignment(ctx context.Context, asg assignment.Assignment) (assignment.Assignment, error) {
	asg.ID = uuid.New().String()
	asg.Submissions = nil
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO assignments (`+assignmentColumns+`)
		VALUES (:id, :course_id, :title, :description, :due_date, :max_points, :allow_past_due_date, :created_at)`,
		asg,
	)
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "inserting assignment")
	}
	asg.Submissions = []assignment.Submission{}
	return asg, nil
}

func (repo *assignmentRepository) QueryAssignments(ctx context.Context, ordering ...core.DBOrdering) ([]assignment.Assignment, error) {
	orderBy := "created_at ASC, id ASC"
	if len(ordering) > 0 {
		switch ordering[0].Field {
		case "title", "due_date", "created_at":
			orderBy = ordering[0].String()
		}
	}

	assignments := make([]assignment.Assignment, 0)
	err := repo.db.SelectContext(ctx, &assignments, `
		SELECT `+assignmentColumns+` FROM assignments ORDER BY `+orderBy,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying assignments")
	}

	subs := make([]assignment.Submission, 0)
	err = repo.db.SelectContext(ctx, &subs, `
		SELECT `+submissionColumns+` FROM submissions ORDER BY submitted_at ASC, id ASC`,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying submissions")
	}

	byAssignment := make(map[string][]assignment.Submission, len(assignments))
	for _, sub := range subs {
		byAssignment[sub.AssignmentID] = append(byAssignment[sub.AssignmentID], sub)
	}
	for i := range assignments {
		assignments[i].Submissions = byAssignment[assignments[i].ID]
		if assignments[i].Submissions == nil {
			assignments[i].Submissions = []assignment.Submission{}
		}
	}
	return assignments, nil
}

func (repo *assignmentRepository) GetAssignmentByID(ctx context.Context, id string) (assignment.Assignment, error) {
	var asg assignment.Assignment
	err := repo.db.GetContext(ctx, &asg, `
		SELECT `+assignmentColumns+` FROM assignments WHERE id = $1`,
		id,
	)
	if err != nil {
		return assignment.Assignment{}, trapNoRowsErr(err, assignment.ErrNotFound)
	}

	asg.Submissions = make([]assignment.Submission, 0)
	err = repo.db.SelectContext(ctx, &asg.Submissions, `
		SELECT `+submissionColumns+` FROM submissions
		WHERE assignment_id = $1 ORDER BY submitted_at ASC, id ASC`,
		id,
	)
	return asg, errors.Wrap(err, "querying submissions")
}

func (repo *assignmentRepository) UpdateAssignment(ctx context.Context, asg assignment.Assignment) (assignment.Assignment, error) {
	res, err := repo.db.NamedExecContext(ctx, `
		UPDATE assignments
		SET title = :title, description = :description, due_date = :due_date, max_points = :max_points
		WHERE id = :id`,
		asg,
	)
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "updating assignment")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	return repo.GetAssignmentByID(ctx, asg.ID)
}

// DeleteAssignment relies on ON DELETE CASCADE for the submissions table.
func (repo *assignmentRepository) DeleteAssignment(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM assignments WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return assignment.ErrNotFound
	}
	return nil
}

// AppendSubmission inserts a new row; the aggregate is never rewritten so
// concurrent submissions to the same assignment cannot lose each other.
func (repo *assignmentRepository) AppendSubmission(ctx context.Context, sub assignment.Submission) (assignment.Submission, error) {
	sub.ID = uuid.New().String()
	res, err := repo.db.ExecContext(ctx, `
		INSERT INTO submissions (`+submissionColumns+`)
		SELECT $1, a.id, $3, $4, $5, $6, $7, $8 FROM assignments a WHERE a.id = $2`,
		sub.ID, sub.AssignmentID, sub.StudentID, sub.FileID, sub.SubmittedAt, sub.Grade, sub.Feedback, sub.Status,
	)
	if err != nil {
		return assignment.Submission{}, errors.Wrap(err, "inserting submission")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return assignment.Submission{}, assignment.ErrNotFound
	}
	return sub, nil
}

func (repo *assignmentRepository) SetSubmissionGrade(ctx context.Context, assignmentID, submissionID string, grade float64, feedback string) (assignment.Submission, error) {
	var sub assignment.Submission
	err := repo.db.GetContext(ctx, &sub, `
		UPDATE submissions SET grade = $3, feedback = $4, status = $5
		WHERE id = $2 AND assignment_id = $1
		RETURNING `+submissionColumns,
		assignmentID, submissionID, grade, feedback, assignment.StatusGraded,
	)
	return sub, trapNoRowsErr(err, assignment.ErrSubmissionNotFound)
}

func (repo *assignmentRepository) MarkLateSubmissions(ctx context.Context, now time.Time) (int, error) {
	res, err := repo.db.ExecContext(ctx, `
		UPDATE submissions s SET status = $1
		FROM assignments a
		WHERE s.assignment_id = a.id AND s.status = $2 AND a.due_date < $3`,
		assignment.StatusLate, assignment.StatusPending, now,
	)
	if err != nil {
		return 0, errors.Wrap(err, "marking late submissions")
	}
	n, err := res.RowsAffected()
	return int(n), errors.Wrap(err, "marking late submissions")
}

func (repo *assignmentRepository) QueryCourseStats(ctx context.Context, courseID string) ([]assignment.Stats, error) {
	stats := make([]assignment.Stats, 0)
	err := repo.db.SelectContext(ctx, &stats, `
		SELECT
			a.id AS assignment_id,
			a.title,
			COUNT(s.id) AS total_submissions,
			COUNT(s.id) FILTER (WHERE s.status = $2) AS graded_submissions,
			AVG(s.grade) FILTER (WHERE s.status = $2) AS average_grade
		FROM assignments a
		LEFT JOIN submissions s ON s.assignment_id = a.id
		WHERE a.course_id = $1
		GROUP BY a.id, a.title, a.created_at
		ORDER BY a.created_at ASC, a.id ASC`,
		courseID, assignment.StatusGraded,
	)
	return stats, errors.Wrap(err, "querying course stats")
}
