package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/darasa-lms/darasa/core"
	"github.com/darasa-lms/darasa/core/assignment"
)

type assignmentRepository struct {
	db *DB
}

var _ assignment.Repository = (*assignmentRepository)(nil)

func NewAssignmentRepository(db *DB) *assignmentRepository {
	return &assignmentRepository{db: db}
}

func (repo *assignmentRepository) CreateAssignment(_ context.Context, asg assignment.Assignment) (assignment.Assignment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	asg.ID = uuid.New().String()
	asg.Submissions = nil
	repo.db.assignments[asg.ID] = &asg

	asg.Submissions = []assignment.Submission{}
	return asg, nil
}

func (repo *assignmentRepository) QueryAssignments(_ context.Context, ordering ...core.DBOrdering) ([]assignment.Assignment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	assignments := make([]assignment.Assignment, 0, len(repo.db.assignments))
	for _, asg := range repo.db.assignments {
		assignments = append(assignments, repo.loadSubmissions(*asg))
	}
	sortAssignments(assignments, ordering)
	return assignments, nil
}

func (repo *assignmentRepository) GetAssignmentByID(_ context.Context, id string) (assignment.Assignment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if asg, ok := repo.db.assignments[id]; ok {
		return repo.loadSubmissions(*asg), nil
	}
	return assignment.Assignment{}, assignment.ErrNotFound
}

func (repo *assignmentRepository) UpdateAssignment(_ context.Context, asg assignment.Assignment) (assignment.Assignment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.assignments[asg.ID]; !ok {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	stored := asg
	stored.Submissions = nil
	repo.db.assignments[asg.ID] = &stored
	return repo.loadSubmissions(stored), nil
}

func (repo *assignmentRepository) DeleteAssignment(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.assignments[id]; !ok {
		return assignment.ErrNotFound
	}
	delete(repo.db.assignments, id)
	for sid, sub := range repo.db.submissions {
		if sub.AssignmentID == id {
			delete(repo.db.submissions, sid)
		}
	}
	return nil
}

func (repo *assignmentRepository) AppendSubmission(_ context.Context, sub assignment.Submission) (assignment.Submission, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.assignments[sub.AssignmentID]; !ok {
		return assignment.Submission{}, assignment.ErrNotFound
	}
	sub.ID = uuid.New().String()
	repo.db.submissions[sub.ID] = &sub
	return sub, nil
}

func (repo *assignmentRepository) SetSubmissionGrade(_ context.Context, assignmentID, submissionID string, grade float64, feedback string) (assignment.Submission, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	sub, ok := repo.db.submissions[submissionID]
	if !ok || sub.AssignmentID != assignmentID {
		return assignment.Submission{}, assignment.ErrSubmissionNotFound
	}
	sub.Grade = &grade
	sub.Feedback = feedback
	sub.Status = assignment.StatusGraded
	return *sub, nil
}

func (repo *assignmentRepository) MarkLateSubmissions(_ context.Context, now time.Time) (int, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	count := 0
	for _, sub := range repo.db.submissions {
		if sub.Status != assignment.StatusPending {
			continue
		}
		asg, ok := repo.db.assignments[sub.AssignmentID]
		if !ok {
			continue
		}
		if now.After(asg.DueDate) {
			sub.Status = assignment.StatusLate
			count++
		}
	}
	return count, nil
}

func (repo *assignmentRepository) QueryCourseStats(_ context.Context, courseID string) ([]assignment.Stats, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	assignments := make([]assignment.Assignment, 0)
	for _, asg := range repo.db.assignments {
		if asg.CourseID == courseID {
			assignments = append(assignments, *asg)
		}
	}
	sortAssignments(assignments, nil)

	stats := make([]assignment.Stats, 0, len(assignments))
	for _, asg := range assignments {
		st := assignment.Stats{AssignmentID: asg.ID, Title: asg.Title}
		var sum float64
		for _, sub := range repo.db.submissions {
			if sub.AssignmentID != asg.ID {
				continue
			}
			st.TotalSubmissions++
			if sub.IsGraded() && sub.Grade != nil {
				st.GradedSubmissions++
				sum += *sub.Grade
			}
		}
		if st.GradedSubmissions > 0 {
			avg := sum / float64(st.GradedSubmissions)
			st.AverageGrade = &avg
		}
		stats = append(stats, st)
	}
	return stats, nil
}

// loadSubmissions attaches the assignment's submissions in submission order.
// Callers must hold at least a read lock.
func (repo *assignmentRepository) loadSubmissions(asg assignment.Assignment) assignment.Assignment {
	subs := make([]assignment.Submission, 0)
	for _, sub := range repo.db.submissions {
		if sub.AssignmentID == asg.ID {
			subs = append(subs, *sub)
		}
	}
	sort.Slice(subs, func(i, j int) bool {
		if subs[i].SubmittedAt.Equal(subs[j].SubmittedAt) {
			return subs[i].ID < subs[j].ID
		}
		return subs[i].SubmittedAt.Before(subs[j].SubmittedAt)
	})
	asg.Submissions = subs
	return asg
}

func sortAssignments(assignments []assignment.Assignment, ordering []core.DBOrdering) {
	less := func(i, j assignment.Assignment) bool {
		if i.CreatedAt.Equal(j.CreatedAt) {
			return i.ID < j.ID
		}
		return i.CreatedAt.Before(j.CreatedAt)
	}
	if len(ordering) > 0 {
		ord := ordering[0]
		switch ord.Field {
		case "title":
			less = func(i, j assignment.Assignment) bool { return (i.Title < j.Title) == ord.Ascending }
		case "due_date":
			less = func(i, j assignment.Assignment) bool { return i.DueDate.Before(j.DueDate) == ord.Ascending }
		case "created_at":
			less = func(i, j assignment.Assignment) bool { return i.CreatedAt.Before(j.CreatedAt) == ord.Ascending }
		}
	}
	sort.Slice(assignments, func(i, j int) bool { return less(assignments[i], assignments[j]) })
}
