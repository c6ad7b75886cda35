package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/darasa-lms/darasa/core/assignment"
	"github.com/darasa-lms/darasa/core/forum"
	"github.com/darasa-lms/darasa/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	uname, email, pwd, role string,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Username:  uname,
		Email:     email,
		Role:      role,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateStudentProfile(t *testing.T, repo user.Repository, usr user.User, program, year string) user.Student {
	t.Helper()

	now := time.Now().UTC()
	std, err := repo.CreateStudent(context.Background(), user.Student{
		UserID:    usr.ID,
		Program:   program,
		Year:      year,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateStudentProfile() failed: %v", err)
	}
	return std
}

func CreateTeacherProfile(t *testing.T, repo user.Repository, usr user.User, specialty, grade string) user.Teacher {
	t.Helper()

	now := time.Now().UTC()
	tch, err := repo.CreateTeacher(context.Background(), user.Teacher{
		UserID:    usr.ID,
		Specialty: specialty,
		Grade:     grade,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateTeacherProfile() failed: %v", err)
	}
	return tch
}

func CreateAssignment(
	t *testing.T,
	repo assignment.Repository,
	courseID, title string,
	dueDate time.Time,
	maxPoints float64,
) assignment.Assignment {
	t.Helper()

	asg, err := repo.CreateAssignment(context.Background(), assignment.Assignment{
		CourseID:  courseID,
		Title:     title,
		DueDate:   dueDate.UTC(),
		MaxPoints: maxPoints,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateAssignment() failed: %v", err)
	}
	return asg
}

func CreateSubmission(
	t *testing.T,
	repo assignment.Repository,
	asg assignment.Assignment,
	studentID, status string,
	submittedAt ...time.Time,
) assignment.Submission {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(submittedAt) > 0 {
		tstamp = submittedAt[0].UTC()
	}
	sub, err := repo.AppendSubmission(context.Background(), assignment.Submission{
		AssignmentID: asg.ID,
		StudentID:    studentID,
		FileID:       "file-" + studentID,
		SubmittedAt:  tstamp,
		Status:       status,
	})
	if err != nil {
		t.Fatalf("CreateSubmission() failed: %v", err)
	}
	return sub
}

func CreateForum(t *testing.T, repo forum.Repository, courseID, title string) forum.Forum {
	t.Helper()

	frm, err := repo.CreateForum(context.Background(), forum.Forum{
		CourseID:  courseID,
		Title:     title,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateForum() failed: %v", err)
	}
	return frm
}
