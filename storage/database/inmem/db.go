// Package inmemdb provides mutex-guarded in-memory repositories. It backs
// the test suites and local development; postgres is the production store.
package inmemdb

import (
	"sync"

	"github.com/darasa-lms/darasa/core/activity"
	"github.com/darasa-lms/darasa/core/assignment"
	"github.com/darasa-lms/darasa/core/file"
	"github.com/darasa-lms/darasa/core/forum"
	"github.com/darasa-lms/darasa/core/user"
)

type DB struct {
	mutex sync.RWMutex

	users    map[string]*user.User
	students map[string]*user.Student
	teachers map[string]*user.Teacher

	assignments map[string]*assignment.Assignment
	submissions map[string]*assignment.Submission

	forums  map[string]*forum.Forum
	posts   map[string]*forum.Post
	replies map[string]*forum.Reply

	files map[string]*file.File
	logs  map[string]*activity.Log
}

func NewDB() *DB {
	db := new(DB)
	db.Reset()
	return db
}

// Reset drops all tables; test helper.
func (db *DB) Reset() {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	db.users = make(map[string]*user.User)
	db.students = make(map[string]*user.Student)
	db.teachers = make(map[string]*user.Teacher)
	db.assignments = make(map[string]*assignment.Assignment)
	db.submissions = make(map[string]*assignment.Submission)
	db.forums = make(map[string]*forum.Forum)
	db.posts = make(map[string]*forum.Post)
	db.replies = make(map[string]*forum.Reply)
	db.files = make(map[string]*file.File)
	db.logs = make(map[string]*activity.Log)
}
