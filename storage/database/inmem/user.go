package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/darasa-lms/darasa/core"
	"github.com/darasa-lms/darasa/core/user"
)

type userRepository struct {
	db *DB
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *DB) *userRepository {
	return &userRepository{db: db}
}

func (repo *userRepository) query() []user.User {
	users := make([]user.User, 0, len(repo.db.users))
	for _, u := range repo.db.users {
		users = append(users, *u)
	}
	sortUsers(users, nil)
	return users
}

func (repo *userRepository) CheckUniqueness(_ context.Context, username, email string, excludedUsers ...user.User) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	excluded := make(map[string]bool, len(excludedUsers))
	for _, u := range excludedUsers {
		excluded[u.ID] = true
	}

	for _, usr := range repo.db.users {
		if excluded[usr.ID] {
			continue
		}
		if usr.Username == username {
			return user.ErrUsernameExists
		}
		if usr.Email == email {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	usr.ID = uuid.New().String()
	repo.db.users[usr.ID] = &usr
	return usr, nil
}

func (repo *userRepository) QueryUsers(_ context.Context, ordering ...core.DBOrdering) ([]user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	users := repo.query()
	sortUsers(users, ordering)
	return users, nil
}

func (repo *userRepository) GetUserByID(_ context.Context, id string) (user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if usr, ok := repo.db.users[id]; ok {
		return *usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, usr := range repo.db.users {
		if usr.Email == email {
			return *usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) SetUserRole(_ context.Context, id, role string, updatedAt time.Time) (user.User, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	usr, ok := repo.db.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	usr.Role = role
	usr.UpdatedAt = updatedAt
	return *usr, nil
}

func (repo *userRepository) DeleteUser(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.users[id]; !ok {
		return user.ErrNotFound
	}
	delete(repo.db.users, id)

	// cascade profiles
	for sid, std := range repo.db.students {
		if std.UserID == id {
			delete(repo.db.students, sid)
		}
	}
	for tid, tch := range repo.db.teachers {
		if tch.UserID == id {
			delete(repo.db.teachers, tid)
		}
	}
	return nil
}

func (repo *userRepository) CreateStudent(_ context.Context, std user.Student) (user.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	std.ID = uuid.New().String()
	repo.db.students[std.ID] = &std
	return std, nil
}

func (repo *userRepository) QueryStudents(_ context.Context) ([]user.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	students := make([]user.Student, 0, len(repo.db.students))
	for _, std := range repo.db.students {
		s := *std
		if usr, ok := repo.db.users[s.UserID]; ok {
			u := *usr
			s.User = &u
		}
		students = append(students, s)
	}
	sort.Slice(students, func(i, j int) bool {
		if students[i].CreatedAt.Equal(students[j].CreatedAt) {
			return students[i].ID < students[j].ID
		}
		return students[i].CreatedAt.Before(students[j].CreatedAt)
	})
	return students, nil
}

func (repo *userRepository) GetStudentByID(_ context.Context, id string) (user.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if std, ok := repo.db.students[id]; ok {
		return *std, nil
	}
	return user.Student{}, user.ErrProfileNotFound
}

func (repo *userRepository) UpdateStudent(_ context.Context, std user.Student) (user.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.students[std.ID]; !ok {
		return user.Student{}, user.ErrProfileNotFound
	}
	std.User = nil
	repo.db.students[std.ID] = &std
	return std, nil
}

func (repo *userRepository) CreateTeacher(_ context.Context, tch user.Teacher) (user.Teacher, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	tch.ID = uuid.New().String()
	repo.db.teachers[tch.ID] = &tch
	return tch, nil
}

func (repo *userRepository) QueryTeachers(_ context.Context) ([]user.Teacher, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	teachers := make([]user.Teacher, 0, len(repo.db.teachers))
	for _, tch := range repo.db.teachers {
		t := *tch
		if usr, ok := repo.db.users[t.UserID]; ok {
			u := *usr
			t.User = &u
		}
		teachers = append(teachers, t)
	}
	sort.Slice(teachers, func(i, j int) bool {
		if teachers[i].CreatedAt.Equal(teachers[j].CreatedAt) {
			return teachers[i].ID < teachers[j].ID
		}
		return teachers[i].CreatedAt.Before(teachers[j].CreatedAt)
	})
	return teachers, nil
}

func (repo *userRepository) GetTeacherByID(_ context.Context, id string) (user.Teacher, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if tch, ok := repo.db.teachers[id]; ok {
		return *tch, nil
	}
	return user.Teacher{}, user.ErrProfileNotFound
}

func (repo *userRepository) UpdateTeacher(_ context.Context, tch user.Teacher) (user.Teacher, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.teachers[tch.ID]; !ok {
		return user.Teacher{}, user.ErrProfileNotFound
	}
	tch.User = nil
	repo.db.teachers[tch.ID] = &tch
	return tch, nil
}

// sortUsers orders by the requested fields, defaulting to creation time.
func sortUsers(users []user.User, ordering []core.DBOrdering) {
	less := func(i, j user.User) bool {
		if i.CreatedAt.Equal(j.CreatedAt) {
			return i.ID < j.ID
		}
		return i.CreatedAt.Before(j.CreatedAt)
	}
	if len(ordering) > 0 {
		ord := ordering[0]
		switch ord.Field {
		case "username":
			less = func(i, j user.User) bool { return (i.Username < j.Username) == ord.Ascending }
		case "email":
			less = func(i, j user.User) bool { return (i.Email < j.Email) == ord.Ascending }
		case "created_at":
			less = func(i, j user.User) bool { return i.CreatedAt.Before(j.CreatedAt) == ord.Ascending }
		}
	}
	sort.Slice(users, func(i, j int) bool { return less(users[i], users[j]) })
}
