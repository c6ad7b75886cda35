package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/darasa-lms/darasa/core"
	"github.com/darasa-lms/darasa/core/user"
)

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

func (repo *userRepository) CheckUniqueness(ctx context.Context, username, email string, excludedUsers ...user.User) error {
	query := `SELECT username, email FROM users WHERE (username = ? OR email = ?)`
	args := []interface{}{username, email}

	if len(excludedUsers) > 0 {
		ids := make([]string, 0, len(excludedUsers))
		for _, u := range excludedUsers {
			ids = append(ids, u.ID)
		}
		query += ` AND id NOT IN (?)`
		args = append(args, ids)
	}

	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return errors.Wrap(err, "building uniqueness query")
	}
	query = repo.db.Rebind(query)

	var rows []struct {
		Username string `db:"username"`
		Email    string `db:"email"`
	}
	if err = repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return errors.Wrap(err, "checking uniqueness")
	}
	for _, row := range rows {
		if row.Username == username {
			return user.ErrUsernameExists
		}
		if row.Email == email {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	usr.ID = uuid.New().String()
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO users (id, username, email, role, password_hash, created_at, updated_at)
		VALUES (:id, :username, :email, :role, :password_hash, :created_at, :updated_at)`,
		usr,
	)
	if err != nil {
		switch uniqueConstraint(err) {
		case "users_username_key":
			return user.User{}, user.ErrUsernameExists
		case "users_email_key":
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo *userRepository) QueryUsers(ctx context.Context, ordering ...core.DBOrdering) ([]user.User, error) {
	orderBy := "created_at ASC, id ASC"
	if len(ordering) > 0 {
		switch ordering[0].Field {
		case "username", "email", "created_at":
			orderBy = ordering[0].String()
		}
	}

	users := make([]user.User, 0)
	err := repo.db.SelectContext(ctx, &users, `
		SELECT id, username, email, role, password_hash, created_at, updated_at
		FROM users ORDER BY `+orderBy,
	)
	return users, errors.Wrap(err, "querying users")
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	var usr user.User
	err := repo.db.GetContext(ctx, &usr, `
		SELECT id, username, email, role, password_hash, created_at, updated_at
		FROM users WHERE id = $1`,
		id,
	)
	return usr, trapNoRowsErr(err, user.ErrNotFound)
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var usr user.User
	err := repo.db.GetContext(ctx, &usr, `
		SELECT id, username, email, role, password_hash, created_at, updated_at
		FROM users WHERE email = $1`,
		email,
	)
	return usr, trapNoRowsErr(err, user.ErrNotFound)
}

func (repo *userRepository) SetUserRole(ctx context.Context, id, role string, updatedAt time.Time) (user.User, error) {
	var usr user.User
	err := repo.db.GetContext(ctx, &usr, `
		UPDATE users SET role = $2, updated_at = $3 WHERE id = $1
		RETURNING id, username, email, role, password_hash, created_at, updated_at`,
		id, role, updatedAt,
	)
	return usr, trapNoRowsErr(err, user.ErrNotFound)
}

// DeleteUser relies on ON DELETE CASCADE for the profile tables.
func (repo *userRepository) DeleteUser(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting user")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (repo *userRepository) CreateStudent(ctx context.Context, std user.Student) (user.Student, error) {
	std.ID = uuid.New().String()
	std.User = nil
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO students (id, user_id, program, year, birth_date, created_at, updated_at)
		VALUES (:id, :user_id, :program, :year, :birth_date, :created_at, :updated_at)`,
		std,
	)
	return std, errors.Wrap(err, "inserting student")
}

func (repo *userRepository) QueryStudents(ctx context.Context) ([]user.Student, error) {
	students := make([]user.Student, 0)
	err := repo.db.SelectContext(ctx, &students, `
		SELECT id, user_id, program, year, birth_date, created_at, updated_at
		FROM students ORDER BY created_at ASC, id ASC`,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}

	for i := range students {
		usr, err := repo.GetUserByID(ctx, students[i].UserID)
		if err != nil {
			continue
		}
		students[i].User = &usr
	}
	return students, nil
}

func (repo *userRepository) GetStudentByID(ctx context.Context, id string) (user.Student, error) {
	var std user.Student
	err := repo.db.GetContext(ctx, &std, `
		SELECT id, user_id, program, year, birth_date, created_at, updated_at
		FROM students WHERE id = $1`,
		id,
	)
	return std, trapNoRowsErr(err, user.ErrProfileNotFound)
}

func (repo *userRepository) UpdateStudent(ctx context.Context, std user.Student) (user.Student, error) {
	std.User = nil
	res, err := repo.db.NamedExecContext(ctx, `
		UPDATE students SET program = :program, year = :year, birth_date = :birth_date, updated_at = :updated_at
		WHERE id = :id`,
		std,
	)
	if err != nil {
		return user.Student{}, errors.Wrap(err, "updating student")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return user.Student{}, user.ErrProfileNotFound
	}
	return std, nil
}

func (repo *userRepository) CreateTeacher(ctx context.Context, tch user.Teacher) (user.Teacher, error) {
	tch.ID = uuid.New().String()
	tch.User = nil
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO teachers (id, user_id, specialty, grade, birth_date, created_at, updated_at)
		VALUES (:id, :user_id, :specialty, :grade, :birth_date, :created_at, :updated_at)`,
		tch,
	)
	return tch, errors.Wrap(err, "inserting teacher")
}

func (repo *userRepository) QueryTeachers(ctx context.Context) ([]user.Teacher, error) {
	teachers := make([]user.Teacher, 0)
	err := repo.db.SelectContext(ctx, &teachers, `
		SELECT id, user_id, specialty, grade, birth_date, created_at, updated_at
		FROM teachers ORDER BY created_at ASC, id ASC`,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying teachers")
	}

	for i := range teachers {
		usr, err := repo.GetUserByID(ctx, teachers[i].UserID)
		if err != nil {
			continue
		}
		teachers[i].User = &usr
	}
	return teachers, nil
}

func (repo *userRepository) GetTeacherByID(ctx context.Context, id string) (user.Teacher, error) {
	var tch user.Teacher
	err := repo.db.GetContext(ctx, &tch, `
		SELECT id, user_id, specialty, grade, birth_date, created_at, updated_at
		FROM teachers WHERE id = $1`,
		id,
	)
	return tch, trapNoRowsErr(err, user.ErrProfileNotFound)
}

func (repo *userRepository) UpdateTeacher(ctx context.Context, tch user.Teacher) (user.Teacher, error) {
	tch.User = nil
	res, err := repo.db.NamedExecContext(ctx, `
		UPDATE teachers SET specialty = :specialty, grade = :grade, birth_date = :birth_date, updated_at = :updated_at
		WHERE id = :id`,
		tch,
	)
	if err != nil {
		return user.Teacher{}, errors.Wrap(err, "updating teacher")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return user.Teacher{}, user.ErrProfileNotFound
	}
	return tch, nil
}
