package user

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/darasa-lms/darasa/core"
)

// Roles. Access control is flat: a role only ever grants its own
// endpoints, an admin is not implicitly a teacher.
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

var AllRoles = []string{RoleAdmin, RoleTeacher, RoleStudent}

type User struct {
	ID           string    `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	Role         string    `json:"role" db:"role"`
	PasswordHash []byte    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsAdmin() bool   { return u.Role == RoleAdmin }
func (u *User) IsTeacher() bool { return u.Role == RoleTeacher }
func (u *User) IsStudent() bool { return u.Role == RoleStudent }

// Student is the learner profile record attached 1:1 to a User.
type Student struct {
	ID        string     `json:"id" db:"id"`
	UserID    string     `json:"user_id" db:"user_id"`
	Program   string     `json:"program" db:"program"`
	Year      string     `json:"year" db:"year"`
	BirthDate *time.Time `json:"birth_date,omitempty" db:"birth_date"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`

	User *User `json:"user,omitempty" db:"-"`
}

// Teacher is the instructor profile record attached 1:1 to a User.
type Teacher struct {
	ID        string     `json:"id" db:"id"`
	UserID    string     `json:"user_id" db:"user_id"`
	Specialty string     `json:"specialty" db:"specialty"`
	Grade     string     `json:"grade" db:"grade"`
	BirthDate *time.Time `json:"birth_date,omitempty" db:"birth_date"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`

	User *User `json:"user,omitempty" db:"-"`
}

// NewUser contains information needed to register a new User and its
// role-specific profile.
type NewUser struct {
	Username string `json:"username" validate:"required,min=3,alphanum_"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,role"`

	// student profile
	Program string `json:"program"`
	Year    string `json:"year"`

	// teacher profile
	Specialty string `json:"specialty"`
	Grade     string `json:"grade"`

	BirthDate *time.Time `json:"birth_date"`
}

func (nu *NewUser) Validate(validate *validator.Validate, svc Service) error {
	nu.Username = core.CleanString(nu.Username, true /* lower */)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Role = core.CleanString(nu.Role, true /* lower */)

	if err := validate.Struct(nu); err != nil {
		return err
	}
	return svc.CheckUniqueness(nu.Username, nu.Email)
}

// UpdateStudent defines what may be modified on a Student profile.
type UpdateStudent struct {
	Program   string     `json:"program"`
	Year      string     `json:"year"`
	BirthDate *time.Time `json:"birth_date"`
}

func (us *UpdateStudent) Validate(validate *validator.Validate) error {
	us.Program = core.CleanString(us.Program)
	us.Year = core.CleanString(us.Year)
	return validate.Struct(us)
}

// UpdateTeacher defines what may be modified on a Teacher profile.
type UpdateTeacher struct {
	Specialty string     `json:"specialty"`
	Grade     string     `json:"grade"`
	BirthDate *time.Time `json:"birth_date"`
}

func (ut *UpdateTeacher) Validate(validate *validator.Validate) error {
	ut.Specialty = core.CleanString(ut.Specialty)
	ut.Grade = core.CleanString(ut.Grade)
	return validate.Struct(ut)
}

// ChangeRole is the administrative role-change input.
type ChangeRole struct {
	Role string `json:"role" validate:"required,role"`
}

func (cr *ChangeRole) Validate(validate *validator.Validate) error {
	cr.Role = core.CleanString(cr.Role, true /* lower */)
	return validate.Struct(cr)
}
