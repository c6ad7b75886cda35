package user

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/darasa-lms/darasa/core"
)

var (
	// errors
	ErrNotFound        = errors.New("user not found")
	ErrProfileNotFound = errors.New("profile not found")
	ErrEmailExists     = errors.New("a user with this email already exists")
	ErrUsernameExists  = errors.New("a user with this username already exists")
	// ErrInvalidCredentials is deliberately the same for an unknown email
	// and a wrong password so accounts cannot be enumerated.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type (
	Repository interface {
		CheckUniqueness(ctx context.Context, username, email string, excludedUsers ...User) error
		CreateUser(ctx context.Context, usr User) (User, error)
		QueryUsers(ctx context.Context, ordering ...core.DBOrdering) ([]User, error)
		GetUserByID(ctx context.Context, id string) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		// SetUserRole is a targeted field update; it never touches other columns.
		SetUserRole(ctx context.Context, id, role string, updatedAt time.Time) (User, error)
		// DeleteUser cascade-deletes any dependent profile record.
		DeleteUser(ctx context.Context, id string) error

		CreateStudent(ctx context.Context, std Student) (Student, error)
		QueryStudents(ctx context.Context) ([]Student, error)
		GetStudentByID(ctx context.Context, id string) (Student, error)
		UpdateStudent(ctx context.Context, std Student) (Student, error)

		CreateTeacher(ctx context.Context, tch Teacher) (Teacher, error)
		QueryTeachers(ctx context.Context) ([]Teacher, error)
		GetTeacherByID(ctx context.Context, id string) (Teacher, error)
		UpdateTeacher(ctx context.Context, tch Teacher) (Teacher, error)
	}

	Service interface {
		CheckUniqueness(username, email string, excludedUsers ...User) error
		Register(ctx context.Context, nu NewUser) (User, error)
		Authenticate(ctx context.Context, email, password string) (User, error)
		Query(ctx context.Context, ordering ...core.DBOrdering) ([]User, error)
		GetByID(ctx context.Context, id string) (User, error)
		GetByEmail(ctx context.Context, email string) (User, error)
		ChangeRole(ctx context.Context, id string, cr ChangeRole) (User, error)
		Delete(ctx context.Context, id string) error

		QueryStudents(ctx context.Context) ([]Student, error)
		UpdateStudentProfile(ctx context.Context, id string, us UpdateStudent) (Student, error)
		DeleteStudent(ctx context.Context, id string) error
		QueryTeachers(ctx context.Context) ([]Teacher, error)
		UpdateTeacherProfile(ctx context.Context, id string, ut UpdateTeacher) (Teacher, error)
		DeleteTeacher(ctx context.Context, id string) error
	}

	service struct {
		repo    Repository
		mailSvc core.EmailService
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, mailSvc core.EmailService) *service {
	return &service{repo: repo, mailSvc: mailSvc}
}

func (svc *service) CheckUniqueness(uname, email string, exclUsers ...User) error {
	if err := svc.repo.CheckUniqueness(context.Background(), uname, email, exclUsers...); err != nil {
		var field string
		switch errors.Cause(err) {
		case ErrUsernameExists:
			field = "username"
		case ErrEmailExists:
			field = "email"
		default:
			return err
		}
		return core.NewConflictError(core.NewValidationError(err, core.FieldError{Field: field, Error: err.Error()}))
	}
	return nil
}

// Register creates the User plus, for learner/instructor roles, the
// matching profile record. The two inserts are not transactional across
// repositories; a failed profile insert triggers compensating deletion of
// the just-created user so no orphaned identity is left behind.
func (svc *service) Register(ctx context.Context, nu NewUser) (User, error) {
	now := time.Now().UTC()
	usr := User{
		Username:  nu.Username,
		Email:     nu.Email,
		Role:      nu.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}

	usr, err := svc.repo.CreateUser(ctx, usr)
	if err != nil {
		return User{}, errors.Wrap(err, "creating user")
	}

	switch usr.Role {
	case RoleStudent:
		std := Student{
			UserID:    usr.ID,
			Program:   nu.Program,
			Year:      nu.Year,
			BirthDate: nu.BirthDate,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err = svc.repo.CreateStudent(ctx, std); err != nil {
			_ = svc.repo.DeleteUser(ctx, usr.ID)
			return User{}, errors.Wrap(err, "creating student profile")
		}
	case RoleTeacher:
		tch := Teacher{
			UserID:    usr.ID,
			Specialty: nu.Specialty,
			Grade:     nu.Grade,
			BirthDate: nu.BirthDate,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err = svc.repo.CreateTeacher(ctx, tch); err != nil {
			_ = svc.repo.DeleteUser(ctx, usr.ID)
			return User{}, errors.Wrap(err, "creating teacher profile")
		}
	}

	svc.sendWelcomeMail(usr)
	return usr, nil
}

func (svc *service) sendWelcomeMail(usr User) {
	if svc.mailSvc == nil {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.Username, Address: usr.Email}},
		Subject: "Welcome!",
		Body:    fmt.Sprintf("Hi %s,\n\nYour account has been created. You can now log in with your email address.", usr.Username),
	})
}

func (svc *service) Authenticate(ctx context.Context, email, password string) (User, error) {
	usr, err := svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return User{}, ErrInvalidCredentials
		}
		return User{}, errors.Wrap(err, "finding user by email")
	}
	if err = usr.CheckPassword(password); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return usr, nil
}

func (svc *service) Query(ctx context.Context, ordering ...core.DBOrdering) ([]User, error) {
	return svc.repo.QueryUsers(ctx, ordering...)
}

func (svc *service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *service) ChangeRole(ctx context.Context, id string, cr ChangeRole) (User, error) {
	return svc.repo.SetUserRole(ctx, id, cr.Role, time.Now().UTC())
}

func (svc *service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteUser(ctx, id)
}

func (svc *service) QueryStudents(ctx context.Context) ([]Student, error) {
	return svc.repo.QueryStudents(ctx)
}

func (svc *service) UpdateStudentProfile(ctx context.Context, id string, us UpdateStudent) (Student, error) {
	std, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		return Student{}, err
	}
	if us.Program != "" {
		std.Program = us.Program
	}
	if us.Year != "" {
		std.Year = us.Year
	}
	if us.BirthDate != nil {
		std.BirthDate = us.BirthDate
	}
	std.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateStudent(ctx, std)
}

// DeleteStudent removes the profile and its owning user; the profile
// delete contract cascades both ways.
func (svc *service) DeleteStudent(ctx context.Context, id string) error {
	std, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		return err
	}
	return svc.repo.DeleteUser(ctx, std.UserID)
}

func (svc *service) QueryTeachers(ctx context.Context) ([]Teacher, error) {
	return svc.repo.QueryTeachers(ctx)
}

func (svc *service) UpdateTeacherProfile(ctx context.Context, id string, ut UpdateTeacher) (Teacher, error) {
	tch, err := svc.repo.GetTeacherByID(ctx, id)
	if err != nil {
		return Teacher{}, err
	}
	if ut.Specialty != "" {
		tch.Specialty = ut.Specialty
	}
	if ut.Grade != "" {
		tch.Grade = ut.Grade
	}
	if ut.BirthDate != nil {
		tch.BirthDate = ut.BirthDate
	}
	tch.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateTeacher(ctx, tch)
}

func (svc *service) DeleteTeacher(ctx context.Context, id string) error {
	tch, err := svc.repo.GetTeacherByID(ctx, id)
	if err != nil {
		return err
	}
	return svc.repo.DeleteUser(ctx, tch.UserID)
}
