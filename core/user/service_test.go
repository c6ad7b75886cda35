package user_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darasa-lms/darasa/core"
	"github.com/darasa-lms/darasa/core/user"
	inmemdb "github.com/darasa-lms/darasa/storage/database/inmem"
	testutil "github.com/darasa-lms/darasa/tests"
)

func TestService_CheckUniqueness(t *testing.T) {
	repo := inmemdb.NewUserRepository(inmemdb.NewDB())
	svc := user.NewService(repo, nil)

	existing := testutil.CreateUser(t, repo, "awa", "awa@darasa.cd", "", user.RoleStudent)

	tests := []struct {
		name        string
		uname       string
		email       string
		exclUsers   []user.User
		wantErr     error
		wantErrConf bool
	}{
		{name: "both unique", uname: "zeina", email: "zeina@darasa.cd"},
		{name: "duplicate username", uname: "awa", email: "zeina@darasa.cd", wantErr: user.ErrUsernameExists, wantErrConf: true},
		{name: "duplicate email", uname: "zeina", email: "awa@darasa.cd", wantErr: user.ErrEmailExists, wantErrConf: true},
		{name: "self excluded", uname: "awa", email: "awa@darasa.cd", exclUsers: []user.User{existing}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.CheckUniqueness(tt.uname, tt.email, tt.exclUsers...)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, core.IsConflict(err))
			assert.Contains(t, err.Error(), tt.wantErr.Error())
		})
	}
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()
	repo := inmemdb.NewUserRepository(inmemdb.NewDB())
	svc := user.NewService(repo, nil)

	usr, err := svc.Register(ctx, user.NewUser{
		Username: "awa",
		Email:    "awa@darasa.cd",
		Password: "LocalHero13!",
		Role:     user.RoleStudent,
		Program:  "informatique",
		Year:     "L2",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, usr.ID)
	assert.NoError(t, usr.CheckPassword("LocalHero13!"))

	// the student profile was created alongside
	students, err := svc.QueryStudents(ctx)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, usr.ID, students[0].UserID)
	assert.Equal(t, "informatique", students[0].Program)

	// admins get no profile record
	_, err = svc.Register(ctx, user.NewUser{
		Username: "root",
		Email:    "root@darasa.cd",
		Password: "LocalHero13!",
		Role:     user.RoleAdmin,
	})
	require.NoError(t, err)
	students, err = svc.QueryStudents(ctx)
	require.NoError(t, err)
	assert.Len(t, students, 1)
}

// failingProfileRepo simulates a profile insert failure after the user
// insert succeeded.
type failingProfileRepo struct {
	user.Repository
}

func (repo failingProfileRepo) CreateStudent(context.Context, user.Student) (user.Student, error) {
	return user.Student{}, errors.New("storage exploded")
}

func TestService_Register_profileFailureCompensates(t *testing.T) {
	ctx := context.Background()
	repo := inmemdb.NewUserRepository(inmemdb.NewDB())
	svc := user.NewService(failingProfileRepo{repo}, nil)

	_, err := svc.Register(ctx, user.NewUser{
		Username: "awa",
		Email:    "awa@darasa.cd",
		Password: "LocalHero13!",
		Role:     user.RoleStudent,
		Program:  "informatique",
		Year:     "L2",
	})
	require.Error(t, err)

	// the half-created user must be gone
	users, err := repo.QueryUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestService_Authenticate(t *testing.T) {
	ctx := context.Background()
	repo := inmemdb.NewUserRepository(inmemdb.NewDB())
	svc := user.NewService(repo, nil)

	testutil.CreateUser(t, repo, "awa", "awa@darasa.cd", "LocalHero13!", user.RoleStudent)

	usr, err := svc.Authenticate(ctx, "awa@darasa.cd", "LocalHero13!")
	require.NoError(t, err)
	assert.Equal(t, "awa", usr.Username)

	// email lookup is case-insensitive
	_, err = svc.Authenticate(ctx, "AWA@darasa.CD", "LocalHero13!")
	assert.NoError(t, err)

	// unknown email and wrong password are indistinguishable
	_, unknownErr := svc.Authenticate(ctx, "nobody@darasa.cd", "LocalHero13!")
	_, wrongPwdErr := svc.Authenticate(ctx, "awa@darasa.cd", "nope")
	assert.Equal(t, user.ErrInvalidCredentials, unknownErr)
	assert.Equal(t, user.ErrInvalidCredentials, wrongPwdErr)
	assert.Equal(t, unknownErr.Error(), wrongPwdErr.Error())
}

func TestService_ChangeRole(t *testing.T) {
	ctx := context.Background()
	repo := inmemdb.NewUserRepository(inmemdb.NewDB())
	svc := user.NewService(repo, nil)

	usr := testutil.CreateUser(t, repo, "awa", "awa@darasa.cd", "", user.RoleStudent)

	updated, err := svc.ChangeRole(ctx, usr.ID, user.ChangeRole{Role: user.RoleTeacher})
	require.NoError(t, err)
	assert.Equal(t, user.RoleTeacher, updated.Role)
	assert.Equal(t, usr.Username, updated.Username)
	assert.True(t, updated.UpdatedAt.After(usr.UpdatedAt) || updated.UpdatedAt.Equal(usr.UpdatedAt))

	_, err = svc.ChangeRole(ctx, "nope", user.ChangeRole{Role: user.RoleAdmin})
	assert.Equal(t, user.ErrNotFound, errors.Cause(err))
}

func TestService_DeleteStudent_cascades(t *testing.T) {
	ctx := context.Background()
	repo := inmemdb.NewUserRepository(inmemdb.NewDB())
	svc := user.NewService(repo, nil)

	usr := testutil.CreateUser(t, repo, "awa", "awa@darasa.cd", "", user.RoleStudent)
	std := testutil.CreateStudentProfile(t, repo, usr, "informatique", "L2")

	require.NoError(t, svc.DeleteStudent(ctx, std.ID))

	_, err := svc.GetByID(ctx, usr.ID)
	assert.Equal(t, user.ErrNotFound, errors.Cause(err))
	students, err := svc.QueryStudents(ctx)
	require.NoError(t, err)
	assert.Empty(t, students)
}

func TestService_Delete_cascadesToProfile(t *testing.T) {
	ctx := context.Background()
	repo := inmemdb.NewUserRepository(inmemdb.NewDB())
	svc := user.NewService(repo, nil)

	usr := testutil.CreateUser(t, repo, "mk", "mk@darasa.cd", "", user.RoleTeacher)
	testutil.CreateTeacherProfile(t, repo, usr, "mathematics", "senior")

	require.NoError(t, svc.Delete(ctx, usr.ID))

	teachers, err := svc.QueryTeachers(ctx)
	require.NoError(t, err)
	assert.Empty(t, teachers)
}
