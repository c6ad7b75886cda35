package main

import (
	"context"
	"testing"
	"time"

	"github.com/darasa-lms/darasa/core"
	"github.com/darasa-lms/darasa/core/assignment"
	"github.com/darasa-lms/darasa/core/user"
	emailsvc "github.com/darasa-lms/darasa/services/email"
	inmemdb "github.com/darasa-lms/darasa/storage/database/inmem"
	testutil "github.com/darasa-lms/darasa/tests"
)

var (
	usrRepo user.Repository
	asgRepo assignment.Repository
)

func setup(t *testing.T) *commandLine {
	t.Helper()

	conf := &core.Config{TestMode: true, Env: "TEST", AppName: "Darasa", SecretKey: "test-secret-key"}

	db := inmemdb.NewDB()
	usrRepo = inmemdb.NewUserRepository(db)
	asgRepo = inmemdb.NewAssignmentRepository(db)

	validate, translator := core.NewValidator()
	user.RegisterValidators(validate, translator)

	return &commandLine{
		conf:     conf,
		validate: validate,
		usrSvc:   user.NewService(usrRepo, emailsvc.NewConsoleServiceMock(conf)),
		asgSvc:   assignment.NewService(asgRepo, nil),
	}
}

type cliTest struct {
	name    string
	args    []string // without program name
	pwd     string
	wantErr error
	anyErr  bool
}

func Test_commandLine_addUser(t *testing.T) {
	cli := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"adduser"}, wantErr: errHelp},
		{name: "username but no email", args: []string{"adduser", "-username", "root"}, wantErr: errHelp},
		{name: "empty password", args: []string{"adduser", "-username", "root", "-email", "root@test.cd"}, wantErr: errHelp},
		{
			name: "weak password", args: []string{"adduser", "-username", "root", "-email", "root@test.cd"},
			pwd: "12345678", anyErr: true,
		},
		{
			name: "unknown role", args: []string{"adduser", "-username", "root", "-email", "root@test.cd", "-role", "boss"},
			pwd: "LocalHero13!", anyErr: true,
		},
		{
			name: "user added", args: []string{"adduser", "-username", "root", "-email", "root@test.cd"},
			pwd: "LocalHero13!",
		},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			return []byte(tt.pwd), nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			switch {
			case tt.wantErr != nil:
				if err != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
			case tt.anyErr:
				if err == nil {
					t.Error("cli.run() expected an error")
				}
			default:
				if err != nil {
					t.Fatalf("cli.run() unexpected error = %v", err)
				}
				usr, err := usrRepo.GetUserByEmail(context.Background(), "root@test.cd")
				if err != nil {
					t.Fatalf("GetUserByEmail(): %v", err)
				}
				if usr.Role != user.RoleAdmin {
					t.Errorf("role = %v; want %v", usr.Role, user.RoleAdmin)
				}
				if err := usr.CheckPassword("LocalHero13!"); err != nil {
					t.Errorf("CheckPassword(): %v", err)
				}
			}
		})
	}
}

func Test_commandLine_sweepLate(t *testing.T) {
	cli := setup(t)

	asg := testutil.CreateAssignment(t, asgRepo, "go-101", "hw1", time.Now().Add(-time.Hour), 100)
	testutil.CreateSubmission(t, asgRepo, asg, "std1", assignment.StatusPending)

	if err := cli.run([]string{"admin", "sweeplate"}); err != nil {
		t.Fatalf("cli.run() unexpected error = %v", err)
	}

	refreshed, err := asgRepo.GetAssignmentByID(context.Background(), asg.ID)
	if err != nil {
		t.Fatalf("GetAssignmentByID(): %v", err)
	}
	if len(refreshed.Submissions) != 1 || refreshed.Submissions[0].Status != assignment.StatusLate {
		t.Errorf("failed! submissions = %+v", refreshed.Submissions)
	}

	// re-running is a no-op
	if err := cli.run([]string{"admin", "sweeplate"}); err != nil {
		t.Fatalf("cli.run() unexpected error = %v", err)
	}
}
