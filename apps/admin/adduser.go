package main

import (
	"context"

	"github.com/darasa-lms/darasa/core/user"
)

// addUser registers a new user with the given role.
func (cli *commandLine) addUser(uname, email, pwd, role string) error {
	nu := user.NewUser{
		Username: uname,
		Email:    email,
		Password: pwd,
		Role:     role,
	}
	if err := nu.Validate(cli.validate, cli.usrSvc); err != nil {
		return err
	}
	_, err := cli.usrSvc.Register(context.Background(), nu)
	return err
}
