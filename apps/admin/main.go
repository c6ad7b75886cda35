package main

import (
	"log"
	"os"

	"github.com/darasa-lms/darasa/core"
	"github.com/darasa-lms/darasa/core/assignment"
	"github.com/darasa-lms/darasa/core/user"
	emailsvc "github.com/darasa-lms/darasa/services/email"
	"github.com/darasa-lms/darasa/storage/database"
	"github.com/darasa-lms/darasa/storage/database/sqlxrepos"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.NewConfig()
	errAndDie(err)

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(db.Ping())

	validate, translator := core.NewValidator()
	user.RegisterValidators(validate, translator)

	// start CLI
	cli := commandLine{
		db:       db,
		conf:     conf,
		validate: validate,
		usrSvc:   user.NewService(sqlxrepos.NewUserRepository(db), emailsvc.NewConsoleServiceMock(conf)),
		asgSvc:   assignment.NewService(sqlxrepos.NewAssignmentRepository(db), core.NewStdLogger(logger)),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
