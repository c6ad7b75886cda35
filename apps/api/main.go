package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/darasa-lms/darasa/apps/api/echo"
	"github.com/darasa-lms/darasa/core"
	"github.com/darasa-lms/darasa/core/activity"
	"github.com/darasa-lms/darasa/core/assignment"
	"github.com/darasa-lms/darasa/core/file"
	"github.com/darasa-lms/darasa/core/forum"
	"github.com/darasa-lms/darasa/core/user"
	emailsvc "github.com/darasa-lms/darasa/services/email"
	logsvc "github.com/darasa-lms/darasa/services/logger"
	"github.com/darasa-lms/darasa/storage/database"
	"github.com/darasa-lms/darasa/storage/database/sqlxrepos"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf, err := core.NewConfig()
	if err != nil {
		log.Fatalf("%+v", err)
	}

	// set up loggers
	var logger core.Logger
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	if conf.Debug {
		logger = core.NewStdLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, conf)
	}
	logger.Enable(!conf.Debug)

	// set up DB
	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error("failed to close DB", err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db), mailSvc)
	asgSvc := assignment.NewService(sqlxrepos.NewAssignmentRepository(db), logger)
	forumSvc := forum.NewService(sqlxrepos.NewForumRepository(db))
	fileSvc := file.NewService(sqlxrepos.NewFileRepository(db))
	activitySvc := activity.NewService(sqlxrepos.NewActivityRepository(db))

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate, translator := core.NewValidator()
	user.RegisterValidators(validate, translator)
	activity.RegisterValidators(validate, translator)

	// =========================================================================
	// Start API Service

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	server := echoapi.NewServer(&echoapi.Options{
		Address:       fmt.Sprintf(":%d", conf.Server.Port),
		Conf:          conf,
		Logger:        logger,
		UserSvc:       usrSvc,
		AssignmentSvc: asgSvc,
		ForumSvc:      forumSvc,
		FileSvc:       fileSvc,
		ActivitySvc:   activitySvc,
		Validate:      validate,
		Translator:    translator,
		SignalShutdown: func() {
			shutdown <- syscall.SIGTERM
		},
	})

	go server.Start()

	// run the late-submission sweeper until shutdown
	sweepCtx, cancelSweep := context.WithCancel(context.Background())
	defer cancelSweep()
	go runSweeper(sweepCtx, asgSvc, conf.Server.SweepInterval, logger)

	// =========================================================================
	// Shutdown

	sig := <-shutdown
	logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))
	cancelSweep()

	// give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err = server.Stop(ctx); err != nil {
		logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
	}
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db, "migrations"); err != nil {
		return nil, err
	}
	return db, nil
}

func runSweeper(ctx context.Context, svc assignment.Service, interval time.Duration, logger core.Logger) {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := svc.SweepLateSubmissions(ctx)
			if err != nil {
				logger.Error(fmt.Sprintf("sweeping late submissions: %v", err), err)
				continue
			}
			if count > 0 {
				echoapi.LateTransitionsTotal.Add(float64(count))
			}
		}
	}
}
