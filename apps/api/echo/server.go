package echoapi

import (
	"context"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/darasa-lms/darasa/core"
	"github.com/darasa-lms/darasa/core/activity"
	"github.com/darasa-lms/darasa/core/assignment"
	"github.com/darasa-lms/darasa/core/file"
	"github.com/darasa-lms/darasa/core/forum"
	"github.com/darasa-lms/darasa/core/user"
)

type (
	Options struct {
		Address        string
		Conf           *core.Config
		Logger         core.Logger
		DisableReqLogs bool

		UserSvc       user.Service
		AssignmentSvc assignment.Service
		ForumSvc      forum.Service
		FileSvc       file.Service
		ActivitySvc   activity.Service

		Validate   *validator.Validate
		Translator ut.Translator

		// SignalShutdown is called when an unrecoverable error is caught;
		// the owning process is expected to stop the server.
		SignalShutdown func()
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	s.app.Use(metricsMiddleware())
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.opts.Translator, s.opts.SignalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)
	s.app.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := s.app.Group("/v1")
	authn := authnMiddleware(conf)

	registerUserAPI(v1, authn, conf, s.opts.UserSvc, s.opts.ActivitySvc, s.opts.Validate)
	registerAssignmentAPI(v1, authn, s.opts.AssignmentSvc, s.opts.ActivitySvc, s.opts.Validate)
	registerForumAPI(v1, authn, s.opts.ForumSvc, s.opts.ActivitySvc, s.opts.Validate)
	registerFileAPI(v1, authn, s.opts.FileSvc, s.opts.Validate)
	registerActivityAPI(v1, authn, s.opts.ActivitySvc, s.opts.Validate)
}

func (s *server) Start() {
	s.app.Logger.Fatal(s.app.Start(s.opts.Address))
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Darasa API!")
}
