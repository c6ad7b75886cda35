package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasa-lms/darasa/core"
	"github.com/darasa-lms/darasa/core/activity"
	"github.com/darasa-lms/darasa/core/user"
)

type userApi struct {
	conf        *core.Config
	svc         user.Service
	activitySvc activity.Service
	validate    *validator.Validate
}

func registerUserAPI(
	g *echo.Group,
	authn echo.MiddlewareFunc,
	conf *core.Config,
	svc user.Service,
	activitySvc activity.Service,
	validate *validator.Validate,
) {
	api := userApi{
		conf:        conf,
		svc:         svc,
		activitySvc: activitySvc,
		validate:    validate,
	}

	// un-authed endpoints
	// TODO: rate limit `/login`
	ag := g.Group("/auth")
	ag.POST("/login", api.login)
	ag.POST("/register", api.register)

	adminOnly := roleMiddleware(user.RoleAdmin)

	ug := g.Group("/users", authn, adminOnly)
	ug.GET("", api.query)
	ug.GET("/:id", api.retrieve)
	ug.PATCH("/:id/role", api.changeRole)
	ug.DELETE("/:id", api.destroy)

	sg := g.Group("/students", authn, adminOnly)
	sg.POST("/register", api.registerStudent)
	sg.GET("", api.queryStudents)
	sg.PUT("/:id", api.updateStudent)
	sg.DELETE("/:id", api.destroyStudent)

	tg := g.Group("/teachers", authn, adminOnly)
	tg.POST("/register", api.registerTeacher)
	tg.GET("", api.queryTeachers)
	tg.PUT("/:id", api.updateTeacher)
	tg.DELETE("/:id", api.destroyTeacher)
}

// Handlers

func (api *userApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.svc.Authenticate(ctx.Request().Context(), data.Email, data.Password)
	if err != nil {
		return errors.Wrap(err, "authenticating")
	}
	token, err := GenerateToken(api.conf, GetUserClaims(api.conf, usr))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	api.recordLogin(ctx, usr)
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, User: usr})
}

func (api *userApi) register(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(api.validate, api.svc); err != nil {
		return err
	}

	usr, err := api.svc.Register(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering user")
	}

	// a fresh registrant is logged in right away
	token, err := GenerateToken(api.conf, GetUserClaims(api.conf, usr))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusCreated, LoginResponse{Token: token, User: usr})
}

func (api *userApi) registerStudent(ctx echo.Context) error {
	return api.registerWithRole(ctx, user.RoleStudent)
}

func (api *userApi) registerTeacher(ctx echo.Context) error {
	return api.registerWithRole(ctx, user.RoleTeacher)
}

func (api *userApi) registerWithRole(ctx echo.Context, role string) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	data.Role = role
	if err := data.Validate(api.validate, api.svc); err != nil {
		return err
	}

	usr, err := api.svc.Register(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering user")
	}
	return ctx.JSON(http.StatusCreated, usr)
}

func (api *userApi) query(ctx echo.Context) error {
	ordering := new(Ordering)
	ordering.Bind(ctx)

	users, err := api.svc.Query(ctx.Request().Context(), ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	if users == nil {
		users = []user.User{}
	}
	return ctx.JSON(http.StatusOK, users)
}

func (api *userApi) retrieve(ctx echo.Context) error {
	usr, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding user by ID")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userApi) changeRole(ctx echo.Context) error {
	var data user.ChangeRole
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ChangeRole")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.svc.ChangeRole(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "changing role")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userApi) destroy(ctx echo.Context) error {
	// Say No to Suicide! ctxUser cannot delete themselves
	ctxUser, err := getContextUser(ctx, api.svc)
	if err != nil {
		return err
	}
	if ctxUser.ID == ctx.Param("id") {
		return errHttpForbidden
	}

	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting user")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *userApi) queryStudents(ctx echo.Context) error {
	students, err := api.svc.QueryStudents(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	if students == nil {
		students = []user.Student{}
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *userApi) updateStudent(ctx echo.Context) error {
	var data user.UpdateStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	std, err := api.svc.UpdateStudentProfile(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, std)
}

func (api *userApi) destroyStudent(ctx echo.Context) error {
	if err := api.svc.DeleteStudent(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *userApi) queryTeachers(ctx echo.Context) error {
	teachers, err := api.svc.QueryTeachers(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying teachers")
	}
	if teachers == nil {
		teachers = []user.Teacher{}
	}
	return ctx.JSON(http.StatusOK, teachers)
}

func (api *userApi) updateTeacher(ctx echo.Context) error {
	var data user.UpdateTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTeacher")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	tch, err := api.svc.UpdateTeacherProfile(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating teacher")
	}
	return ctx.JSON(http.StatusOK, tch)
}

func (api *userApi) destroyTeacher(ctx echo.Context) error {
	if err := api.svc.DeleteTeacher(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting teacher")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *userApi) recordLogin(ctx echo.Context, usr user.User) {
	if api.activitySvc == nil {
		return
	}
	nl := activity.NewLog{UserID: usr.ID, Action: activity.ActionLogin}
	if _, err := api.activitySvc.Record(ctx.Request().Context(), nl, ctx.RealIP(), ctx.Request().UserAgent()); err != nil {
		ctx.Logger().Errorf("%+v", errors.Wrap(err, "recording login activity"))
	}
}

type (
	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string    `json:"token"`
		User  user.User `json:"user"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return validate.Struct(lr)
}
