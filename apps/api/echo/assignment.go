package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasa-lms/darasa/core/activity"
	"github.com/darasa-lms/darasa/core/assignment"
	"github.com/darasa-lms/darasa/core/user"
)

type assignmentApi struct {
	svc         assignment.Service
	activitySvc activity.Service
	validate    *validator.Validate
}

func registerAssignmentAPI(
	g *echo.Group,
	authn echo.MiddlewareFunc,
	svc assignment.Service,
	activitySvc activity.Service,
	validate *validator.Validate,
) {
	api := assignmentApi{
		svc:         svc,
		activitySvc: activitySvc,
		validate:    validate,
	}

	teacherOnly := roleMiddleware(user.RoleTeacher)

	ag := g.Group("/assignments", authn)
	ag.POST("", api.create, teacherOnly)
	ag.GET("", api.query)
	ag.GET("/:id", api.retrieve)
	ag.PATCH("/:id", api.update, teacherOnly)
	ag.DELETE("/:id", api.destroy, teacherOnly)
	ag.POST("/:id/submissions", api.addSubmission, roleMiddleware(user.RoleStudent))
	ag.POST("/:id/submissions/:subID/grade", api.grade, teacherOnly)

	g.GET("/courses/:courseID/assignments/stats", api.courseStats, authn)
}

// Handlers

func (api *assignmentApi) create(ctx echo.Context) error {
	var data assignment.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	asg, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating assignment")
	}
	return ctx.JSON(http.StatusCreated, asg)
}

func (api *assignmentApi) query(ctx echo.Context) error {
	ordering := new(Ordering)
	ordering.Bind(ctx)

	assignments, err := api.svc.Query(ctx.Request().Context(), ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying assignments")
	}
	if assignments == nil {
		assignments = []assignment.Assignment{}
	}
	return ctx.JSON(http.StatusOK, assignments)
}

func (api *assignmentApi) retrieve(ctx echo.Context) error {
	asg, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding assignment by ID")
	}
	return ctx.JSON(http.StatusOK, asg)
}

func (api *assignmentApi) update(ctx echo.Context) error {
	var data assignment.UpdateAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAssignment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	asg, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating assignment")
	}
	return ctx.JSON(http.StatusOK, asg)
}

func (api *assignmentApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *assignmentApi) addSubmission(ctx echo.Context) error {
	var data assignment.NewSubmission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubmission")
	}

	// default to the authenticated student
	if data.StudentID == "" {
		claims, err := getContextClaims(ctx)
		if err != nil {
			return err
		}
		data.StudentID = claims.Subject
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sub, err := api.svc.AddSubmission(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "adding submission")
	}

	api.recordSubmission(ctx, sub)
	return ctx.JSON(http.StatusCreated, sub)
}

func (api *assignmentApi) grade(ctx echo.Context) error {
	var data assignment.GradeSubmission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GradeSubmission")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sub, err := api.svc.Grade(ctx.Request().Context(), ctx.Param("id"), ctx.Param("subID"), data)
	if err != nil {
		return errors.Wrap(err, "grading submission")
	}
	return ctx.JSON(http.StatusOK, sub)
}

func (api *assignmentApi) courseStats(ctx echo.Context) error {
	stats, err := api.svc.CourseStats(ctx.Request().Context(), ctx.Param("courseID"))
	if err != nil {
		return errors.Wrap(err, "querying course stats")
	}
	if stats == nil {
		stats = []assignment.Stats{}
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *assignmentApi) recordSubmission(ctx echo.Context, sub assignment.Submission) {
	if api.activitySvc == nil {
		return
	}
	nl := activity.NewLog{
		UserID: sub.StudentID,
		Action: activity.ActionAssignmentSubmit,
		Metadata: activity.Metadata{
			"assignment_id": sub.AssignmentID,
			"submission_id": sub.ID,
		},
	}
	if _, err := api.activitySvc.Record(ctx.Request().Context(), nl, ctx.RealIP(), ctx.Request().UserAgent()); err != nil {
		ctx.Logger().Errorf("%+v", errors.Wrap(err, "recording submission activity"))
	}
}
