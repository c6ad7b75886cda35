package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasa-lms/darasa/core/activity"
	"github.com/darasa-lms/darasa/core/forum"
	"github.com/darasa-lms/darasa/core/user"
)

type forumApi struct {
	svc         forum.Service
	activitySvc activity.Service
	validate    *validator.Validate
}

func registerForumAPI(
	g *echo.Group,
	authn echo.MiddlewareFunc,
	svc forum.Service,
	activitySvc activity.Service,
	validate *validator.Validate,
) {
	api := forumApi{
		svc:         svc,
		activitySvc: activitySvc,
		validate:    validate,
	}

	fg := g.Group("/forums", authn)
	fg.POST("", api.create, roleMiddleware(user.RoleTeacher))
	fg.GET("", api.query)
	fg.GET("/:id", api.retrieve)
	fg.DELETE("/:id", api.destroy, roleMiddleware(user.RoleTeacher, user.RoleAdmin))
	fg.POST("/:id/posts", api.addPost)
	fg.POST("/:id/posts/:postID/replies", api.addReply)

	g.GET("/courses/:courseID/forums/stats", api.courseStats, authn)
}

// Handlers

func (api *forumApi) create(ctx echo.Context) error {
	var data forum.NewForum
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewForum")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	frm, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating forum")
	}
	return ctx.JSON(http.StatusCreated, frm)
}

func (api *forumApi) query(ctx echo.Context) error {
	ordering := new(Ordering)
	ordering.Bind(ctx)

	forums, err := api.svc.Query(ctx.Request().Context(), ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying forums")
	}
	if forums == nil {
		forums = []forum.Forum{}
	}
	return ctx.JSON(http.StatusOK, forums)
}

func (api *forumApi) retrieve(ctx echo.Context) error {
	frm, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding forum by ID")
	}
	return ctx.JSON(http.StatusOK, frm)
}

func (api *forumApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting forum")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *forumApi) addPost(ctx echo.Context) error {
	var data forum.NewPost
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPost")
	}

	// default to the authenticated user
	if data.AuthorID == "" {
		claims, err := getContextClaims(ctx)
		if err != nil {
			return err
		}
		data.AuthorID = claims.Subject
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	post, err := api.svc.AddPost(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "adding post")
	}

	api.recordPost(ctx, post)
	return ctx.JSON(http.StatusCreated, post)
}

func (api *forumApi) addReply(ctx echo.Context) error {
	var data forum.NewReply
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewReply")
	}

	if data.AuthorID == "" {
		claims, err := getContextClaims(ctx)
		if err != nil {
			return err
		}
		data.AuthorID = claims.Subject
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	rep, err := api.svc.AddReply(ctx.Request().Context(), ctx.Param("id"), ctx.Param("postID"), data)
	if err != nil {
		return errors.Wrap(err, "adding reply")
	}
	return ctx.JSON(http.StatusCreated, rep)
}

func (api *forumApi) courseStats(ctx echo.Context) error {
	stats, err := api.svc.CourseStats(ctx.Request().Context(), ctx.Param("courseID"))
	if err != nil {
		return errors.Wrap(err, "querying course stats")
	}
	if stats == nil {
		stats = []forum.Stats{}
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *forumApi) recordPost(ctx echo.Context, post forum.Post) {
	if api.activitySvc == nil {
		return
	}
	nl := activity.NewLog{
		UserID: post.AuthorID,
		Action: activity.ActionForumPost,
		Metadata: activity.Metadata{
			"forum_id": post.ForumID,
			"post_id":  post.ID,
		},
	}
	if _, err := api.activitySvc.Record(ctx.Request().Context(), nl, ctx.RealIP(), ctx.Request().UserAgent()); err != nil {
		ctx.Logger().Errorf("%+v", errors.Wrap(err, "recording post activity"))
	}
}
