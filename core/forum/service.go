package forum

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/darasa-lms/darasa/core"
)

var (
	// errors
	ErrNotFound     = errors.New("forum not found")
	ErrPostNotFound = errors.New("post not found")
)

type (
	Repository interface {
		CreateForum(ctx context.Context, frm Forum) (Forum, error)
		QueryForums(ctx context.Context, ordering ...core.DBOrdering) ([]Forum, error)
		GetForumByID(ctx context.Context, id string) (Forum, error)
		DeleteForum(ctx context.Context, id string) error

		// AppendPost and AppendReply are atomic appends; implementations must
		// not read-modify-write the whole aggregate.
		AppendPost(ctx context.Context, post Post) (Post, error)
		AppendReply(ctx context.Context, forumID string, rep Reply) (Reply, error)

		QueryCourseStats(ctx context.Context, courseID string) ([]Stats, error)
	}

	Service interface {
		Create(ctx context.Context, nf NewForum) (Forum, error)
		Query(ctx context.Context, ordering ...core.DBOrdering) ([]Forum, error)
		GetByID(ctx context.Context, id string) (Forum, error)
		Delete(ctx context.Context, id string) error
		AddPost(ctx context.Context, forumID string, np NewPost) (Post, error)
		AddReply(ctx context.Context, forumID, postID string, nr NewReply) (Reply, error)
		CourseStats(ctx context.Context, courseID string) ([]Stats, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) *service {
	return &service{repo: repo}
}

func (svc *service) Create(ctx context.Context, nf NewForum) (Forum, error) {
	frm := Forum{
		CourseID:    nf.CourseID,
		Title:       nf.Title,
		Description: nf.Description,
		CreatedAt:   time.Now().UTC(),
	}
	return svc.repo.CreateForum(ctx, frm)
}

func (svc *service) Query(ctx context.Context, ordering ...core.DBOrdering) ([]Forum, error) {
	return svc.repo.QueryForums(ctx, ordering...)
}

func (svc *service) GetByID(ctx context.Context, id string) (Forum, error) {
	return svc.repo.GetForumByID(ctx, id)
}

func (svc *service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteForum(ctx, id)
}

func (svc *service) AddPost(ctx context.Context, forumID string, np NewPost) (Post, error) {
	frm, err := svc.repo.GetForumByID(ctx, forumID)
	if err != nil {
		return Post{}, err
	}
	post := Post{
		ForumID:   frm.ID,
		AuthorID:  np.AuthorID,
		Content:   np.Content,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.AppendPost(ctx, post)
}

func (svc *service) AddReply(ctx context.Context, forumID, postID string, nr NewReply) (Reply, error) {
	rep := Reply{
		PostID:    postID,
		AuthorID:  nr.AuthorID,
		Content:   nr.Content,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.AppendReply(ctx, forumID, rep)
}

func (svc *service) CourseStats(ctx context.Context, courseID string) ([]Stats, error) {
	return svc.repo.QueryCourseStats(ctx, courseID)
}
