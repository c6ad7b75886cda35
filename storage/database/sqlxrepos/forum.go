package sqlxrepos

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/darasa-lms/darasa/core"
	"github.com/darasa-lms/darasa/core/forum"
)

type forumRepository struct {
	db *sqlx.DB
}

var _ forum.Repository = (*forumRepository)(nil)

func NewForumRepository(db *sqlx.DB) *forumRepository {
	return &forumRepository{db: db}
}

func (repo *forumRepository) CreateForum(ctx context.Context, frm forum.Forum) (forum.Forum, error) {
	frm.ID = uuid.New().String()
	frm.Posts = nil
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO forums (id, course_id, title, description, created_at)
		VALUES (:id, :course_id, :title, :description, :created_at)`,
		frm,
	)
	if err != nil {
		return forum.Forum{}, errors.Wrap(err, "inserting forum")
	}
	frm.Posts = []forum.Post{}
	return frm, nil
}

func (repo *forumRepository) QueryForums(ctx context.Context, ordering ...core.DBOrdering) ([]forum.Forum, error) {
	orderBy := "created_at ASC, id ASC"
	if len(ordering) > 0 {
		switch ordering[0].Field {
		case "title", "created_at":
			orderBy = ordering[0].String()
		}
	}

	forums := make([]forum.Forum, 0)
	err := repo.db.SelectContext(ctx, &forums, `
		SELECT id, course_id, title, description, created_at FROM forums ORDER BY `+orderBy,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying forums")
	}

	for i := range forums {
		posts, err := repo.loadPosts(ctx, forums[i].ID)
		if err != nil {
			return nil, err
		}
		forums[i].Posts = posts
	}
	return forums, nil
}

func (repo *forumRepository) GetForumByID(ctx context.Context, id string) (forum.Forum, error) {
	var frm forum.Forum
	err := repo.db.GetContext(ctx, &frm, `
		SELECT id, course_id, title, description, created_at FROM forums WHERE id = $1`,
		id,
	)
	if err != nil {
		return forum.Forum{}, trapNoRowsErr(err, forum.ErrNotFound)
	}

	frm.Posts, err = repo.loadPosts(ctx, frm.ID)
	return frm, err
}

// DeleteForum relies on ON DELETE CASCADE for posts and replies.
func (repo *forumRepository) DeleteForum(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM forums WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting forum")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return forum.ErrNotFound
	}
	return nil
}

// AppendPost inserts a new row; the aggregate is never rewritten.
func (repo *forumRepository) AppendPost(ctx context.Context, post forum.Post) (forum.Post, error) {
	post.ID = uuid.New().String()
	post.Replies = nil
	res, err := repo.db.ExecContext(ctx, `
		INSERT INTO posts (id, forum_id, author_id, content, created_at)
		SELECT $1, f.id, $3, $4, $5 FROM forums f WHERE f.id = $2`,
		post.ID, post.ForumID, post.AuthorID, post.Content, post.CreatedAt,
	)
	if err != nil {
		return forum.Post{}, errors.Wrap(err, "inserting post")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return forum.Post{}, forum.ErrNotFound
	}
	post.Replies = []forum.Reply{}
	return post, nil
}

func (repo *forumRepository) AppendReply(ctx context.Context, forumID string, rep forum.Reply) (forum.Reply, error) {
	var exists bool
	err := repo.db.GetContext(ctx, &exists, `SELECT true FROM forums WHERE id = $1`, forumID)
	if err != nil {
		return forum.Reply{}, trapNoRowsErr(err, forum.ErrNotFound)
	}

	rep.ID = uuid.New().String()
	res, err := repo.db.ExecContext(ctx, `
		INSERT INTO replies (id, post_id, author_id, content, created_at)
		SELECT $1, p.id, $4, $5, $6 FROM posts p WHERE p.id = $2 AND p.forum_id = $3`,
		rep.ID, rep.PostID, forumID, rep.AuthorID, rep.Content, rep.CreatedAt,
	)
	if err != nil {
		return forum.Reply{}, errors.Wrap(err, "inserting reply")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return forum.Reply{}, forum.ErrPostNotFound
	}
	return rep, nil
}

func (repo *forumRepository) QueryCourseStats(ctx context.Context, courseID string) ([]forum.Stats, error) {
	stats := make([]forum.Stats, 0)
	err := repo.db.SelectContext(ctx, &stats, `
		SELECT
			f.id AS forum_id,
			f.title,
			COUNT(DISTINCT p.id) AS total_posts,
			COUNT(r.id) AS total_replies
		FROM forums f
		LEFT JOIN posts p ON p.forum_id = f.id
		LEFT JOIN replies r ON r.post_id = p.id
		WHERE f.course_id = $1
		GROUP BY f.id, f.title, f.created_at
		ORDER BY f.created_at ASC, f.id ASC`,
		courseID,
	)
	return stats, errors.Wrap(err, "querying course stats")
}

func (repo *forumRepository) loadPosts(ctx context.Context, forumID string) ([]forum.Post, error) {
	posts := make([]forum.Post, 0)
	err := repo.db.SelectContext(ctx, &posts, `
		SELECT id, forum_id, author_id, content, created_at FROM posts
		WHERE forum_id = $1 ORDER BY created_at ASC, id ASC`,
		forumID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying posts")
	}

	for i := range posts {
		replies := make([]forum.Reply, 0)
		err = repo.db.SelectContext(ctx, &replies, `
			SELECT id, post_id, author_id, content, created_at FROM replies
			WHERE post_id = $1 ORDER BY created_at ASC, id ASC`,
			posts[i].ID,
		)
		if err != nil {
			return nil, errors.Wrap(err, "querying replies")
		}
		posts[i].Replies = replies
	}
	return posts, nil
}
