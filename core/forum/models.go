package forum

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/darasa-lms/darasa/core"
)

// Reply is a value object owned by its Post.
type Reply struct {
	ID        string    `json:"id" db:"id"`
	PostID    string    `json:"post_id" db:"post_id"`
	AuthorID  string    `json:"author_id" db:"author_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
}

// Post is a value object owned by its Forum; replies hang off it.
type Post struct {
	ID        string    `json:"id" db:"id"`
	ForumID   string    `json:"forum_id" db:"forum_id"`
	AuthorID  string    `json:"author_id" db:"author_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC

	Replies []Reply `json:"replies" db:"-"`
}

// Forum is the aggregate root for a course discussion thread.
type Forum struct {
	ID          string    `json:"id" db:"id"`
	CourseID    string    `json:"course_id" db:"course_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"` // UTC

	Posts []Post `json:"posts" db:"-"`
}

type NewForum struct {
	CourseID    string `json:"course_id" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
}

func (nf *NewForum) Validate(validate *validator.Validate) error {
	nf.Title = core.CleanString(nf.Title)
	nf.Description = core.CleanString(nf.Description)
	return validate.Struct(nf)
}

// NewPost contains information needed to add a Post. Content is trimmed
// before validation, so whitespace-only content fails `required`.
type NewPost struct {
	AuthorID string `json:"author_id" validate:"required"`
	Content  string `json:"content" validate:"required"`
}

func (np *NewPost) Validate(validate *validator.Validate) error {
	np.Content = core.CleanString(np.Content)
	return validate.Struct(np)
}

type NewReply struct {
	AuthorID string `json:"author_id" validate:"required"`
	Content  string `json:"content" validate:"required"`
}

func (nr *NewReply) Validate(validate *validator.Validate) error {
	nr.Content = core.CleanString(nr.Content)
	return validate.Struct(nr)
}

// Stats is the per-forum read-only aggregation for a course.
type Stats struct {
	ForumID      string `json:"forum_id" db:"forum_id"`
	Title        string `json:"title" db:"title"`
	TotalPosts   int    `json:"total_posts" db:"total_posts"`
	TotalReplies int    `json:"total_replies" db:"total_replies"`
}
