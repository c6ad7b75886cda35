package forum

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/darasa-lms/darasa/core"
)

func TestNewPostValidate(t *testing.T) {
	validate, _ := core.NewValidator()

	np := NewPost{AuthorID: "usr1", Content: "  does anyone have the slides?  "}
	assert.NoError(t, np.Validate(validate))
	assert.Equal(t, "does anyone have the slides?", np.Content)

	// whitespace-only content is trimmed away and fails `required`
	np = NewPost{AuthorID: "usr1", Content: "   \t\n "}
	assert.Error(t, np.Validate(validate))
}

func TestNewReplyValidate(t *testing.T) {
	validate, _ := core.NewValidator()

	nr := NewReply{AuthorID: "usr1", Content: " slides are on the portal "}
	assert.NoError(t, nr.Validate(validate))
	assert.Equal(t, "slides are on the portal", nr.Content)

	nr = NewReply{AuthorID: "usr1", Content: "  "}
	assert.Error(t, nr.Validate(validate))
}

func TestNewForumValidate(t *testing.T) {
	validate, _ := core.NewValidator()

	nf := NewForum{CourseID: "go-101", Title: " General questions "}
	assert.NoError(t, nf.Validate(validate))
	assert.Equal(t, "General questions", nf.Title)

	nf = NewForum{Title: "General questions"}
	assert.Error(t, nf.Validate(validate))
}
