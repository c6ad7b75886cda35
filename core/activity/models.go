package activity

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/darasa-lms/darasa/core"
)

// Actions a Log may record.
const (
	ActionLogin            = "login"
	ActionLogout           = "logout"
	ActionCourseView       = "course_view"
	ActionAssignmentSubmit = "assignment_submit"
	ActionForumPost        = "forum_post"
)

var AllActions = []string{ActionLogin, ActionLogout, ActionCourseView, ActionAssignmentSubmit, ActionForumPost}

// maxMetadataBytes bounds the serialized metadata size; anything larger is
// replaced by a truncation marker rather than stored as-is.
const maxMetadataBytes = 5000

// Metadata is free-form additional data attached to a Log entry.
type Metadata map[string]interface{}

// Bounded returns the metadata, or a truncation marker when its JSON form
// exceeds maxMetadataBytes.
func (m Metadata) Bounded() Metadata {
	if m == nil {
		return nil
	}
	raw, err := json.Marshal(m)
	if err != nil || len(raw) <= maxMetadataBytes {
		return m
	}
	return Metadata{
		"warning":       "metadata truncated",
		"original_size": len(raw),
	}
}

// Log is one recorded user activity.
type Log struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Action    string    `json:"action" db:"action"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"` // UTC
	Metadata  Metadata  `json:"metadata,omitempty" db:"-"`
}

// NewLog contains information needed to record an activity.
type NewLog struct {
	UserID   string   `json:"user_id" validate:"required"`
	Action   string   `json:"action" validate:"required,action"`
	Metadata Metadata `json:"metadata"`
}

func (nl *NewLog) Validate(validate *validator.Validate) error {
	nl.Action = core.CleanString(nl.Action, true /* lower */)
	return validate.Struct(nl)
}

var (
	actionTag  = "action"
	actionText = fmt.Sprintf("action must be one of: %s", strings.Join(AllActions, ", "))

	mobileRegex  = regexp.MustCompile(`(?i)mobile`)
	tabletRegex  = regexp.MustCompile(`(?i)tablet`)
	desktopRegex = regexp.MustCompile(`(?i)windows|linux|mac`)
)

// RegisterValidators registers this package's validators and translations.
func RegisterValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(actionTag, actionValidation)
	core.RegisterCustomTranslation(validate, translator, actionTag, actionText)
}

func actionValidation(fl validator.FieldLevel) bool {
	action := fl.Field().String()
	for _, a := range AllActions {
		if action == a {
			return true
		}
	}
	return false
}

// DetectDeviceType derives a coarse device class from a user agent.
func DetectDeviceType(userAgent string) string {
	switch {
	case userAgent == "":
		return "unknown"
	case mobileRegex.MatchString(userAgent):
		return "mobile"
	case tabletRegex.MatchString(userAgent):
		return "tablet"
	case desktopRegex.MatchString(userAgent):
		return "desktop"
	default:
		return "other"
	}
}
