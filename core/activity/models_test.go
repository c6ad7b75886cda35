package activity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/darasa-lms/darasa/core"
)

func TestMetadataBounded(t *testing.T) {
	assert.Nil(t, Metadata(nil).Bounded())

	small := Metadata{"course_id": "go-101", "page": 3}
	assert.Equal(t, small, small.Bounded())

	huge := Metadata{"dump": strings.Repeat("x", maxMetadataBytes+1)}
	bounded := huge.Bounded()
	assert.Equal(t, "metadata truncated", bounded["warning"])
	assert.Greater(t, bounded["original_size"].(int), maxMetadataBytes)
}

func TestNewLogValidate(t *testing.T) {
	validate, translator := core.NewValidator()
	RegisterValidators(validate, translator)

	nl := NewLog{UserID: "usr1", Action: " LOGIN "}
	assert.NoError(t, nl.Validate(validate))
	assert.Equal(t, ActionLogin, nl.Action)

	nl = NewLog{UserID: "usr1", Action: "teleport"}
	err := nl.Validate(validate)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), actionTag)

	nl = NewLog{Action: ActionLogout}
	assert.Error(t, nl.Validate(validate))
}

func TestDetectDeviceType(t *testing.T) {
	tests := []struct {
		userAgent string
		want      string
	}{
		{"", "unknown"},
		{"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) Mobile/15E148", "mobile"},
		{"Mozilla/5.0 (Linux; Android 14; SM-X910) Tablet Safari", "tablet"},
		{"Mozilla/5.0 (Windows NT 10.0; Win64; x64)", "desktop"},
		{"curl/8.5.0", "other"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectDeviceType(tt.userAgent), tt.userAgent)
	}
}
