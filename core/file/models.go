package file

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/darasa-lms/darasa/core"
)

// File is the metadata record of an uploaded file. The bytes themselves
// live outside this system.
type File struct {
	ID          string    `json:"id" db:"id"`
	Filename    string    `json:"filename" db:"filename"`
	ContentType string    `json:"content_type" db:"content_type"`
	Size        int64     `json:"size" db:"size"`
	Course      string    `json:"course,omitempty" db:"course"`
	UploadedBy  string    `json:"uploaded_by" db:"uploaded_by"`
	UploadedAt  time.Time `json:"uploaded_at" db:"uploaded_at"` // UTC
}

type NewFile struct {
	Filename    string `json:"filename" validate:"required"`
	ContentType string `json:"content_type" validate:"required"`
	Size        int64  `json:"size" validate:"gte=0"`
	Course      string `json:"course"`
}

func (nf *NewFile) Validate(validate *validator.Validate) error {
	nf.Filename = core.CleanString(nf.Filename)
	nf.Course = core.CleanString(nf.Course)
	return validate.Struct(nf)
}
