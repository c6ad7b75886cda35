package file

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("file not found")

type (
	Repository interface {
		CreateFile(ctx context.Context, f File) (File, error)
		QueryFiles(ctx context.Context) ([]File, error)
		GetFileByID(ctx context.Context, id string) (File, error)
		DeleteFile(ctx context.Context, id string) error
	}

	Service interface {
		Create(ctx context.Context, nf NewFile, uploadedBy string) (File, error)
		Query(ctx context.Context) ([]File, error)
		GetByID(ctx context.Context, id string) (File, error)
		Delete(ctx context.Context, id string) error
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) *service {
	return &service{repo: repo}
}

func (svc *service) Create(ctx context.Context, nf NewFile, uploadedBy string) (File, error) {
	f := File{
		Filename:    nf.Filename,
		ContentType: nf.ContentType,
		Size:        nf.Size,
		Course:      nf.Course,
		UploadedBy:  uploadedBy,
		UploadedAt:  time.Now().UTC(),
	}
	return svc.repo.CreateFile(ctx, f)
}

func (svc *service) Query(ctx context.Context) ([]File, error) {
	return svc.repo.QueryFiles(ctx)
}

func (svc *service) GetByID(ctx context.Context, id string) (File, error) {
	return svc.repo.GetFileByID(ctx, id)
}

func (svc *service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteFile(ctx, id)
}
