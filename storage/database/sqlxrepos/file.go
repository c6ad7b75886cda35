package sqlxrepos

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/darasa-lms/darasa/core/file"
)

type fileRepository struct {
	db *sqlx.DB
}

var _ file.Repository = (*fileRepository)(nil)

func NewFileRepository(db *sqlx.DB) *fileRepository {
	return &fileRepository{db: db}
}

func (repo *fileRepository) CreateFile(ctx context.Context, f file.File) (file.File, error) {
	f.ID = uuid.New().String()
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO files (id, filename, content_type, size, course, uploaded_by, uploaded_at)
		VALUES (:id, :filename, :content_type, :size, :course, :uploaded_by, :uploaded_at)`,
		f,
	)
	return f, errors.Wrap(err, "inserting file")
}

func (repo *fileRepository) QueryFiles(ctx context.Context) ([]file.File, error) {
	files := make([]file.File, 0)
	err := repo.db.SelectContext(ctx, &files, `
		SELECT id, filename, content_type, size, course, uploaded_by, uploaded_at
		FROM files ORDER BY uploaded_at ASC, id ASC`,
	)
	return files, errors.Wrap(err, "querying files")
}

func (repo *fileRepository) GetFileByID(ctx context.Context, id string) (file.File, error) {
	var f file.File
	err := repo.db.GetContext(ctx, &f, `
		SELECT id, filename, content_type, size, course, uploaded_by, uploaded_at
		FROM files WHERE id = $1`,
		id,
	)
	return f, trapNoRowsErr(err, file.ErrNotFound)
}

func (repo *fileRepository) DeleteFile(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting file")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return file.ErrNotFound
	}
	return nil
}
