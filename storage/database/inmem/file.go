package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/darasa-lms/darasa/core/file"
)

type fileRepository struct {
	db *DB
}

var _ file.Repository = (*fileRepository)(nil)

func NewFileRepository(db *DB) *fileRepository {
	return &fileRepository{db: db}
}

func (repo *fileRepository) CreateFile(_ context.Context, f file.File) (file.File, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	f.ID = uuid.New().String()
	repo.db.files[f.ID] = &f
	return f, nil
}

func (repo *fileRepository) QueryFiles(_ context.Context) ([]file.File, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	files := make([]file.File, 0, len(repo.db.files))
	for _, f := range repo.db.files {
		files = append(files, *f)
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].UploadedAt.Equal(files[j].UploadedAt) {
			return files[i].ID < files[j].ID
		}
		return files[i].UploadedAt.Before(files[j].UploadedAt)
	})
	return files, nil
}

func (repo *fileRepository) GetFileByID(_ context.Context, id string) (file.File, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if f, ok := repo.db.files[id]; ok {
		return *f, nil
	}
	return file.File{}, file.ErrNotFound
}

func (repo *fileRepository) DeleteFile(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.files[id]; !ok {
		return file.ErrNotFound
	}
	delete(repo.db.files, id)
	return nil
}
