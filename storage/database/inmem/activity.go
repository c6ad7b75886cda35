package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/darasa-lms/darasa/core/activity"
)

type activityRepository struct {
	db *DB
}

var _ activity.Repository = (*activityRepository)(nil)

func NewActivityRepository(db *DB) *activityRepository {
	return &activityRepository{db: db}
}

func (repo *activityRepository) CreateLog(_ context.Context, l activity.Log) (activity.Log, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	l.ID = uuid.New().String()
	repo.db.logs[l.ID] = &l
	return l, nil
}

func (repo *activityRepository) QueryLogs(_ context.Context) ([]activity.Log, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	logs := make([]activity.Log, 0, len(repo.db.logs))
	for _, l := range repo.db.logs {
		logs = append(logs, *l)
	}
	sortLogs(logs)
	return logs, nil
}

func (repo *activityRepository) QueryLogsByUser(_ context.Context, userID string, since time.Time) ([]activity.Log, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	logs := make([]activity.Log, 0)
	for _, l := range repo.db.logs {
		if l.UserID != userID {
			continue
		}
		if !since.IsZero() && l.Timestamp.Before(since) {
			continue
		}
		logs = append(logs, *l)
	}
	sortLogs(logs)
	return logs, nil
}

// sortLogs orders newest first.
func sortLogs(logs []activity.Log) {
	sort.Slice(logs, func(i, j int) bool {
		if logs[i].Timestamp.Equal(logs[j].Timestamp) {
			return logs[i].ID < logs[j].ID
		}
		return logs[i].Timestamp.After(logs[j].Timestamp)
	})
}
