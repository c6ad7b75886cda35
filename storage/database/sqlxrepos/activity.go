package sqlxrepos

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/darasa-lms/darasa/core/activity"
)

type activityRepository struct {
	db *sqlx.DB
}

var _ activity.Repository = (*activityRepository)(nil)

func NewActivityRepository(db *sqlx.DB) *activityRepository {
	return &activityRepository{db: db}
}

// logRow carries the metadata column as raw JSONB.
type logRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Action    string    `db:"action"`
	Timestamp time.Time `db:"timestamp"`
	Metadata  []byte    `db:"metadata"`
}

func (row logRow) toLog() (activity.Log, error) {
	l := activity.Log{
		ID:        row.ID,
		UserID:    row.UserID,
		Action:    row.Action,
		Timestamp: row.Timestamp,
	}
	if len(row.Metadata) > 0 {
		if err := json.Unmarshal(row.Metadata, &l.Metadata); err != nil {
			return activity.Log{}, errors.Wrap(err, "decoding log metadata")
		}
	}
	return l, nil
}

func (repo *activityRepository) CreateLog(ctx context.Context, l activity.Log) (activity.Log, error) {
	l.ID = uuid.New().String()

	var meta []byte
	if l.Metadata != nil {
		var err error
		if meta, err = json.Marshal(l.Metadata); err != nil {
			return activity.Log{}, errors.Wrap(err, "encoding log metadata")
		}
	}

	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO activity_logs (id, user_id, action, timestamp, metadata)
		VALUES ($1, $2, $3, $4, $5)`,
		l.ID, l.UserID, l.Action, l.Timestamp, meta,
	)
	return l, errors.Wrap(err, "inserting activity log")
}

func (repo *activityRepository) QueryLogs(ctx context.Context) ([]activity.Log, error) {
	rows := make([]logRow, 0)
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, action, timestamp, metadata
		FROM activity_logs ORDER BY timestamp DESC, id ASC`,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying activity logs")
	}
	return toLogs(rows)
}

func (repo *activityRepository) QueryLogsByUser(ctx context.Context, userID string, since time.Time) ([]activity.Log, error) {
	rows := make([]logRow, 0)
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, action, timestamp, metadata
		FROM activity_logs
		WHERE user_id = $1 AND ($2 OR timestamp >= $3)
		ORDER BY timestamp DESC, id ASC`,
		userID, since.IsZero(), since,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying activity logs")
	}
	return toLogs(rows)
}

func toLogs(rows []logRow) ([]activity.Log, error) {
	logs := make([]activity.Log, 0, len(rows))
	for _, row := range rows {
		l, err := row.toLog()
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, nil
}
