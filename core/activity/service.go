package activity

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("activity log not found")

type (
	Repository interface {
		CreateLog(ctx context.Context, l Log) (Log, error)
		QueryLogs(ctx context.Context) ([]Log, error)
		QueryLogsByUser(ctx context.Context, userID string, since time.Time) ([]Log, error)
	}

	Service interface {
		Record(ctx context.Context, nl NewLog, ipAddress, userAgent string) (Log, error)
		Query(ctx context.Context) ([]Log, error)
		QueryByUser(ctx context.Context, userID string, since time.Time) ([]Log, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) *service {
	return &service{repo: repo}
}

// Record stores one activity entry, enriching the metadata with request
// context and bounding its serialized size.
func (svc *service) Record(ctx context.Context, nl NewLog, ipAddress, userAgent string) (Log, error) {
	meta := nl.Metadata
	if meta == nil {
		meta = Metadata{}
	}
	if ipAddress != "" {
		meta["ip_address"] = ipAddress
	}
	if userAgent != "" {
		meta["user_agent"] = userAgent
		meta["device_type"] = DetectDeviceType(userAgent)
	}

	l := Log{
		UserID:    nl.UserID,
		Action:    nl.Action,
		Timestamp: time.Now().UTC(),
		Metadata:  meta.Bounded(),
	}
	l, err := svc.repo.CreateLog(ctx, l)
	return l, errors.Wrap(err, "creating activity log")
}

func (svc *service) Query(ctx context.Context) ([]Log, error) {
	return svc.repo.QueryLogs(ctx)
}

func (svc *service) QueryByUser(ctx context.Context, userID string, since time.Time) ([]Log, error) {
	return svc.repo.QueryLogsByUser(ctx, userID, since)
}
