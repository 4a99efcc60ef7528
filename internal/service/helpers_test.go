package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/DukeRupert/sitewalk/internal/domain"
	"github.com/DukeRupert/sitewalk/internal/kv"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// flakyStore is a kv.Memory whose writes can be made to fail.
type flakyStore struct {
	*kv.Memory
	failSet error
}

func (f *flakyStore) Set(ctx context.Context, key string, value []byte) error {
	if f.failSet != nil {
		return f.failSet
	}
	return f.Memory.Set(ctx, key, value)
}

var testNow = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

func newTestProgressService(store kv.Store) *progressService {
	svc := NewProgressService(store, discardLogger()).(*progressService)
	svc.now = func() time.Time { return testNow }
	return svc
}

func seedInspection(t *testing.T, svc ProgressService, id string) {
	t.Helper()
	require.NoError(t, svc.Seed(context.Background(), id, domain.BasicInfo{
		Address:    "1 Main St",
		SiteType:   domain.SiteTypeIndustrial,
		ClientName: "Acme",
	}))
}
