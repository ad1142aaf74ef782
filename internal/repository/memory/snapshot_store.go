package memory

import (
	"context"
	"encoding/json"
	"time"

	"job-wizard-be/pkg/wizard"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// SnapshotStore keeps one wizard snapshot per user so an interrupted
// session survives reloads and instance restarts. Redis is the primary
// backend; without it snapshots degrade to process-local go-cache.
type SnapshotStore struct {
	rdb   *redis.Client
	local *cache.Cache
	ttl   time.Duration
}

func NewSnapshotStore(rdb *redis.Client, ttl time.Duration) *SnapshotStore {
	return &SnapshotStore{
		rdb:   rdb,
		local: cache.New(ttl, 10*time.Minute),
		ttl:   ttl,
	}
}

func snapshotKey(userID uuid.UUID) string {
	return "wizard:snapshot:" + userID.String()
}

func (s *SnapshotStore) Save(ctx context.Context, userID uuid.UUID, snap wizard.Snapshot) {
	if s.rdb != nil {
		data, err := json.Marshal(snap)
		if err == nil {
			s.rdb.Set(ctx, snapshotKey(userID), data, s.ttl)
			return
		}
	}
	s.local.Set(userID.String(), snap, s.ttl)
}

func (s *SnapshotStore) Get(ctx context.Context, userID uuid.UUID) (wizard.Snapshot, bool) {
	if s.rdb != nil {
		data, err := s.rdb.Get(ctx, snapshotKey(userID)).Bytes()
		if err == nil {
			var snap wizard.Snapshot
			if json.Unmarshal(data, &snap) == nil {
				return snap, true
			}
		}
		return wizard.Snapshot{}, false
	}
	if x, found := s.local.Get(userID.String()); found {
		return x.(wizard.Snapshot), true
	}
	return wizard.Snapshot{}, false
}

func (s *SnapshotStore) Delete(ctx context.Context, userID uuid.UUID) {
	if s.rdb != nil {
		s.rdb.Del(ctx, snapshotKey(userID))
	}
	s.local.Delete(userID.String())
}
