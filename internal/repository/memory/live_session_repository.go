package memory

import (
	"time"

	"github.com/patrickmn/go-cache"

	"amplified-be/pkg/store"
)

type LiveSessionRepository struct {
	cache *cache.Cache
}

func NewLiveSessionRepository() *LiveSessionRepository {
	// Sessions that stop heartbeating are purged after 4 hours so a
	// crashed connection cannot pin registry memory forever.
	c := cache.New(4*time.Hour, 10*time.Minute)
	return &LiveSessionRepository{
		cache: c,
	}
}

func (r *LiveSessionRepository) Save(snapshot *store.LiveSessionSnapshot) {
	r.cache.Set(snapshot.ConnectionID, snapshot, cache.DefaultExpiration)
}

func (r *LiveSessionRepository) Get(connectionID string) (*store.LiveSessionSnapshot, bool) {
	if x, found := r.cache.Get(connectionID); found {
		return x.(*store.LiveSessionSnapshot), true
	}
	return nil, false
}

func (r *LiveSessionRepository) Delete(connectionID string) {
	r.cache.Delete(connectionID)
}

func (r *LiveSessionRepository) All() []*store.LiveSessionSnapshot {
	items := r.cache.Items()
	snapshots := make([]*store.LiveSessionSnapshot, 0, len(items))
	for _, item := range items {
		snapshots = append(snapshots, item.Object.(*store.LiveSessionSnapshot))
	}
	return snapshots
}
