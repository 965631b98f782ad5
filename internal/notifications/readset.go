package notifications

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/xcelerate-fit/xcelerate-backend/pkg/logger"
)

// ReadSet is the set of notification ids a user has marked as read.
type ReadSet map[string]struct{}

// NewReadSet builds a set from ids, skipping blanks.
func NewReadSet(ids ...string) ReadSet {
	set := make(ReadSet, len(ids))
	set.Add(ids...)
	return set
}

// Has reports membership. A nil set contains nothing.
func (s ReadSet) Has(id string) bool {
	if s == nil {
		return false
	}
	_, ok := s[id]
	return ok
}

// Add inserts ids and returns how many were not already present.
func (s ReadSet) Add(ids ...string) int {
	added := 0
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := s[id]; ok {
			continue
		}
		s[id] = struct{}{}
		added++
	}
	return added
}

// IDs returns the members sorted.
func (s ReadSet) IDs() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// MarshalJSON writes the set as a JSON array of ids.
func (s ReadSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.IDs())
}

// UnmarshalJSON accepts a JSON array of ids, the shape browsers kept under
// readNotifications_<userId>.
func (s *ReadSet) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewReadSet(ids...)
	return nil
}

// ReadStore persists read sets per user.
type ReadStore interface {
	Load(ctx context.Context, userID string) (ReadSet, error)
	// Save adds ids to the user's set and returns how many were new.
	Save(ctx context.Context, userID string, ids ...string) (int, error)
}

type setClient interface {
	SAdd(ctx context.Context, key string, members ...string) (int64, error)
	SMembers(ctx context.Context, key string) ([]string, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	ReadNotificationsKey(userID string) string
}

// RedisReadStore keeps each read set in a Redis SET so concurrent writers merge instead of
// overwriting each other.
type RedisReadStore struct {
	client setClient
	ttl    time.Duration
	logg   *logger.Logger
}

// NewRedisReadStore wires the store. A zero ttl keeps sets forever; logg may be nil.
func NewRedisReadStore(client setClient, ttl time.Duration, logg *logger.Logger) *RedisReadStore {
	return &RedisReadStore{client: client, ttl: ttl, logg: logg}
}

func (s *RedisReadStore) Load(ctx context.Context, userID string) (ReadSet, error) {
	members, err := s.client.SMembers(ctx, s.client.ReadNotificationsKey(userID))
	if err != nil {
		return nil, err
	}
	return NewReadSet(members...), nil
}

func (s *RedisReadStore) Save(ctx context.Context, userID string, ids ...string) (int, error) {
	clean := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			clean = append(clean, id)
		}
	}
	if len(clean) == 0 {
		return 0, nil
	}
	key := s.client.ReadNotificationsKey(userID)
	added, err := s.client.SAdd(ctx, key, clean...)
	if err != nil {
		return 0, err
	}
	if s.ttl > 0 {
		// the ids are already stored; a missed refresh only shortens their lifetime
		if err := s.client.Expire(ctx, key, s.ttl); err != nil && s.logg != nil {
			s.logg.Error(ctx, "notifications.read_set_ttl_failed", err)
		}
	}
	return int(added), nil
}
