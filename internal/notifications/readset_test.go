package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/xcelerate-fit/xcelerate-backend/pkg/logger"
)

func TestReadSetAddAndHas(t *testing.T) {
	set := NewReadSet("daily-2024-01-15", "", "  ")
	if len(set) != 1 {
		t.Fatalf("expected blanks skipped, got %v", set.IDs())
	}
	if added := set.Add("daily-2024-01-15", "weekly-2024-01-15"); added != 1 {
		t.Fatalf("expected 1 new id got %d", added)
	}
	if !set.Has("weekly-2024-01-15") {
		t.Fatal("expected weekly id present")
	}
	var empty ReadSet
	if empty.Has("daily-2024-01-15") {
		t.Fatal("nil set must contain nothing")
	}
}

func TestReadSetJSONArray(t *testing.T) {
	var set ReadSet
	if err := json.Unmarshal([]byte(`["weekly-2024-01-15","daily-2024-01-15","daily-2024-01-15"]`), &set); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	buf, err := json.Marshal(set)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(buf) != `["daily-2024-01-15","weekly-2024-01-15"]` {
		t.Fatalf("unexpected encoding %s", buf)
	}
	if err := json.Unmarshal([]byte(`{"id":1}`), &set); err == nil {
		t.Fatal("expected error for non-array state")
	}
}

type fakeSetClient struct {
	sets        map[string]map[string]struct{}
	expireCalls int
	saddErr     error
	expireErr   error
}

func newFakeSetClient() *fakeSetClient {
	return &fakeSetClient{sets: map[string]map[string]struct{}{}}
}

func (f *fakeSetClient) SAdd(ctx context.Context, key string, members ...string) (int64, error) {
	if f.saddErr != nil {
		return 0, f.saddErr
	}
	set, ok := f.sets[key]
	if !ok {
		set = map[string]struct{}{}
		f.sets[key] = set
	}
	var added int64
	for _, m := range members {
		if _, ok := set[m]; !ok {
			set[m] = struct{}{}
			added++
		}
	}
	return added, nil
}

func (f *fakeSetClient) SMembers(ctx context.Context, key string) ([]string, error) {
	out := []string{}
	for m := range f.sets[key] {
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeSetClient) Expire(ctx context.Context, key string, ttl time.Duration) error {
	f.expireCalls++
	return f.expireErr
}

func (f *fakeSetClient) ReadNotificationsKey(userID string) string {
	return "xc:read_notifications:" + userID
}

func TestRedisReadStore(t *testing.T) {
	ctx := context.Background()
	client := newFakeSetClient()
	store := NewRedisReadStore(client, time.Hour, nil)

	added, err := store.Save(ctx, "user-1", "daily-2024-01-15", " ", "weekly-2024-01-15")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if added != 2 {
		t.Fatalf("expected 2 added got %d", added)
	}
	if client.expireCalls != 1 {
		t.Fatalf("expected ttl refresh, got %d calls", client.expireCalls)
	}

	if added, _ := store.Save(ctx, "user-1"); added != 0 {
		t.Fatalf("empty save should add nothing, got %d", added)
	}
	if client.expireCalls != 1 {
		t.Fatal("empty save must not touch redis")
	}

	set, err := store.Load(ctx, "user-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !set.Has("daily-2024-01-15") || !set.Has("weekly-2024-01-15") || len(set) != 2 {
		t.Fatalf("unexpected set %v", set.IDs())
	}

	other, err := store.Load(ctx, "user-2")
	if err != nil || len(other) != 0 {
		t.Fatalf("expected empty set for other user, got %v %v", other, err)
	}

	client.saddErr = errors.New("redis down")
	if _, err := store.Save(ctx, "user-1", "trend-2024-01-15"); err == nil {
		t.Fatal("expected save error")
	}
}

func TestRedisReadStoreKeepsIDsWhenTTLRefreshFails(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	client := newFakeSetClient()
	client.expireErr = errors.New("expire timed out")
	store := NewRedisReadStore(client, time.Hour, logger.New(logger.Options{ServiceName: "test", Output: &buf}))

	added, err := store.Save(ctx, "user-1", "daily-2024-01-15", "weekly-2024-01-15")
	if err != nil {
		t.Fatalf("ttl refresh failure must not fail the save: %v", err)
	}
	if added != 2 {
		t.Fatalf("expected 2 added got %d", added)
	}
	if !strings.Contains(buf.String(), "notifications.read_set_ttl_failed") {
		t.Fatalf("expected ttl failure to be logged, got %q", buf.String())
	}

	set, err := store.Load(ctx, "user-1")
	if err != nil || len(set) != 2 {
		t.Fatalf("expected both ids stored, got %v %v", set, err)
	}
}
