// AngelaMos | 2026
// cache_test.go

package core

import (
	"context"
	"errors"
	"testing"
	"time"
)

type counters struct {
	Listings int `json:"listings"`
}

func TestGetOrLoadJSONWithoutRedisCallsLoader(t *testing.T) {
	cache := NewCache(nil, "test")
	calls := 0

	load := func(context.Context) (*counters, error) {
		calls++
		return &counters{Listings: 7}, nil
	}

	for range 2 {
		got, err := GetOrLoadJSON(context.Background(), cache, "k", time.Minute, load)
		if err != nil {
			t.Fatalf("GetOrLoadJSON: %v", err)
		}
		if got.Listings != 7 {
			t.Errorf("expected 7, got %d", got.Listings)
		}
	}

	if calls != 2 {
		t.Errorf("expected loader to run on every call without redis, ran %d times", calls)
	}
}

func TestGetOrLoadJSONPropagatesLoaderError(t *testing.T) {
	wantErr := errors.New("db down")
	_, err := GetOrLoadJSON(context.Background(), NewCache(nil, "test"), "k", time.Minute,
		func(context.Context) (*counters, error) { return nil, wantErr })
	if !errors.Is(err, wantErr) {
		t.Errorf("expected loader error, got %v", err)
	}
}
