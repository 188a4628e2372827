package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/surveylens/surveylens/pkg/models"
)

func TestStorePutGet(t *testing.T) {
	s := New()
	ctx := context.Background()

	res := &models.CachedResult{
		Fingerprint: "abc123",
		Category:    "Language",
		Metric:      models.MetricCountHave,
		Payload:     []byte(`{"results":[]}`),
	}
	if err := s.Put(ctx, res); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := s.Get(ctx, "abc123")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Category != "Language" || string(got.Payload) != `{"results":[]}` {
		t.Fatalf("Get returned %+v", got)
	}
}

func TestStoreGetMiss(t *testing.T) {
	s := New()
	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("miss error = %v, want ErrNotFound", err)
	}
}

func TestStorePutValidation(t *testing.T) {
	s := New()
	ctx := context.Background()
	if err := s.Put(ctx, nil); err == nil {
		t.Fatal("nil result should fail")
	}
	if err := s.Put(ctx, &models.CachedResult{}); err == nil {
		t.Fatal("empty fingerprint should fail")
	}
}

func TestStoreClear(t *testing.T) {
	s := New()
	ctx := context.Background()
	if err := s.Put(ctx, &models.CachedResult{Fingerprint: "x"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := s.Get(ctx, "x"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("Get after Clear = %v, want ErrNotFound", err)
	}
}
