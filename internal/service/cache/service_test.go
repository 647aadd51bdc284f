package cache

import (
	"context"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newTestService(t *testing.T) *Service {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	host, portStr, err := net.SplitHostPort(mr.Addr())
	if err != nil {
		t.Fatalf("failed to split host/port: %v", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("failed to parse port: %v", err)
	}

	svc, err := NewCacheService(Config{
		Host:         host,
		Port:         port,
		DisableCache: true, // miniredis는 client-side caching 미지원
	}, newTestLogger())
	if err != nil {
		t.Fatalf("failed to create cache service: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })

	return svc
}

type profile struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
}

func TestSetAndGet(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	want := profile{UserID: 7, Username: "tester"}
	if err := svc.Set(ctx, "user:profile:7", want, time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	var got profile
	hit, err := svc.Get(ctx, "user:profile:7", &got)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !hit {
		t.Fatal("expected cache hit")
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestGetMiss(t *testing.T) {
	svc := newTestService(t)

	var got profile
	hit, err := svc.Get(context.Background(), "user:profile:404", &got)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if hit {
		t.Fatal("expected cache miss")
	}
}

func TestDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.Set(ctx, "user:ranking:10", []int{1, 2, 3}, time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := svc.Delete(ctx, "user:ranking:10"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	hit, err := svc.Get(ctx, "user:ranking:10", nil)
	if err != nil || hit {
		t.Fatalf("expected miss after delete, hit=%v err=%v", hit, err)
	}
}

func TestDeleteByPrefix(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	keys := []string{"user:profile:1", "user:profile:2", "user:ranking:10"}
	for _, key := range keys {
		if err := svc.Set(ctx, key, "v", time.Minute); err != nil {
			t.Fatalf("set %s failed: %v", key, err)
		}
	}
	if err := svc.Set(ctx, "text:best:3", "v", time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if err := svc.DeleteByPrefix(ctx, "user:"); err != nil {
		t.Fatalf("delete by prefix failed: %v", err)
	}

	for _, key := range keys {
		if hit, _ := svc.Get(ctx, key, nil); hit {
			t.Fatalf("expected %s evicted", key)
		}
	}
	if hit, _ := svc.Get(ctx, "text:best:3", nil); !hit {
		t.Fatal("unrelated namespace must survive prefix eviction")
	}
}

func TestNilServiceIsNoop(t *testing.T) {
	var svc *Service
	ctx := context.Background()

	if err := svc.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("nil set must be a no-op, got %v", err)
	}
	hit, err := svc.Get(ctx, "k", nil)
	if err != nil || hit {
		t.Fatalf("nil get must miss silently, hit=%v err=%v", hit, err)
	}
	if err := svc.Delete(ctx, "k"); err != nil {
		t.Fatalf("nil delete must be a no-op, got %v", err)
	}
	if err := svc.DeleteByPrefix(ctx, "user:"); err != nil {
		t.Fatalf("nil prefix delete must be a no-op, got %v", err)
	}
	if err := svc.Close(); err != nil {
		t.Fatalf("nil close must be a no-op, got %v", err)
	}
}
