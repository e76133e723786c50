package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestSetGetDelLifecycle(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	if err := client.Set(ctx, client.OTPKey("09150000000"), "123456", 2*time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	code, err := client.Get(ctx, client.OTPKey("09150000000"))
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if code != "123456" {
		t.Fatalf("expected stored code, got %q", code)
	}

	if err := client.Del(ctx, client.OTPKey("09150000000")); err != nil {
		t.Fatalf("del failed: %v", err)
	}
	if _, err := client.Get(ctx, client.OTPKey("09150000000")); !IsNil(err) {
		t.Fatalf("expected redis.Nil after delete, got %v", err)
	}
}

func TestSetNXOnlyFirstWriteWins(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	ok, err := client.SetNX(ctx, "k", "a", time.Minute)
	if err != nil || !ok {
		t.Fatalf("first SetNX should win: ok=%v err=%v", ok, err)
	}
	ok, err = client.SetNX(ctx, "k", "b", time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("second SetNX should lose")
	}
}

func TestExists(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	found, err := client.Exists(ctx, "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Fatalf("missing key reported as present")
	}

	if err := client.Set(ctx, "present", "x", 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	found, err = client.Exists(ctx, "present")
	if err != nil || !found {
		t.Fatalf("expected key present, found=%v err=%v", found, err)
	}
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	if got := client.CartKey("user-1"); got != "darchin:cart:user-1" {
		t.Fatalf("unexpected cart key %s", got)
	}
	if got := client.OTPKey("0915"); got != "darchin:otp:0915" {
		t.Fatalf("unexpected otp key %s", got)
	}
	if got := client.PendingUserKey("0915"); got != "darchin:pending_user:0915" {
		t.Fatalf("unexpected pending user key %s", got)
	}
	if got := client.BlacklistKey("tok"); got != "darchin:blacklist_token:tok" {
		t.Fatalf("unexpected blacklist key %s", got)
	}
	if got := client.ResetTokenKey("0915"); got != "darchin:reset_token:0915" {
		t.Fatalf("unexpected reset token key %s", got)
	}
}

type mockCmdable struct {
	data map[string]string
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{data: make(map[string]string)}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	m.data[key] = fmt.Sprint(value)
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd {
	if _, exists := m.data[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	m.data[key] = fmt.Sprint(value)
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Exists(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, key := range keys {
		if _, ok := m.data[key]; ok {
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}
