package cron

import (
	"context"
	"testing"
	"time"
)

type memoryRedis struct {
	values map[string]string
}

func (m *memoryRedis) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := m.values[key]; ok {
		return false, nil
	}
	m.values[key] = value.(string)
	return true, nil
}

func (m *memoryRedis) CompareAndDelete(_ context.Context, key, expected string) (bool, error) {
	if v, ok := m.values[key]; !ok || v != expected {
		return false, nil
	}
	delete(m.values, key)
	return true, nil
}

func TestRedisLockIsExclusive(t *testing.T) {
	store := &memoryRedis{values: map[string]string{}}
	first, err := NewRedisLock(store, "balarco:cron", time.Hour)
	if err != nil {
		t.Fatalf("new lock: %v", err)
	}
	second, _ := NewRedisLock(store, "balarco:cron", time.Hour)
	ctx := context.Background()

	ok, err := first.Acquire(ctx)
	if err != nil || !ok {
		t.Fatalf("expected first acquire, ok=%v err=%v", ok, err)
	}
	ok, err = second.Acquire(ctx)
	if err != nil || ok {
		t.Fatalf("expected second acquire to fail, ok=%v err=%v", ok, err)
	}

	// Only the owner frees the key.
	if err := second.Release(ctx); err != nil {
		t.Fatalf("release by non-owner: %v", err)
	}
	if _, held := store.values["balarco:cron"]; !held {
		t.Fatal("non-owner release dropped the lock")
	}
	if err := first.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	ok, _ = second.Acquire(ctx)
	if !ok {
		t.Fatal("expected lock to be free after release")
	}
}

func TestNewRedisLockValidates(t *testing.T) {
	if _, err := NewRedisLock(nil, "k", time.Minute); err == nil {
		t.Fatal("expected error without client")
	}
	if _, err := NewRedisLock(&memoryRedis{}, "", time.Minute); err == nil {
		t.Fatal("expected error without key")
	}
}

func TestRedisLockReleaseAfterExpiryKeepsNewOwner(t *testing.T) {
	store := &memoryRedis{values: map[string]string{}}
	first, _ := NewRedisLock(store, "balarco:cron", time.Hour)
	second, _ := NewRedisLock(store, "balarco:cron", time.Hour)
	ctx := context.Background()

	if ok, _ := first.Acquire(ctx); !ok {
		t.Fatal("expected first acquire")
	}
	// The key expired and another replica took it.
	delete(store.values, "balarco:cron")
	if ok, _ := second.Acquire(ctx); !ok {
		t.Fatal("expected second acquire after expiry")
	}

	if err := first.Release(ctx); err != nil {
		t.Fatalf("stale release: %v", err)
	}
	if _, held := store.values["balarco:cron"]; !held {
		t.Fatal("stale owner released the new owner's lock")
	}
}
