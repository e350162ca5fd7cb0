package common

import (
	"errors"
	"testing"
	"time"
)

func TestCacheService_GetOrSetLoadsOnce(t *testing.T) {
	cache := NewCacheService(time.Minute, time.Minute)
	calls := 0
	loader := func() (any, error) {
		calls++
		return "value", nil
	}

	for i := 0; i < 3; i++ {
		val, err := cache.GetOrSet("key", time.Minute, loader)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if val != "value" {
			t.Errorf("Expected value, got %v", val)
		}
	}

	if calls != 1 {
		t.Errorf("Expected loader called once, got %d", calls)
	}
}

func TestCacheService_GetOrSetDoesNotCacheErrors(t *testing.T) {
	cache := NewCacheService(time.Minute, time.Minute)

	_, err := cache.GetOrSet("key", time.Minute, func() (any, error) {
		return nil, errors.New("db down")
	})
	if err == nil {
		t.Fatal("Expected loader error")
	}

	if _, found := cache.Get("key"); found {
		t.Error("Expected failed load to leave cache empty")
	}
}

func TestCacheService_Delete(t *testing.T) {
	cache := NewCacheService(time.Minute, time.Minute)
	cache.Set("key", 1, time.Minute)
	cache.Delete("key")

	if _, found := cache.Get("key"); found {
		t.Error("Expected key to be deleted")
	}
}

func TestNewCache_FallsBackToMemory(t *testing.T) {
	if _, ok := NewCache(nil, time.Minute, time.Minute).(*CacheService); !ok {
		t.Error("Expected in-memory cache without a Redis client")
	}
}
