package cache_test

import (
	"testing"
	"time"

	"github.com/fortuna/retroload/internal/cache"
)

func TestGameKey(t *testing.T) {
	if got := cache.GameKey("SFN200904070"); got != "retroload:game:SFN200904070" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestNewRedisCacheRejectsBadURL(t *testing.T) {
	if _, err := cache.NewRedisCache("mysql://nope", time.Minute); err == nil {
		t.Fatal("expected parse error")
	}
}
