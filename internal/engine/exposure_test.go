package engine

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestExposure_ExpiresOnLifetime(t *testing.T) {
	var fired atomic.Int64
	x := newExposure("secret", 20*time.Millisecond, func() { fired.Add(1) })

	if x.Secret != "secret" {
		t.Fatal("secret not exposed")
	}

	deadline := time.Now().Add(time.Second)
	for fired.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if fired.Load() != 1 {
		t.Fatalf("expiry callback fired %d times, want 1", fired.Load())
	}
	if x.Secret != "" {
		t.Error("secret not wiped on expiry")
	}
}

func TestExposure_DismissFiresOnceAndCancelsExpiry(t *testing.T) {
	var fired atomic.Int64
	x := newExposure("secret", 20*time.Millisecond, func() { fired.Add(1) })

	x.Dismiss()
	if fired.Load() != 1 {
		t.Fatalf("callback fired %d times after dismiss, want 1", fired.Load())
	}
	if x.Secret != "" {
		t.Error("secret not wiped on dismiss")
	}

	// The original expiry must not fire a second time.
	time.Sleep(50 * time.Millisecond)
	if fired.Load() != 1 {
		t.Fatalf("callback fired %d times total, want 1", fired.Load())
	}

	// Repeated dismiss stays a no-op.
	x.Dismiss()
	if fired.Load() != 1 {
		t.Fatalf("callback fired %d times after double dismiss, want 1", fired.Load())
	}
}
