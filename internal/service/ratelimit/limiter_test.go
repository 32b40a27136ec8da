package ratelimit

import (
	"testing"
	"time"
)

func TestAllowBurstThenDeny(t *testing.T) {
	l := New()
	for i := 0; i < 3; i++ {
		if !l.Allow("treasuries", 3, 0) {
			t.Fatalf("attempt %d: expected allow within burst", i)
		}
	}
	if l.Allow("treasuries", 3, 0) {
		t.Fatal("expected deny once the bucket is drained")
	}
}

func TestAllowKeysAreIndependent(t *testing.T) {
	l := New()
	if !l.Allow("a", 1, 0) {
		t.Fatal("expected first allow for key a")
	}
	if l.Allow("a", 1, 0) {
		t.Fatal("expected deny for drained key a")
	}
	if !l.Allow("b", 1, 0) {
		t.Fatal("key b should have its own bucket")
	}
}

func TestAllowRefills(t *testing.T) {
	l := New()
	if !l.Allow("fx", 1, 100) {
		t.Fatal("expected first allow")
	}
	if l.Allow("fx", 1, 100) {
		t.Fatal("expected deny immediately after draining")
	}
	time.Sleep(30 * time.Millisecond)
	if !l.Allow("fx", 1, 100) {
		t.Fatal("expected allow after refill window")
	}
}

func TestAllowCapsAtCapacity(t *testing.T) {
	l := New()
	// Drain, then wait for several refill intervals so an uncapped bucket
	// would accumulate more than one token.
	if !l.Allow("cdi", 1, 5) {
		t.Fatal("expected first allow")
	}
	time.Sleep(600 * time.Millisecond)
	if !l.Allow("cdi", 1, 5) {
		t.Fatal("expected allow after refill")
	}
	if l.Allow("cdi", 1, 5) {
		t.Fatal("bucket should cap at capacity 1")
	}
}
