package ratelimit

import "testing"

func TestAllowConsumesCapacity(t *testing.T) {
	l := New()
	for i := 0; i < 3; i++ {
		if !l.Allow("coingecko", 3, 0) {
			t.Fatalf("call %d should be allowed", i)
		}
	}
	if l.Allow("coingecko", 3, 0) {
		t.Fatalf("bucket should be exhausted")
	}
}

func TestAllowKeysAreIndependent(t *testing.T) {
	l := New()
	if !l.Allow("a", 1, 0) {
		t.Fatalf("first key should be allowed")
	}
	if l.Allow("a", 1, 0) {
		t.Fatalf("first key should be exhausted")
	}
	if !l.Allow("b", 1, 0) {
		t.Fatalf("second key should have its own bucket")
	}
}
