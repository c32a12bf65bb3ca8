package util

import (
	"strconv"
	"testing"
	"time"
)

func TestParseTimeRFC3339(t *testing.T) {
	s := "2025-06-01T10:10:10Z"
	got, ok := ParseTime(s)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.UTC().Format(time.RFC3339) != s {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeUnix(t *testing.T) {
	ts := time.Date(2025, 6, 1, 10, 10, 10, 0, time.UTC).Unix()
	got, ok := ParseTime(strconv.FormatInt(ts, 10))
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Unix() != ts {
		t.Fatalf("unexpected unix %v", got.Unix())
	}
}

func TestParseTimeDefault(t *testing.T) {
	def := time.Date(2025, 6, 1, 10, 10, 10, 0, time.UTC)
	got := ParseTimeDefault("", def)
	if !got.Equal(def) {
		t.Fatalf("expected default")
	}
}

func TestAge(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	if got := Age(now.Add(-90*time.Second), now); got != 90*time.Second {
		t.Fatalf("unexpected age %v", got)
	}
	if got := Age(now.Add(time.Minute), now); got != 0 {
		t.Fatalf("future timestamp should clamp to zero, got %v", got)
	}
	if got := Age(time.Time{}, now); got != 0 {
		t.Fatalf("zero timestamp should clamp to zero, got %v", got)
	}
}

func TestParseFloatDefault(t *testing.T) {
	if got := ParseFloatDefault("58.29", 0); got != 58.29 {
		t.Fatalf("unexpected value %v", got)
	}
	if got := ParseFloatDefault("nope", 54.66); got != 54.66 {
		t.Fatalf("expected default, got %v", got)
	}
}
