package ids

import (
	"strings"
	"testing"
	"time"
)

func TestNewFormat(t *testing.T) {
	now := time.UnixMilli(1735689600000)
	id := New("user", now)
	parts := strings.Split(id, "-")
	if len(parts) != 3 {
		t.Fatalf("expected 3 parts, got %q", id)
	}
	if parts[0] != "user" || parts[1] != "1735689600000" {
		t.Fatalf("unexpected id %q", id)
	}
	if len(parts[2]) != suffixLen {
		t.Fatalf("expected suffix of %d chars, got %q", suffixLen, parts[2])
	}
}

func TestPlainIsUnique(t *testing.T) {
	now := time.Now()
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := Plain(now)
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
	}
}

func TestStamped(t *testing.T) {
	if got := Stamped("pv", time.UnixMilli(42)); got != "pv-42" {
		t.Fatalf("unexpected id %q", got)
	}
}
