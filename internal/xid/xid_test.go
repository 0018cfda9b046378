package xid

import (
	"strings"
	"testing"
)

func TestNewIsPrefixedAndUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := New("fact")
		if !strings.HasPrefix(id, "fact-") {
			t.Fatalf("expected fact- prefix, got %s", id)
		}
		if len(id) != len("fact-")+12 {
			t.Fatalf("expected a 12-hex-char suffix, got %s", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}
