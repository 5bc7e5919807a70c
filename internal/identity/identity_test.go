package identity

import (
	"strings"
	"testing"
)

func TestNewUserID(t *testing.T) {
	id := NewUserID()
	if !strings.HasPrefix(id, "user_") {
		t.Fatalf("id = %q, want user_ prefix", id)
	}
	for _, r := range strings.TrimPrefix(id, "user_") {
		if (r < '0' || r > '9') && (r < 'a' || r > 'z') {
			t.Fatalf("id %q contains non-base36 rune %q", id, r)
		}
	}
}

func TestNewUserIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewUserID()
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}
