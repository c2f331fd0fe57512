package util

import "testing"

func TestHashIdentity(t *testing.T) {
	for _, id := range []string{"google:12345", "guest:7f3c2a"} {
		got := HashIdentity(id)
		if got != HashIdentity(id) {
			t.Fatalf("expected stable hash for %s, got %s", id, got)
		}
		for _, ch := range got {
			if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
				t.Fatalf("hash contains non-hex character: %c", ch)
			}
		}
		if len(got) != 64 {
			t.Fatalf("expected 64 hex characters, got %d", len(got))
		}
	}
}

func TestHashIdentitySeparatesProviders(t *testing.T) {
	if HashIdentity("guest:12345") == HashIdentity("google:12345") {
		t.Fatalf("guest and google identities must not collide")
	}
	if HashIdentity(" guest:12345\n") != HashIdentity("guest:12345") {
		t.Fatalf("surrounding whitespace must not change the key")
	}
}
