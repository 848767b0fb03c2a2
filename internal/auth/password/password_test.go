package password

import (
	"strings"
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	encoded, err := Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$v=19$") {
		t.Fatalf("unexpected hash format: %s", encoded)
	}

	if !Verify("correct horse battery staple", encoded) {
		t.Fatal("expected password to verify")
	}
	if Verify("wrong password", encoded) {
		t.Fatal("expected mismatch to fail")
	}
}

func TestHashIsSalted(t *testing.T) {
	a, err := Hash("same password")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	b, err := Hash("same password")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if a == b {
		t.Fatal("two hashes of the same password should differ")
	}
}

func TestVerifyRejectsMalformed(t *testing.T) {
	for _, encoded := range []string{
		"",
		"plaintext",
		"$argon2i$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=1$c2FsdA$aGFzaA",
	} {
		if Verify("whatever", encoded) {
			t.Errorf("expected %q to fail verification", encoded)
		}
	}
}
