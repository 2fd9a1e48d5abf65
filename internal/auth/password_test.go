package auth_test

import (
	"strings"
	"testing"

	"github.com/abzalkhan/taskboard/internal/auth"
)

// bcrypt minimum cost keeps the tests fast.
const testCost = 4

func TestHash_SameInputProducesDifferentDigests(t *testing.T) {
	h := auth.NewHasher(testCost)

	d1, err := h.Hash("pw123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	d2, err := h.Hash("pw123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if d1 == d2 {
		t.Errorf("two hashes of the same password are identical — salt is not regenerated")
	}
}

func TestHash_RejectsOverlongPassword(t *testing.T) {
	h := auth.NewHasher(testCost)

	if _, err := h.Hash(strings.Repeat("a", 73)); err == nil {
		t.Errorf("expected error for 73-byte password, got nil")
	}
}

func TestVerify_MatchAndMismatch(t *testing.T) {
	h := auth.NewHasher(testCost)

	digest, err := h.Hash("pw123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	ok, err := h.Verify("pw123", digest)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Errorf("correct password did not verify")
	}

	ok, err = h.Verify("wrongpw", digest)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ok {
		t.Errorf("wrong password verified")
	}
}

func TestVerify_MalformedDigestReturnsError(t *testing.T) {
	h := auth.NewHasher(testCost)

	if _, err := h.Verify("pw123", "not-a-bcrypt-digest"); err == nil {
		t.Errorf("expected error for malformed digest, got nil")
	}
}

func TestNewHasher_OutOfRangeCostFallsBackToDefault(t *testing.T) {
	h := auth.NewHasher(99)

	// Must still produce verifiable digests.
	digest, err := h.Hash("pw123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	ok, err := h.Verify("pw123", digest)
	if err != nil || !ok {
		t.Errorf("digest from fallback cost did not verify: ok=%v err=%v", ok, err)
	}
}
