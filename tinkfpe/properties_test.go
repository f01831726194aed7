package tinkfpe

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/google/tink/go/keyset"
)

// TestCollisionResistance tests that different inputs produce different
// outputs for a given key/tweak pair.
func TestCollisionResistance(t *testing.T) {
	if err := Register(); err != nil {
		t.Fatalf("Failed to register KeyManager: %v", err)
	}

	handle, err := keyset.NewHandle(KeyTemplate())
	if err != nil {
		t.Fatalf("Failed to create keyset handle: %v", err)
	}

	primitive, err := New(handle, Params{Tweak: []byte("test-tweak")})
	if err != nil {
		t.Fatalf("Failed to create FPE primitive: %v", err)
	}

	t.Run("FixedInputs", func(t *testing.T) {
		seen := make(map[string]string) // token -> plaintext
		testCases := []string{
			"1234567890",
			"9876543210",
			"0000000000",
			"1111111111",
			"9999999999",
			"0123456789",
			"123-45-6789",
			"987-65-4321",
			"4532-1234-5678-9010",
			"555-123-4567",
		}

		for _, plaintext := range testCases {
			token, err := primitive.Tokenize(plaintext)
			if err != nil {
				t.Errorf("Failed to tokenize %s: %v", plaintext, err)
				continue
			}
			if existing, exists := seen[token]; exists {
				t.Errorf("collision: %s and %s both produce %s", existing, plaintext, token)
			}
			seen[token] = plaintext

			decrypted, err := primitive.Detokenize(token)
			if err != nil {
				t.Errorf("Failed to detokenize %s: %v", token, err)
				continue
			}
			if decrypted != plaintext {
				t.Errorf("round-trip failed: %s -> %s -> %s", plaintext, token, decrypted)
			}
		}
	})

	t.Run("RandomInputs", func(t *testing.T) {
		rng := rand.New(rand.NewSource(42))
		tokenToPlaintext := make(map[string]string)

		for i := 0; i < 1000; i++ {
			plaintext := fmt.Sprintf("%012d", rng.Int63n(1_000_000_000_000))
			token, err := primitive.Tokenize(plaintext)
			if err != nil {
				t.Fatalf("Failed to tokenize %s: %v", plaintext, err)
			}
			if existing, exists := tokenToPlaintext[token]; exists && existing != plaintext {
				t.Fatalf("collision: %s and %s both produce %s", existing, plaintext, token)
			}
			tokenToPlaintext[token] = plaintext
		}
	})
}

// TestDeterminism tests that the same input always produces the same output.
func TestDeterminism(t *testing.T) {
	handle, err := NewKeysetHandleFromKey(make([]byte, 32))
	if err != nil {
		t.Fatalf("Failed to create keyset handle: %v", err)
	}

	primitive, err := New(handle, Params{Tweak: []byte("determinism")})
	if err != nil {
		t.Fatalf("Failed to create primitive: %v", err)
	}

	plaintext := "4532-1234-5678-9010"
	first, err := primitive.Tokenize(plaintext)
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	for i := 0; i < 10; i++ {
		token, err := primitive.Tokenize(plaintext)
		if err != nil {
			t.Fatalf("Tokenize failed: %v", err)
		}
		if token != first {
			t.Fatalf("non-deterministic: %s vs %s", first, token)
		}
	}
}

// TestTweakSeparation tests that different tweaks produce different tokens
// under the same key.
func TestTweakSeparation(t *testing.T) {
	handle, err := NewKeysetHandleFromKey(make([]byte, 32))
	if err != nil {
		t.Fatalf("Failed to create keyset handle: %v", err)
	}

	tenantA, err := New(handle, Params{Tweak: []byte("tenant-a")})
	if err != nil {
		t.Fatalf("Failed to create primitive: %v", err)
	}
	tenantB, err := New(handle, Params{Tweak: []byte("tenant-b")})
	if err != nil {
		t.Fatalf("Failed to create primitive: %v", err)
	}

	plaintext := "123-45-6789"
	tokenA, err := tenantA.Tokenize(plaintext)
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	tokenB, err := tenantB.Tokenize(plaintext)
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	if tokenA == tokenB {
		t.Errorf("tweaks did not separate domains: both produce %s", tokenA)
	}

	// Each tenant still round-trips its own token.
	for name, pair := range map[string]struct {
		p     interface{ Detokenize(string) (string, error) }
		token string
	}{
		"tenant-a": {tenantA, tokenA},
		"tenant-b": {tenantB, tokenB},
	} {
		decrypted, err := pair.p.Detokenize(pair.token)
		if err != nil {
			t.Fatalf("%s Detokenize failed: %v", name, err)
		}
		if decrypted != plaintext {
			t.Errorf("%s round-trip failed: got %s", name, decrypted)
		}
	}
}

// TestConcurrentUse tests that a primitive is safe for concurrent callers.
func TestConcurrentUse(t *testing.T) {
	handle, err := NewKeysetHandleFromKey(make([]byte, 16))
	if err != nil {
		t.Fatalf("Failed to create keyset handle: %v", err)
	}

	primitive, err := New(handle, Params{Tweak: []byte("concurrent")})
	if err != nil {
		t.Fatalf("Failed to create primitive: %v", err)
	}

	plaintext := "1234567890123456"
	want, err := primitive.Tokenize(plaintext)
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 8; i++ {
				token, err := primitive.Tokenize(plaintext)
				if err != nil {
					errs <- err
					return
				}
				if token != want {
					errs <- fmt.Errorf("concurrent mismatch: %s vs %s", token, want)
					return
				}
				decrypted, err := primitive.Detokenize(token)
				if err != nil {
					errs <- err
					return
				}
				if decrypted != plaintext {
					errs <- fmt.Errorf("concurrent round-trip failed: %s", decrypted)
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
