package usecase

import "testing"

func TestAccountNumberFromSameMillisecondIDs(t *testing.T) {
	// ULIDs minted in the same millisecond share their first ten
	// characters and differ only in the entropy tail.
	first := "01M1C4FK234DKSWAVHZNPJP6ZA"
	second := "01M1C4FK234DKSWAVHZP32KZHN"

	a := accountNumberFrom(first)
	b := accountNumberFrom(second)

	if len(a) != 10 || len(b) != 10 {
		t.Fatalf("account numbers must be 10 digits, got %q and %q", a, b)
	}

	for _, n := range []string{a, b} {
		for i := 0; i < len(n); i++ {
			if n[i] < '0' || n[i] > '9' {
				t.Fatalf("account number %q contains a non-digit", n)
			}
		}
	}

	if a == b {
		t.Fatalf("distinct account IDs derived the same account number %q", a)
	}

	if ibanFrom("US", first) == ibanFrom("US", second) {
		t.Fatal("distinct account IDs derived the same IBAN")
	}
}

func TestAccountNumberFromIsDeterministic(t *testing.T) {
	id := "01M1C4FK234DKSWAVHZNPJP6ZA"

	if accountNumberFrom(id) != accountNumberFrom(id) {
		t.Fatal("account number derivation must be stable per ID")
	}
}
