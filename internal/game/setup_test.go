package game

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestValidateCounts(t *testing.T) {
	tests := []struct {
		beat, action, try int
		want              error
	}{
		{3, 3, 3, ErrNotMultipleOf5},
		{3, 3, 1, ErrNotMultipleOf5},
		{0, 0, 0, ErrTooFew},
		{0, 0, -5, ErrTooFew},
		{10, 10, 10, ErrTooMany},
		{5, 0, 0, nil},
		{5, 5, 0, nil},
		{5, 5, 5, nil},
		{10, 5, 5, nil},
		{10, 10, 5, nil},
	}
	for _, tt := range tests {
		err := ValidateCounts(tt.beat, tt.action, tt.try)
		if !errors.Is(err, tt.want) {
			t.Errorf("ValidateCounts(%d, %d, %d) = %v, want %v", tt.beat, tt.action, tt.try, err, tt.want)
		}
	}
}

func TestSeedFlags(t *testing.T) {
	seed := SeedFlags(2, 1, 3)
	expectCounts(t, "seed", NewZone(seed...), 2, 1, 3)
}

const testSetupYAML = `
parties:
  - name: Duo
    flags:
      - kind: beat
        count: 3
      - kind: action
        count: 3
      - kind: try
        number: 2
        count: 4
  - name: Broken
    flags:
      - kind: beat
        count: 4
`

func writeSetup(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "parties.yaml")
	if err := os.WriteFile(path, []byte(testSetupYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSetupByNumber(t *testing.T) {
	path := writeSetup(t)

	name, seed, err := SetupByNumber(path, 1)
	if err != nil {
		t.Fatal(err)
	}
	if name != "Duo" {
		t.Errorf("name = %q, want Duo", name)
	}
	z := NewZone(seed...)
	expectCounts(t, "Duo", z, 3, 3, 4)
	if !z.Contains(Try(2)) || z.Contains(Try(0)) {
		t.Error("try flags should carry number 2")
	}

	if _, _, err := SetupByNumber(path, 2); !errors.Is(err, ErrTooFew) {
		t.Errorf("party 2 error = %v, want ErrTooFew", err)
	}
	if _, _, err := SetupByNumber(path, 3); err == nil {
		t.Error("party 3 should not exist")
	}
}

func TestParseSetupFileRejectsInvalidParty(t *testing.T) {
	if _, err := ParseSetupFile(writeSetup(t)); !errors.Is(err, ErrTooFew) {
		t.Errorf("ParseSetupFile error = %v, want ErrTooFew", err)
	}
}

func TestBundledParties(t *testing.T) {
	parties, err := ParseSetupFile(filepath.Join("..", "..", "parties.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(parties) != 4 {
		t.Errorf("parties = %d, want 4", len(parties))
	}
	if got := len(parties["Full party"]); got != 25 {
		t.Errorf("full party flags = %d, want 25", got)
	}
}
