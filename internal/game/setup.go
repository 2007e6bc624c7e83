package game

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	FlagsPerMember = 5
	MinFlags       = 5
	MaxFlags       = 25
)

var (
	ErrNotMultipleOf5 = errors.New("total flag count must be a multiple of 5")
	ErrTooFew         = errors.New("total flag count must be at least 5")
	ErrTooMany        = errors.New("total flag count must be at most 25")
)

// ValidateCounts checks the per-kind counts a battle is set up with. Every
// party member brings five flags and a party has one to five members.
func ValidateCounts(beat, action, try int) error {
	total := beat + action + try
	switch {
	case total%FlagsPerMember != 0:
		return fmt.Errorf("%w (got %d)", ErrNotMultipleOf5, total)
	case total < MinFlags:
		return fmt.Errorf("%w (got %d)", ErrTooFew, total)
	case total > MaxFlags:
		return fmt.Errorf("%w (got %d)", ErrTooMany, total)
	}
	return nil
}

// SeedFlags builds the seed for a battle from per-kind counts. Action and Try
// flags are untagged.
func SeedFlags(beat, action, try int) []Flag {
	var flags []Flag
	flags = append(flags, Repeat(Beat(), beat)...)
	flags = append(flags, Repeat(Action(0), action)...)
	flags = append(flags, Repeat(Try(0), try)...)
	return flags
}

// SetupFile represents the top-level YAML structure.
type SetupFile struct {
	Parties []PartyEntry `yaml:"parties"`
}

// PartyEntry represents a single party preset in the YAML file.
type PartyEntry struct {
	Name  string      `yaml:"name"`
	Flags []FlagEntry `yaml:"flags"`
}

// FlagEntry represents a flag and its count in a party.
type FlagEntry struct {
	Kind   string `yaml:"kind"`
	Number int    `yaml:"number"`
	Count  int    `yaml:"count"`
}

// Seed expands the party into its flags and validates the totals.
func (p PartyEntry) Seed() ([]Flag, error) {
	var flags []Flag
	counts := make(map[FlagKind]int)
	for _, entry := range p.Flags {
		kind, err := ParseKind(entry.Kind)
		if err != nil {
			return nil, fmt.Errorf("party %q: %w", p.Name, err)
		}
		f, err := NewFlag(kind, entry.Number)
		if err != nil {
			return nil, fmt.Errorf("party %q: %w", p.Name, err)
		}
		flags = append(flags, Repeat(f, entry.Count)...)
		counts[kind] += entry.Count
	}
	if err := ValidateCounts(counts[KindBeat], counts[KindAction], counts[KindTry]); err != nil {
		return nil, fmt.Errorf("party %q: %w", p.Name, err)
	}
	return flags, nil
}

// ParseSetupData parses YAML party presets.
func ParseSetupData(data []byte) (SetupFile, error) {
	var sf SetupFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return SetupFile{}, fmt.Errorf("parse setup YAML: %w", err)
	}
	return sf, nil
}

// ParseSetupFile parses a YAML setup file and returns a map of party name → seed flags.
func ParseSetupFile(path string) (map[string][]Flag, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	sf, err := ParseSetupData(data)
	if err != nil {
		return nil, err
	}

	parties := make(map[string][]Flag)
	for _, party := range sf.Parties {
		flags, err := party.Seed()
		if err != nil {
			return nil, err
		}
		parties[party.Name] = flags
	}
	return parties, nil
}

// SetupByNumber returns the Nth party (1-indexed) from the setup file.
func SetupByNumber(path string, n int) (string, []Flag, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, err
	}

	sf, err := ParseSetupData(data)
	if err != nil {
		return "", nil, err
	}

	if n < 1 || n > len(sf.Parties) {
		return "", nil, fmt.Errorf("party %d not found (have %d parties)", n, len(sf.Parties))
	}

	party := sf.Parties[n-1]
	flags, err := party.Seed()
	if err != nil {
		return "", nil, err
	}
	return party.Name, flags, nil
}
