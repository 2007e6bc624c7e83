package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/peterkuimelis/orderflag/internal/game"
)

// validateCmd checks flag counts, or every preset when given no counts.
var validateCmd = &cobra.Command{
	Use:   "validate [beat action try]",
	Short: "Check flag counts or the party presets file",
	Long: `With three numbers, checks that the counts form a valid battle setup:
the total must be a multiple of 5 between 5 and 25.
Without arguments, loads every preset from the parties file.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 0 && len(args) != 3 {
			return fmt.Errorf("expected 0 or 3 arguments, got %d", len(args))
		}
		return nil
	},
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if len(args) == 3 {
		var n [3]int
		for i, a := range args {
			v, err := strconv.Atoi(a)
			if err != nil {
				return fmt.Errorf("%q is not a number", a)
			}
			n[i] = v
		}
		if err := game.ValidateCounts(n[0], n[1], n[2]); err != nil {
			return err
		}
		fmt.Fprintf(out, "ok: %d flags, party of %d\n", n[0]+n[1]+n[2], (n[0]+n[1]+n[2])/game.FlagsPerMember)
		return nil
	}

	data, err := os.ReadFile(partiesFile)
	if err != nil {
		return fmt.Errorf("read parties: %w", err)
	}
	sf, err := game.ParseSetupData(data)
	if err != nil {
		return err
	}

	bad := 0
	for i, p := range sf.Parties {
		seed, err := p.Seed()
		if err != nil {
			bad++
			fmt.Fprintf(out, "%d) %-12s invalid: %v\n", i+1, p.Name, err)
			continue
		}
		z := game.NewZone(seed...)
		fmt.Fprintf(out, "%d) %-12s %2d flags (B %d / A %d / T %d)\n", i+1, p.Name, z.Count(),
			z.CountOf(game.KindBeat), z.CountOf(game.KindAction), z.CountOf(game.KindTry))
	}
	if bad > 0 {
		return fmt.Errorf("%d of %d parties invalid", bad, len(sf.Parties))
	}
	return nil
}
