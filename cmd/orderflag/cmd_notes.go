package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/peterkuimelis/orderflag/internal/store"
)

var (
	notesDB   string
	notesDay  int
	notesTurn int
)

// notesCmd shows the notes of one day.
var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Show or edit per-day battle notes",
	Long: `Shows the saved flag counts, completion mark and memos of a day.
Days are numbered 0 (Monday) to 6 (Sunday); the default is today.`,
	Args: cobra.NoArgs,
	RunE: runNotesShow,
}

var notesMemoCmd = &cobra.Command{
	Use:   "memo [text...]",
	Short: "Set the day memo, or a turn memo with --turn (no text deletes it)",
	RunE:  runNotesMemo,
}

var notesFlagsCmd = &cobra.Command{
	Use:   "flags beat action try",
	Short: "Save the flag counts of the day",
	Args:  cobra.ExactArgs(3),
	RunE:  runNotesFlags,
}

var notesFlowerCmd = &cobra.Command{
	Use:       "flower on|off",
	Short:     "Mark the day as done, or clear the mark",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE:      runNotesFlower,
}

func init() {
	notesCmd.PersistentFlags().StringVar(&notesDB, "db", "orderflag.db", "path to the notes database")
	notesCmd.PersistentFlags().IntVar(&notesDay, "day", -1, "day index, 0 = Monday (default today)")
	notesMemoCmd.Flags().IntVar(&notesTurn, "turn", 0, "turn number for a turn memo")
	notesCmd.AddCommand(notesMemoCmd, notesFlagsCmd, notesFlowerCmd)
}

// withNotes opens the store, resolves the day and runs fn.
func withNotes(ctx context.Context, fn func(s *store.Store, day int) error) error {
	s, err := store.Open(ctx, notesDB)
	if err != nil {
		return err
	}
	defer s.Close()

	day := notesDay
	if day < 0 {
		day = store.DayIndex(time.Now())
	}
	return fn(s, day)
}

func runNotesShow(cmd *cobra.Command, args []string) error {
	return withNotes(cmd.Context(), func(s *store.Store, day int) error {
		ctx := cmd.Context()
		flags, err := s.LoadDayFlags(ctx, day)
		if err != nil {
			return err
		}
		done, err := s.LoadWhiteFlower(ctx, day)
		if err != nil {
			return err
		}
		memo, err := s.LoadStrategyMemo(ctx, day)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		mark := ""
		if done {
			mark = " (done)"
		}
		fmt.Fprintf(out, "%s%s\n", store.DayLabels[day], mark)
		fmt.Fprintf(out, "flags: B %d / A %d / T %d\n", flags.Beat, flags.Action, flags.Try)
		if memo != "" {
			fmt.Fprintf(out, "memo: %s\n", memo)
		}
		return nil
	})
}

func runNotesMemo(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	return withNotes(cmd.Context(), func(s *store.Store, day int) error {
		ctx := cmd.Context()
		switch {
		case notesTurn > 0 && text == "":
			return s.DeleteTurnMemo(ctx, day, notesTurn)
		case notesTurn > 0:
			return s.SaveTurnMemo(ctx, day, notesTurn, text)
		case text == "":
			return s.DeleteStrategyMemo(ctx, day)
		default:
			return s.SaveStrategyMemo(ctx, day, text)
		}
	})
}

func runNotesFlags(cmd *cobra.Command, args []string) error {
	var n [3]int
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return fmt.Errorf("%q is not a number", a)
		}
		n[i] = v
	}
	return withNotes(cmd.Context(), func(s *store.Store, day int) error {
		return s.SaveDayFlags(cmd.Context(), day, store.DayFlags{Beat: n[0], Action: n[1], Try: n[2]})
	})
}

func runNotesFlower(cmd *cobra.Command, args []string) error {
	var on bool
	switch args[0] {
	case "on":
		on = true
	case "off":
	default:
		return fmt.Errorf("expected on or off, got %q", args[0])
	}
	return withNotes(cmd.Context(), func(s *store.Store, day int) error {
		return s.SaveWhiteFlower(cmd.Context(), day, on)
	})
}
