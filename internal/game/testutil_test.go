package game

import (
	"bufio"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/peterkuimelis/orderflag/internal/log"
)

func beats(n int) []Flag   { return Repeat(Beat(), n) }
func actions(n int) []Flag { return Repeat(Action(0), n) }
func tries(n int) []Flag   { return Repeat(Try(0), n) }

func flags(groups ...[]Flag) []Flag {
	var out []Flag
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// newTestBattle builds a battle from per-kind counts with an in-memory logger.
func newTestBattle(beat, action, try int) (*Battle, *log.MemoryLogger) {
	logger := log.NewMemoryLogger()
	b := NewBattle(BattleConfig{Flags: SeedFlags(beat, action, try), Logger: logger})
	return b, logger
}

// expectCounts checks the per-kind counts of a zone.
func expectCounts(t *testing.T, what string, z ZoneReader, beat, action, try int) {
	t.Helper()
	want := []int{beat, action, try}
	got := []int{z.CountOf(KindBeat), z.CountOf(KindAction), z.CountOf(KindTry)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("%s counts (beat, action, try) mismatch (-want +got):\n%s", what, diff)
	}
}

// expectConserved checks that no flag was created or lost.
func expectConserved(t *testing.T, b *Battle, total int) {
	t.Helper()
	if got := b.FlagCount(); got != total {
		t.Fatalf("flag count = %d, want %d", got, total)
	}
}

// runScript drives a battle from a testdata script and returns it with the
// number of turns ended. Each non-comment line is one of:
//
//	seed <beat> <action> <try>
//	hand <flags...>
//	bonus <flags...>
//	change <index> <flag>
//	end
//	stack <beat> <action> <try>
//	graveyard <beat> <action> <try>
func runScript(t *testing.T, path string) (*Battle, int) {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open script: %v", err)
	}
	defer f.Close()

	var (
		b     *Battle
		total int
		ends  int
	)
	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		cmd, args := fields[0], fields[1:]

		if cmd != "seed" && b == nil {
			t.Fatalf("%s:%d: %s before seed", path, lineNo, cmd)
		}

		switch cmd {
		case "seed":
			n := scriptInts(t, path, lineNo, args, 3)
			b, _ = newTestBattle(n[0], n[1], n[2])
			total = n[0] + n[1] + n[2]
		case "hand":
			b.DrawHand(scriptFlags(t, path, lineNo, args)...)
		case "bonus":
			b.DrawBonus(scriptFlags(t, path, lineNo, args)...)
		case "change":
			if len(args) != 2 {
				t.Fatalf("%s:%d: change wants index and flag", path, lineNo)
			}
			idx := scriptInts(t, path, lineNo, args[:1], 1)[0]
			b.OrderChange(idx, scriptFlags(t, path, lineNo, args[1:])[0])
		case "end":
			b.TurnEnd()
			ends++
		case "stack":
			n := scriptInts(t, path, lineNo, args, 3)
			expectCounts(t, path+":"+strconv.Itoa(lineNo)+" stack", b.Flags().Stack(), n[0], n[1], n[2])
		case "graveyard":
			n := scriptInts(t, path, lineNo, args, 3)
			expectCounts(t, path+":"+strconv.Itoa(lineNo)+" graveyard", b.Flags().Graveyard(), n[0], n[1], n[2])
		default:
			t.Fatalf("%s:%d: unknown command %q", path, lineNo, cmd)
		}

		expectConserved(t, b, total)
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("read script: %v", err)
	}
	return b, ends
}

func scriptInts(t *testing.T, path string, line int, args []string, n int) []int {
	t.Helper()
	if len(args) != n {
		t.Fatalf("%s:%d: want %d numbers, got %d", path, line, n, len(args))
	}
	out := make([]int, n)
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			t.Fatalf("%s:%d: %v", path, line, err)
		}
		out[i] = v
	}
	return out
}

func scriptFlags(t *testing.T, path string, line int, args []string) []Flag {
	t.Helper()
	fl, err := ParseFlags(strings.Join(args, " "))
	if err != nil {
		t.Fatalf("%s:%d: %v", path, line, err)
	}
	return fl
}
