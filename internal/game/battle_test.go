package game

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/peterkuimelis/orderflag/internal/log"
)

func TestNewBattle(t *testing.T) {
	b, _ := newTestBattle(3, 3, 4)
	if b.Turn() != 1 {
		t.Errorf("Turn = %d, want 1", b.Turn())
	}
	if b.PartySize() != 2 {
		t.Errorf("PartySize = %d, want 2", b.PartySize())
	}
	if len(b.Hand()) != 0 || len(b.Bonus()) != 0 {
		t.Error("hand and bonus should start empty")
	}
	if b.Flags().IsReserved() {
		t.Error("nothing should be reserved at start")
	}
	expectCounts(t, "stack", b.Flags().Stack(), 3, 3, 4)
	expectCounts(t, "seed", NewZone(b.Flags().Seed()...), 3, 3, 4)
}

// TestTurnEndWithoutReserve: six flags remain for a party of two, which is
// above the lookahead threshold of five.
func TestTurnEndWithoutReserve(t *testing.T) {
	b, _ := newTestBattle(3, 3, 4)

	b.DrawHand(Beat(), Action(0))
	b.DrawBonus(Try(0), Try(0))
	b.TurnEnd()

	expectCounts(t, "stack", b.Flags().Stack(), 2, 2, 2)
	expectCounts(t, "graveyard", b.Flags().Graveyard(), 1, 1, 2)
	if b.Flags().IsReserved() {
		t.Fatal("no reserve expected above the threshold")
	}

	// The stack runs out this turn, so the renewed stack includes this
	// turn's discards.
	b.DrawHand(flags(beats(2), actions(2))...)
	b.DrawBonus(tries(2)...)
	b.TurnEnd()

	expectCounts(t, "renewed stack", b.Flags().Stack(), 3, 3, 4)
	expectConserved(t, b, 10)
}

// TestTurnEndReservesAtThreshold: five flags remain for a party of two, so the
// graveyard is frozen as the next stack and later discards are kept out of it.
func TestTurnEndReservesAtThreshold(t *testing.T) {
	b, logger := newTestBattle(3, 3, 4)

	b.DrawHand(Beat(), Action(0))
	b.DrawBonus(Try(0), Try(0), Beat())
	b.TurnEnd()

	expectCounts(t, "stack", b.Flags().Stack(), 1, 2, 2)
	expectCounts(t, "graveyard", b.Flags().Graveyard(), 0, 0, 0)
	if !b.Flags().IsReserved() {
		t.Fatal("reserve expected at the threshold")
	}
	expectCounts(t, "reserve", b.Flags().Reserved(), 2, 1, 2)
	if got := len(logger.EventsOfType(log.EventReserve)); got != 1 {
		t.Errorf("reserve events = %d, want 1", got)
	}

	b.DrawHand(Beat(), Action(0), Action(0))
	b.DrawBonus(Try(0), Try(0))
	b.TurnEnd()

	expectCounts(t, "stack from reserve", b.Flags().Stack(), 2, 1, 2)

	// Five flags again, so this turn's discards are reserved in turn.
	expectCounts(t, "graveyard", b.Flags().Graveyard(), 0, 0, 0)
	expectCounts(t, "next reserve", b.Flags().Reserved(), 1, 2, 2)
	expectConserved(t, b, 10)
}

// TestOrderChangeDiscardsBeforeRenew: an order change on an empty stack puts
// the old flag into the graveyard first, so it is the one drawn back.
func TestOrderChangeDiscardsBeforeRenew(t *testing.T) {
	b, logger := newTestBattle(2, 2, 1)

	b.DrawHand(Beat(), Beat(), Action(0), Action(0), Try(0))
	if !b.Flags().Stack().IsEmpty() {
		t.Fatal("stack should be empty")
	}

	b.OrderChange(0, Beat())

	if got := len(logger.EventsOfType(log.EventRenew)); got != 1 {
		t.Fatalf("renew events = %d, want exactly 1", got)
	}
	if !b.Flags().Stack().IsEmpty() || !b.Flags().Graveyard().IsEmpty() {
		t.Error("the discarded beat should have been drawn straight back")
	}
	if h := b.Hand(); h[0] != Beat() {
		t.Errorf("hand[0] = %v, want Beat", h[0])
	}
	expectConserved(t, b, 5)

	b.TurnEnd()
	expectCounts(t, "stack", b.Flags().Stack(), 2, 2, 1)
	if b.Flags().IsReserved() {
		t.Error("five flags is above the threshold of four")
	}
}

// TestReservationUsedAfterMoreDiscards: the frozen graveyard feeds the next
// renewal even though further order changes land in the graveyard first.
func TestReservationUsedAfterMoreDiscards(t *testing.T) {
	b, _ := newTestBattle(3, 3, 4)
	b.DrawHand(Beat(), Action(0))
	b.DrawBonus(Try(0), Try(0), Beat())
	b.TurnEnd()
	reserved := b.Flags().Reserved().Clone()

	b.DrawHand(Beat(), Action(0), Action(0), Try(0))
	b.OrderChange(0, Try(0)) // stack now empty, Beat in graveyard
	b.OrderChange(1, Beat()) // renews from the reserve

	expectCounts(t, "graveyard", b.Flags().Graveyard(), 1, 1, 0)
	expectCounts(t, "stack", b.Flags().Stack(), reserved.CountOf(KindBeat)-1, reserved.CountOf(KindAction), reserved.CountOf(KindTry))
	if b.Flags().IsReserved() {
		t.Error("reserve should be consumed")
	}
	expectConserved(t, b, 10)
}

func TestDrawUnavailablePanics(t *testing.T) {
	b, _ := newTestBattle(5, 0, 0)

	defer func() {
		r := recover()
		ce, ok := r.(*ContractError)
		if !ok {
			t.Fatalf("recovered %v, want *ContractError", r)
		}
		if !errors.Is(ce, ErrFlagUnavailable) {
			t.Errorf("error = %v, want ErrFlagUnavailable", ce)
		}
	}()
	b.DrawHand(Try(0))
}

func TestOrderChangeBadIndexPanics(t *testing.T) {
	b, _ := newTestBattle(5, 0, 0)
	b.DrawHand(Beat())

	defer func() {
		ce, ok := recover().(*ContractError)
		if !ok || !errors.Is(ce, ErrHandIndex) {
			t.Fatalf("want ErrHandIndex contract error, got %v", ce)
		}
	}()
	b.OrderChange(1, Beat())
}

func TestCommitRollsBack(t *testing.T) {
	b, logger := newTestBattle(3, 1, 1)
	before := len(logger.Events())

	err := b.Commit(func(b *Battle) {
		b.DrawHand(Beat(), Action(0))
		b.DrawHand(Action(0)) // only one Action in the battle
	})
	if !errors.Is(err, ErrFlagUnavailable) {
		t.Fatalf("Commit error = %v, want ErrFlagUnavailable", err)
	}
	if len(b.Hand()) != 0 {
		t.Errorf("hand = %v, want empty after rollback", b.Hand())
	}
	expectCounts(t, "stack", b.Flags().Stack(), 3, 1, 1)
	if len(logger.Events()) != before {
		t.Error("a rolled back commit must not log")
	}

	if err := b.Commit(func(b *Battle) { b.DrawHand(Beat(), Action(0)) }); err != nil {
		t.Fatal(err)
	}
	if len(b.Hand()) != 2 {
		t.Errorf("hand = %v, want two flags", b.Hand())
	}
	if got := len(logger.EventsOfType(log.EventDraw)); got != 2 {
		t.Errorf("draw events = %d, want 2", got)
	}
}

func TestPredictLeavesBattleAlone(t *testing.T) {
	b, logger := newTestBattle(3, 3, 4)
	b.DrawHand(Beat(), Action(0))

	next, err := b.Predict(func(p *Battle) {
		p.DrawBonus(Try(0))
		p.TurnEnd()
	})
	if err != nil {
		t.Fatal(err)
	}
	if next.Turn() != 2 || b.Turn() != 1 {
		t.Errorf("turns: prediction %d, battle %d", next.Turn(), b.Turn())
	}
	expectCounts(t, "prediction graveyard", next.Flags().Graveyard(), 1, 1, 1)
	expectCounts(t, "battle graveyard", b.Flags().Graveyard(), 0, 0, 0)
	if got := len(logger.EventsOfType(log.EventTurnEnd)); got != 0 {
		t.Errorf("prediction logged %d turn ends", got)
	}
}

func TestCloneIsolation(t *testing.T) {
	b, _ := newTestBattle(3, 3, 4)
	b.DrawHand(Beat(), Action(0))
	b.DrawBonus(Try(0))

	c := b.Clone()
	c.OrderChange(0, Try(0))
	c.DrawBonus(Beat())
	c.TurnEnd()

	if h := b.Hand(); h[0] != Beat() || len(h) != 2 {
		t.Errorf("original hand changed: %v", h)
	}
	if len(b.Bonus()) != 1 {
		t.Errorf("original bonus changed: %v", b.Bonus())
	}
	expectCounts(t, "original stack", b.Flags().Stack(), 2, 2, 3)
	expectCounts(t, "original graveyard", b.Flags().Graveyard(), 0, 0, 0)
	if b.Turn() != 1 || len(b.Snapshots()) != 0 {
		t.Error("original turn state changed")
	}

	b.TurnEnd()
	if c.Turn() != 2 || len(c.Snapshots()) != 1 {
		t.Error("clone turn state changed")
	}
}

func TestHandIsACopy(t *testing.T) {
	b, _ := newTestBattle(5, 0, 0)
	b.DrawHand(Beat())
	h := b.Hand()
	h[0] = Try(0)
	if b.Hand()[0] != Beat() {
		t.Error("mutating the returned hand changed the battle")
	}
}

func TestSnapshots(t *testing.T) {
	b, _ := newTestBattle(3, 3, 4)
	b.DrawHand(Beat(), Action(0))
	b.TurnEnd()
	b.DrawHand(Try(0))
	b.TurnEnd()

	snaps := b.Snapshots()
	if len(snaps) != 2 {
		t.Fatalf("snapshots = %d, want 2", len(snaps))
	}
	if snaps[0].Turn() != 1 || snaps[1].Turn() != 2 {
		t.Errorf("snapshot turns = %d, %d", snaps[0].Turn(), snaps[1].Turn())
	}
	expectCounts(t, "first snapshot graveyard", snaps[0].Flags().Graveyard(), 1, 1, 0)

	snaps[0].DrawHand(Beat())
	if b.Snapshots()[0].Flags().Stack().Count() != 8 {
		t.Error("snapshots must be handed out as copies")
	}
}

func TestDrawable(t *testing.T) {
	b, _ := newTestBattle(1, 2, 2)
	if b.Drawable().Count() != 5 {
		t.Fatalf("Drawable = %d, want the full stack", b.Drawable().Count())
	}
	b.DrawHand(Beat(), Action(0), Action(0), Try(0), Try(0))
	if b.Drawable().Count() != 0 {
		t.Fatal("nothing drawable with every flag in hand")
	}
	b.OrderChange(0, Beat())
	expectCounts(t, "hand", NewZone(b.Hand()...), 1, 2, 2)
}

// TestRandomBattlesKeepInvariants plays seeded random battles and checks that
// flags are conserved and the reserve follows the lookahead rule.
func TestRandomBattlesKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for _, members := range []int{1, 2, 3, 5} {
		total := members * FlagsPerMember
		beat := rng.IntN(total + 1)
		action := rng.IntN(total - beat + 1)
		b, _ := newTestBattle(beat, action, total-beat-action)
		threshold := b.PartySize() + LookaheadMargin

		for turn := 0; turn < 40; turn++ {
			for i := 0; i < members; i++ {
				if f, ok := pickDrawable(rng, b); ok {
					b.DrawHand(f)
				}
			}
			for i := rng.IntN(3); i > 0 && len(b.Hand()) > 0; i-- {
				idx := rng.IntN(len(b.Hand()))
				f, ok := pickDrawable(rng, b)
				if !ok {
					f = b.Hand()[idx]
				}
				b.OrderChange(idx, f)
				expectConserved(t, b, total)
			}
			for i := rng.IntN(3); i > 0; i-- {
				if f, ok := pickDrawable(rng, b); ok {
					b.DrawBonus(f)
				}
			}
			expectConserved(t, b, total)

			wasReserved := b.Flags().IsReserved()
			b.TurnEnd()
			expectConserved(t, b, total)

			stack := b.Flags().Stack().Count()
			if stack <= threshold && !b.Flags().IsReserved() && !b.Flags().Graveyard().IsEmpty() {
				t.Fatalf("members %d turn %d: stack %d at threshold %d but nothing reserved", members, b.Turn(), stack, threshold)
			}
			if b.Flags().IsReserved() && !wasReserved && stack > threshold {
				t.Fatalf("members %d turn %d: reserved with stack %d above threshold %d", members, b.Turn(), stack, threshold)
			}
		}
	}
}

func pickDrawable(rng *rand.Rand, b *Battle) (Flag, bool) {
	avail := b.Drawable().Flags()
	if len(avail) == 0 {
		return Flag{}, false
	}
	return avail[rng.IntN(len(avail))], true
}
