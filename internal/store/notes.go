package store

import (
	"context"
	"strconv"
)

const (
	categoryFlower = "flower"
	categoryFlag   = "flag"
	categoryMemo   = "memo"
)

// SaveWhiteFlower sets or clears the completion mark of a day.
func (s *Store) SaveWhiteFlower(ctx context.Context, day int, marked bool) error {
	if err := checkDay(day); err != nil {
		return err
	}
	value := "0"
	if marked {
		value = "1"
	}
	return s.Set(ctx, Key(categoryFlower, day), value)
}

func (s *Store) LoadWhiteFlower(ctx context.Context, day int) (bool, error) {
	if err := checkDay(day); err != nil {
		return false, err
	}
	v, _, err := s.Get(ctx, Key(categoryFlower, day))
	return v == "1", err
}

// SaveDayFlags records the flag counts entered for a day.
func (s *Store) SaveDayFlags(ctx context.Context, day int, f DayFlags) error {
	if err := checkDay(day); err != nil {
		return err
	}
	for _, kv := range []struct {
		kind  string
		count int
	}{{"beat", f.Beat}, {"action", f.Action}, {"try", f.Try}} {
		if err := s.Set(ctx, Key(categoryFlag, day, kv.kind), strconv.Itoa(kv.count)); err != nil {
			return err
		}
	}
	return nil
}

// LoadDayFlags returns the counts saved for a day. Counts that were never
// saved or do not parse default to 1.
func (s *Store) LoadDayFlags(ctx context.Context, day int) (DayFlags, error) {
	if err := checkDay(day); err != nil {
		return DayFlags{}, err
	}
	var out DayFlags
	for _, kv := range []struct {
		kind string
		dst  *int
	}{{"beat", &out.Beat}, {"action", &out.Action}, {"try", &out.Try}} {
		v, _, err := s.Get(ctx, Key(categoryFlag, day, kv.kind))
		if err != nil {
			return DayFlags{}, err
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			n = 1
		}
		*kv.dst = n
	}
	return out, nil
}

func (s *Store) DeleteDayFlags(ctx context.Context, day int) error {
	if err := checkDay(day); err != nil {
		return err
	}
	return s.Delete(ctx,
		Key(categoryFlag, day, "beat"),
		Key(categoryFlag, day, "action"),
		Key(categoryFlag, day, "try"),
	)
}

// SaveStrategyMemo stores the free text memo of a day.
func (s *Store) SaveStrategyMemo(ctx context.Context, day int, memo string) error {
	if err := checkDay(day); err != nil {
		return err
	}
	return s.Set(ctx, Key(categoryMemo, day), memo)
}

// LoadStrategyMemo returns the memo of a day, or "" if there is none.
func (s *Store) LoadStrategyMemo(ctx context.Context, day int) (string, error) {
	if err := checkDay(day); err != nil {
		return "", err
	}
	v, _, err := s.Get(ctx, Key(categoryMemo, day))
	return v, err
}

func (s *Store) DeleteStrategyMemo(ctx context.Context, day int) error {
	if err := checkDay(day); err != nil {
		return err
	}
	return s.Delete(ctx, Key(categoryMemo, day))
}

// SaveTurnMemo stores the memo of one turn of a day.
func (s *Store) SaveTurnMemo(ctx context.Context, day, turn int, memo string) error {
	if err := checkDay(day); err != nil {
		return err
	}
	return s.Set(ctx, Key(categoryMemo, day, turn), memo)
}

func (s *Store) LoadTurnMemo(ctx context.Context, day, turn int) (string, error) {
	if err := checkDay(day); err != nil {
		return "", err
	}
	v, _, err := s.Get(ctx, Key(categoryMemo, day, turn))
	return v, err
}

func (s *Store) DeleteTurnMemo(ctx context.Context, day, turn int) error {
	if err := checkDay(day); err != nil {
		return err
	}
	return s.Delete(ctx, Key(categoryMemo, day, turn))
}
