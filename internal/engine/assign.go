package engine

import (
	"context"
	"database/sql"
	"errors"
	"math/rand"
	"time"

	"ritualist/internal/catalog"
	"ritualist/internal/storage"
)

const (
	// NoRepeatDays is the trailing window in which an already-assigned
	// ritual is excluded from selection. Best-effort: exhaustion of the
	// catalog relaxes it rather than failing the day.
	NoRepeatDays = 30

	ModeGuided        = "guided"
	ModeGuidedExplore = "guided+explore"
)

// TodayResult is what the caller renders as today's card(s).
type TodayResult struct {
	Assignment *storage.Assignment
	Cards      []catalog.Definition
	CanReroll  bool
	State      *storage.DailyState
}

// TodaysAssignment returns the user's assignment for the given date, creating
// it on first access. date is truncated to its UTC calendar day.
func (s *Service) TodaysAssignment(ctx context.Context, userID string, date time.Time) (*TodayResult, error) {
	unlock := s.lockUser(userID)
	defer unlock()
	return s.todayLocked(ctx, userID, date)
}

func (s *Service) todayLocked(ctx context.Context, userID string, date time.Time) (*TodayResult, error) {
	p, err := s.profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	day := storage.DayKey(date)

	state, err := s.states.GetOrCreate(ctx, userID, day, p.WeeksActive)
	if err != nil {
		return nil, err
	}

	a, err := s.assignments.GetForDay(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	if a == nil {
		a, err = s.createAssignment(ctx, p, day, state.WeeksActive)
		if err != nil {
			return nil, classifyTxErr(ctx, "create assignment", err)
		}
	}

	cards, err := s.cards(a)
	if err != nil {
		return nil, err
	}
	return &TodayResult{
		Assignment: a,
		Cards:      cards,
		CanReroll:  !state.Rerolled && state.RitualsCompleted == 0,
		State:      state,
	}, nil
}

// Reroll discards today's assignment and deals a new one. Allowed once per
// day and only before any completion. The delete, recreate and flag-set are
// one transaction so a crash cannot leave the reroll spent without a new
// assignment, or vice versa.
func (s *Service) Reroll(ctx context.Context, userID string, date time.Time) (*TodayResult, error) {
	unlock := s.lockUser(userID)
	defer unlock()

	// Ensure today's rows exist; a reroll before first view just deals twice.
	if _, err := s.todayLocked(ctx, userID, date); err != nil {
		return nil, err
	}

	p, err := s.profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	day := storage.DayKey(date)

	state, err := s.states.Get(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	if state.Rerolled {
		return nil, RerollUnavailableError{Reason: "already rerolled today"}
	}
	if state.RitualsCompleted > 0 {
		return nil, RerollUnavailableError{Reason: "a ritual is already completed today"}
	}
	// Completed assignments are reroll-immune even if the state row lagged.
	n, err := s.completions.CountForDay(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, RerollUnavailableError{Reason: "a ritual is already completed today"}
	}

	var a *storage.Assignment
	err = storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.assignments.DeleteForDayTx(ctx, tx, userID, day); err != nil {
			return err
		}
		a, err = s.createAssignmentTx(ctx, tx, p, day, state.WeeksActive)
		if err != nil {
			return err
		}
		return s.states.MarkRerolledTx(ctx, tx, userID, day)
	})
	if err != nil {
		return nil, classifyTxErr(ctx, "reroll", err)
	}

	state.Rerolled = true
	cards, err := s.cards(a)
	if err != nil {
		return nil, err
	}
	return &TodayResult{Assignment: a, Cards: cards, CanReroll: false, State: state}, nil
}

// createAssignment deals and persists a new assignment in its own
// transaction. Reroll instead calls createAssignmentTx inside its larger
// atomic unit.
func (s *Service) createAssignment(ctx context.Context, p *UserProfile, day string, weeksActive int) (*storage.Assignment, error) {
	var a *storage.Assignment
	err := storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		a, err = s.createAssignmentTx(ctx, tx, p, day, weeksActive)
		return err
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) createAssignmentTx(ctx context.Context, tx *sql.Tx, p *UserProfile, day string, weeksActive int) (*storage.Assignment, error) {
	cutoff := storage.DayKey(mustParseDay(day).AddDate(0, 0, -NoRepeatDays))
	recent, err := s.history.AssignedSince(ctx, p.UserID, cutoff)
	if err != nil {
		return nil, err
	}
	exclude := make(map[string]bool, len(recent))
	for _, id := range recent {
		exclude[id] = true
	}

	rng := s.NewRand()
	slots := p.Tier.Slots()
	picks := dealCards(rng, s.catalog, CategoryWeights(weeksActive), exclude, slots)

	in := storage.AssignmentInsert{
		UserID:      p.UserID,
		Day:         day,
		RitualID1:   picks[0].ID,
		WeeksActive: weeksActive,
		Mode:        ModeGuided,
	}
	if len(picks) > 1 {
		id2 := picks[1].ID
		in.RitualID2 = &id2
		in.Mode = ModeGuidedExplore
	}

	id, err := s.assignments.InsertTx(ctx, tx, in)
	if err != nil {
		return nil, err
	}
	for _, d := range picks {
		if err := s.history.TouchAssignedTx(ctx, tx, p.UserID, d.ID, day); err != nil {
			return nil, err
		}
	}

	a := &storage.Assignment{
		ID:          id,
		UserID:      p.UserID,
		Day:         day,
		RitualID1:   in.RitualID1,
		RitualID2:   in.RitualID2,
		WeeksActive: weeksActive,
		Mode:        in.Mode,
	}
	return a, nil
}

// dealCards runs guided + explore selection. Slot 1 samples a category from
// the weight profile and picks uniformly within it, retrying across the
// remaining categories; slot 2 is a uniform draw over the whole catalog.
// Recency exclusion degrades gracefully when the filtered catalog runs dry.
func dealCards(rng *rand.Rand, cat catalog.Repository, weights map[catalog.Category]int, exclude map[string]bool, slots int) []catalog.Definition {
	taken := make(map[string]bool)
	blocked := func() map[string]bool {
		m := make(map[string]bool, len(exclude)+len(taken))
		for id := range exclude {
			m[id] = true
		}
		for id := range taken {
			m[id] = true
		}
		return m
	}

	// Slot 1: guided.
	remaining := make(map[catalog.Category]int, len(weights))
	for c, w := range weights {
		remaining[c] = w
	}
	var guided *catalog.Definition
	for len(remaining) > 0 {
		c, ok := catalog.WeightedCategory(rng, remaining)
		if !ok {
			break
		}
		if d := catalog.PickExcluding(rng, cat.ByCategory(c), blocked()); d != nil {
			guided = d
			break
		}
		delete(remaining, c)
	}
	if guided == nil {
		guided = catalog.PickExcluding(rng, cat.All(), blocked())
	}
	if guided == nil {
		// Whole catalog inside the no-repeat window; relax it.
		guided = catalog.PickExcluding(rng, cat.All(), taken)
	}
	picks := []catalog.Definition{*guided}
	taken[guided.ID] = true

	if slots < 2 {
		return picks
	}

	// Slot 2: explore.
	explore := catalog.PickExcluding(rng, cat.All(), blocked())
	if explore == nil {
		explore = catalog.PickExcluding(rng, cat.All(), taken)
	}
	if explore == nil {
		// Single-ritual catalog; doubling up is only meant for 1-slot
		// tiers, so reuse of slot 1 is the final fallback.
		explore = guided
	}
	picks = append(picks, *explore)
	return picks
}

func (s *Service) cards(a *storage.Assignment) ([]catalog.Definition, error) {
	ids := a.RitualIDs()
	out := make([]catalog.Definition, 0, len(ids))
	for _, id := range ids {
		d := s.catalog.ByID(id)
		if d == nil {
			return nil, InvalidReferenceError{Kind: "ritual", ID: id}
		}
		out = append(out, *d)
	}
	return out, nil
}

// classifyTxErr keeps clean rollbacks as ordinary errors and flags commit
// failures and timeouts as unknown state, since the write may have landed.
func classifyTxErr(ctx context.Context, op string, err error) error {
	var ce storage.CommitError
	if errors.As(err, &ce) || ctx.Err() != nil {
		return UnknownStateError{Op: op, Err: err}
	}
	return err
}

func mustParseDay(day string) time.Time {
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		// Day keys are produced by storage.DayKey; a bad one is a bug.
		panic("malformed day key: " + day)
	}
	return t
}
