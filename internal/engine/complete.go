package engine

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"

	"ritualist/internal/storage"
)

const (
	// DailyCap is the maximum rewarded completions per user per day.
	DailyCap = 2

	// RateWindow and RateLimit bound completion throughput: at most
	// RateLimit completions inside any trailing RateWindow.
	RateWindow = 10 * time.Minute
	RateLimit  = 2

	// Streak bonuses. Not cumulative; the higher tier wins.
	streakBonusAt3 = 3
	streakBonusAt7 = 5
)

type CompleteInput struct {
	UserID       string
	AssignmentID int64
	RitualID     string
	Journal      string
	Mood         int
	DwellSeconds int
}

type CompleteResult struct {
	CompletionID string
	BytesEarned  int
	StreakDays   int
	WordCount    int
	CapReached   bool
	// RewardPending is set when the completion committed but the byte
	// credit failed and was queued for retry.
	RewardPending bool
}

// CompleteRitual validates and records a completion. Checks run in order and
// short-circuit: rate limit, journal validation, duplicate, daily cap. On
// pass it persists the completion and the day's state in one transaction,
// then applies the reward.
func (s *Service) CompleteRitual(ctx context.Context, in CompleteInput) (*CompleteResult, error) {
	unlock := s.lockUser(in.UserID)
	defer unlock()

	p, err := s.profile(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	now := s.Now()
	day := storage.DayKey(now)

	a, err := s.assignments.Get(ctx, in.AssignmentID)
	if err != nil {
		return nil, err
	}
	if a == nil || a.UserID != in.UserID || a.Day != day {
		return nil, InvalidReferenceError{Kind: "assignment", ID: strconv.FormatInt(in.AssignmentID, 10)}
	}
	def := s.catalog.ByID(in.RitualID)
	if def == nil {
		return nil, InvalidReferenceError{Kind: "ritual", ID: in.RitualID}
	}

	// 1. Rate limit over the trailing window.
	recent, err := s.completions.CountSince(ctx, in.UserID, now.Add(-RateWindow))
	if err != nil {
		return nil, err
	}
	if recent >= RateLimit {
		return nil, ErrRateLimited
	}

	// 2. Journal quality.
	prior, err := s.completions.LastJournal(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if err := ValidateJournal(in.Journal, prior, in.DwellSeconds); err != nil {
		return nil, err
	}

	// 3. Duplicate.
	dup, err := s.completions.Exists(ctx, in.UserID, in.AssignmentID, in.RitualID)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, ErrAlreadyCompleted
	}

	// 4. Daily cap.
	state, err := s.states.GetOrCreate(ctx, in.UserID, day, p.WeeksActive)
	if err != nil {
		return nil, err
	}
	if state.CapReached {
		return nil, ErrCapReached
	}

	// 5. Streak and reward arithmetic.
	streak := state.StreakDays
	if state.RitualsCompleted == 0 {
		streak, err = s.streakForFirstCompletion(ctx, in.UserID, now)
		if err != nil {
			return nil, err
		}
	}
	bytes := def.BaseReward + streakBonus(streak)
	words := WordCount(in.Journal)

	completion := &storage.Completion{
		PublicID:     uuid.NewString(),
		UserID:       in.UserID,
		AssignmentID: in.AssignmentID,
		RitualID:     in.RitualID,
		Day:          day,
		Journal:      in.Journal,
		Mood:         in.Mood,
		DwellSeconds: in.DwellSeconds,
		WordCount:    words,
		BytesAwarded: bytes,
		CompletedAt:  now,
	}

	state.RitualsCompleted++
	state.CapReached = state.RitualsCompleted >= DailyCap
	state.StreakDays = streak
	state.LastCompletionAt = &now

	err = storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := s.completions.InsertTx(ctx, tx, completion); err != nil {
			return err
		}
		if err := s.history.BumpCompletedTx(ctx, tx, in.UserID, in.RitualID, day); err != nil {
			return err
		}
		return s.states.ApplyCompletionTx(ctx, tx, state)
	})
	if err != nil {
		// The unique index absorbs a request that raced or retried past
		// the read-side duplicate check.
		if errors.Is(err, storage.ErrDuplicateCompletion) {
			return nil, ErrAlreadyCompleted
		}
		return nil, classifyTxErr(ctx, "complete ritual", err)
	}

	res := &CompleteResult{
		CompletionID: completion.PublicID,
		BytesEarned:  bytes,
		StreakDays:   streak,
		WordCount:    words,
		CapReached:   state.CapReached,
	}

	// Reward application is decoupled from the completion's truth: a failed
	// credit is queued for retry, never rolled back.
	if err := s.rewards.ApplyReward(ctx, in.UserID, bytes); err != nil {
		if _, qerr := s.pending.Insert(ctx, in.UserID, bytes); qerr != nil {
			return res, UnknownStateError{Op: "apply reward", Err: qerr}
		}
		res.RewardPending = true
	}
	return res, nil
}

// streakForFirstCompletion computes today's streak from yesterday's state:
// continue if yesterday had at least one completion, otherwise restart at 1.
func (s *Service) streakForFirstCompletion(ctx context.Context, userID string, now time.Time) (int, error) {
	prev, err := s.states.Get(ctx, userID, storage.PrevDayKey(now))
	if err != nil {
		return 0, err
	}
	if prev != nil && prev.RitualsCompleted > 0 {
		return prev.StreakDays + 1, nil
	}
	return 1, nil
}

func streakBonus(streak int) int {
	switch {
	case streak >= 7:
		return streakBonusAt7
	case streak >= 3:
		return streakBonusAt3
	default:
		return 0
	}
}

// RetryPendingRewards drains the compensation queue, stopping at the first
// applier failure so ordering is preserved.
func (s *Service) RetryPendingRewards(ctx context.Context) (applied int, err error) {
	list, err := s.pending.List(ctx)
	if err != nil {
		return 0, err
	}
	for _, pr := range list {
		if err := s.rewards.ApplyReward(ctx, pr.UserID, pr.Bytes); err != nil {
			return applied, err
		}
		if err := s.pending.Delete(ctx, pr.ID); err != nil {
			return applied, err
		}
		applied++
	}
	return applied, nil
}
