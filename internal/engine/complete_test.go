package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHappyPathCompletion(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	today, err := h.svc.TodaysAssignment(ctx, "ada", h.now)
	require.NoError(t, err)

	card := today.Cards[0]
	res, err := h.complete(t, "ada", card.ID, journalWalk)
	require.NoError(t, err)
	require.Equal(t, card.BaseReward, res.BytesEarned)
	require.Equal(t, 1, res.StreakDays)
	require.Equal(t, WordCount(journalWalk), res.WordCount)
	require.False(t, res.CapReached)
	require.Equal(t, card.BaseReward, h.rewards.credits["ada"])

	st, err := h.svc.StateRepo().Get(ctx, "ada", today.Assignment.Day)
	require.NoError(t, err)
	require.Equal(t, 1, st.RitualsCompleted)
	require.Equal(t, 1, st.StreakDays)
	require.False(t, st.CapReached)
}

func TestCompletionIdempotent(t *testing.T) {
	h := newHarness(t)

	today, err := h.svc.TodaysAssignment(context.Background(), "ada", h.now)
	require.NoError(t, err)
	card := today.Cards[0]

	_, err = h.complete(t, "ada", card.ID, journalWalk)
	require.NoError(t, err)

	h.advance(11 * time.Minute) // outside the rate window
	_, err = h.complete(t, "ada", card.ID, journalBreath)
	require.ErrorIs(t, err, ErrAlreadyCompleted)

	// Still exactly one persisted row.
	n, err := h.svc.CompletionRepo().CountForDay(context.Background(), "ada", today.Assignment.Day)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestDailyCapEnforced(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	today, err := h.svc.TodaysAssignment(ctx, "ada", h.now)
	require.NoError(t, err)

	_, err = h.complete(t, "ada", today.Cards[0].ID, journalWalk)
	require.NoError(t, err)

	h.advance(11 * time.Minute)
	res, err := h.complete(t, "ada", today.Cards[1].ID, journalBreath)
	require.NoError(t, err)
	require.True(t, res.CapReached)

	// Third attempt, spaced past the rate window so the cap is what trips.
	h.advance(11 * time.Minute)
	_, err = h.complete(t, "ada", "focus-deep-block", journalFocus)
	require.ErrorIs(t, err, ErrCapReached)

	n, err := h.svc.CompletionRepo().CountForDay(ctx, "ada", today.Assignment.Day)
	require.NoError(t, err)
	require.Equal(t, DailyCap, n)
}

func TestRateLimitTrips(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	today, err := h.svc.TodaysAssignment(ctx, "ada", h.now)
	require.NoError(t, err)

	_, err = h.complete(t, "ada", today.Cards[0].ID, journalWalk)
	require.NoError(t, err)
	h.advance(time.Minute)
	_, err = h.complete(t, "ada", today.Cards[1].ID, journalBreath)
	require.NoError(t, err)

	// Two completions inside ten minutes: the next call is rate limited
	// before the cap is even consulted.
	h.advance(time.Minute)
	_, err = h.complete(t, "ada", "focus-deep-block", journalFocus)
	require.ErrorIs(t, err, ErrRateLimited)
}

func TestStreakContinuityAndGapReset(t *testing.T) {
	h := newHarness(t)

	res, err := h.complete(t, "ada", mustGuided(t, h), journalWalk)
	require.NoError(t, err)
	require.Equal(t, 1, res.StreakDays)

	h.nextDay()
	res, err = h.complete(t, "ada", mustGuided(t, h), journalBreath)
	require.NoError(t, err)
	require.Equal(t, 2, res.StreakDays)

	h.nextDay()
	res3, err := h.complete(t, "ada", mustGuided(t, h), journalFocus)
	require.NoError(t, err)
	require.Equal(t, 3, res3.StreakDays)

	// Day three of the streak pays the +3 bonus on top of the base.
	def := h.svc.catalog.ByID(mustLastRitual(t, h, res3))
	require.Equal(t, def.BaseReward+3, res3.BytesEarned)

	// Skip a day: the streak restarts at 1.
	h.nextDay()
	h.nextDay()
	res, err = h.complete(t, "ada", mustGuided(t, h), journalGratitude)
	require.NoError(t, err)
	require.Equal(t, 1, res.StreakDays)
}

func TestStreakBonusTiers(t *testing.T) {
	require.Equal(t, 0, streakBonus(1))
	require.Equal(t, 0, streakBonus(2))
	require.Equal(t, 3, streakBonus(3))
	require.Equal(t, 3, streakBonus(6))
	require.Equal(t, 5, streakBonus(7))
	require.Equal(t, 5, streakBonus(30))
}

func TestInvalidReferences(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	today, err := h.svc.TodaysAssignment(ctx, "ada", h.now)
	require.NoError(t, err)

	var ref InvalidReferenceError
	_, err = h.svc.CompleteRitual(ctx, CompleteInput{
		UserID:       "ada",
		AssignmentID: today.Assignment.ID + 999,
		RitualID:     today.Cards[0].ID,
		Journal:      journalWalk,
		DwellSeconds: 60,
	})
	require.ErrorAs(t, err, &ref)
	require.Equal(t, "assignment", ref.Kind)

	_, err = h.svc.CompleteRitual(ctx, CompleteInput{
		UserID:       "ada",
		AssignmentID: today.Assignment.ID,
		RitualID:     "no-such-ritual",
		Journal:      journalWalk,
		DwellSeconds: 60,
	})
	require.ErrorAs(t, err, &ref)
	require.Equal(t, "ritual", ref.Kind)

	// Another user cannot complete against ada's assignment.
	_, err = h.svc.CompleteRitual(ctx, CompleteInput{
		UserID:       "bob",
		AssignmentID: today.Assignment.ID,
		RitualID:     today.Cards[0].ID,
		Journal:      journalWalk,
		DwellSeconds: 60,
	})
	require.ErrorAs(t, err, &ref)
}

func TestRewardFailureQueuesCompensation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.rewards.fail = true

	today, err := h.svc.TodaysAssignment(ctx, "ada", h.now)
	require.NoError(t, err)

	res, err := h.complete(t, "ada", today.Cards[0].ID, journalWalk)
	require.NoError(t, err)
	require.True(t, res.RewardPending)
	require.Zero(t, h.rewards.credits["ada"])

	// The completion itself is the source of truth and stayed committed.
	n, err := h.svc.CompletionRepo().CountForDay(ctx, "ada", today.Assignment.Day)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	h.rewards.fail = false
	applied, err := h.svc.RetryPendingRewards(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, applied)
	require.Equal(t, res.BytesEarned, h.rewards.credits["ada"])

	// Queue drained.
	applied, err = h.svc.RetryPendingRewards(ctx)
	require.NoError(t, err)
	require.Zero(t, applied)
}

// mustGuided returns today's guided card id.
func mustGuided(t *testing.T, h *harness) string {
	t.Helper()
	today, err := h.svc.TodaysAssignment(context.Background(), "ada", h.now)
	require.NoError(t, err)
	return today.Cards[0].ID
}

// mustLastRitual resolves the ritual id behind a completion result by
// rereading today's rows.
func mustLastRitual(t *testing.T, h *harness, res *CompleteResult) string {
	t.Helper()
	ctx := context.Background()
	today, err := h.svc.TodaysAssignment(ctx, "ada", h.now)
	require.NoError(t, err)
	list, err := h.svc.CompletionRepo().ListForDay(ctx, "ada", today.Assignment.Day)
	require.NoError(t, err)
	for _, c := range list {
		if c.PublicID == res.CompletionID {
			return c.RitualID
		}
	}
	t.Fatalf("completion %s not found", res.CompletionID)
	return ""
}
