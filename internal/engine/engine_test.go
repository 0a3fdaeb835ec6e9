package engine

import (
	"context"
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ritualist/internal/catalog"
	"ritualist/internal/storage"
)

type fakeProfiles struct {
	tier  Tier
	weeks int
}

func (f *fakeProfiles) Profile(ctx context.Context, userID string) (*UserProfile, error) {
	return &UserProfile{UserID: userID, Tier: f.tier, WeeksActive: f.weeks}, nil
}

type fakeRewards struct {
	credits map[string]int
	fail    bool
}

func (f *fakeRewards) ApplyReward(ctx context.Context, userID string, bytes int) error {
	if f.fail {
		return context.DeadlineExceeded
	}
	if f.credits == nil {
		f.credits = make(map[string]int)
	}
	f.credits[userID] += bytes
	return nil
}

type harness struct {
	svc      *Service
	profiles *fakeProfiles
	rewards  *fakeRewards
	now      time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := storage.Open(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cat, err := catalog.Default()
	require.NoError(t, err)

	h := &harness{
		profiles: &fakeProfiles{tier: TierMember, weeks: 0},
		rewards:  &fakeRewards{},
		now:      time.Date(2026, time.March, 9, 12, 0, 0, 0, time.UTC),
	}
	h.svc = NewService(db, cat, h.profiles, h.rewards)
	h.svc.Now = func() time.Time { return h.now }
	h.svc.NewRand = func() *rand.Rand { return rand.New(rand.NewSource(42)) }
	return h
}

func (h *harness) advance(d time.Duration) { h.now = h.now.Add(d) }

func (h *harness) nextDay() {
	h.now = h.now.AddDate(0, 0, 1)
}

const (
	journalWalk = `Took a long walk without my phone this morning and let my thoughts settle. ` +
		`Noticed the light on the river and felt calmer than I have all week. Worth repeating tomorrow evening.`
	journalBreath = `Five rounds of slow breathing before opening the laptop changed the whole morning. ` +
		`My shoulders dropped somewhere around the third round. I want to notice that moment earlier next time.`
	journalFocus = `Fifty minutes on a single task with the door closed felt strange at first. ` +
		`By the end I had finished the draft that has been stalled for a week. The urge to check messages faded after ten minutes.`
	journalGratitude = `Wrote down three specific things from yesterday and caught myself smiling at the second one. ` +
		`A stranger held the elevator, my coffee was free, and the evening was quiet. Small things carry more weight than expected.`
)

// complete is a shorthand that completes ritualID against today's assignment.
func (h *harness) complete(t *testing.T, userID, ritualID, journal string) (*CompleteResult, error) {
	t.Helper()
	ctx := context.Background()
	today, err := h.svc.TodaysAssignment(ctx, userID, h.now)
	require.NoError(t, err)
	return h.svc.CompleteRitual(ctx, CompleteInput{
		UserID:       userID,
		AssignmentID: today.Assignment.ID,
		RitualID:     ritualID,
		Journal:      journal,
		Mood:         4,
		DwellSeconds: 60,
	})
}

func TestTodaysAssignmentCreatesTwoCards(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	res, err := h.svc.TodaysAssignment(ctx, "ada", h.now)
	require.NoError(t, err)
	require.Len(t, res.Cards, 2)
	require.Equal(t, ModeGuidedExplore, res.Assignment.Mode)
	require.True(t, res.CanReroll)
	require.NotEqual(t, res.Cards[0].ID, res.Cards[1].ID)
	for _, c := range res.Cards {
		require.True(t, res.Assignment.Has(c.ID))
	}

	// Same day, same cards.
	again, err := h.svc.TodaysAssignment(ctx, "ada", h.now)
	require.NoError(t, err)
	require.Equal(t, res.Assignment.ID, again.Assignment.ID)
	require.Equal(t, res.Assignment.RitualIDs(), again.Assignment.RitualIDs())
}

func TestLiteTierGetsOneCard(t *testing.T) {
	h := newHarness(t)
	h.profiles.tier = TierLite
	ctx := context.Background()

	res, err := h.svc.TodaysAssignment(ctx, "ada", h.now)
	require.NoError(t, err)
	require.Len(t, res.Cards, 1)
	require.Equal(t, ModeGuided, res.Assignment.Mode)
	require.Nil(t, res.Assignment.RitualID2)
}

func TestEarlyWeeksDealFromStarterCategories(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	// Weeks 0-2 carry no weight for the advanced categories, so the guided
	// slot can never land on them.
	starter := CategoryWeights(0)
	require.NotContains(t, starter, catalog.CategoryDiscipline)
	require.NotContains(t, starter, catalog.CategoryCreation)

	res, err := h.svc.TodaysAssignment(ctx, "ada", h.now)
	require.NoError(t, err)
	guided := res.Cards[0]
	require.Contains(t, starter, guided.Category)
}

func TestNoRepeatAcrossDays(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	seen := make(map[string]string)
	for i := 0; i < 10; i++ {
		res, err := h.svc.TodaysAssignment(ctx, "ada", h.now)
		require.NoError(t, err)
		for _, c := range res.Cards {
			prev, dup := seen[c.ID]
			require.False(t, dup, "ritual %s dealt on %s and again on %s", c.ID, prev, res.Assignment.Day)
			seen[c.ID] = res.Assignment.Day
		}
		h.nextDay()
	}
}

func TestRerollOncePerDay(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	first, err := h.svc.TodaysAssignment(ctx, "ada", h.now)
	require.NoError(t, err)

	rerolled, err := h.svc.Reroll(ctx, "ada", h.now)
	require.NoError(t, err)
	require.NotEqual(t, first.Assignment.ID, rerolled.Assignment.ID)
	require.False(t, rerolled.CanReroll)

	_, err = h.svc.Reroll(ctx, "ada", h.now)
	var ru RerollUnavailableError
	require.ErrorAs(t, err, &ru)

	// Completing a card from the rerolled assignment still works.
	res, err := h.complete(t, "ada", rerolled.Cards[0].ID, journalWalk)
	require.NoError(t, err)
	require.Equal(t, 1, res.StreakDays)
}

func TestRerollBlockedAfterCompletion(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	today, err := h.svc.TodaysAssignment(ctx, "ada", h.now)
	require.NoError(t, err)

	_, err = h.complete(t, "ada", today.Cards[0].ID, journalWalk)
	require.NoError(t, err)

	_, err = h.svc.Reroll(ctx, "ada", h.now)
	var ru RerollUnavailableError
	require.ErrorAs(t, err, &ru)

	// Next day the reroll budget is fresh.
	h.nextDay()
	_, err = h.svc.Reroll(ctx, "ada", h.now)
	require.NoError(t, err)
}
