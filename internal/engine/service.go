package engine

import (
	"context"
	"database/sql"
	"math/rand"
	"sync"
	"time"

	"ritualist/internal/catalog"
	"ritualist/internal/storage"
)

// Tier controls how many cards a user is dealt per day.
type Tier string

const (
	TierLite   Tier = "lite"
	TierMember Tier = "member"
	TierMentor Tier = "mentor"
)

// Slots returns the assignment slot count for the tier. The lite tier gets
// the guided card only; everyone else also gets the explore slot.
func (t Tier) Slots() int {
	if t == TierLite {
		return 1
	}
	return 2
}

// UserProfile is what the engine needs to know about a user: their tier and
// how many weeks they have been in the program.
type UserProfile struct {
	UserID      string
	Tier        Tier
	WeeksActive int
}

// ProfileSource resolves user profiles. Backed by the profiles table in the
// CLI; swappable for an external account service.
type ProfileSource interface {
	Profile(ctx context.Context, userID string) (*UserProfile, error)
}

// RewardApplier durably credits earned bytes. Must tolerate redelivery: a
// credit retried through the pending-rewards queue may arrive twice only if
// the caller loses the outcome of the first attempt.
type RewardApplier interface {
	ApplyReward(ctx context.Context, userID string, bytes int) error
}

// Service is the assignment and completion engine. All read-then-write paths
// for a user are serialized through a per-user lock; SQLite transactions make
// the reroll and completion writes single atomic units.
type Service struct {
	db          *sql.DB
	catalog     catalog.Repository
	profiles    ProfileSource
	rewards     RewardApplier
	states      *storage.DailyStateRepo
	assignments *storage.AssignmentRepo
	completions *storage.CompletionRepo
	history     *storage.HistoryRepo
	pending     *storage.PendingRewardRepo

	// Now and NewRand are swappable for tests. Now must return UTC-comparable
	// times; day boundaries are UTC calendar days. A production deployment
	// wanting user-local day boundaries would localize here.
	Now     func() time.Time
	NewRand func() *rand.Rand

	mu        sync.Mutex
	userLocks map[string]*sync.Mutex
}

func NewService(db *sql.DB, cat catalog.Repository, profiles ProfileSource, rewards RewardApplier) *Service {
	return &Service{
		db:          db,
		catalog:     cat,
		profiles:    profiles,
		rewards:     rewards,
		states:      storage.NewDailyStateRepo(db),
		assignments: storage.NewAssignmentRepo(db),
		completions: storage.NewCompletionRepo(db),
		history:     storage.NewHistoryRepo(db),
		pending:     storage.NewPendingRewardRepo(db),
		Now:         func() time.Time { return time.Now().UTC() },
		NewRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
		userLocks: make(map[string]*sync.Mutex),
	}
}

func (s *Service) CompletionRepo() *storage.CompletionRepo { return s.completions }
func (s *Service) StateRepo() *storage.DailyStateRepo      { return s.states }

// lockUser serializes engine operations for one user. Lock granularity is
// the user, not (user, day): a completion racing a midnight rollover must
// still not interleave with a reroll.
func (s *Service) lockUser(userID string) func() {
	s.mu.Lock()
	l, ok := s.userLocks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.userLocks[userID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func (s *Service) profile(ctx context.Context, userID string) (*UserProfile, error) {
	p, err := s.profiles.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, InvalidReferenceError{Kind: "user", ID: userID}
	}
	return p, nil
}
