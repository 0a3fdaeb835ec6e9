package engine

import (
	"context"
	"database/sql"
	"time"

	"ritualist/internal/storage"
)

// StoreProfiles backs ProfileSource with the local profiles table, creating
// a starter profile on first sight of a user.
type StoreProfiles struct {
	repo *storage.ProfileRepo
	now  func() time.Time
}

func NewStoreProfiles(db *sql.DB) *StoreProfiles {
	return &StoreProfiles{
		repo: storage.NewProfileRepo(db),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *StoreProfiles) Profile(ctx context.Context, userID string) (*UserProfile, error) {
	p, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	weeks, err := s.repo.RefreshWeeksActive(ctx, userID, s.now())
	if err != nil {
		return nil, err
	}
	tier := Tier(p.Tier)
	switch tier {
	case TierLite, TierMember, TierMentor:
	default:
		tier = TierMember
	}
	return &UserProfile{UserID: p.UserID, Tier: tier, WeeksActive: weeks}, nil
}

// StoreRewards credits bytes straight onto the local profile balance.
type StoreRewards struct {
	repo *storage.ProfileRepo
}

func NewStoreRewards(db *sql.DB) *StoreRewards {
	return &StoreRewards{repo: storage.NewProfileRepo(db)}
}

func (r *StoreRewards) ApplyReward(ctx context.Context, userID string, bytes int) error {
	return r.repo.Credit(ctx, userID, bytes)
}
