package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/detoxmine/detoxmine/internal/model"
)

var (
	ErrProfileNotFound = errors.New("user profile not found")
)

type UserProfileRepository interface {
	Create(profile *model.UserProfile) error
	ByAddress(address string) (*model.UserProfile, error)
	ByUser(userAddress string) (*model.UserProfile, error)
	Update(profile *model.UserProfile) error
}

type userProfileRepository struct {
	ext sqlx.Ext
}

func NewUserProfileRepository(ext sqlx.Ext) UserProfileRepository {
	return &userProfileRepository{ext: ext}
}

func (r *userProfileRepository) Create(profile *model.UserProfile) error {
	query := `INSERT INTO user_profiles (address, user_address, notify_email, total_staked,
	          goals_completed, goals_failed, current_streak, longest_streak, last_activity,
	          created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.ext.Exec(query,
		profile.Address,
		profile.UserAddress,
		profile.NotifyEmail,
		profile.TotalStaked,
		profile.GoalsCompleted,
		profile.GoalsFailed,
		profile.CurrentStreak,
		profile.LongestStreak,
		profile.LastActivity,
		profile.CreatedAt,
		profile.UpdatedAt,
	)

	return err
}

func (r *userProfileRepository) ByAddress(address string) (*model.UserProfile, error) {
	profile := &model.UserProfile{}
	query := `SELECT * FROM user_profiles WHERE address = $1`

	err := sqlx.Get(r.ext, profile, query, address)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	return profile, nil
}

func (r *userProfileRepository) ByUser(userAddress string) (*model.UserProfile, error) {
	profile := &model.UserProfile{}
	query := `SELECT * FROM user_profiles WHERE user_address = $1`

	err := sqlx.Get(r.ext, profile, query, userAddress)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	return profile, nil
}

func (r *userProfileRepository) Update(profile *model.UserProfile) error {
	query := `UPDATE user_profiles
	          SET notify_email = $1, total_staked = $2, goals_completed = $3, goals_failed = $4,
	              current_streak = $5, longest_streak = $6, last_activity = $7, updated_at = $8
	          WHERE address = $9`

	result, err := r.ext.Exec(query,
		profile.NotifyEmail,
		profile.TotalStaked,
		profile.GoalsCompleted,
		profile.GoalsFailed,
		profile.CurrentStreak,
		profile.LongestStreak,
		profile.LastActivity,
		time.Now(),
		profile.Address,
	)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrProfileNotFound
	}

	return nil
}
