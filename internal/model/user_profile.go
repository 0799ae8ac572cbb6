package model

import (
	"time"
)

// UserProfile tracks one participant's cumulative stats. One profile per
// user identity, enforced by the unique user_address column and the
// deterministic profile address.
type UserProfile struct {
	Address        string    `db:"address"`
	UserAddress    string    `db:"user_address"`
	NotifyEmail    *string   `db:"notify_email"` // Nullable: email notifications are opt-in
	TotalStaked    int64     `db:"total_staked"`
	GoalsCompleted int       `db:"goals_completed"`
	GoalsFailed    int       `db:"goals_failed"`
	CurrentStreak  int       `db:"current_streak"`
	LongestStreak  int       `db:"longest_streak"`
	LastActivity   int64     `db:"last_activity"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (p *UserProfile) WantsEmail() bool {
	return p.NotifyEmail != nil && *p.NotifyEmail != ""
}
