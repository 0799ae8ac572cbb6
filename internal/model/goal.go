package model

import (
	"time"
)

const (
	GoalStatusActive    = "active"
	GoalStatusCompleted = "completed"
	GoalStatusFailed    = "failed"
)

// Goal is one staking commitment. Status moves Active -> Completed or
// Active -> Failed exactly once; both end states are terminal.
type Goal struct {
	Address        string    `db:"address"`
	Staker         string    `db:"staker"`
	Beneficiary    string    `db:"beneficiary"`
	StakeAmount    int64     `db:"stake_amount"`
	UsageTimeLimit int       `db:"usage_time_limit"` // minutes per day
	DurationDays   int       `db:"duration_days"`
	StartTime      int64     `db:"start_time"`
	EndTime        int64     `db:"end_time"`
	Status         string    `db:"status"`
	DaysCompleted  int       `db:"days_completed"`
	EscrowBump     byte      `db:"escrow_bump"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// SuccessThreshold is the number of compliant days required for the goal
// to complete: 80% of the duration, rounded down.
func (g *Goal) SuccessThreshold() int {
	return g.DurationDays * 8 / 10
}

func (g *Goal) IsActive() bool {
	return g.Status == GoalStatusActive
}
