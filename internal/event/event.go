// Package event builds and emits domain events. Rows are persisted inside
// the operation's transaction; fan-out (bus, webhook) happens after commit.
package event

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/detoxmine/detoxmine/internal/model"
)

// GoalCreated is emitted when a stake opens a new goal.
type GoalCreated struct {
	Goal           string `json:"goal"`
	Staker         string `json:"staker"`
	Beneficiary    string `json:"beneficiary"`
	StakeAmount    int64  `json:"stake_amount"`
	UsageTimeLimit int    `json:"usage_time_limit"`
	GoalDuration   int    `json:"goal_duration"`
}

// DailyGoalMet is emitted for a compliant daily report.
type DailyGoalMet struct {
	Goal          string `json:"goal"`
	Date          int64  `json:"date"`
	UsageMinutes  int    `json:"usage_minutes"`
	DaysCompleted int    `json:"days_completed"`
}

// DailyGoalFailed is emitted for an over-limit daily report. The day is
// consumed but nothing else changes; failing a day never ends the goal.
type DailyGoalFailed struct {
	Goal         string `json:"goal"`
	Date         int64  `json:"date"`
	UsageMinutes int    `json:"usage_minutes"`
	Limit        int    `json:"limit"`
}

// GoalCompleted is emitted when finalization returns the stake.
type GoalCompleted struct {
	Goal          string `json:"goal"`
	Staker        string `json:"staker"`
	Beneficiary   string `json:"beneficiary"`
	StakeReturned int64  `json:"stake_returned"`
	DaysCompleted int    `json:"days_completed"`
}

// GoalFailed is emitted when finalization forfeits the stake to the pool.
type GoalFailed struct {
	Goal           string `json:"goal"`
	Staker         string `json:"staker"`
	Beneficiary    string `json:"beneficiary"`
	StakeForfeited int64  `json:"stake_forfeited"`
	DaysCompleted  int    `json:"days_completed"`
}

// RewardDistributed is emitted once per recipient of a pool distribution.
type RewardDistributed struct {
	Recipient string `json:"recipient"`
	Amount    int64  `json:"amount"`
}

// Record builds a persistable event row with a fresh id.
func Record(kind, subject string, payload any, now time.Time) (*model.Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", kind, err)
	}

	return &model.Event{
		ID:        uuid.New().String(),
		Kind:      kind,
		Subject:   subject,
		Payload:   string(data),
		CreatedAt: now,
	}, nil
}
