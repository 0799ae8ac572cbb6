package model

import (
	"time"
)

const (
	EventGoalCreated       = "goal.created"
	EventDailyGoalMet      = "goal.day_met"
	EventDailyGoalFailed   = "goal.day_failed"
	EventGoalCompleted     = "goal.completed"
	EventGoalFailed        = "goal.failed"
	EventRewardDistributed = "reward.distributed"
)

// Event is one emitted domain event, persisted in the same transaction as
// the state change it describes and fanned out after commit.
type Event struct {
	ID        string    `db:"id"`
	Kind      string    `db:"kind"`
	Subject   string    `db:"subject"` // address the event is about
	Payload   string    `db:"payload"` // JSON
	CreatedAt time.Time `db:"created_at"`
}
