package model

import (
	"time"
)

// ProgramState is the singleton record created at bootstrap. It is never
// destroyed; every stake and finalization mutates its running totals.
type ProgramState struct {
	ID                  int       `db:"id"`
	Address             string    `db:"address"`
	Authority           string    `db:"authority"`
	WellnessPool        string    `db:"wellness_pool"`
	WellnessPoolBump    byte      `db:"wellness_pool_bump"`
	TotalStaked         int64     `db:"total_staked"`
	TotalGoalsCompleted int       `db:"total_goals_completed"`
	TotalGoalsFailed    int       `db:"total_goals_failed"`
	CreatedAt           time.Time `db:"created_at"`
	UpdatedAt           time.Time `db:"updated_at"`
}
