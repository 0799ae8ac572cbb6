package model

import (
	"time"
)

// GoalReport records one daily usage report. The (goal_address, day)
// primary key is what enforces at-most-one report per UTC day.
type GoalReport struct {
	GoalAddress  string    `db:"goal_address"`
	Day          int64     `db:"day"` // UTC day number: unix timestamp / 86400
	Reporter     string    `db:"reporter"`
	UsageMinutes int       `db:"usage_minutes"`
	Met          bool      `db:"met"`
	CreatedAt    time.Time `db:"created_at"`
}
