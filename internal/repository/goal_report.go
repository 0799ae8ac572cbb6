package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/detoxmine/detoxmine/internal/model"
)

type GoalReportRepository interface {
	Create(report *model.GoalReport) error
	Exists(goalAddress string, day int64) (bool, error)
	ByGoal(goalAddress string) ([]*model.GoalReport, error)
}

type goalReportRepository struct {
	ext sqlx.Ext
}

func NewGoalReportRepository(ext sqlx.Ext) GoalReportRepository {
	return &goalReportRepository{ext: ext}
}

func (r *goalReportRepository) Create(report *model.GoalReport) error {
	query := `INSERT INTO goal_reports (goal_address, day, reporter, usage_minutes, met, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.ext.Exec(query,
		report.GoalAddress,
		report.Day,
		report.Reporter,
		report.UsageMinutes,
		report.Met,
		report.CreatedAt,
	)

	return err
}

func (r *goalReportRepository) Exists(goalAddress string, day int64) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM goal_reports WHERE goal_address = $1 AND day = $2`

	err := sqlx.Get(r.ext, &count, query, goalAddress, day)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *goalReportRepository) ByGoal(goalAddress string) ([]*model.GoalReport, error) {
	var reports []*model.GoalReport
	query := `SELECT * FROM goal_reports WHERE goal_address = $1 ORDER BY day ASC`

	err := sqlx.Select(r.ext, &reports, query, goalAddress)
	if err != nil {
		return nil, err
	}

	return reports, nil
}
