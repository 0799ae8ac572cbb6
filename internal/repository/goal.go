package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/detoxmine/detoxmine/internal/model"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
)

type GoalRepository interface {
	Create(goal *model.Goal) error
	ByAddress(address string) (*model.Goal, error)
	ByUser(userAddress string) ([]*model.Goal, error)
	Update(goal *model.Goal) error
}

type goalRepository struct {
	ext sqlx.Ext
}

func NewGoalRepository(ext sqlx.Ext) GoalRepository {
	return &goalRepository{ext: ext}
}

func (r *goalRepository) Create(goal *model.Goal) error {
	query := `INSERT INTO goals (address, staker, beneficiary, stake_amount, usage_time_limit,
	          duration_days, start_time, end_time, status, days_completed, escrow_bump,
	          created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.ext.Exec(query,
		goal.Address,
		goal.Staker,
		goal.Beneficiary,
		goal.StakeAmount,
		goal.UsageTimeLimit,
		goal.DurationDays,
		goal.StartTime,
		goal.EndTime,
		goal.Status,
		goal.DaysCompleted,
		goal.EscrowBump,
		goal.CreatedAt,
		goal.UpdatedAt,
	)

	return err
}

func (r *goalRepository) ByAddress(address string) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT * FROM goals WHERE address = $1`

	err := sqlx.Get(r.ext, goal, query, address)
	if err == sql.ErrNoRows {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	return goal, nil
}

func (r *goalRepository) ByUser(userAddress string) ([]*model.Goal, error) {
	var goals []*model.Goal
	query := `SELECT * FROM goals WHERE staker = $1 OR beneficiary = $1 ORDER BY start_time DESC`

	err := sqlx.Select(r.ext, &goals, query, userAddress)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *goalRepository) Update(goal *model.Goal) error {
	query := `UPDATE goals
	          SET status = $1, days_completed = $2, updated_at = $3
	          WHERE address = $4`

	result, err := r.ext.Exec(query,
		goal.Status,
		goal.DaysCompleted,
		time.Now(),
		goal.Address,
	)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrGoalNotFound
	}

	return nil
}
