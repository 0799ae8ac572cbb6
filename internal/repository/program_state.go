package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/detoxmine/detoxmine/internal/model"
)

var (
	ErrProgramStateNotFound = errors.New("program state not found")
)

type ProgramStateRepository interface {
	Create(state *model.ProgramState) error
	Get() (*model.ProgramState, error)
	Update(state *model.ProgramState) error
}

type programStateRepository struct {
	ext sqlx.Ext
}

func NewProgramStateRepository(ext sqlx.Ext) ProgramStateRepository {
	return &programStateRepository{ext: ext}
}

func (r *programStateRepository) Create(state *model.ProgramState) error {
	query := `INSERT INTO program_state (id, address, authority, wellness_pool, wellness_pool_bump,
	          total_staked, total_goals_completed, total_goals_failed, created_at, updated_at)
	          VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.ext.Exec(query,
		state.Address,
		state.Authority,
		state.WellnessPool,
		state.WellnessPoolBump,
		state.TotalStaked,
		state.TotalGoalsCompleted,
		state.TotalGoalsFailed,
		state.CreatedAt,
		state.UpdatedAt,
	)

	return err
}

func (r *programStateRepository) Get() (*model.ProgramState, error) {
	state := &model.ProgramState{}
	query := `SELECT * FROM program_state WHERE id = 1`

	err := sqlx.Get(r.ext, state, query)
	if err == sql.ErrNoRows {
		return nil, ErrProgramStateNotFound
	}
	if err != nil {
		return nil, err
	}

	return state, nil
}

func (r *programStateRepository) Update(state *model.ProgramState) error {
	query := `UPDATE program_state
	          SET total_staked = $1, total_goals_completed = $2, total_goals_failed = $3, updated_at = $4
	          WHERE id = 1`

	result, err := r.ext.Exec(query,
		state.TotalStaked,
		state.TotalGoalsCompleted,
		state.TotalGoalsFailed,
		time.Now(),
	)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrProgramStateNotFound
	}

	return nil
}
