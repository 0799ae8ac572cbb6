package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/detoxmine/detoxmine/internal/event"
	"github.com/detoxmine/detoxmine/internal/keys"
	"github.com/detoxmine/detoxmine/internal/model"
	"github.com/detoxmine/detoxmine/internal/repository"
	"github.com/detoxmine/detoxmine/internal/token"
)

var (
	ErrInvalidStakeAmount   = errors.New("stake amount must be positive")
	ErrInvalidTimeLimit     = errors.New("usage time limit must be positive")
	ErrInvalidDuration      = errors.New("goal duration must be between 1 and 365 days")
	ErrGoalNotActive        = errors.New("goal is not active")
	ErrGoalExpired          = errors.New("goal has expired")
	ErrGoalNotExpired       = errors.New("goal has not expired yet")
	ErrUnauthorizedReporter = errors.New("reporter is neither staker nor beneficiary")
	ErrDayAlreadyReported   = errors.New("day already reported for this goal")
	ErrReportOutOfWindow    = errors.New("report date is outside the goal window")
	ErrGoalExists           = errors.New("a goal staked by this user already exists for this start time")
)

const (
	maxGoalDurationDays = 365
	secondsPerDay       = 86400
)

// StakeParams are the caller-supplied inputs to a new goal.
type StakeParams struct {
	Amount       int64
	LimitMinutes int
	DurationDays int
	Beneficiary  string // empty means the staker commits for themselves
}

// ReportResult is the outcome of a daily usage report.
type ReportResult struct {
	Met           bool `json:"met"`
	DaysCompleted int  `json:"days_completed"`
}

// FinalizeResult is the outcome of goal finalization.
type FinalizeResult struct {
	Completed     bool   `json:"completed"`
	AmountSettled int64  `json:"amount_settled"`
	DaysCompleted int    `json:"days_completed"`
	Destination   string `json:"destination"` // beneficiary vault or pool address
}

// GoalService owns the goal lifecycle: staking, daily reporting, and
// finalization, with the aggregate counters updated alongside each
// transition.
type GoalService struct {
	store   *repository.Store
	emitter *event.Emitter
	notify  *NotifyService

	now func() time.Time
}

func NewGoalService(store *repository.Store, emitter *event.Emitter, notify *NotifyService) *GoalService {
	return &GoalService{
		store:   store,
		emitter: emitter,
		notify:  notify,
		now:     time.Now,
	}
}

// Stake escrows the stake and opens a goal. Parameter validation happens
// before any value moves; a failed transfer aborts the whole operation.
func (s *GoalService) Stake(staker string, params StakeParams) (*model.Goal, error) {
	if params.Amount <= 0 {
		return nil, ErrInvalidStakeAmount
	}
	if params.LimitMinutes <= 0 {
		return nil, ErrInvalidTimeLimit
	}
	if params.DurationDays < 1 || params.DurationDays > maxGoalDurationDays {
		return nil, ErrInvalidDuration
	}

	beneficiary := params.Beneficiary
	if beneficiary == "" {
		beneficiary = staker
	}

	var goal *model.Goal
	var created *model.Event

	err := s.store.InTx(func(tx *repository.Store) error {
		state, err := tx.Program.Get()
		if errors.Is(err, repository.ErrProgramStateNotFound) {
			return ErrProgramNotInitialized
		}
		if err != nil {
			return err
		}

		profile, err := tx.Profiles.ByUser(staker)
		if err != nil {
			return err
		}

		now := s.now()
		start := now.Unix()
		end := start + int64(params.DurationDays)*secondsPerDay

		goalAddress := keys.Goal(staker, start)
		escrowAddress := keys.Escrow(goalAddress, keys.DefaultBump)

		// The address is derived from (staker, start second); a second
		// stake in the same second lands on the same record.
		_, err = tx.Goals.ByAddress(goalAddress)
		if err == nil {
			return ErrGoalExists
		}
		if !errors.Is(err, repository.ErrGoalNotFound) {
			return err
		}

		// Escrow owns itself: stake release is possible only through
		// finalization, which derives this address.
		err = tx.Accounts.Create(token.NewAccount(escrowAddress, escrowAddress, now))
		if err != nil {
			return fmt.Errorf("failed to create escrow account: %w", err)
		}

		err = token.Transfer(tx.Accounts, keys.UserVault(staker), escrowAddress, params.Amount, staker)
		if err != nil {
			return err
		}

		goal = &model.Goal{
			Address:        goalAddress,
			Staker:         staker,
			Beneficiary:    beneficiary,
			StakeAmount:    params.Amount,
			UsageTimeLimit: params.LimitMinutes,
			DurationDays:   params.DurationDays,
			StartTime:      start,
			EndTime:        end,
			Status:         model.GoalStatusActive,
			EscrowBump:     keys.DefaultBump,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		err = tx.Goals.Create(goal)
		if err != nil {
			return fmt.Errorf("failed to create goal: %w", err)
		}

		profile.TotalStaked += params.Amount
		err = tx.Profiles.Update(profile)
		if err != nil {
			return err
		}

		state.TotalStaked += params.Amount
		err = tx.Program.Update(state)
		if err != nil {
			return err
		}

		created, err = event.Record(model.EventGoalCreated, goalAddress, event.GoalCreated{
			Goal:           goalAddress,
			Staker:         staker,
			Beneficiary:    beneficiary,
			StakeAmount:    params.Amount,
			UsageTimeLimit: params.LimitMinutes,
			GoalDuration:   params.DurationDays,
		}, now)
		if err != nil {
			return err
		}
		return tx.Events.Create(created)
	})
	if err != nil {
		return nil, err
	}

	s.emitter.Publish(created)
	slog.Info("goal staked", "goal", goal.Address, "staker", staker, "amount", params.Amount, "days", params.DurationDays)
	return goal, nil
}

// Report records one daily usage report. A report at or under the limit
// increments days_completed; an over-limit report consumes the day but
// mutates nothing else. Each UTC day can be reported once, and the
// reported date must fall inside the goal window.
func (s *GoalService) Report(reporter, goalAddress string, usageMinutes int, date int64) (*ReportResult, error) {
	var result *ReportResult
	var emitted *model.Event

	err := s.store.InTx(func(tx *repository.Store) error {
		goal, err := tx.Goals.ByAddress(goalAddress)
		if err != nil {
			return err
		}

		if !goal.IsActive() {
			return ErrGoalNotActive
		}

		now := s.now()
		if now.Unix() > goal.EndTime {
			return ErrGoalExpired
		}

		if reporter != goal.Staker && reporter != goal.Beneficiary {
			return ErrUnauthorizedReporter
		}

		day := dayOf(date)
		if day < dayOf(goal.StartTime) || day > dayOf(goal.EndTime) {
			return ErrReportOutOfWindow
		}

		taken, err := tx.Reports.Exists(goalAddress, day)
		if err != nil {
			return err
		}
		if taken {
			return ErrDayAlreadyReported
		}

		met := usageMinutes <= goal.UsageTimeLimit

		err = tx.Reports.Create(&model.GoalReport{
			GoalAddress:  goalAddress,
			Day:          day,
			Reporter:     reporter,
			UsageMinutes: usageMinutes,
			Met:          met,
			CreatedAt:    now,
		})
		if err != nil {
			return err
		}

		if met {
			goal.DaysCompleted++
			err = tx.Goals.Update(goal)
			if err != nil {
				return err
			}

			emitted, err = event.Record(model.EventDailyGoalMet, goalAddress, event.DailyGoalMet{
				Goal:          goalAddress,
				Date:          date,
				UsageMinutes:  usageMinutes,
				DaysCompleted: goal.DaysCompleted,
			}, now)
		} else {
			emitted, err = event.Record(model.EventDailyGoalFailed, goalAddress, event.DailyGoalFailed{
				Goal:         goalAddress,
				Date:         date,
				UsageMinutes: usageMinutes,
				Limit:        goal.UsageTimeLimit,
			}, now)
		}
		if err != nil {
			return err
		}
		err = tx.Events.Create(emitted)
		if err != nil {
			return err
		}

		result = &ReportResult{Met: met, DaysCompleted: goal.DaysCompleted}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emitter.Publish(emitted)
	return result, nil
}

// Finalize settles an expired goal: the full escrowed stake goes back to
// the beneficiary's vault on success or to the communal pool on failure.
// Terminal either way; the escrow account ends at zero.
func (s *GoalService) Finalize(goalAddress string) (*FinalizeResult, error) {
	var result *FinalizeResult
	var emitted *model.Event
	var notifyEmail string

	err := s.store.InTx(func(tx *repository.Store) error {
		goal, err := tx.Goals.ByAddress(goalAddress)
		if err != nil {
			return err
		}

		if !goal.IsActive() {
			return ErrGoalNotActive
		}

		now := s.now()
		if now.Unix() < goal.EndTime {
			return ErrGoalNotExpired
		}

		state, err := tx.Program.Get()
		if errors.Is(err, repository.ErrProgramStateNotFound) {
			return ErrProgramNotInitialized
		}
		if err != nil {
			return err
		}

		profile, err := tx.Profiles.ByUser(goal.Beneficiary)
		if err != nil {
			return err
		}

		escrowAddress := keys.Escrow(goal.Address, goal.EscrowBump)
		completed := goal.DaysCompleted >= goal.SuccessThreshold()

		var destination string
		if completed {
			goal.Status = model.GoalStatusCompleted
			state.TotalGoalsCompleted++
			profile.GoalsCompleted++
			profile.CurrentStreak++
			if profile.CurrentStreak > profile.LongestStreak {
				profile.LongestStreak = profile.CurrentStreak
			}

			destination = keys.UserVault(goal.Beneficiary)
			err = token.Transfer(tx.Accounts, escrowAddress, destination, goal.StakeAmount, escrowAddress)
			if err != nil {
				return err
			}

			emitted, err = event.Record(model.EventGoalCompleted, goal.Address, event.GoalCompleted{
				Goal:          goal.Address,
				Staker:        goal.Staker,
				Beneficiary:   goal.Beneficiary,
				StakeReturned: goal.StakeAmount,
				DaysCompleted: goal.DaysCompleted,
			}, now)
		} else {
			goal.Status = model.GoalStatusFailed
			state.TotalGoalsFailed++
			profile.GoalsFailed++
			profile.CurrentStreak = 0

			destination = state.WellnessPool
			err = token.Transfer(tx.Accounts, escrowAddress, destination, goal.StakeAmount, escrowAddress)
			if err != nil {
				return err
			}

			emitted, err = event.Record(model.EventGoalFailed, goal.Address, event.GoalFailed{
				Goal:           goal.Address,
				Staker:         goal.Staker,
				Beneficiary:    goal.Beneficiary,
				StakeForfeited: goal.StakeAmount,
				DaysCompleted:  goal.DaysCompleted,
			}, now)
		}
		if err != nil {
			return err
		}

		profile.LastActivity = now.Unix()

		err = tx.Goals.Update(goal)
		if err != nil {
			return err
		}
		err = tx.Profiles.Update(profile)
		if err != nil {
			return err
		}
		err = tx.Program.Update(state)
		if err != nil {
			return err
		}
		err = tx.Events.Create(emitted)
		if err != nil {
			return err
		}

		if profile.WantsEmail() {
			notifyEmail = *profile.NotifyEmail
		}

		result = &FinalizeResult{
			Completed:     completed,
			AmountSettled: goal.StakeAmount,
			DaysCompleted: goal.DaysCompleted,
			Destination:   destination,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emitter.Publish(emitted)
	slog.Info("goal finalized", "goal", goalAddress, "completed", result.Completed, "amount", result.AmountSettled)

	if notifyEmail != "" {
		var notifyErr error
		if result.Completed {
			notifyErr = s.notify.SendGoalCompleted(notifyEmail, goalAddress, result.AmountSettled, result.DaysCompleted)
		} else {
			notifyErr = s.notify.SendGoalFailed(notifyEmail, goalAddress, result.AmountSettled, result.DaysCompleted)
		}
		if notifyErr != nil {
			slog.Warn("finalization email failed", "error", notifyErr, "goal", goalAddress)
		}
	}

	return result, nil
}

// ByAddress looks a goal up by address.
func (s *GoalService) ByAddress(address string) (*model.Goal, error) {
	return s.store.Goals.ByAddress(address)
}

// ByUser lists goals where the user is staker or beneficiary.
func (s *GoalService) ByUser(userAddress string) ([]*model.Goal, error) {
	return s.store.Goals.ByUser(userAddress)
}

// Reports lists the recorded daily reports for a goal.
func (s *GoalService) Reports(goalAddress string) ([]*model.GoalReport, error) {
	return s.store.Reports.ByGoal(goalAddress)
}

// dayOf maps a unix timestamp to its UTC day number.
func dayOf(date int64) int64 {
	day := date / secondsPerDay
	if date < 0 && date%secondsPerDay != 0 {
		day--
	}
	return day
}
