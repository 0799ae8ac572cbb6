package handler

import (
	"net/http"

	"github.com/detoxmine/detoxmine/internal/ctxkeys"
	"github.com/detoxmine/detoxmine/internal/model"
	"github.com/detoxmine/detoxmine/internal/service"
	"github.com/detoxmine/detoxmine/internal/validation"
)

type GoalHandler struct {
	goalService *service.GoalService
}

func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
	}
}

type stakeRequest struct {
	Amount       int64  `json:"amount"`
	LimitMinutes int    `json:"limit_minutes"`
	DurationDays int    `json:"duration_days"`
	Beneficiary  string `json:"beneficiary,omitempty"`
}

type goalResponse struct {
	Address        string `json:"address"`
	Staker         string `json:"staker"`
	Beneficiary    string `json:"beneficiary"`
	StakeAmount    int64  `json:"stake_amount"`
	UsageTimeLimit int    `json:"usage_time_limit"`
	DurationDays   int    `json:"duration_days"`
	StartTime      int64  `json:"start_time"`
	EndTime        int64  `json:"end_time"`
	Status         string `json:"status"`
	DaysCompleted  int    `json:"days_completed"`
}

func toGoalResponse(goal *model.Goal) goalResponse {
	return goalResponse{
		Address:        goal.Address,
		Staker:         goal.Staker,
		Beneficiary:    goal.Beneficiary,
		StakeAmount:    goal.StakeAmount,
		UsageTimeLimit: goal.UsageTimeLimit,
		DurationDays:   goal.DurationDays,
		StartTime:      goal.StartTime,
		EndTime:        goal.EndTime,
		Status:         goal.Status,
		DaysCompleted:  goal.DaysCompleted,
	}
}

// Create stakes against a new goal for the authenticated caller.
func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller := ctxkeys.Identity(r.Context())

	var req stakeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Beneficiary != "" {
		err := validation.ValidateAddress(req.Beneficiary)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
	}

	goal, err := h.goalService.Stake(caller, service.StakeParams{
		Amount:       req.Amount,
		LimitMinutes: req.LimitMinutes,
		DurationDays: req.DurationDays,
		Beneficiary:  req.Beneficiary,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toGoalResponse(goal))
}

// Get looks a goal up by address.
func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	goal, err := h.goalService.ByAddress(r.PathValue("address"))
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toGoalResponse(goal))
}

type reportRequest struct {
	UsageMinutes int   `json:"usage_minutes"`
	Date         int64 `json:"date"`
}

// Report records a daily usage report from the staker or beneficiary.
func (h *GoalHandler) Report(w http.ResponseWriter, r *http.Request) {
	caller := ctxkeys.Identity(r.Context())
	goalAddress := r.PathValue("address")

	var req reportRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.UsageMinutes < 0 {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "usage_minutes must not be negative"})
		return
	}

	result, err := h.goalService.Report(caller, goalAddress, req.UsageMinutes, req.Date)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Finalize settles an expired goal.
func (h *GoalHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	result, err := h.goalService.Finalize(r.PathValue("address"))
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

type reportEntryResponse struct {
	Day          int64  `json:"day"`
	Reporter     string `json:"reporter"`
	UsageMinutes int    `json:"usage_minutes"`
	Met          bool   `json:"met"`
}

// Reports lists the recorded daily reports for a goal.
func (h *GoalHandler) Reports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.goalService.Reports(r.PathValue("address"))
	if err != nil {
		respondError(w, err)
		return
	}

	resp := make([]reportEntryResponse, 0, len(reports))
	for _, report := range reports {
		resp = append(resp, reportEntryResponse{
			Day:          report.Day,
			Reporter:     report.Reporter,
			UsageMinutes: report.UsageMinutes,
			Met:          report.Met,
		})
	}

	respondJSON(w, http.StatusOK, resp)
}
