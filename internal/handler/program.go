package handler

import (
	"net/http"

	"github.com/detoxmine/detoxmine/internal/ctxkeys"
	"github.com/detoxmine/detoxmine/internal/model"
	"github.com/detoxmine/detoxmine/internal/service"
	"github.com/detoxmine/detoxmine/internal/validation"
)

type ProgramHandler struct {
	programService *service.ProgramService
}

func NewProgramHandler(programService *service.ProgramService) *ProgramHandler {
	return &ProgramHandler{
		programService: programService,
	}
}

type bootstrapRequest struct {
	PoolBump *byte `json:"pool_bump"`
}

type programResponse struct {
	Address             string `json:"address"`
	Authority           string `json:"authority"`
	WellnessPool        string `json:"wellness_pool"`
	WellnessPoolBump    byte   `json:"wellness_pool_bump"`
	TotalStaked         int64  `json:"total_staked"`
	TotalGoalsCompleted int    `json:"total_goals_completed"`
	TotalGoalsFailed    int    `json:"total_goals_failed"`
}

func toProgramResponse(state *model.ProgramState) programResponse {
	return programResponse{
		Address:             state.Address,
		Authority:           state.Authority,
		WellnessPool:        state.WellnessPool,
		WellnessPoolBump:    state.WellnessPoolBump,
		TotalStaked:         state.TotalStaked,
		TotalGoalsCompleted: state.TotalGoalsCompleted,
		TotalGoalsFailed:    state.TotalGoalsFailed,
	}
}

// Bootstrap initializes the program singleton; the caller becomes the authority.
func (h *ProgramHandler) Bootstrap(w http.ResponseWriter, r *http.Request) {
	caller := ctxkeys.Identity(r.Context())

	var req bootstrapRequest
	if !decodeBody(w, r, &req) {
		return
	}

	// Bump defaults to the standard derivation nonce
	bump := byte(255)
	if req.PoolBump != nil {
		bump = *req.PoolBump
	}

	state, err := h.programService.Bootstrap(caller, bump)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toProgramResponse(state))
}

// State returns the program record with its running totals.
func (h *ProgramHandler) State(w http.ResponseWriter, r *http.Request) {
	state, err := h.programService.State()
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toProgramResponse(state))
}

type distributeRequest struct {
	Recipients []string `json:"recipients"`
	Amounts    []int64  `json:"amounts"`
}

type distributeResponse struct {
	Distributed int `json:"distributed"`
}

// Distribute settles wellness-pool rewards to recipients. Authority only.
func (h *ProgramHandler) Distribute(w http.ResponseWriter, r *http.Request) {
	caller := ctxkeys.Identity(r.Context())

	var req distributeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	events, err := h.programService.DistributeRewards(caller, req.Recipients, req.Amounts)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, distributeResponse{Distributed: len(events)})
}

type fundRequest struct {
	Amount int64 `json:"amount"`
}

// Fund mints units into a user vault. Development faucet, authority only.
func (h *ProgramHandler) Fund(w http.ResponseWriter, r *http.Request) {
	caller := ctxkeys.Identity(r.Context())
	userAddress := r.PathValue("address")

	err := validation.ValidateAddress(userAddress)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	var req fundRequest
	if !decodeBody(w, r, &req) {
		return
	}

	err = h.programService.Fund(caller, userAddress, req.Amount)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "funded"})
}

type accountResponse struct {
	Address string `json:"address"`
	Owner   string `json:"owner"`
	Balance int64  `json:"balance"`
}

// Account returns a holding-account balance.
func (h *ProgramHandler) Account(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")

	account, err := h.programService.Account(address)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, accountResponse{
		Address: account.Address,
		Owner:   account.Owner,
		Balance: account.Balance,
	})
}
