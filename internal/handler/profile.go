package handler

import (
	"net/http"

	"github.com/detoxmine/detoxmine/internal/ctxkeys"
	"github.com/detoxmine/detoxmine/internal/model"
	"github.com/detoxmine/detoxmine/internal/service"
)

type ProfileHandler struct {
	profileService *service.ProfileService
	goalService    *service.GoalService
}

func NewProfileHandler(profileService *service.ProfileService, goalService *service.GoalService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		goalService:    goalService,
	}
}

type createProfileRequest struct {
	NotifyEmail string `json:"notify_email,omitempty"`
}

type profileResponse struct {
	Address        string `json:"address"`
	UserAddress    string `json:"user_address"`
	TotalStaked    int64  `json:"total_staked"`
	GoalsCompleted int    `json:"goals_completed"`
	GoalsFailed    int    `json:"goals_failed"`
	CurrentStreak  int    `json:"current_streak"`
	LongestStreak  int    `json:"longest_streak"`
	LastActivity   int64  `json:"last_activity"`
}

func toProfileResponse(profile *model.UserProfile) profileResponse {
	return profileResponse{
		Address:        profile.Address,
		UserAddress:    profile.UserAddress,
		TotalStaked:    profile.TotalStaked,
		GoalsCompleted: profile.GoalsCompleted,
		GoalsFailed:    profile.GoalsFailed,
		CurrentStreak:  profile.CurrentStreak,
		LongestStreak:  profile.LongestStreak,
		LastActivity:   profile.LastActivity,
	}
}

// Create makes the authenticated caller's profile and vault.
func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller := ctxkeys.Identity(r.Context())

	var req createProfileRequest
	if r.ContentLength > 0 && !decodeBody(w, r, &req) {
		return
	}

	profile, err := h.profileService.Create(caller, req.NotifyEmail)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toProfileResponse(profile))
}

// Get looks a profile up by participant identity.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userAddress := r.PathValue("address")

	profile, err := h.profileService.ByUser(userAddress)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toProfileResponse(profile))
}

// Goals lists goals where the user is staker or beneficiary.
func (h *ProfileHandler) Goals(w http.ResponseWriter, r *http.Request) {
	userAddress := r.PathValue("address")

	goals, err := h.goalService.ByUser(userAddress)
	if err != nil {
		respondError(w, err)
		return
	}

	resp := make([]goalResponse, 0, len(goals))
	for _, goal := range goals {
		resp = append(resp, toGoalResponse(goal))
	}

	respondJSON(w, http.StatusOK, resp)
}
