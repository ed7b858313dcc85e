package handlers

import (
	"errors"
	"net/http"

	"irespond/internal/models"
	"irespond/internal/services"
	"irespond/internal/utils"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileService services.ProfileService
}

func NewProfileHandler(profileService services.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

// GetMyProfile returns the current user's profile
func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	profile, err := h.profileService.GetMyProfile(c.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrNotAuthenticated):
			utils.UnauthorizedResponse(c)
		case errors.Is(err, utils.ErrProfileNotFound):
			utils.NotFoundResponse(c, "Profile")
		default:
			utils.ErrorResponse(c, http.StatusInternalServerError, "PROFILE_FETCH_FAILED", "Failed to get profile: "+err.Error())
		}
		return
	}

	utils.SuccessResponse(c, "Profile retrieved successfully", profile)
}

// GetProfile returns a profile by ID
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profile, err := h.profileService.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, utils.ErrProfileNotFound) {
			utils.NotFoundResponse(c, "Profile")
			return
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, "PROFILE_FETCH_FAILED", "Failed to get profile: "+err.Error())
		return
	}

	utils.SuccessResponse(c, "Profile retrieved successfully", profile)
}

type updateProfileRequest struct {
	FullName  string `json:"full_name"`
	Phone     string `json:"phone"`
	StationID string `json:"station_id"`
}

// UpdateMyProfile updates the current user's profile
func (h *ProfileHandler) UpdateMyProfile(c *gin.Context) {
	var request updateProfileRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		utils.UnauthorizedResponse(c)
		return
	}

	updates := make(map[string]interface{})
	if request.FullName != "" {
		updates["full_name"] = request.FullName
	}
	if request.Phone != "" {
		updates["phone"] = request.Phone
	}
	if request.StationID != "" {
		updates["station_id"] = request.StationID
	}

	if err := h.profileService.UpdateProfile(c.Request.Context(), userID.(string), updates); err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "PROFILE_UPDATE_FAILED", "Failed to update profile: "+err.Error())
		return
	}

	utils.SuccessResponse(c, "Profile updated successfully", nil)
}

// GetAvailableOfficers lists officers an incident can be assigned to
func (h *ProfileHandler) GetAvailableOfficers(c *gin.Context) {
	agencyType := utils.NormalizeAgencyType(c.Query("agency_type"))

	officers, err := h.profileService.GetAvailableOfficers(c.Request.Context(), agencyType)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "OFFICER_LIST_FAILED", "Failed to list available officers: "+err.Error())
		return
	}

	utils.SuccessResponse(c, "Available officers retrieved successfully", officers)
}

// GetStationOfficers lists officers attached to a station
func (h *ProfileHandler) GetStationOfficers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	officers, total, err := h.profileService.GetOfficersByStation(c.Request.Context(), c.Param("id"), params)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "OFFICER_LIST_FAILED", "Failed to list station officers: "+err.Error())
		return
	}

	utils.SuccessResponseWithMeta(c, "Station officers retrieved successfully", officers, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

type setStatusRequest struct {
	Status models.OfficerStatus `json:"status" binding:"required"`
}

// SetMyStatus updates the current officer's availability
func (h *ProfileHandler) SetMyStatus(c *gin.Context) {
	var request setStatusRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if err := h.profileService.SetMyStatus(c.Request.Context(), request.Status); err != nil {
		switch {
		case errors.Is(err, utils.ErrNotAuthenticated):
			utils.UnauthorizedResponse(c)
		case errors.Is(err, utils.ErrInvalidStatus):
			utils.BadRequestResponse(c, err.Error())
		default:
			utils.ErrorResponse(c, http.StatusInternalServerError, "STATUS_UPDATE_FAILED", "Failed to update status: "+err.Error())
		}
		return
	}

	utils.SuccessResponse(c, "Status updated successfully", nil)
}

type deviceTokenRequest struct {
	Platform string `json:"platform" binding:"required"`
	Token    string `json:"token" binding:"required"`
}

// RegisterDeviceToken stores a push token for the current user
func (h *ProfileHandler) RegisterDeviceToken(c *gin.Context) {
	var request deviceTokenRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if err := h.profileService.RegisterDeviceToken(c.Request.Context(), request.Platform, request.Token); err != nil {
		if errors.Is(err, utils.ErrNotAuthenticated) {
			utils.UnauthorizedResponse(c)
			return
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, "TOKEN_REGISTER_FAILED", "Failed to register device token: "+err.Error())
		return
	}

	utils.SuccessResponse(c, "Device token registered successfully", nil)
}

// GetStations lists an agency's stations
func (h *ProfileHandler) GetStations(c *gin.Context) {
	agencyType := utils.NormalizeAgencyType(c.Query("agency_type"))

	stations, err := h.profileService.GetStations(c.Request.Context(), agencyType)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "STATION_LIST_FAILED", "Failed to list stations: "+err.Error())
		return
	}

	utils.SuccessResponse(c, "Stations retrieved successfully", stations)
}
