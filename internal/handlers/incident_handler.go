package handlers

import (
	"errors"
	"net/http"

	"irespond/internal/models"
	"irespond/internal/services"
	"irespond/internal/utils"

	"github.com/gin-gonic/gin"
)

type IncidentHandler struct {
	incidentService services.IncidentService
}

func NewIncidentHandler(incidentService services.IncidentService) *IncidentHandler {
	return &IncidentHandler{
		incidentService: incidentService,
	}
}

// CreateIncident reports a new incident
func (h *IncidentHandler) CreateIncident(c *gin.Context) {
	var request services.CreateIncidentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	incident, err := h.incidentService.CreateIncident(c.Request.Context(), &request)
	if err != nil {
		if errors.Is(err, utils.ErrNotAuthenticated) {
			utils.UnauthorizedResponse(c)
			return
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, "INCIDENT_CREATE_FAILED", "Failed to create incident: "+err.Error())
		return
	}

	utils.CreatedResponse(c, "Incident created successfully", incident)
}

// GetIncident retrieves incident details
func (h *IncidentHandler) GetIncident(c *gin.Context) {
	incident, err := h.incidentService.GetIncident(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, utils.ErrIncidentNotFound) {
			utils.NotFoundResponse(c, "Incident")
			return
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, "INCIDENT_FETCH_FAILED", "Failed to get incident: "+err.Error())
		return
	}

	utils.SuccessResponse(c, "Incident retrieved successfully", incident)
}

// ListIncidents lists incidents for an agency, optionally filtered by status
func (h *IncidentHandler) ListIncidents(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	agencyType := utils.NormalizeAgencyType(c.Query("agency_type"))

	var statuses []models.IncidentStatus
	for _, s := range c.QueryArray("status") {
		statuses = append(statuses, models.IncidentStatus(s))
	}

	incidents, total, err := h.incidentService.GetIncidentsByAgency(c.Request.Context(), agencyType, statuses, params)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "INCIDENT_LIST_FAILED", "Failed to list incidents: "+err.Error())
		return
	}

	utils.SuccessResponseWithMeta(c, "Incidents retrieved successfully", incidents, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

// GetMyIncidents lists incidents reported by the current user
func (h *IncidentHandler) GetMyIncidents(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	incidents, total, err := h.incidentService.GetMyIncidents(c.Request.Context(), params)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "INCIDENT_LIST_FAILED", "Failed to list incidents: "+err.Error())
		return
	}

	utils.SuccessResponseWithMeta(c, "Incidents retrieved successfully", incidents, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

// GetAssignedIncidents lists incidents assigned to the current responder
func (h *IncidentHandler) GetAssignedIncidents(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	var statuses []models.IncidentStatus
	for _, s := range c.QueryArray("status") {
		statuses = append(statuses, models.IncidentStatus(s))
	}

	incidents, total, err := h.incidentService.GetAssignedIncidents(c.Request.Context(), statuses, params)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "INCIDENT_LIST_FAILED", "Failed to list assigned incidents: "+err.Error())
		return
	}

	utils.SuccessResponseWithMeta(c, "Assigned incidents retrieved successfully", incidents, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

type changeStatusRequest struct {
	Status models.IncidentStatus `json:"status" binding:"required"`
}

// ChangeStatus transitions an incident through its lifecycle
func (h *IncidentHandler) ChangeStatus(c *gin.Context) {
	var request changeStatusRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	result, err := h.incidentService.ChangeStatus(c.Request.Context(), c.Param("id"), request.Status)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrInvalidStatus):
			utils.BadRequestResponse(c, err.Error())
		case errors.Is(err, utils.ErrIncidentNotFound):
			utils.NotFoundResponse(c, "Incident")
		default:
			utils.ErrorResponse(c, http.StatusInternalServerError, "STATUS_CHANGE_FAILED", "Failed to change status: "+err.Error())
		}
		return
	}

	utils.SuccessResponse(c, "Status updated successfully", result)
}

type assignIncidentRequest struct {
	OfficerID   string `json:"officer_id" binding:"required"`
	OfficerName string `json:"officer_name" binding:"required"`
}

// AssignIncident assigns a responder to an incident
func (h *IncidentHandler) AssignIncident(c *gin.Context) {
	var request assignIncidentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	result, err := h.incidentService.AssignIncident(c.Request.Context(), c.Param("id"), request.OfficerID, request.OfficerName)
	if err != nil {
		if errors.Is(err, utils.ErrIncidentNotFound) {
			utils.NotFoundResponse(c, "Incident")
			return
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, "ASSIGNMENT_FAILED", "Failed to assign incident: "+err.Error())
		return
	}

	utils.SuccessResponse(c, "Incident assigned successfully", result)
}

// GetStatusHistory returns the incident's status audit trail
func (h *IncidentHandler) GetStatusHistory(c *gin.Context) {
	history, err := h.incidentService.GetStatusHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "HISTORY_FETCH_FAILED", "Failed to get status history: "+err.Error())
		return
	}

	utils.SuccessResponse(c, "Status history retrieved successfully", history)
}

// GetIncidentUpdates returns the incident's timeline notes
func (h *IncidentHandler) GetIncidentUpdates(c *gin.Context) {
	updates, err := h.incidentService.GetIncidentUpdates(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "UPDATES_FETCH_FAILED", "Failed to get incident updates: "+err.Error())
		return
	}

	utils.SuccessResponse(c, "Incident updates retrieved successfully", updates)
}

type addUpdateRequest struct {
	Note string `json:"note" binding:"required"`
}

// AddIncidentUpdate appends a timeline note to an incident
func (h *IncidentHandler) AddIncidentUpdate(c *gin.Context) {
	var request addUpdateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	update, err := h.incidentService.AddIncidentUpdate(c.Request.Context(), c.Param("id"), request.Note)
	if err != nil {
		if errors.Is(err, utils.ErrNotAuthenticated) {
			utils.UnauthorizedResponse(c)
			return
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, "UPDATE_CREATE_FAILED", "Failed to add incident update: "+err.Error())
		return
	}

	utils.CreatedResponse(c, "Incident update added successfully", update)
}
