package handlers

import (
	"errors"
	"net/http"

	"irespond/internal/services"
	"irespond/internal/utils"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService services.ReportService
}

func NewReportHandler(reportService services.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// SubmitReport creates or updates the responder's report for an incident
func (h *ReportHandler) SubmitReport(c *gin.Context) {
	var request services.SubmitReportRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	result, err := h.reportService.CreateOrUpdateReport(c.Request.Context(), &request)
	if err != nil {
		if errors.Is(err, utils.ErrNotAuthenticated) {
			utils.UnauthorizedResponse(c)
			return
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, "REPORT_SUBMIT_FAILED", "Failed to submit report: "+err.Error())
		return
	}

	utils.SuccessResponse(c, "Report submitted successfully", result)
}

// GetIncidentReports lists all responder reports for an incident
func (h *ReportHandler) GetIncidentReports(c *gin.Context) {
	reports, err := h.reportService.GetIncidentReports(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "REPORT_LIST_FAILED", "Failed to list reports: "+err.Error())
		return
	}

	utils.SuccessResponse(c, "Reports retrieved successfully", reports)
}

// GetMyReports lists reports submitted by the current responder
func (h *ReportHandler) GetMyReports(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	reports, total, err := h.reportService.GetMyReports(c.Request.Context(), params)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "REPORT_LIST_FAILED", "Failed to list reports: "+err.Error())
		return
	}

	utils.SuccessResponseWithMeta(c, "Reports retrieved successfully", reports, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

// GetMyIncidentReport returns the current responder's report for an incident
func (h *ReportHandler) GetMyIncidentReport(c *gin.Context) {
	report, err := h.reportService.GetMyIncidentReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, utils.ErrNotAuthenticated) {
			utils.UnauthorizedResponse(c)
			return
		}
		if errors.Is(err, utils.ErrReportNotFound) {
			utils.NotFoundResponse(c, "Report")
			return
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, "REPORT_FETCH_FAILED", "Failed to get report: "+err.Error())
		return
	}

	utils.SuccessResponse(c, "Report retrieved successfully", report)
}

// GetMyAgencyReports lists the current responder's reports within an agency
func (h *ReportHandler) GetMyAgencyReports(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	reports, total, err := h.reportService.GetMyAgencyReports(c.Request.Context(), c.Query("agency_type"), params)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "REPORT_LIST_FAILED", "Failed to list reports: "+err.Error())
		return
	}

	utils.SuccessResponseWithMeta(c, "Reports retrieved successfully", reports, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

// GetDraft returns the incident's working draft, if any
func (h *ReportHandler) GetDraft(c *gin.Context) {
	draft, err := h.reportService.GetDraft(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "DRAFT_FETCH_FAILED", "Failed to get draft: "+err.Error())
		return
	}
	if draft == nil {
		utils.NotFoundResponse(c, "Draft")
		return
	}

	utils.SuccessResponse(c, "Draft retrieved successfully", draft)
}

// SaveDraft creates or replaces the incident's working draft
func (h *ReportHandler) SaveDraft(c *gin.Context) {
	var request services.SaveDraftRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	draft, err := h.reportService.SaveDraft(c.Request.Context(), &request)
	if err != nil {
		if errors.Is(err, utils.ErrNotAuthenticated) {
			utils.UnauthorizedResponse(c)
			return
		}
		if errors.Is(err, utils.ErrInvalidStatus) {
			utils.BadRequestResponse(c, err.Error())
			return
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, "DRAFT_SAVE_FAILED", "Failed to save draft: "+err.Error())
		return
	}

	utils.SuccessResponse(c, "Draft saved successfully", draft)
}

// PromoteDraft marks the incident's draft as ready for review
func (h *ReportHandler) PromoteDraft(c *gin.Context) {
	promoted, err := h.reportService.PromoteDraftToFinal(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "DRAFT_PROMOTE_FAILED", "Failed to promote draft: "+err.Error())
		return
	}
	if !promoted {
		utils.NotFoundResponse(c, "Draft")
		return
	}

	utils.SuccessResponse(c, "Draft marked ready for review", gin.H{"promoted": true})
}

// DeleteDraft removes the incident's working draft
func (h *ReportHandler) DeleteDraft(c *gin.Context) {
	if err := h.reportService.DeleteDraft(c.Request.Context(), c.Param("id")); err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "DRAFT_DELETE_FAILED", "Failed to delete draft: "+err.Error())
		return
	}

	utils.SuccessResponse(c, "Draft deleted successfully", nil)
}

// GetFinalReport returns the incident's final report
func (h *ReportHandler) GetFinalReport(c *gin.Context) {
	report, err := h.reportService.GetFinalReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, utils.ErrReportNotFound) {
			utils.NotFoundResponse(c, "Final report")
			return
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, "REPORT_FETCH_FAILED", "Failed to get final report: "+err.Error())
		return
	}

	utils.SuccessResponse(c, "Final report retrieved successfully", report)
}

// GetFinalReports lists an agency's final reports
func (h *ReportHandler) GetFinalReports(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	agencyType := utils.NormalizeAgencyType(c.Query("agency_type"))

	reports, total, err := h.reportService.GetFinalReportsByAgency(c.Request.Context(), agencyType, params)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "REPORT_LIST_FAILED", "Failed to list final reports: "+err.Error())
		return
	}

	utils.SuccessResponseWithMeta(c, "Final reports retrieved successfully", reports, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}
