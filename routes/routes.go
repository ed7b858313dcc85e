package routes

import (
	"irespond/internal/handlers"
	"irespond/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupIncidentRoutes sets up routes for incident lifecycle operations
func SetupIncidentRoutes(r *gin.RouterGroup, jwtSecret string, incidentHandler *handlers.IncidentHandler, reportHandler *handlers.ReportHandler, mediaHandler *handlers.MediaHandler) {
	incidents := r.Group("/incidents")
	incidents.Use(middleware.AuthRequired(jwtSecret))
	{
		incidents.POST("/", incidentHandler.CreateIncident)
		incidents.GET("/", incidentHandler.ListIncidents)
		incidents.GET("/mine", incidentHandler.GetMyIncidents)
		incidents.GET("/:id", incidentHandler.GetIncident)
		incidents.GET("/:id/history", incidentHandler.GetStatusHistory)
		incidents.GET("/:id/updates", incidentHandler.GetIncidentUpdates)
		incidents.POST("/:id/updates", incidentHandler.AddIncidentUpdate)

		// Media attachments
		incidents.POST("/:id/media", mediaHandler.UploadMedia)
		incidents.GET("/:id/media", mediaHandler.ListMedia)
		incidents.GET("/:id/media/:file", mediaHandler.GetMediaURL)
		incidents.DELETE("/:id/media/:file", mediaHandler.DeleteMedia)

		// Incident-level reports
		incidents.GET("/:id/reports", reportHandler.GetIncidentReports)
		incidents.GET("/:id/final-report", reportHandler.GetFinalReport)
	}

	// Officer operations
	officer := r.Group("/incidents")
	officer.Use(middleware.AuthRequired(jwtSecret), middleware.OfficerRequired())
	{
		officer.GET("/assigned", incidentHandler.GetAssignedIncidents)
		officer.GET("/:id/reports/mine", reportHandler.GetMyIncidentReport)
		officer.PUT("/:id/status", incidentHandler.ChangeStatus)
		officer.PUT("/:id/assign", incidentHandler.AssignIncident)
	}
}

// SetupReportRoutes sets up routes for responder reports and final report drafts
func SetupReportRoutes(r *gin.RouterGroup, jwtSecret string, reportHandler *handlers.ReportHandler) {
	reports := r.Group("/reports")
	reports.Use(middleware.AuthRequired(jwtSecret), middleware.OfficerRequired())
	{
		reports.POST("/", reportHandler.SubmitReport)
		reports.GET("/mine", reportHandler.GetMyReports)
		reports.GET("/agency", reportHandler.GetMyAgencyReports)
		reports.GET("/final", reportHandler.GetFinalReports)

		reports.GET("/drafts/:id", reportHandler.GetDraft)
		reports.PUT("/drafts", reportHandler.SaveDraft)
		reports.POST("/drafts/:id/promote", reportHandler.PromoteDraft)
		reports.DELETE("/drafts/:id", reportHandler.DeleteDraft)
	}
}

// SetupNotificationRoutes sets up the notification inbox routes
func SetupNotificationRoutes(r *gin.RouterGroup, jwtSecret string, notificationHandler *handlers.NotificationHandler) {
	notifications := r.Group("/notifications")
	notifications.Use(middleware.AuthRequired(jwtSecret))
	{
		notifications.GET("/", notificationHandler.GetNotifications)
		notifications.GET("/unread-count", notificationHandler.GetUnreadCount)
		notifications.PUT("/:id/read", notificationHandler.MarkAsRead)
		notifications.PUT("/read-all", notificationHandler.MarkAllAsRead)
	}
}

// SetupProfileRoutes sets up profile, officer roster and station routes
func SetupProfileRoutes(r *gin.RouterGroup, jwtSecret string, profileHandler *handlers.ProfileHandler) {
	profiles := r.Group("/profiles")
	profiles.Use(middleware.AuthRequired(jwtSecret))
	{
		profiles.GET("/me", profileHandler.GetMyProfile)
		profiles.PUT("/me", profileHandler.UpdateMyProfile)
		profiles.PUT("/me/status", profileHandler.SetMyStatus)
		profiles.PUT("/me/device-token", profileHandler.RegisterDeviceToken)
		profiles.GET("/:id", profileHandler.GetProfile)
	}

	officers := r.Group("/officers")
	officers.Use(middleware.AuthRequired(jwtSecret), middleware.OfficerRequired())
	{
		officers.GET("/available", profileHandler.GetAvailableOfficers)
	}

	stations := r.Group("/stations")
	stations.Use(middleware.AuthRequired(jwtSecret))
	{
		stations.GET("/", profileHandler.GetStations)
		stations.GET("/:id/officers", profileHandler.GetStationOfficers)
	}
}

// SetupRealtimeRoutes sets up the websocket and subscription routes
func SetupRealtimeRoutes(r *gin.RouterGroup, jwtSecret string, realtimeHandler *handlers.RealtimeHandler) {
	ws := r.Group("/ws")
	ws.Use(middleware.AuthRequired(jwtSecret))
	{
		ws.GET("/", realtimeHandler.Connect)
		ws.DELETE("/", realtimeHandler.Disconnect)
	}
}
