package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/tam/internal/app/models"
	"github.com/yigit/tam/internal/app/models/dto"
	"github.com/yigit/tam/internal/app/services"
	"github.com/yigit/tam/internal/middleware"
)

// EventController handles event-related operations
type EventController struct {
	eventService *services.EventService
}

// NewEventController creates a new EventController
func NewEventController(eventService *services.EventService) *EventController {
	return &EventController{
		eventService: eventService,
	}
}

// ListActiveEvents lists the events open for registration
// @Summary List active events
// @Description Retrieves the events currently accepting registrations, newest first
// @Tags events
// @Produce json
// @Success 200 {object} dto.StructuredResponse{data=[]models.Event} "Events retrieved successfully"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /events [get]
func (c *EventController) ListActiveEvents(ctx *gin.Context) {
	events, err := c.eventService.ListEvents(ctx.Request.Context(), true)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if events == nil {
		events = []*models.Event{}
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(events, "Events retrieved successfully"))
}

// ListAllEvents lists every event for the admin console
// @Summary List all events
// @Description Retrieves all events including inactive ones
// @Tags admin-events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StructuredResponse{data=[]models.Event} "Events retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/events [get]
func (c *EventController) ListAllEvents(ctx *gin.Context) {
	events, err := c.eventService.ListEvents(ctx.Request.Context(), false)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if events == nil {
		events = []*models.Event{}
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(events, "Events retrieved successfully"))
}

// GetEvent retrieves an event by ID
// @Summary Get event by ID
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} dto.StructuredResponse{data=models.Event} "Event retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid event ID"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id} [get]
func (c *EventController) GetEvent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Event")
	if !ok {
		return
	}

	event, err := c.eventService.GetEvent(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(event, "Event retrieved successfully"))
}

// CreateEvent handles event creation
// @Summary Create a new event
// @Description Individual events always take exactly one registrant; team events need 1 <= minTeamSize <= maxTeamSize
// @Tags admin-events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateEventRequest true "Event information"
// @Success 201 {object} dto.StructuredResponse{data=models.Event} "Event created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/events [post]
func (c *EventController) CreateEvent(ctx *gin.Context) {
	var req dto.CreateEventRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	event, err := c.eventService.CreateEvent(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewStructuredResponse(event, "Event created successfully"))
}

// UpdateEvent applies a partial update to an event
// @Summary Update an event
// @Tags admin-events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param request body dto.UpdateEventRequest true "Fields to change"
// @Success 200 {object} dto.StructuredResponse{data=models.Event} "Event updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 409 {object} dto.ErrorResponse "Capacity below registered count"
// @Router /admin/events/{id} [put]
func (c *EventController) UpdateEvent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Event")
	if !ok {
		return
	}

	var req dto.UpdateEventRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	event, err := c.eventService.UpdateEvent(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(event, "Event updated successfully"))
}

// ToggleEvent opens or closes registration
// @Summary Toggle event registration
// @Tags admin-events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.StructuredResponse{data=models.Event} "Event toggled successfully"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /admin/events/{id}/toggle [patch]
func (c *EventController) ToggleEvent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Event")
	if !ok {
		return
	}

	event, err := c.eventService.ToggleActive(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(event, "Event toggled successfully"))
}

// DeleteEvent deletes an event with its registrations and checkins
// @Summary Delete an event
// @Tags admin-events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.StructuredResponse{data=dto.DeleteEventResponse} "Event deleted successfully"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /admin/events/{id} [delete]
func (c *EventController) DeleteEvent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Event")
	if !ok {
		return
	}

	resp, err := c.eventService.DeleteEvent(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(resp, "Event deleted successfully"))
}

// UploadPoster stores an event poster image
// @Summary Upload event poster
// @Tags admin-events
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param poster formData file true "Poster image (jpg, png or webp, max 5MB)"
// @Success 200 {object} dto.StructuredResponse{data=models.Event} "Poster uploaded successfully"
// @Failure 400 {object} dto.ErrorResponse "Missing or unsupported file"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 413 {object} dto.ErrorResponse "File too large"
// @Router /admin/events/{id}/poster [post]
func (c *EventController) UploadPoster(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Event")
	if !ok {
		return
	}

	fileHeader, err := ctx.FormFile("poster")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Poster file is required").
			WithField("poster")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	event, err := c.eventService.UploadPoster(ctx.Request.Context(), id, fileHeader)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(event, "Poster uploaded successfully"))
}

// EventStats returns registration and attendance counts
// @Summary Event statistics
// @Tags admin-events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.StructuredResponse{data=models.EventStats} "Statistics retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /admin/events/{id}/stats [get]
func (c *EventController) EventStats(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Event")
	if !ok {
		return
	}

	stats, err := c.eventService.EventStats(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(stats, "Statistics retrieved successfully"))
}
