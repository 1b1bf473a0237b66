package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/tam/internal/app/models"
	"github.com/yigit/tam/internal/app/models/dto"
	"github.com/yigit/tam/internal/pkg/apperrors"
	"github.com/yigit/tam/internal/pkg/filestorage"
)

// EventStore is the event persistence used by EventService
type EventStore interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	List(ctx context.Context, activeOnly bool) ([]*models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	ToggleActive(ctx context.Context, id int64) (*models.Event, error)
	SetPosterURL(ctx context.Context, id int64, url string) error
	Delete(ctx context.Context, id int64) (registrations, checkins int, err error)
	Stats(ctx context.Context, id int64) (*models.EventStats, error)
}

const posterDir = "posters"

// EventService handles event-related operations
type EventService struct {
	eventRepo EventStore
	storage   filestorage.ImageStorage
	logger    zerolog.Logger
}

// NewEventService creates a new event service instance
func NewEventService(eventRepo EventStore, storage filestorage.ImageStorage, logger zerolog.Logger) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		storage:   storage,
		logger:    logger,
	}
}

// validateEvent checks the numeric fields and normalizes the team bounds.
// Individual events always have min = max = 1.
func validateEvent(event *models.Event) error {
	if strings.TrimSpace(event.Title) == "" {
		return fmt.Errorf("%w: title cannot be empty", apperrors.ErrValidationFailed)
	}
	if event.Capacity < 0 {
		return fmt.Errorf("%w: capacity cannot be negative", apperrors.ErrValidationFailed)
	}
	if event.Price < 0 {
		return fmt.Errorf("%w: price cannot be negative", apperrors.ErrValidationFailed)
	}

	switch event.TeamType {
	case "", models.TeamTypeIndividual:
		event.TeamType = models.TeamTypeIndividual
		event.MinTeamSize, event.MaxTeamSize = 1, 1
	case models.TeamTypeTeam:
		if event.MinTeamSize < 1 || event.MinTeamSize > event.MaxTeamSize {
			return fmt.Errorf("%w: need 1 <= minTeamSize <= maxTeamSize, got %d and %d",
				apperrors.ErrInvalidTeamSizeRange, event.MinTeamSize, event.MaxTeamSize)
		}
	default:
		return fmt.Errorf("%w: unknown team type %q", apperrors.ErrValidationFailed, event.TeamType)
	}
	return nil
}

// ListEvents returns all events, or only the ones open for registration
func (s *EventService) ListEvents(ctx context.Context, activeOnly bool) ([]*models.Event, error) {
	events, err := s.eventRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("error listing events: %w", err)
	}
	return events, nil
}

// GetEvent retrieves an event by ID
func (s *EventService) GetEvent(ctx context.Context, id int64) (*models.Event, error) {
	if id <= 0 {
		return nil, apperrors.ErrEventNotFound
	}
	return s.eventRepo.GetByID(ctx, id)
}

// CreateEvent creates a new active event with no registrations
func (s *EventService) CreateEvent(ctx context.Context, req *dto.CreateEventRequest) (*models.Event, error) {
	event := &models.Event{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Date:        req.Date,
		Time:        req.Time,
		Location:    req.Location,
		Capacity:    req.Capacity,
		Price:       req.Price,
		TeamType:    models.TeamType(req.TeamType),
		MinTeamSize: req.MinTeamSize,
		MaxTeamSize: req.MaxTeamSize,
	}
	if req.PosterURL != "" {
		poster := req.PosterURL
		event.PosterURL = &poster
	}

	if err := validateEvent(event); err != nil {
		return nil, err
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("error creating event: %w", err)
	}

	s.logger.Info().Int64("eventID", event.ID).Str("title", event.Title).Msg("Event created")
	return event, nil
}

// UpdateEvent applies a partial update. Capacity may not drop below the registered count.
func (s *EventService) UpdateEvent(ctx context.Context, id int64, req *dto.UpdateEventRequest) (*models.Event, error) {
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		event.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Date != nil {
		event.Date = *req.Date
	}
	if req.Time != nil {
		event.Time = *req.Time
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.Capacity != nil {
		event.Capacity = *req.Capacity
	}
	if req.Price != nil {
		event.Price = *req.Price
	}
	if req.TeamType != nil {
		event.TeamType = models.TeamType(*req.TeamType)
	}
	if req.MinTeamSize != nil {
		event.MinTeamSize = *req.MinTeamSize
	}
	if req.MaxTeamSize != nil {
		event.MaxTeamSize = *req.MaxTeamSize
	}

	if err := validateEvent(event); err != nil {
		return nil, err
	}
	if event.Capacity < event.RegisteredCount {
		return nil, apperrors.ErrCapacityBelowCount
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("eventID", event.ID).Msg("Event updated")
	return event, nil
}

// ToggleActive opens or closes an event for registration
func (s *EventService) ToggleActive(ctx context.Context, id int64) (*models.Event, error) {
	event, err := s.eventRepo.ToggleActive(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("eventID", id).Bool("isActive", event.IsActive).Msg("Event toggled")
	return event, nil
}

// DeleteEvent removes an event together with its registrations and checkins
func (s *EventService) DeleteEvent(ctx context.Context, id int64) (*dto.DeleteEventResponse, error) {
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	registrations, checkins, err := s.eventRepo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	if event.PosterURL != nil && s.storage != nil {
		if err := s.storage.DeleteFile(*event.PosterURL); err != nil {
			s.logger.Warn().Err(err).Int64("eventID", id).Msg("Could not remove event poster")
		}
	}

	s.logger.Info().
		Int64("eventID", id).
		Int("registrations", registrations).
		Int("checkins", checkins).
		Msg("Event deleted")

	return &dto.DeleteEventResponse{
		EventID:              id,
		DeletedRegistrations: registrations,
		DeletedCheckins:      checkins,
	}, nil
}

// UploadPoster stores the image and points the event at it. The previous poster is removed.
func (s *EventService) UploadPoster(ctx context.Context, id int64, fileHeader *multipart.FileHeader) (*models.Event, error) {
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	url, err := s.storage.SaveImage(fileHeader, posterDir)
	if err != nil {
		return nil, err
	}

	if err := s.eventRepo.SetPosterURL(ctx, id, url); err != nil {
		if delErr := s.storage.DeleteFile(url); delErr != nil {
			s.logger.Warn().Err(delErr).Str("url", url).Msg("Could not remove orphaned poster")
		}
		return nil, err
	}

	if event.PosterURL != nil && *event.PosterURL != url {
		if err := s.storage.DeleteFile(*event.PosterURL); err != nil {
			s.logger.Warn().Err(err).Int64("eventID", id).Msg("Could not remove previous poster")
		}
	}

	event.PosterURL = &url
	s.logger.Info().Int64("eventID", id).Str("url", url).Msg("Event poster uploaded")
	return event, nil
}

// EventStats returns the registration, attendance and payment counts of an event
func (s *EventService) EventStats(ctx context.Context, id int64) (*models.EventStats, error) {
	if _, err := s.GetEvent(ctx, id); err != nil {
		return nil, err
	}
	return s.eventRepo.Stats(ctx, id)
}
