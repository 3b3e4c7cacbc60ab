package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"facilitydocs/internal/analytics"
	"facilitydocs/internal/auth"
	"facilitydocs/internal/capacity"
	"facilitydocs/internal/model"
	"facilitydocs/internal/repository"
)

// Marker is the map representation of a facility.
type Marker struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	Latitude  float64              `json:"latitude"`
	Longitude float64              `json:"longitude"`
	Status    model.FacilityStatus `json:"status"`
	Magnitude float64              `json:"magnitude"`
	Size      int                  `json:"size"`
}

// FacilityCatalog defines the facility use cases consumed by the HTTP layer.
type FacilityCatalog interface {
	List(ctx context.Context, f analytics.Filter) ([]model.Facility, error)
	Get(ctx context.Context, id string) (model.Facility, error)
	Stats(ctx context.Context, f analytics.Filter) (analytics.Stats, error)
	Markers(ctx context.Context, f analytics.Filter) ([]Marker, error)
	Create(ctx context.Context, f model.Facility) (model.Facility, error)
	Update(ctx context.Context, f model.Facility) (model.Facility, error)
	Delete(ctx context.Context, id string) error
}

// FacilityService implements FacilityCatalog and FacilityDirectory.
type FacilityService struct {
	repo repository.FacilityRepository
	now  func() time.Time
	log  *slog.Logger
}

var (
	_ FacilityCatalog   = (*FacilityService)(nil)
	_ FacilityDirectory = (*FacilityService)(nil)
)

// NewFacilityService constructs a FacilityService.
func NewFacilityService(repo repository.FacilityRepository, logger *slog.Logger) *FacilityService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FacilityService{repo: repo, now: time.Now, log: logger}
}

func (s *FacilityService) List(ctx context.Context, f analytics.Filter) ([]model.Facility, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.Apply(all, f), nil
}

func (s *FacilityService) Get(ctx context.Context, id string) (model.Facility, error) {
	if id == "" {
		return model.Facility{}, &ValidationError{Field: "id", Reason: "is required"}
	}
	f, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Facility{}, ErrNotFound
	}
	return f, err
}

func (s *FacilityService) Stats(ctx context.Context, f analytics.Filter) (analytics.Stats, error) {
	list, err := s.List(ctx, f)
	if err != nil {
		return analytics.Stats{}, err
	}
	return analytics.Summarize(list), nil
}

// Markers sizes one marker per facility from its production capacity.
func (s *FacilityService) Markers(ctx context.Context, f analytics.Filter) ([]Marker, error) {
	list, err := s.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]Marker, 0, len(list))
	for _, fac := range list {
		m := capacity.ParseMagnitude(fac.Production)
		out = append(out, Marker{
			ID:        fac.ID,
			Name:      fac.Name,
			Latitude:  fac.Latitude,
			Longitude: fac.Longitude,
			Status:    fac.Status,
			Magnitude: m,
			Size:      capacity.MarkerSize(m),
		})
	}
	return out, nil
}

// FacilityIDs lists every facility ID.
func (s *FacilityService) FacilityIDs(ctx context.Context) ([]string, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(all))
	for _, f := range all {
		ids = append(ids, f.ID)
	}
	return ids, nil
}

func (s *FacilityService) Create(ctx context.Context, f model.Facility) (model.Facility, error) {
	if _, ok := auth.ActorFromContext(ctx); !ok {
		return model.Facility{}, &AuthorizationError{Op: "create facility"}
	}
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.Status == "" {
		f.Status = model.StatusPlanned
	}
	if err := validateFacility(f); err != nil {
		return model.Facility{}, err
	}
	now := s.now().UTC()
	f.CreatedAt, f.UpdatedAt = now, now

	out, err := s.repo.Create(ctx, f)
	if err != nil {
		return model.Facility{}, &PersistenceError{Op: "create facility", Err: err}
	}
	s.log.Info("facility created", "event", "facility_created", "facility_id", out.ID)
	return out, nil
}

func (s *FacilityService) Update(ctx context.Context, f model.Facility) (model.Facility, error) {
	if _, ok := auth.ActorFromContext(ctx); !ok {
		return model.Facility{}, &AuthorizationError{Op: "update facility"}
	}
	if f.ID == "" {
		return model.Facility{}, &ValidationError{Field: "id", Reason: "is required"}
	}
	if err := validateFacility(f); err != nil {
		return model.Facility{}, err
	}
	f.UpdatedAt = s.now().UTC()

	out, err := s.repo.Update(ctx, f)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Facility{}, ErrNotFound
	}
	if err != nil {
		return model.Facility{}, &PersistenceError{Op: "update facility", Err: err}
	}
	s.log.Info("facility updated", "event", "facility_updated", "facility_id", out.ID)
	return out, nil
}

func (s *FacilityService) Delete(ctx context.Context, id string) error {
	if _, ok := auth.ActorFromContext(ctx); !ok {
		return &AuthorizationError{Op: "delete facility"}
	}
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return &PersistenceError{Op: "delete facility", Err: err}
	}
	s.log.Info("facility deleted", "event", "facility_deleted", "facility_id", id)
	return nil
}

func validateFacility(f model.Facility) error {
	switch {
	case strings.TrimSpace(f.Name) == "":
		return &ValidationError{Field: "name", Reason: "is required"}
	case strings.TrimSpace(f.Country) == "":
		return &ValidationError{Field: "country", Reason: "is required"}
	case !f.Status.Valid():
		return &ValidationError{Field: "status", Reason: "is not a known status"}
	case f.Latitude < -90 || f.Latitude > 90:
		return &ValidationError{Field: "latitude", Reason: "must be between -90 and 90"}
	case f.Longitude < -180 || f.Longitude > 180:
		return &ValidationError{Field: "longitude", Reason: "must be between -180 and 180"}
	}
	return nil
}
