package application

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	maintenance "station-console/internal/maintenance/domain"
	maintenancerepo "station-console/internal/maintenance/infrastructure/postgres"
	masterdata "station-console/internal/masterdata/domain"
	masterdatarepo "station-console/internal/masterdata/infrastructure/postgres"
	"station-console/internal/observability/metrics"
)

// Action names used for metrics and audit records.
const (
	ActionAdd    = "add_malfunction"
	ActionUpdate = "update_malfunction"
	ActionDelete = "delete_malfunction"
)

const defaultOperatorID int64 = 1

// ReportInput carries the create form after sanitizing.
type ReportInput struct {
	Description string
	// StationID is accepted from the form but not stored on the malfunction.
	StationID int64
}

// UpdateInput carries the edit form after sanitizing.
type UpdateInput struct {
	ID          int64
	Description string
	State       maintenance.State
}

// Service runs the maintenance page use cases.
type Service struct {
	db           *sql.DB
	malfunctions maintenance.MalfunctionRepository
	stations     masterdata.StationRepository
	operatorID   int64
}

// Option configures the service.
type Option func(*Service)

// WithOperatorID sets the operator recorded on new reports.
func WithOperatorID(id int64) Option {
	return func(s *Service) {
		if id > 0 {
			s.operatorID = id
		}
	}
}

// NewService constructs a maintenance service.
func NewService(db *sql.DB, opts ...Option) (*Service, error) {
	if db == nil {
		return nil, errors.New("maintenance service: nil db")
	}
	s := &Service{
		db:           db,
		malfunctions: maintenancerepo.NewMalfunctionRepository(db),
		stations:     masterdatarepo.NewStationRepository(db),
		operatorID:   defaultOperatorID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// OperatorID returns the operator recorded on new reports.
func (s *Service) OperatorID() int64 {
	return s.operatorID
}

// ReportMalfunction inserts a report and its malfunction in one transaction.
func (s *Service) ReportMalfunction(ctx context.Context, input ReportInput) (*maintenance.Malfunction, error) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveAction(ActionAdd, result, time.Since(start))
	}()

	malfunction := &maintenance.Malfunction{
		Description: input.Description,
		State:       maintenance.StateReported,
	}
	if err := malfunction.Validate(); err != nil {
		result = metrics.ResultError
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}

	reportRepo := maintenancerepo.NewReportRepository(tx)
	malfunctionRepo := maintenancerepo.NewMalfunctionRepository(tx)

	report := &maintenance.Report{OperatorID: s.operatorID}
	if err := reportRepo.Create(ctx, report); err != nil {
		_ = tx.Rollback()
		result = metrics.ResultError
		return nil, err
	}

	malfunction.ReportID = report.ID
	if err := malfunctionRepo.Create(ctx, malfunction); err != nil {
		_ = tx.Rollback()
		result = metrics.ResultError
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		result = metrics.ResultError
		return nil, err
	}
	return malfunction, nil
}

// UpdateMalfunction rewrites description and state as submitted, including an
// empty description. A missing id affects zero rows and is still a success.
func (s *Service) UpdateMalfunction(ctx context.Context, input UpdateInput) (int64, error) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveAction(ActionUpdate, result, time.Since(start))
	}()

	if input.ID <= 0 {
		result = metrics.ResultError
		return 0, maintenance.ErrInvalidID
	}
	affected, err := s.malfunctions.Update(ctx, input.ID, input.Description, input.State)
	if err != nil {
		result = metrics.ResultError
		return 0, err
	}
	return affected, nil
}

// DeleteMalfunction removes the malfunction row only. Its report stays.
func (s *Service) DeleteMalfunction(ctx context.Context, id int64) (int64, error) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveAction(ActionDelete, result, time.Since(start))
	}()

	if id <= 0 {
		result = metrics.ResultError
		return 0, maintenance.ErrInvalidID
	}
	affected, err := s.malfunctions.Delete(ctx, id)
	if err != nil {
		result = metrics.ResultError
		return 0, err
	}
	return affected, nil
}

// ListMalfunctions returns the list view, newest first.
func (s *Service) ListMalfunctions(ctx context.Context) ([]maintenance.MalfunctionView, error) {
	return s.malfunctions.ListWithStations(ctx)
}

// ListStations returns all stations ordered by id.
func (s *Service) ListStations(ctx context.Context) ([]masterdata.Station, error) {
	return s.stations.List(ctx)
}

// SanitizeInput trims surrounding whitespace. Output escaping is left to the
// templates.
func SanitizeInput(value string) string {
	return strings.TrimSpace(value)
}

// ParseID parses a positive integer id from a form value.
func ParseID(raw string) (int64, error) {
	raw = SanitizeInput(raw)
	if raw == "" {
		return 0, maintenance.ErrInvalidID
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, maintenance.ErrInvalidID
	}
	return id, nil
}

// ParseStationID reads the station_id field. The value is never stored, so
// anything that is not a positive integer reads as 0.
func ParseStationID(raw string) int64 {
	id, err := strconv.ParseInt(SanitizeInput(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}
