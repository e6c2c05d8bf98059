package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	masterdata "station-console/internal/masterdata/domain"
)

const (
	defaultStationsTable       = "Stations"
	defaultChargingPointsTable = "Charging_Points"
)

// StationRepository is a Postgres implementation for stations.
type StationRepository struct {
	db    DBTX
	table string
}

// NewStationRepository constructs a repository.
func NewStationRepository(db DBTX, opts ...StationOption) *StationRepository {
	repo := &StationRepository{db: db, table: defaultStationsTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// StationOption configures the repository.
type StationOption func(*StationRepository)

// WithStationTable overrides the default table name.
func WithStationTable(table string) StationOption {
	return func(repo *StationRepository) {
		if table != "" {
			repo.table = table
		}
	}
}

// Get loads a station by id.
func (r *StationRepository) Get(ctx context.Context, id int64) (*masterdata.Station, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("station repo: nil db")
	}
	if id <= 0 {
		return nil, errors.New("station repo: invalid id")
	}

	query := fmt.Sprintf(`
SELECT station_id, address_street, address_city
FROM %s
WHERE station_id = $1
LIMIT 1`, r.table)

	var station masterdata.Station
	if err := r.db.QueryRowContext(ctx, query, id).Scan(
		&station.ID,
		&station.AddressStreet,
		&station.AddressCity,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &station, nil
}

// List returns every station ordered by id.
func (r *StationRepository) List(ctx context.Context) ([]masterdata.Station, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("station repo: nil db")
	}

	query := fmt.Sprintf(`
SELECT station_id, address_street, address_city
FROM %s
ORDER BY station_id`, r.table)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []masterdata.Station
	for rows.Next() {
		var station masterdata.Station
		if err := rows.Scan(&station.ID, &station.AddressStreet, &station.AddressCity); err != nil {
			return nil, err
		}
		result = append(result, station)
	}
	return result, rows.Err()
}

// Create inserts a station and assigns its id.
func (r *StationRepository) Create(ctx context.Context, station *masterdata.Station) error {
	if r == nil || r.db == nil {
		return errors.New("station repo: nil db")
	}
	if station == nil {
		return errors.New("station repo: nil station")
	}
	if err := station.Validate(); err != nil {
		return err
	}

	query := fmt.Sprintf(`
INSERT INTO %s (address_street, address_city)
VALUES ($1, $2)
RETURNING station_id`, r.table)

	return r.db.QueryRowContext(ctx, query, station.AddressStreet, station.AddressCity).Scan(&station.ID)
}

// ChargingPointRepository is a Postgres implementation for charging points.
type ChargingPointRepository struct {
	db    DBTX
	table string
}

// NewChargingPointRepository constructs a repository.
func NewChargingPointRepository(db DBTX) *ChargingPointRepository {
	return &ChargingPointRepository{db: db, table: defaultChargingPointsTable}
}

// Create inserts a charging point and assigns its id.
func (r *ChargingPointRepository) Create(ctx context.Context, point *masterdata.ChargingPoint) error {
	if r == nil || r.db == nil {
		return errors.New("charging point repo: nil db")
	}
	if point == nil {
		return errors.New("charging point repo: nil point")
	}
	if point.StationID <= 0 {
		return errors.New("charging point repo: empty station id")
	}

	query := fmt.Sprintf(`
INSERT INTO %s (station_id)
VALUES ($1)
RETURNING charging_point_id`, r.table)

	return r.db.QueryRowContext(ctx, query, point.StationID).Scan(&point.ID)
}
