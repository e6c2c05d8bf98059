package postgres

import (
	"context"
	"database/sql"
	"errors"

	maintenance "station-console/internal/maintenance/domain"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ReportRepository is a Postgres repository for reports.
type ReportRepository struct {
	db DBTX
}

// NewReportRepository constructs a repository.
func NewReportRepository(db DBTX) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create inserts a report and assigns its id.
func (r *ReportRepository) Create(ctx context.Context, report *maintenance.Report) error {
	if r == nil || r.db == nil {
		return errors.New("report repo: nil db")
	}
	if report == nil {
		return errors.New("report repo: nil report")
	}
	return r.db.QueryRowContext(ctx, `
INSERT INTO Reports (operator_id)
VALUES ($1)
RETURNING report_id`, report.OperatorID).Scan(&report.ID)
}

// MalfunctionRepository is a Postgres repository for malfunctions.
type MalfunctionRepository struct {
	db DBTX
}

// NewMalfunctionRepository constructs a repository.
func NewMalfunctionRepository(db DBTX) *MalfunctionRepository {
	return &MalfunctionRepository{db: db}
}

// Create inserts a malfunction and assigns its id.
func (r *MalfunctionRepository) Create(ctx context.Context, malfunction *maintenance.Malfunction) error {
	if r == nil || r.db == nil {
		return errors.New("malfunction repo: nil db")
	}
	if malfunction == nil {
		return errors.New("malfunction repo: nil malfunction")
	}
	if err := malfunction.Validate(); err != nil {
		return err
	}
	if malfunction.ReportID <= 0 {
		return errors.New("malfunction repo: empty report id")
	}
	return r.db.QueryRowContext(ctx, `
INSERT INTO Malfunctions (description, state, report_id)
VALUES ($1, $2, $3)
RETURNING malfunction_id`, malfunction.Description, string(malfunction.State), malfunction.ReportID).Scan(&malfunction.ID)
}

// Update rewrites description and state by id and returns the affected row count.
// A missing id is not an error.
func (r *MalfunctionRepository) Update(ctx context.Context, id int64, description string, state maintenance.State) (int64, error) {
	if r == nil || r.db == nil {
		return 0, errors.New("malfunction repo: nil db")
	}
	result, err := r.db.ExecContext(ctx, `
UPDATE Malfunctions
SET description = $1, state = $2
WHERE malfunction_id = $3`, description, string(state), id)
	if err != nil {
		return 0, err
	}
	return rowsAffected(result), nil
}

// Delete removes a malfunction by id and returns the affected row count.
// The referenced report is left in place.
func (r *MalfunctionRepository) Delete(ctx context.Context, id int64) (int64, error) {
	if r == nil || r.db == nil {
		return 0, errors.New("malfunction repo: nil db")
	}
	result, err := r.db.ExecContext(ctx, `
DELETE FROM Malfunctions
WHERE malfunction_id = $1`, id)
	if err != nil {
		return 0, err
	}
	return rowsAffected(result), nil
}

// listWithStationsQuery joins each malfunction to the station owning the
// lowest-id charging point. The station is a display artifact and does not
// depend on the report.
const listWithStationsQuery = `
SELECT m.malfunction_id, m.description, m.state, r.report_id, s.address_street, s.address_city
FROM Malfunctions m
JOIN Reports r ON m.report_id = r.report_id
LEFT JOIN Stations s ON s.station_id = (
	SELECT cp.station_id
	FROM Charging_Points cp
	WHERE cp.charging_point_id = (
		SELECT MIN(charging_point_id)
		FROM Charging_Points
	)
	LIMIT 1
)
ORDER BY m.malfunction_id DESC`

// ListWithStations returns every malfunction, newest first.
func (r *MalfunctionRepository) ListWithStations(ctx context.Context) ([]maintenance.MalfunctionView, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("malfunction repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, listWithStationsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []maintenance.MalfunctionView
	for rows.Next() {
		var (
			view   maintenance.MalfunctionView
			state  string
			street sql.NullString
			city   sql.NullString
		)
		if err := rows.Scan(&view.ID, &view.Description, &state, &view.ReportID, &street, &city); err != nil {
			return nil, err
		}
		view.State = maintenance.State(state)
		view.AddressStreet = street.String
		view.AddressCity = city.String
		result = append(result, view)
	}
	return result, rows.Err()
}

func rowsAffected(result sql.Result) int64 {
	if result == nil {
		return 0
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0
	}
	return n
}
