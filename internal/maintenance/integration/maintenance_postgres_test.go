package integration_test

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"station-console/internal/audit"
	maintenanceapp "station-console/internal/maintenance/application"
	maintenance "station-console/internal/maintenance/domain"
	masterdata "station-console/internal/masterdata/domain"
	masterdatarepo "station-console/internal/masterdata/infrastructure/postgres"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func TestMaintenance_ReportUpdateDeleteAgainstPostgres(t *testing.T) {
	dsn := os.Getenv("PG_DSN")
	if dsn == "" {
		t.Skip("PG_DSN not set")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := applyMigrations(db); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	ctx := context.Background()
	resetTables(ctx, t, db)

	stationRepo := masterdatarepo.NewStationRepository(db)
	pointRepo := masterdatarepo.NewChargingPointRepository(db)
	first := &masterdata.Station{AddressStreet: "Main St 1", AddressCity: "Springfield"}
	second := &masterdata.Station{AddressStreet: "Elm St 9", AddressCity: "Shelbyville"}
	for _, st := range []*masterdata.Station{first, second} {
		if err := stationRepo.Create(ctx, st); err != nil {
			t.Fatalf("create station: %v", err)
		}
	}
	// The lowest charging point belongs to the second station.
	for _, stationID := range []int64{second.ID, first.ID} {
		if err := pointRepo.Create(ctx, &masterdata.ChargingPoint{StationID: stationID}); err != nil {
			t.Fatalf("create charging point: %v", err)
		}
	}

	svc, err := maintenanceapp.NewService(db, maintenanceapp.WithOperatorID(1))
	if err != nil {
		t.Fatalf("service: %v", err)
	}

	created := make([]*maintenance.Malfunction, 0, 3)
	for _, desc := range []string{"Broken connector", "Screen dark", "Cable frayed"} {
		m, err := svc.ReportMalfunction(ctx, maintenanceapp.ReportInput{Description: desc, StationID: first.ID})
		if err != nil {
			t.Fatalf("report malfunction: %v", err)
		}
		if m.State != maintenance.StateReported {
			t.Fatalf("expected reported state, got %s", m.State)
		}
		created = append(created, m)
	}
	if got := count(ctx, t, db, "SELECT COUNT(*) FROM Reports"); got != 3 {
		t.Fatalf("expected 3 reports, got %d", got)
	}

	if _, err := svc.UpdateMalfunction(ctx, maintenanceapp.UpdateInput{
		ID:          created[0].ID,
		Description: "Broken connector replaced",
		State:       maintenance.StateResolved,
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	affected, err := svc.UpdateMalfunction(ctx, maintenanceapp.UpdateInput{ID: created[2].ID + 1000, Description: "x", State: maintenance.StateResolved})
	if err != nil || affected != 0 {
		t.Fatalf("update missing id: affected=%d err=%v", affected, err)
	}

	if _, err := svc.DeleteMalfunction(ctx, created[1].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := count(ctx, t, db, "SELECT COUNT(*) FROM Reports"); got != 3 {
		t.Fatalf("delete must not touch reports, got %d", got)
	}

	views, err := svc.ListMalfunctions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 malfunctions, got %d", len(views))
	}
	if views[0].ID <= views[1].ID {
		t.Fatalf("list not ordered newest first: %d, %d", views[0].ID, views[1].ID)
	}
	for _, v := range views {
		if v.StationLabel() != "Elm St 9, Shelbyville" {
			t.Fatalf("expected lowest charging point station, got %q", v.StationLabel())
		}
	}
	if views[1].State != maintenance.StateResolved || views[1].State.Badge() != "success" {
		t.Fatalf("expected resolved malfunction, got %+v", views[1])
	}

	auditRepo := audit.NewRepository(db)
	entry := audit.MalfunctionEntry(audit.ActionMalfunctionReport, created[0].ID, map[string]any{"station_id": first.ID})
	entry.Actor = "admin"
	entry.Role = "admin"
	if err := auditRepo.Log(ctx, entry); err != nil {
		t.Fatalf("audit log: %v", err)
	}
}

func TestMaintenance_ListWithoutChargingPoints(t *testing.T) {
	dsn := os.Getenv("PG_DSN")
	if dsn == "" {
		t.Skip("PG_DSN not set")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := applyMigrations(db); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	ctx := context.Background()
	resetTables(ctx, t, db)

	svc, err := maintenanceapp.NewService(db)
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	if _, err := svc.ReportMalfunction(ctx, maintenanceapp.ReportInput{Description: "No station yet"}); err != nil {
		t.Fatalf("report: %v", err)
	}
	views, err := svc.ListMalfunctions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 1 || views[0].StationLabel() != maintenance.NotAssigned {
		t.Fatalf("expected a single unassigned row, got %+v", views)
	}
}

func resetTables(ctx context.Context, t *testing.T, db *sql.DB) {
	t.Helper()
	for _, stmt := range []string{
		"DELETE FROM Malfunctions",
		"DELETE FROM Reports",
		"DELETE FROM Charging_Points",
		"DELETE FROM Stations",
		"DELETE FROM audit_logs",
	} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("%s: %v", stmt, err)
		}
	}
}

func count(ctx context.Context, t *testing.T, db *sql.DB, query string) int64 {
	t.Helper()
	var n int64
	if err := db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func applyMigrations(db *sql.DB) error {
	content, err := os.ReadFile(filepath.Join(projectRoot(), "migrations", "001_init.sql"))
	if err != nil {
		return err
	}
	_, err = db.Exec(string(content))
	return err
}

func projectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	return filepath.Clean(filepath.Join(dir, "..", "..", ".."))
}
