package metrics

import (
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveActionBeforeInitIsNoop(t *testing.T) {
	if actionTotal != nil {
		t.Skip("metrics already initialised")
	}
	ObserveAction("add_malfunction", ResultSuccess, time.Millisecond)
	IncCSRFRejection()
	IncExport("csv", ResultSuccess)
}

func TestObserveActionCounts(t *testing.T) {
	Init(nil, nil)

	before := testutil.ToFloat64(actionTotal.WithLabelValues("delete_malfunction", ResultError))
	ObserveAction("delete_malfunction", ResultError, 5*time.Millisecond)
	after := testutil.ToFloat64(actionTotal.WithLabelValues("delete_malfunction", ResultError))
	if after-before != 1 {
		t.Fatalf("expected counter to increase by 1, got %v", after-before)
	}

	rejections := testutil.ToFloat64(csrfRejections)
	IncCSRFRejection()
	if testutil.ToFloat64(csrfRejections)-rejections != 1 {
		t.Fatalf("expected csrf rejection counter to increase")
	}
}

func TestResultOf(t *testing.T) {
	if ResultOf(nil) != ResultSuccess {
		t.Fatalf("expected success for nil error")
	}
	if ResultOf(errors.New("x")) != ResultError {
		t.Fatalf("expected error result")
	}
}

func TestQueryCount(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM Malfunctions WHERE state = \\$1").
		WithArgs("resolved").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
	if got := queryCount(db, nil, "SELECT COUNT(*) FROM Malfunctions WHERE state = $1", "resolved"); got != 4 {
		t.Fatalf("expected 4, got %v", got)
	}

	mock.ExpectQuery("SELECT COUNT").WillReturnError(errors.New("down"))
	if got := queryCount(db, nil, "SELECT COUNT(*) FROM Reports"); got != 0 {
		t.Fatalf("expected 0 on error, got %v", got)
	}
}
