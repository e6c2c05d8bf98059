package maintenance

import (
	"context"
	"strings"
)

// State is the lifecycle state of a malfunction.
type State string

const (
	StateReported   State = "reported"
	StateInProgress State = "in_progress"
	StateResolved   State = "resolved"
)

// States lists the selectable states in display order.
var States = []State{StateReported, StateInProgress, StateResolved}

// Valid reports whether s is one of the known states.
func (s State) Valid() bool {
	switch s {
	case StateReported, StateInProgress, StateResolved:
		return true
	default:
		return false
	}
}

// Label renders the state for humans, e.g. "In progress".
func (s State) Label() string {
	text := strings.ReplaceAll(string(s), "_", " ")
	if text == "" {
		return ""
	}
	return strings.ToUpper(text[:1]) + text[1:]
}

// Badge returns the badge tone used by the list view.
func (s State) Badge() string {
	switch s {
	case StateResolved:
		return "success"
	case StateInProgress:
		return "warning"
	default:
		return "danger"
	}
}

// Report wraps the origination of a malfunction.
type Report struct {
	ID         int64
	OperatorID int64
}

// Malfunction is a reported fault at a charging station.
type Malfunction struct {
	ID          int64
	Description string
	State       State
	ReportID    int64
}

// Validate checks malfunction invariants enforced before writes.
func (m Malfunction) Validate() error {
	if strings.TrimSpace(m.Description) == "" {
		return ErrEmptyDescription
	}
	return nil
}

// MalfunctionView is one row of the list view: a malfunction joined to its
// report and the best-effort station address.
type MalfunctionView struct {
	ID            int64  `json:"malfunction_id"`
	Description   string `json:"description"`
	State         State  `json:"state"`
	ReportID      int64  `json:"report_id"`
	AddressStreet string `json:"address_street,omitempty"`
	AddressCity   string `json:"address_city,omitempty"`
}

// NotAssigned is shown when no station address resolves for a row.
const NotAssigned = "Not assigned"

// HasStation reports whether both address parts resolved.
func (v MalfunctionView) HasStation() bool {
	return v.AddressStreet != "" && v.AddressCity != ""
}

// StationLabel returns "street, city" or NotAssigned.
func (v MalfunctionView) StationLabel() string {
	if !v.HasStation() {
		return NotAssigned
	}
	return v.AddressStreet + ", " + v.AddressCity
}

// ReportRepository persists reports.
type ReportRepository interface {
	Create(ctx context.Context, report *Report) error
}

// MalfunctionRepository persists malfunctions and serves the list view.
type MalfunctionRepository interface {
	Create(ctx context.Context, malfunction *Malfunction) error
	Update(ctx context.Context, id int64, description string, state State) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	ListWithStations(ctx context.Context) ([]MalfunctionView, error)
}
