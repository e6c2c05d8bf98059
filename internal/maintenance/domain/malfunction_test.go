package maintenance

import (
	"encoding/json"
	"testing"
)

func TestStateLabelAndBadge(t *testing.T) {
	cases := []struct {
		state State
		label string
		badge string
	}{
		{StateReported, "Reported", "danger"},
		{StateInProgress, "In progress", "warning"},
		{StateResolved, "Resolved", "success"},
		{State("unknown"), "Unknown", "danger"},
	}
	for _, tc := range cases {
		if got := tc.state.Label(); got != tc.label {
			t.Fatalf("label for %q: expected %q, got %q", tc.state, tc.label, got)
		}
		if got := tc.state.Badge(); got != tc.badge {
			t.Fatalf("badge for %q: expected %q, got %q", tc.state, tc.badge, got)
		}
	}
	if State("").Label() != "" {
		t.Fatalf("expected empty label for empty state")
	}
}

func TestStateValid(t *testing.T) {
	for _, state := range States {
		if !state.Valid() {
			t.Fatalf("expected %q to be valid", state)
		}
	}
	if State("closed").Valid() {
		t.Fatalf("expected closed to be invalid")
	}
}

func TestMalfunctionValidate(t *testing.T) {
	if err := (Malfunction{Description: "  "}).Validate(); err != ErrEmptyDescription {
		t.Fatalf("expected ErrEmptyDescription, got %v", err)
	}
	if err := (Malfunction{Description: "Broken connector"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMalfunctionViewStationLabel(t *testing.T) {
	view := MalfunctionView{AddressStreet: "Main St 1", AddressCity: "Springfield"}
	if view.StationLabel() != "Main St 1, Springfield" {
		t.Fatalf("unexpected label %q", view.StationLabel())
	}
	view.AddressCity = ""
	if view.StationLabel() != NotAssigned {
		t.Fatalf("expected %q, got %q", NotAssigned, view.StationLabel())
	}
}

func TestMalfunctionViewJSONOmitsMissingAddress(t *testing.T) {
	data, err := json.Marshal(MalfunctionView{ID: 7, Description: "x", State: StateResolved, ReportID: 3})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := decoded["address_street"]; ok {
		t.Fatalf("expected address_street to be omitted: %s", data)
	}
	if decoded["malfunction_id"].(float64) != 7 || decoded["state"] != "resolved" {
		t.Fatalf("unexpected payload: %s", data)
	}
}
