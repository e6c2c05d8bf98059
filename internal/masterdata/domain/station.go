package masterdata

import (
	"context"
	"errors"
)

// Station represents a charging site.
type Station struct {
	ID            int64
	AddressStreet string
	AddressCity   string
}

// Label renders the station for select boxes.
func (s Station) Label() string {
	if s.AddressCity == "" {
		return s.AddressStreet
	}
	return s.AddressStreet + ", " + s.AddressCity
}

// Validate checks station invariants.
func (s Station) Validate() error {
	if s.AddressStreet == "" {
		return errors.New("station: empty street")
	}
	if s.AddressCity == "" {
		return errors.New("station: empty city")
	}
	return nil
}

// ChargingPoint is a connector owned by a station.
type ChargingPoint struct {
	ID        int64
	StationID int64
}

// StationRepository reads stations.
type StationRepository interface {
	Get(ctx context.Context, id int64) (*Station, error)
	List(ctx context.Context) ([]Station, error)
}
