package services

import (
	"context"
	"strconv"

	"pump-backend/internal/errs"
)

// StationGuard verifies station association before any station-scoped
// operation. A station belongs to exactly one user account; employees are
// roster records without credentials, so association means ownership.
type StationGuard struct {
	stations StationStore
}

func NewStationGuard(stations StationStore) *StationGuard {
	return &StationGuard{stations: stations}
}

// Authorize fails with NotFound when the station does not exist and
// Forbidden when the actor does not own it.
func (g *StationGuard) Authorize(ctx context.Context, stationID, actorID int) error {
	station, err := g.stations.GetByID(ctx, stationID)
	if err != nil {
		return err
	}
	if station.OwnerID != actorID {
		return errs.Forbidden("station", strconv.Itoa(stationID))
	}
	return nil
}
