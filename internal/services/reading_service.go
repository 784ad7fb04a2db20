package services

import (
	"context"
	"errors"
	"log"
	"time"

	"pump-backend/internal/errs"
	"pump-backend/internal/metrics"
	"pump-backend/internal/models"
	"pump-backend/internal/timeutil"
)

// ReadingService owns the reading ledger: one entry per
// (nozzle, day, station).
type ReadingService struct {
	readings   ReadingStore
	nozzles    NozzleStore
	prices     PriceSource
	guard      *StationGuard
	reconciler *Reconciler
}

func NewReadingService(readings ReadingStore, nozzles NozzleStore, prices PriceSource, guard *StationGuard, reconciler *Reconciler) *ReadingService {
	return &ReadingService{
		readings:   readings,
		nozzles:    nozzles,
		prices:     prices,
		guard:      guard,
		reconciler: reconciler,
	}
}

// SubmitReading records or updates one nozzle-day entry, then reconciles
// the same-day stock entry. Reconciliation failure is logged, not
// propagated: the reading is recorded either way and reconciliation is
// re-runnable.
func (s *ReadingService) SubmitReading(ctx context.Context, req *models.SubmitReadingRequest, actorID int) (*models.DailyReading, error) {
	if err := s.guard.Authorize(ctx, req.StationID, actorID); err != nil {
		return nil, err
	}
	if req.OpeningReading < 0 || req.ClosingReading < 0 {
		return nil, errs.Validation("reading", "meter values must not be negative")
	}
	if req.CashAmount < 0 || req.UpiAmount < 0 || req.CardAmount < 0 {
		return nil, errs.Validation("payment", "amounts must not be negative")
	}

	day, err := timeutil.ParseInIST(timeutil.DateLayout, req.ReadingDate)
	if err != nil {
		return nil, errs.Validation("reading_date", "expected YYYY-MM-DD")
	}
	day = timeutil.StartOfDay(day)

	nozzle, err := s.nozzles.GetByID(ctx, req.NozzleID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.NotFound("nozzle", "active nozzle for this station")
		}
		return nil, err
	}
	if nozzle.StationID != req.StationID || !nozzle.IsActive {
		return nil, errs.NotFound("nozzle", "active nozzle for this station")
	}

	price, err := s.prices.GetCurrentPrice(ctx, req.StationID, nozzle.FuelType)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.Conflict("fuel price", nozzle.FuelType+" price not configured")
		}
		return nil, err
	}

	reading, err := s.readings.GetByKey(ctx, req.NozzleID, day, req.StationID)
	switch {
	case err == nil:
		if reading.Locked {
			return nil, errs.Locked("reading", int64(reading.ID))
		}
		reading.OpeningReading = req.OpeningReading
		reading.ClosingReading = req.ClosingReading
		reading.PricePerLiter = price
		reading.CashAmount = req.CashAmount
		reading.UpiAmount = req.UpiAmount
		reading.CardAmount = req.CardAmount
		reading.EnteredBy = actorID
		reading.Recompute()
		if err := s.readings.Update(ctx, reading); err != nil {
			return nil, err
		}

	case errors.Is(err, errs.ErrNotFound):
		reading = &models.DailyReading{
			StationID:      req.StationID,
			NozzleID:       req.NozzleID,
			NozzleNumber:   nozzle.NozzleNumber,
			FuelType:       nozzle.FuelType,
			ReadingDate:    day,
			OpeningReading: req.OpeningReading,
			ClosingReading: req.ClosingReading,
			PricePerLiter:  price,
			CashAmount:     req.CashAmount,
			UpiAmount:      req.UpiAmount,
			CardAmount:     req.CardAmount,
			EnteredBy:      actorID,
		}
		reading.Recompute()
		if err := s.readings.Create(ctx, reading); err != nil {
			// A concurrent create for the same key surfaces as Conflict;
			// resubmitting takes the update branch.
			return nil, err
		}

	default:
		return nil, err
	}

	metrics.ReadingsSubmitted.Inc()

	if err := s.reconciler.Reconcile(ctx, req.StationID, day, nozzle.FuelType); err != nil {
		log.Printf("[Reconcile] station=%d fuel=%s date=%s failed: %v",
			req.StationID, nozzle.FuelType, day.Format(timeutil.DateLayout), err)
	}

	return reading, nil
}

func (s *ReadingService) GetDayReadings(ctx context.Context, stationID int, day time.Time, actorID int) ([]*models.DailyReading, error) {
	if err := s.guard.Authorize(ctx, stationID, actorID); err != nil {
		return nil, err
	}
	return s.readings.ListByStationDate(ctx, stationID, timeutil.StartOfDay(day))
}

// GetDaySummary folds the day's readings into totals.
func (s *ReadingService) GetDaySummary(ctx context.Context, stationID int, day time.Time, actorID int) (*models.DaySummary, error) {
	if err := s.guard.Authorize(ctx, stationID, actorID); err != nil {
		return nil, err
	}
	day = timeutil.StartOfDay(day)
	readings, err := s.readings.ListByStationDate(ctx, stationID, day)
	if err != nil {
		return nil, err
	}

	summary := SummarizeReadings(readings)
	summary.StationID = stationID
	summary.Date = day
	return summary, nil
}

// SummarizeReadings is a pure fold over a snapshot of readings. Pure
// summation, so the result is identical for any processing order.
func SummarizeReadings(readings []*models.DailyReading) *models.DaySummary {
	summary := &models.DaySummary{
		FuelWise: make(map[string]models.FuelTotal),
		Entries:  len(readings),
	}

	for _, r := range readings {
		summary.TotalSales += r.TotalAmount
		summary.CashAmount += r.CashAmount
		summary.UpiAmount += r.UpiAmount
		summary.CardAmount += r.CardAmount

		ft := summary.FuelWise[r.FuelType]
		ft.Liters += r.LitersSold
		ft.Amount += r.TotalAmount
		summary.FuelWise[r.FuelType] = ft
	}

	return summary
}

// GetRangeReport lists readings over a date range with running totals.
func (s *ReadingService) GetRangeReport(ctx context.Context, stationID int, start, end time.Time, actorID int) (*models.RangeReport, error) {
	if err := s.guard.Authorize(ctx, stationID, actorID); err != nil {
		return nil, err
	}
	start = timeutil.StartOfDay(start)
	end = timeutil.StartOfDay(end)
	if end.Before(start) {
		return nil, errs.Validation("range", "end date before start date")
	}

	readings, err := s.readings.ListByStationRange(ctx, stationID, start, end)
	if err != nil {
		return nil, err
	}

	report := &models.RangeReport{
		StationID: stationID,
		StartDate: start,
		EndDate:   end,
	}
	for _, r := range readings {
		report.Readings = append(report.Readings, *r)
		report.TotalLiters += r.LitersSold
		report.TotalAmount += r.TotalAmount
	}

	return report, nil
}

// Lock finalizes a reading entry. Idempotent and irreversible.
func (s *ReadingService) Lock(ctx context.Context, readingID, actorID int) (*models.DailyReading, error) {
	reading, err := s.readings.GetByID(ctx, readingID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(ctx, reading.StationID, actorID); err != nil {
		return nil, err
	}

	if err := s.readings.Lock(ctx, readingID); err != nil {
		return nil, err
	}

	return s.readings.GetByID(ctx, readingID)
}
