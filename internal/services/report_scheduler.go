package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"pump-backend/internal/config"
	"pump-backend/internal/timeutil"
)

// ReportScheduler fires the daily report sweep every evening and the
// monthly sweep on the 1st, both on IST wall-clock time. It ticks once a
// minute and compares against the configured hh:mm, so a restart never
// double-fires within the same minute.
type ReportScheduler struct {
	reports *ReportService

	dailyHour     int
	dailyMinute   int
	monthlyHour   int
	monthlyMinute int

	lastDailyRun   string
	lastMonthlyRun string
}

func NewReportScheduler(reports *ReportService, cfg *config.Config) (*ReportScheduler, error) {
	dh, dm, err := parseClock(cfg.Scheduler.DailyAt)
	if err != nil {
		return nil, fmt.Errorf("scheduler daily_at: %w", err)
	}
	mh, mm, err := parseClock(cfg.Scheduler.MonthlyAt)
	if err != nil {
		return nil, fmt.Errorf("scheduler monthly_at: %w", err)
	}

	return &ReportScheduler{
		reports:       reports,
		dailyHour:     dh,
		dailyMinute:   dm,
		monthlyHour:   mh,
		monthlyMinute: mm,
	}, nil
}

// Start blocks until ctx is cancelled. Run it in its own goroutine.
func (s *ReportScheduler) Start(ctx context.Context) {
	log.Printf("[Scheduler] Started (daily %02d:%02d IST, monthly 1st %02d:%02d IST)",
		s.dailyHour, s.dailyMinute, s.monthlyHour, s.monthlyMinute)

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("[Scheduler] Stopped")
			return
		case now := <-ticker.C:
			s.tick(ctx, timeutil.ToIST(now))
		}
	}
}

func (s *ReportScheduler) tick(ctx context.Context, now time.Time) {
	if now.Hour() == s.dailyHour && now.Minute() == s.dailyMinute {
		day := now.Format(timeutil.DateLayout)
		if s.lastDailyRun != day {
			s.lastDailyRun = day
			s.reports.RunDailySweep(ctx, now)
		}
	}

	if now.Day() == 1 && now.Hour() == s.monthlyHour && now.Minute() == s.monthlyMinute {
		month := now.Format("2006-01")
		if s.lastMonthlyRun != month {
			s.lastMonthlyRun = month
			// Report the month that just ended
			prev := now.AddDate(0, -1, 0)
			s.reports.RunMonthlySweep(ctx, prev.Year(), prev.Month())
		}
	}
}

func parseClock(value string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, 0, err
	}
	return t.Hour(), t.Minute(), nil
}
