package services

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf/v2"
	"pump-backend/internal/archive"
	"pump-backend/internal/errs"
	"pump-backend/internal/mailer"
	"pump-backend/internal/metrics"
	"pump-backend/internal/models"
	"pump-backend/internal/timeutil"
)

// DailyReportData holds everything rendered into a daily sales report.
type DailyReportData struct {
	Station  *models.Station
	Date     time.Time
	Summary  *models.DaySummary
	Readings []*models.DailyReading
	Stocks   []*models.Stock
}

// MonthlyReportData holds the per-day rollup for a monthly report.
type MonthlyReportData struct {
	Station    *models.Station
	Year       int
	Month      time.Month
	DaySummary []*models.DaySummary
	TotalSales float64
	TotalCash  float64
	TotalUpi   float64
	TotalCard  float64
	FuelWise   map[string]models.FuelTotal
}

// ReportService aggregates ledger data, renders PDFs and routes them to
// email. The scheduler and the manual endpoints call the same generation
// functions, so triggered and scheduled output match.
type ReportService struct {
	readings ReadingStore
	stocks   StockStore
	stations StationStore
	mail     mailer.Mailer
	archive  *archive.Archive
}

func NewReportService(readings ReadingStore, stocks StockStore, stations StationStore, mail mailer.Mailer, arc *archive.Archive) *ReportService {
	return &ReportService{
		readings: readings,
		stocks:   stocks,
		stations: stations,
		mail:     mail,
		archive:  arc,
	}
}

// DailyReportData collects one station-day. NotFound when the day has no
// readings at all, Forbidden when the actor does not own the station.
func (s *ReportService) DailyReportData(ctx context.Context, stationID int, day time.Time, actorID int) (*DailyReportData, error) {
	day = timeutil.StartOfDay(day)

	station, err := s.loadOwnedStation(ctx, stationID, actorID)
	if err != nil {
		return nil, err
	}

	readings, err := s.readings.ListByStationDate(ctx, stationID, day)
	if err != nil {
		return nil, err
	}
	if len(readings) == 0 {
		return nil, errs.NotFound("report", fmt.Sprintf("no readings for %s", day.Format(timeutil.DateLayout)))
	}

	stocks, err := s.stocks.ListByStationDate(ctx, stationID, day)
	if err != nil {
		return nil, err
	}

	summary := SummarizeReadings(readings)
	summary.StationID = stationID
	summary.Date = day

	return &DailyReportData{
		Station:  station,
		Date:     day,
		Summary:  summary,
		Readings: readings,
		Stocks:   stocks,
	}, nil
}

// MonthlyReportData rolls a month's readings up into per-day summaries.
func (s *ReportService) MonthlyReportData(ctx context.Context, stationID, year int, month time.Month, actorID int) (*MonthlyReportData, error) {
	station, err := s.loadOwnedStation(ctx, stationID, actorID)
	if err != nil {
		return nil, err
	}

	start := timeutil.StartOfMonth(year, month)
	end := timeutil.StartOfDay(timeutil.EndOfMonth(year, month))

	readings, err := s.readings.ListByStationRange(ctx, stationID, start, end)
	if err != nil {
		return nil, err
	}
	if len(readings) == 0 {
		return nil, errs.NotFound("report", fmt.Sprintf("no readings for %04d-%02d", year, month))
	}

	byDay := make(map[string][]*models.DailyReading)
	for _, r := range readings {
		key := timeutil.StartOfDay(r.ReadingDate).Format(timeutil.DateLayout)
		byDay[key] = append(byDay[key], r)
	}

	var keys []string
	for key := range byDay {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	data := &MonthlyReportData{
		Station:  station,
		Year:     year,
		Month:    month,
		FuelWise: make(map[string]models.FuelTotal),
	}
	for _, key := range keys {
		daySummary := SummarizeReadings(byDay[key])
		daySummary.StationID = stationID
		daySummary.Date, _ = timeutil.ParseInIST(timeutil.DateLayout, key)
		data.DaySummary = append(data.DaySummary, daySummary)

		data.TotalSales += daySummary.TotalSales
		data.TotalCash += daySummary.CashAmount
		data.TotalUpi += daySummary.UpiAmount
		data.TotalCard += daySummary.CardAmount
		for fuel, ft := range daySummary.FuelWise {
			agg := data.FuelWise[fuel]
			agg.Liters += ft.Liters
			agg.Amount += ft.Amount
			data.FuelWise[fuel] = agg
		}
	}

	return data, nil
}

// GenerateDailyPDF renders the daily report and returns the bytes with a
// suggested filename.
func (s *ReportService) GenerateDailyPDF(ctx context.Context, stationID int, day time.Time, actorID int) ([]byte, string, error) {
	data, err := s.DailyReportData(ctx, stationID, day, actorID)
	if err != nil {
		return nil, "", err
	}

	pdfBytes, err := renderDailyPDF(data)
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("daily-report-%d-%s.pdf", stationID, data.Date.Format(timeutil.DateLayout))
	return pdfBytes, filename, nil
}

// GenerateMonthlyPDF renders the monthly report.
func (s *ReportService) GenerateMonthlyPDF(ctx context.Context, stationID, year int, month time.Month, actorID int) ([]byte, string, error) {
	data, err := s.MonthlyReportData(ctx, stationID, year, month, actorID)
	if err != nil {
		return nil, "", err
	}

	pdfBytes, err := renderMonthlyPDF(data)
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("monthly-report-%d-%04d-%02d.pdf", stationID, year, int(month))
	return pdfBytes, filename, nil
}

// EmailDaily generates the daily report and emails it to the station owner
// (or the override address). Foreground callers get the error; the sweep
// wraps this per station.
func (s *ReportService) EmailDaily(ctx context.Context, stationID int, day time.Time, overrideTo string, actorID int) error {
	data, err := s.DailyReportData(ctx, stationID, day, actorID)
	if err != nil {
		return err
	}

	pdfBytes, err := renderDailyPDF(data)
	if err != nil {
		return err
	}

	to := overrideTo
	if to == "" {
		to = data.Station.OwnerEmail
	}
	if to == "" {
		return errs.NotFound("owner email", data.Station.Name)
	}

	filename := fmt.Sprintf("daily-report-%d-%s.pdf", stationID, data.Date.Format(timeutil.DateLayout))
	subject := fmt.Sprintf("Daily Sales Report - %s - %s", data.Station.Name, data.Date.Format("02 Jan 2006"))
	body := dailyEmailBody(data)

	if err := s.mail.SendReport(to, subject, body, filename, pdfBytes); err != nil {
		metrics.ReportsEmailed.WithLabelValues("daily", "failed").Inc()
		return err
	}
	metrics.ReportsEmailed.WithLabelValues("daily", "sent").Inc()

	s.archive.Put(ctx, fmt.Sprintf("reports/daily/%d/%s.pdf", stationID, data.Date.Format(timeutil.DateLayout)), pdfBytes)
	return nil
}

// EmailMonthly is the monthly counterpart of EmailDaily.
func (s *ReportService) EmailMonthly(ctx context.Context, stationID, year int, month time.Month, overrideTo string, actorID int) error {
	data, err := s.MonthlyReportData(ctx, stationID, year, month, actorID)
	if err != nil {
		return err
	}

	pdfBytes, err := renderMonthlyPDF(data)
	if err != nil {
		return err
	}

	to := overrideTo
	if to == "" {
		to = data.Station.OwnerEmail
	}
	if to == "" {
		return errs.NotFound("owner email", data.Station.Name)
	}

	filename := fmt.Sprintf("monthly-report-%d-%04d-%02d.pdf", stationID, year, int(month))
	subject := fmt.Sprintf("Monthly Sales Report - %s - %s %d", data.Station.Name, month.String(), year)
	body := monthlyEmailBody(data)

	if err := s.mail.SendReport(to, subject, body, filename, pdfBytes); err != nil {
		metrics.ReportsEmailed.WithLabelValues("monthly", "failed").Inc()
		return err
	}
	metrics.ReportsEmailed.WithLabelValues("monthly", "sent").Inc()

	s.archive.Put(ctx, fmt.Sprintf("reports/monthly/%d/%04d-%02d.pdf", stationID, year, int(month)), pdfBytes)
	return nil
}

func (s *ReportService) loadOwnedStation(ctx context.Context, stationID, actorID int) (*models.Station, error) {
	station, err := s.stations.GetByID(ctx, stationID)
	if err != nil {
		return nil, err
	}
	if station.OwnerID != actorID {
		return nil, errs.Forbidden("station", strconv.Itoa(stationID))
	}
	return station, nil
}

// SendTestEmail verifies the SMTP configuration.
func (s *ReportService) SendTestEmail(to string) error {
	return s.mail.SendTest(to)
}

// RunDailySweep emails every station's daily report. One station's failure
// never aborts the sweep; stations without readings are skipped.
func (s *ReportService) RunDailySweep(ctx context.Context, day time.Time) {
	stations, err := s.stations.List(ctx)
	if err != nil {
		log.Printf("[Scheduler] Daily sweep aborted, station list failed: %v", err)
		return
	}

	day = timeutil.StartOfDay(day)
	for _, station := range stations {
		// The sweep acts on the owner's behalf
		err := s.EmailDaily(ctx, station.ID, day, "", station.OwnerID)
		switch {
		case err == nil:
			log.Printf("[Scheduler] Daily report sent for station %d (%s)", station.ID, station.Name)
		case errs.HTTPStatus(err) == 404:
			log.Printf("[Scheduler] Skipping station %d (%s): %v", station.ID, station.Name, err)
		default:
			log.Printf("[Scheduler] Daily report failed for station %d (%s): %v", station.ID, station.Name, err)
		}
	}
}

// RunMonthlySweep emails every station's report for the given month.
func (s *ReportService) RunMonthlySweep(ctx context.Context, year int, month time.Month) {
	stations, err := s.stations.List(ctx)
	if err != nil {
		log.Printf("[Scheduler] Monthly sweep aborted, station list failed: %v", err)
		return
	}

	for _, station := range stations {
		err := s.EmailMonthly(ctx, station.ID, year, month, "", station.OwnerID)
		switch {
		case err == nil:
			log.Printf("[Scheduler] Monthly report sent for station %d (%s)", station.ID, station.Name)
		case errs.HTTPStatus(err) == 404:
			log.Printf("[Scheduler] Skipping station %d (%s): %v", station.ID, station.Name, err)
		default:
			log.Printf("[Scheduler] Monthly report failed for station %d (%s): %v", station.ID, station.Name, err)
		}
	}
}

func dailyEmailBody(data *DailyReportData) string {
	return fmt.Sprintf(
		`<h2>Daily Sales Report</h2>
<p><b>%s</b> - %s</p>
<p>Total sales: Rs. %.2f (Cash %.2f / UPI %.2f / Card %.2f)</p>
<p>The detailed report is attached as PDF.</p>`,
		data.Station.Name,
		data.Date.Format("02 Jan 2006"),
		data.Summary.TotalSales,
		data.Summary.CashAmount,
		data.Summary.UpiAmount,
		data.Summary.CardAmount,
	)
}

func monthlyEmailBody(data *MonthlyReportData) string {
	return fmt.Sprintf(
		`<h2>Monthly Sales Report</h2>
<p><b>%s</b> - %s %d</p>
<p>Total sales: Rs. %.2f across %d active days.</p>
<p>The detailed report is attached as PDF.</p>`,
		data.Station.Name,
		data.Month.String(),
		data.Year,
		data.TotalSales,
		len(data.DaySummary),
	)
}

func renderDailyPDF(data *DailyReportData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, fmt.Sprintf("%s - Daily Sales Report", data.Station.Name), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Date: %s    Generated: %s",
		data.Date.Format("02-Jan-2006"), timeutil.Now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// Readings table
	pdf.SetFont("Arial", "B", 12)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(190, 8, "Nozzle Readings", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(25, 7, "Nozzle", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Fuel", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Opening", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Closing", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Liters", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Price", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Amount", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, r := range data.Readings {
		pdf.CellFormat(25, 6, r.NozzleNumber, "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, r.FuelType, "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%.1f", r.OpeningReading), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%.1f", r.ClosingReading), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%.2f", r.LitersSold), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%.2f", r.PricePerLiter), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%.2f", r.TotalAmount), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	// Fuel-wise totals
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Fuel-wise Sales", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(63, 7, "Fuel", "1", 0, "C", true, 0, "")
	pdf.CellFormat(63, 7, "Liters", "1", 0, "C", true, 0, "")
	pdf.CellFormat(64, 7, "Amount", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	var fuels []string
	for fuel := range data.Summary.FuelWise {
		fuels = append(fuels, fuel)
	}
	sort.Strings(fuels)
	for _, fuel := range fuels {
		ft := data.Summary.FuelWise[fuel]
		pdf.CellFormat(63, 6, fuel, "1", 0, "C", false, 0, "")
		pdf.CellFormat(63, 6, fmt.Sprintf("%.2f", ft.Liters), "1", 0, "R", false, 0, "")
		pdf.CellFormat(64, 6, fmt.Sprintf("%.2f", ft.Amount), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	// Stock table
	if len(data.Stocks) > 0 {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(190, 8, "Tank Stock", "1", 1, "L", true, 0, "")
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(30, 7, "Fuel", "1", 0, "C", true, 0, "")
		pdf.CellFormat(32, 7, "Opening", "1", 0, "C", true, 0, "")
		pdf.CellFormat(32, 7, "Purchased", "1", 0, "C", true, 0, "")
		pdf.CellFormat(32, 7, "Sold", "1", 0, "C", true, 0, "")
		pdf.CellFormat(32, 7, "Closing", "1", 0, "C", true, 0, "")
		pdf.CellFormat(32, 7, "Capacity", "1", 1, "C", true, 0, "")

		pdf.SetFont("Arial", "", 10)
		for _, st := range data.Stocks {
			pdf.CellFormat(30, 6, st.FuelType, "1", 0, "C", false, 0, "")
			pdf.CellFormat(32, 6, fmt.Sprintf("%.1f", st.OpeningStock), "1", 0, "R", false, 0, "")
			pdf.CellFormat(32, 6, fmt.Sprintf("%.1f", st.PurchasedStock), "1", 0, "R", false, 0, "")
			pdf.CellFormat(32, 6, fmt.Sprintf("%.1f", st.SoldStock), "1", 0, "R", false, 0, "")
			pdf.CellFormat(32, 6, fmt.Sprintf("%.1f", st.ClosingStock), "1", 0, "R", false, 0, "")
			pdf.CellFormat(32, 6, fmt.Sprintf("%.0f", st.TankCapacity), "1", 1, "R", false, 0, "")
		}
		pdf.Ln(4)
	}

	// Payment summary
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Payment Summary", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(47, 8, fmt.Sprintf("Cash: Rs. %.2f", data.Summary.CashAmount), "1", 0, "C", false, 0, "")
	pdf.CellFormat(47, 8, fmt.Sprintf("UPI: Rs. %.2f", data.Summary.UpiAmount), "1", 0, "C", false, 0, "")
	pdf.CellFormat(48, 8, fmt.Sprintf("Card: Rs. %.2f", data.Summary.CardAmount), "1", 0, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(48, 8, fmt.Sprintf("Total: Rs. %.2f", data.Summary.TotalSales), "1", 1, "C", true, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderMonthlyPDF(data *MonthlyReportData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, fmt.Sprintf("%s - Monthly Sales Report", data.Station.Name), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("%s %d    Generated: %s",
		data.Month.String(), data.Year, timeutil.Now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(190, 8, "Day-wise Sales", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(38, 7, "Date", "1", 0, "C", true, 0, "")
	pdf.CellFormat(38, 7, "Cash", "1", 0, "C", true, 0, "")
	pdf.CellFormat(38, 7, "UPI", "1", 0, "C", true, 0, "")
	pdf.CellFormat(38, 7, "Card", "1", 0, "C", true, 0, "")
	pdf.CellFormat(38, 7, "Total", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, day := range data.DaySummary {
		pdf.CellFormat(38, 6, day.Date.Format("02-Jan"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(38, 6, fmt.Sprintf("%.2f", day.CashAmount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(38, 6, fmt.Sprintf("%.2f", day.UpiAmount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(38, 6, fmt.Sprintf("%.2f", day.CardAmount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(38, 6, fmt.Sprintf("%.2f", day.TotalSales), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Fuel-wise Totals", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(63, 7, "Fuel", "1", 0, "C", true, 0, "")
	pdf.CellFormat(63, 7, "Liters", "1", 0, "C", true, 0, "")
	pdf.CellFormat(64, 7, "Amount", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	var fuels []string
	for fuel := range data.FuelWise {
		fuels = append(fuels, fuel)
	}
	sort.Strings(fuels)
	for _, fuel := range fuels {
		ft := data.FuelWise[fuel]
		pdf.CellFormat(63, 6, fuel, "1", 0, "C", false, 0, "")
		pdf.CellFormat(63, 6, fmt.Sprintf("%.2f", ft.Liters), "1", 0, "R", false, 0, "")
		pdf.CellFormat(64, 6, fmt.Sprintf("%.2f", ft.Amount), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(190, 10, fmt.Sprintf("Month Total: Rs. %.2f", data.TotalSales), "1", 1, "C", true, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
