package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"pump-backend/internal/handlers"
	"pump-backend/internal/middleware"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	stationHandler *handlers.StationHandler,
	employeeHandler *handlers.EmployeeHandler,
	fuelHandler *handlers.FuelHandler,
	nozzleHandler *handlers.NozzleHandler,
	readingHandler *handlers.ReadingHandler,
	stockHandler *handlers.StockHandler,
	reportHandler *handlers.ReportHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	// Public API routes - Authentication
	r.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected API routes - Stations
	stationsAPI := r.PathPrefix("/api/stations").Subrouter()
	stationsAPI.Use(authMiddleware.Authenticate)
	stationsAPI.HandleFunc("", authMiddleware.RequireRole("owner")(http.HandlerFunc(stationHandler.CreateStation)).ServeHTTP).Methods("POST")
	stationsAPI.HandleFunc("", stationHandler.ListMyStations).Methods("GET")
	stationsAPI.HandleFunc("/{id}", stationHandler.GetStation).Methods("GET")

	// Protected API routes - Employees (owner manages the roster)
	employeesAPI := r.PathPrefix("/api/employees").Subrouter()
	employeesAPI.Use(authMiddleware.Authenticate)
	employeesAPI.HandleFunc("", authMiddleware.RequireRole("owner")(http.HandlerFunc(employeeHandler.CreateEmployee)).ServeHTTP).Methods("POST")
	employeesAPI.HandleFunc("/station/{station_id}", employeeHandler.ListByStation).Methods("GET")
	employeesAPI.HandleFunc("/{id}", employeeHandler.GetEmployee).Methods("GET")
	employeesAPI.HandleFunc("/{id}", authMiddleware.RequireRole("owner")(http.HandlerFunc(employeeHandler.UpdateEmployee)).ServeHTTP).Methods("PUT")
	employeesAPI.HandleFunc("/{id}", authMiddleware.RequireRole("owner")(http.HandlerFunc(employeeHandler.DeactivateEmployee)).ServeHTTP).Methods("DELETE")

	// Protected API routes - Fuels and prices
	fuelsAPI := r.PathPrefix("/api/fuels").Subrouter()
	fuelsAPI.Use(authMiddleware.Authenticate)
	fuelsAPI.HandleFunc("", authMiddleware.RequireRole("owner")(http.HandlerFunc(fuelHandler.CreateFuel)).ServeHTTP).Methods("POST")
	fuelsAPI.HandleFunc("/station/{station_id}", fuelHandler.ListByStation).Methods("GET")
	fuelsAPI.HandleFunc("/{id}/price", authMiddleware.RequireRole("owner")(http.HandlerFunc(fuelHandler.UpdatePrice)).ServeHTTP).Methods("PUT")
	fuelsAPI.HandleFunc("/{id}/price-history", fuelHandler.PriceHistory).Methods("GET")
	fuelsAPI.HandleFunc("/{id}", authMiddleware.RequireRole("owner")(http.HandlerFunc(fuelHandler.DeactivateFuel)).ServeHTTP).Methods("DELETE")

	// Protected API routes - Nozzles
	nozzlesAPI := r.PathPrefix("/api/nozzles").Subrouter()
	nozzlesAPI.Use(authMiddleware.Authenticate)
	nozzlesAPI.HandleFunc("", authMiddleware.RequireRole("owner")(http.HandlerFunc(nozzleHandler.CreateNozzle)).ServeHTTP).Methods("POST")
	nozzlesAPI.HandleFunc("/station/{station_id}", nozzleHandler.ListByStation).Methods("GET")
	nozzlesAPI.HandleFunc("/{id}", authMiddleware.RequireRole("owner")(http.HandlerFunc(nozzleHandler.UpdateNozzle)).ServeHTTP).Methods("PUT")
	nozzlesAPI.HandleFunc("/{id}/assign", authMiddleware.RequireRole("owner")(http.HandlerFunc(nozzleHandler.AssignEmployee)).ServeHTTP).Methods("PUT")
	nozzlesAPI.HandleFunc("/{id}", authMiddleware.RequireRole("owner")(http.HandlerFunc(nozzleHandler.DeactivateNozzle)).ServeHTTP).Methods("DELETE")

	// Protected API routes - Meter readings (all authenticated staff can submit)
	readingsAPI := r.PathPrefix("/api/readings").Subrouter()
	readingsAPI.Use(authMiddleware.Authenticate)
	readingsAPI.HandleFunc("", readingHandler.SubmitReading).Methods("POST")
	readingsAPI.HandleFunc("/station/{station_id}/date/{date}", readingHandler.GetDayReadings).Methods("GET")
	readingsAPI.HandleFunc("/station/{station_id}/summary/{date}", readingHandler.GetDaySummary).Methods("GET")
	readingsAPI.HandleFunc("/station/{station_id}/report", readingHandler.GetRangeReport).Methods("GET")
	readingsAPI.HandleFunc("/{id}/lock", authMiddleware.RequireRole("owner")(http.HandlerFunc(readingHandler.LockReading)).ServeHTTP).Methods("PUT")

	// Protected API routes - Tank stock ledger
	stocksAPI := r.PathPrefix("/api/stocks").Subrouter()
	stocksAPI.Use(authMiddleware.Authenticate)
	stocksAPI.HandleFunc("", authMiddleware.RequireRole("owner")(http.HandlerFunc(stockHandler.SubmitStock)).ServeHTTP).Methods("POST")
	stocksAPI.HandleFunc("/station/{station_id}/date/{date}", stockHandler.GetDayStocks).Methods("GET")
	stocksAPI.HandleFunc("/station/{station_id}/fuel/{fuel_type}", stockHandler.GetFuelRangeSummary).Methods("GET")
	stocksAPI.HandleFunc("/alerts/{station_id}", stockHandler.GetAlerts).Methods("GET")
	stocksAPI.HandleFunc("/{id}/purchase", authMiddleware.RequireRole("owner")(http.HandlerFunc(stockHandler.AddPurchase)).ServeHTTP).Methods("PUT")
	stocksAPI.HandleFunc("/{id}/sync", authMiddleware.RequireRole("owner")(http.HandlerFunc(stockHandler.SyncStock)).ServeHTTP).Methods("PUT")
	stocksAPI.HandleFunc("/{id}/lock", authMiddleware.RequireRole("owner")(http.HandlerFunc(stockHandler.LockStock)).ServeHTTP).Methods("PUT")

	// Protected API routes - Reports (owner only)
	reportsAPI := r.PathPrefix("/api/reports").Subrouter()
	reportsAPI.Use(authMiddleware.Authenticate)
	reportsAPI.HandleFunc("/daily/{station_id}/{date}", authMiddleware.RequireRole("owner")(http.HandlerFunc(reportHandler.DownloadDailyPDF)).ServeHTTP).Methods("GET")
	reportsAPI.HandleFunc("/daily/{station_id}/{date}/email", authMiddleware.RequireRole("owner")(http.HandlerFunc(reportHandler.EmailDailyReport)).ServeHTTP).Methods("POST")
	reportsAPI.HandleFunc("/monthly/{station_id}/{year}/{month}", authMiddleware.RequireRole("owner")(http.HandlerFunc(reportHandler.DownloadMonthlyPDF)).ServeHTTP).Methods("GET")
	reportsAPI.HandleFunc("/monthly/{station_id}/{year}/{month}/email", authMiddleware.RequireRole("owner")(http.HandlerFunc(reportHandler.EmailMonthlyReport)).ServeHTTP).Methods("POST")
	reportsAPI.HandleFunc("/test-email", authMiddleware.RequireRole("owner")(http.HandlerFunc(reportHandler.SendTestEmail)).ServeHTTP).Methods("POST")

	// Health endpoints (no auth required - for Kubernetes probes)
	r.HandleFunc("/health", healthHandler.Health).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.Detailed).Methods("GET")

	// Metrics endpoint (Prometheus format)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
