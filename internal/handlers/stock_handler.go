package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"pump-backend/internal/middleware"
	"pump-backend/internal/models"
	"pump-backend/internal/services"
	"pump-backend/internal/timeutil"
	"pump-backend/pkg/utils"
)

type StockHandler struct {
	Service    *services.StockService
	Reconciler *services.Reconciler
}

func NewStockHandler(service *services.StockService, reconciler *services.Reconciler) *StockHandler {
	return &StockHandler{Service: service, Reconciler: reconciler}
}

func (h *StockHandler) SubmitStock(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "Invalid request body")
		return
	}

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}

	stock, err := h.Service.SubmitStock(r.Context(), &req, userID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, stock)
}

func (h *StockHandler) GetDayStocks(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	stationID, err := strconv.Atoi(vars["station_id"])
	if err != nil {
		utils.BadRequest(w, "Invalid station ID")
		return
	}
	day, err := timeutil.ParseInIST(timeutil.DateLayout, vars["date"])
	if err != nil {
		utils.BadRequest(w, "Invalid date, expected YYYY-MM-DD")
		return
	}

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}

	stocks, err := h.Service.GetDayStocks(r.Context(), stationID, day, userID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, stocks)
}

func (h *StockHandler) GetFuelRangeSummary(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	stationID, err := strconv.Atoi(vars["station_id"])
	if err != nil {
		utils.BadRequest(w, "Invalid station ID")
		return
	}

	start, err := timeutil.ParseInIST(timeutil.DateLayout, r.URL.Query().Get("start"))
	if err != nil {
		utils.BadRequest(w, "start parameter required, expected YYYY-MM-DD")
		return
	}
	end, err := timeutil.ParseInIST(timeutil.DateLayout, r.URL.Query().Get("end"))
	if err != nil {
		utils.BadRequest(w, "end parameter required, expected YYYY-MM-DD")
		return
	}

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}

	summary, err := h.Service.GetFuelRangeSummary(r.Context(), stationID, vars["fuel_type"], start, end, userID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, summary)
}

func (h *StockHandler) AddPurchase(w http.ResponseWriter, r *http.Request) {
	stockID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.BadRequest(w, "Invalid stock ID")
		return
	}

	var req models.AddPurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "Invalid request body")
		return
	}

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}

	stock, err := h.Service.AddPurchase(r.Context(), stockID, &req, userID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, stock)
}

func (h *StockHandler) LockStock(w http.ResponseWriter, r *http.Request) {
	stockID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.BadRequest(w, "Invalid stock ID")
		return
	}

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}

	stock, err := h.Service.Lock(r.Context(), stockID, userID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, stock)
}

// SyncStock re-derives sold stock from the day's readings on demand.
func (h *StockHandler) SyncStock(w http.ResponseWriter, r *http.Request) {
	stockID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.BadRequest(w, "Invalid stock ID")
		return
	}

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}

	stock, err := h.Reconciler.Sync(r.Context(), stockID, userID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, stock)
}

func (h *StockHandler) GetAlerts(w http.ResponseWriter, r *http.Request) {
	stationID, err := strconv.Atoi(mux.Vars(r)["station_id"])
	if err != nil {
		utils.BadRequest(w, "Invalid station ID")
		return
	}

	day := timeutil.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := timeutil.ParseInIST(timeutil.DateLayout, raw)
		if err != nil {
			utils.BadRequest(w, "Invalid date, expected YYYY-MM-DD")
			return
		}
		day = parsed
	}

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}

	alerts, err := h.Service.ScanAlerts(r.Context(), stationID, day, userID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, alerts)
}
