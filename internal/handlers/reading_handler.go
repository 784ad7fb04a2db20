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

type ReadingHandler struct {
	Service *services.ReadingService
}

func NewReadingHandler(service *services.ReadingService) *ReadingHandler {
	return &ReadingHandler{Service: service}
}

func (h *ReadingHandler) SubmitReading(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitReadingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "Invalid request body")
		return
	}

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}

	reading, err := h.Service.SubmitReading(r.Context(), &req, userID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, reading)
}

func (h *ReadingHandler) GetDayReadings(w http.ResponseWriter, r *http.Request) {
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

	readings, err := h.Service.GetDayReadings(r.Context(), stationID, day, userID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, readings)
}

func (h *ReadingHandler) GetDaySummary(w http.ResponseWriter, r *http.Request) {
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

	summary, err := h.Service.GetDaySummary(r.Context(), stationID, day, userID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, summary)
}

func (h *ReadingHandler) GetRangeReport(w http.ResponseWriter, r *http.Request) {
	stationID, err := strconv.Atoi(mux.Vars(r)["station_id"])
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

	report, err := h.Service.GetRangeReport(r.Context(), stationID, start, end, userID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, report)
}

func (h *ReadingHandler) LockReading(w http.ResponseWriter, r *http.Request) {
	readingID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.BadRequest(w, "Invalid reading ID")
		return
	}

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}

	reading, err := h.Service.Lock(r.Context(), readingID, userID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, reading)
}
