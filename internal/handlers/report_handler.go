package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"pump-backend/internal/middleware"
	"pump-backend/internal/services"
	"pump-backend/internal/timeutil"
	"pump-backend/pkg/utils"
)

type ReportHandler struct {
	Service *services.ReportService
}

func NewReportHandler(service *services.ReportService) *ReportHandler {
	return &ReportHandler{Service: service}
}

type emailRequest struct {
	To string `json:"to"`
}

func parseMonthVars(vars map[string]string) (int, time.Month, error) {
	year, err := strconv.Atoi(vars["year"])
	if err != nil || year < 2000 || year > 2100 {
		return 0, 0, fmt.Errorf("invalid year")
	}
	monthNum, err := strconv.Atoi(vars["month"])
	if err != nil || monthNum < 1 || monthNum > 12 {
		return 0, 0, fmt.Errorf("invalid month")
	}
	return year, time.Month(monthNum), nil
}

func writePDF(w http.ResponseWriter, pdf []byte, filename string) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

func (h *ReportHandler) DownloadDailyPDF(w http.ResponseWriter, r *http.Request) {
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

	pdf, filename, err := h.Service.GenerateDailyPDF(r.Context(), stationID, day, userID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	writePDF(w, pdf, filename)
}

func (h *ReportHandler) DownloadMonthlyPDF(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	stationID, err := strconv.Atoi(vars["station_id"])
	if err != nil {
		utils.BadRequest(w, "Invalid station ID")
		return
	}
	year, month, err := parseMonthVars(vars)
	if err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}

	pdf, filename, err := h.Service.GenerateMonthlyPDF(r.Context(), stationID, year, month, userID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	writePDF(w, pdf, filename)
}

func (h *ReportHandler) EmailDailyReport(w http.ResponseWriter, r *http.Request) {
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

	var req emailRequest
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	if err := h.Service.EmailDaily(r.Context(), stationID, day, req.To, userID); err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

func (h *ReportHandler) EmailMonthlyReport(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	stationID, err := strconv.Atoi(vars["station_id"])
	if err != nil {
		utils.BadRequest(w, "Invalid station ID")
		return
	}
	year, month, err := parseMonthVars(vars)
	if err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}

	var req emailRequest
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	if err := h.Service.EmailMonthly(r.Context(), stationID, year, month, req.To, userID); err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

func (h *ReportHandler) SendTestEmail(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.To == "" {
		utils.BadRequest(w, "to address is required")
		return
	}

	if err := h.Service.SendTestEmail(req.To); err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"status": "sent"})
}
