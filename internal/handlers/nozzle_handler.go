package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"pump-backend/internal/middleware"
	"pump-backend/internal/models"
	"pump-backend/internal/repositories"
	"pump-backend/internal/services"
	"pump-backend/pkg/utils"
)

type NozzleHandler struct {
	NozzleRepo *repositories.NozzleRepository
	Guard      *services.StationGuard
}

func NewNozzleHandler(nozzleRepo *repositories.NozzleRepository, guard *services.StationGuard) *NozzleHandler {
	return &NozzleHandler{NozzleRepo: nozzleRepo, Guard: guard}
}

func (h *NozzleHandler) CreateNozzle(w http.ResponseWriter, r *http.Request) {
	var req models.CreateNozzleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "Invalid request body")
		return
	}
	if req.NozzleNumber == "" || req.StationID == 0 || req.FuelID == 0 {
		utils.BadRequest(w, "nozzle_number, station_id and fuel_id are required")
		return
	}

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}
	if err := h.Guard.Authorize(r.Context(), req.StationID, userID); err != nil {
		utils.Error(w, err)
		return
	}

	nozzle := &models.Nozzle{
		NozzleNumber:  req.NozzleNumber,
		MachineNumber: req.MachineNumber,
		StationID:     req.StationID,
		FuelID:        req.FuelID,
	}
	if err := h.NozzleRepo.Create(r.Context(), nozzle); err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, nozzle)
}

func (h *NozzleHandler) ListByStation(w http.ResponseWriter, r *http.Request) {
	stationID, err := strconv.Atoi(mux.Vars(r)["station_id"])
	if err != nil {
		utils.BadRequest(w, "Invalid station ID")
		return
	}

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}
	if err := h.Guard.Authorize(r.Context(), stationID, userID); err != nil {
		utils.Error(w, err)
		return
	}

	nozzles, err := h.NozzleRepo.ListByStation(r.Context(), stationID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, nozzles)
}

func (h *NozzleHandler) UpdateNozzle(w http.ResponseWriter, r *http.Request) {
	nozzleID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.BadRequest(w, "Invalid nozzle ID")
		return
	}

	var req models.UpdateNozzleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "Invalid request body")
		return
	}
	if req.NozzleNumber == "" || req.FuelID == 0 {
		utils.BadRequest(w, "nozzle_number and fuel_id are required")
		return
	}

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}

	nozzle, err := h.NozzleRepo.GetByID(r.Context(), nozzleID)
	if err != nil {
		utils.Error(w, err)
		return
	}
	if err := h.Guard.Authorize(r.Context(), nozzle.StationID, userID); err != nil {
		utils.Error(w, err)
		return
	}

	nozzle.NozzleNumber = req.NozzleNumber
	nozzle.MachineNumber = req.MachineNumber
	nozzle.FuelID = req.FuelID
	if err := h.NozzleRepo.Update(r.Context(), nozzle); err != nil {
		utils.Error(w, err)
		return
	}

	nozzle, err = h.NozzleRepo.GetByID(r.Context(), nozzleID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, nozzle)
}

func (h *NozzleHandler) AssignEmployee(w http.ResponseWriter, r *http.Request) {
	nozzleID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.BadRequest(w, "Invalid nozzle ID")
		return
	}

	var req models.AssignEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "Invalid request body")
		return
	}

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}

	nozzle, err := h.NozzleRepo.GetByID(r.Context(), nozzleID)
	if err != nil {
		utils.Error(w, err)
		return
	}
	if err := h.Guard.Authorize(r.Context(), nozzle.StationID, userID); err != nil {
		utils.Error(w, err)
		return
	}

	if err := h.NozzleRepo.AssignEmployee(r.Context(), nozzleID, req.EmployeeID); err != nil {
		utils.Error(w, err)
		return
	}

	nozzle, err = h.NozzleRepo.GetByID(r.Context(), nozzleID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, nozzle)
}

func (h *NozzleHandler) DeactivateNozzle(w http.ResponseWriter, r *http.Request) {
	nozzleID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.BadRequest(w, "Invalid nozzle ID")
		return
	}

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}

	nozzle, err := h.NozzleRepo.GetByID(r.Context(), nozzleID)
	if err != nil {
		utils.Error(w, err)
		return
	}
	if err := h.Guard.Authorize(r.Context(), nozzle.StationID, userID); err != nil {
		utils.Error(w, err)
		return
	}

	if err := h.NozzleRepo.Deactivate(r.Context(), nozzleID); err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}
