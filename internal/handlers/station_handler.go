package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"pump-backend/internal/errs"
	"pump-backend/internal/middleware"
	"pump-backend/internal/models"
	"pump-backend/internal/repositories"
	"pump-backend/pkg/utils"
)

type StationHandler struct {
	StationRepo *repositories.StationRepository
}

func NewStationHandler(stationRepo *repositories.StationRepository) *StationHandler {
	return &StationHandler{StationRepo: stationRepo}
}

func (h *StationHandler) CreateStation(w http.ResponseWriter, r *http.Request) {
	var req models.CreateStationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "Invalid request body")
		return
	}
	if req.Name == "" {
		utils.BadRequest(w, "name is required")
		return
	}

	ownerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}

	station := &models.Station{
		Name:               req.Name,
		Address:            req.Address,
		ContactNumber:      req.ContactNumber,
		RegistrationNumber: req.RegistrationNumber,
		OwnerID:            ownerID,
	}
	if err := h.StationRepo.Create(r.Context(), station); err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, station)
}

func (h *StationHandler) ListMyStations(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}

	stations, err := h.StationRepo.ListByOwner(r.Context(), ownerID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, stations)
}

func (h *StationHandler) GetStation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.BadRequest(w, "Invalid station ID")
		return
	}

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}

	station, err := h.StationRepo.GetByID(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	if station.OwnerID != userID {
		utils.Error(w, errs.Forbidden("station", strconv.Itoa(id)))
		return
	}

	utils.JSON(w, http.StatusOK, station)
}
