package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"pump-backend/internal/middleware"
	"pump-backend/internal/models"
	"pump-backend/internal/services"
	"pump-backend/pkg/utils"
)

type FuelHandler struct {
	Service *services.FuelService
}

func NewFuelHandler(service *services.FuelService) *FuelHandler {
	return &FuelHandler{Service: service}
}

func (h *FuelHandler) CreateFuel(w http.ResponseWriter, r *http.Request) {
	var req models.CreateFuelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "Invalid request body")
		return
	}

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}

	fuel, err := h.Service.CreateFuel(r.Context(), &req, userID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, fuel)
}

func (h *FuelHandler) ListByStation(w http.ResponseWriter, r *http.Request) {
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

	fuels, err := h.Service.ListByStation(r.Context(), stationID, userID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, fuels)
}

func (h *FuelHandler) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	fuelID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.BadRequest(w, "Invalid fuel ID")
		return
	}

	var req models.UpdatePriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "Invalid request body")
		return
	}

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}

	fuel, err := h.Service.SetPrice(r.Context(), fuelID, req.Price, userID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, fuel)
}

func (h *FuelHandler) DeactivateFuel(w http.ResponseWriter, r *http.Request) {
	fuelID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.BadRequest(w, "Invalid fuel ID")
		return
	}

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}

	if err := h.Service.Deactivate(r.Context(), fuelID, userID); err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}

func (h *FuelHandler) PriceHistory(w http.ResponseWriter, r *http.Request) {
	fuelID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.BadRequest(w, "Invalid fuel ID")
		return
	}

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}

	history, err := h.Service.PriceHistory(r.Context(), fuelID, userID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, history)
}
