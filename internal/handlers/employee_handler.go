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
	"pump-backend/internal/timeutil"
	"pump-backend/pkg/utils"
)

type EmployeeHandler struct {
	EmployeeRepo *repositories.EmployeeRepository
	Guard        *services.StationGuard
}

func NewEmployeeHandler(employeeRepo *repositories.EmployeeRepository, guard *services.StationGuard) *EmployeeHandler {
	return &EmployeeHandler{EmployeeRepo: employeeRepo, Guard: guard}
}

func (h *EmployeeHandler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req models.CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "Invalid request body")
		return
	}
	if req.Name == "" || req.StationID == 0 {
		utils.BadRequest(w, "name and station_id are required")
		return
	}
	if req.Role != models.RoleManager && req.Role != models.RoleOperator {
		utils.BadRequest(w, "role must be manager or operator")
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

	joining := timeutil.StartOfDay(timeutil.Now())
	if req.JoiningDate != "" {
		parsed, err := timeutil.ParseInIST(timeutil.DateLayout, req.JoiningDate)
		if err != nil {
			utils.BadRequest(w, "joining_date must be YYYY-MM-DD")
			return
		}
		joining = timeutil.StartOfDay(parsed)
	}

	emp := &models.Employee{
		Name:        req.Name,
		Phone:       req.Phone,
		Role:        req.Role,
		Salary:      req.Salary,
		StationID:   req.StationID,
		JoiningDate: joining,
	}
	if err := h.EmployeeRepo.Create(r.Context(), emp); err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, emp)
}

func (h *EmployeeHandler) ListByStation(w http.ResponseWriter, r *http.Request) {
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

	employees, err := h.EmployeeRepo.ListByStation(r.Context(), stationID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, employees)
}

func (h *EmployeeHandler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.BadRequest(w, "Invalid employee ID")
		return
	}

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}

	emp, err := h.EmployeeRepo.GetByID(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	if err := h.Guard.Authorize(r.Context(), emp.StationID, userID); err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, emp)
}

func (h *EmployeeHandler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.BadRequest(w, "Invalid employee ID")
		return
	}

	var req models.UpdateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "Invalid request body")
		return
	}
	if req.Role != models.RoleManager && req.Role != models.RoleOperator {
		utils.BadRequest(w, "role must be manager or operator")
		return
	}

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}

	emp, err := h.EmployeeRepo.GetByID(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	if err := h.Guard.Authorize(r.Context(), emp.StationID, userID); err != nil {
		utils.Error(w, err)
		return
	}

	emp.Name = req.Name
	emp.Phone = req.Phone
	emp.Role = req.Role
	emp.Salary = req.Salary
	if err := h.EmployeeRepo.Update(r.Context(), emp); err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, emp)
}

func (h *EmployeeHandler) DeactivateEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.BadRequest(w, "Invalid employee ID")
		return
	}

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}

	emp, err := h.EmployeeRepo.GetByID(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	if err := h.Guard.Authorize(r.Context(), emp.StationID, userID); err != nil {
		utils.Error(w, err)
		return
	}

	if err := h.EmployeeRepo.Deactivate(r.Context(), id); err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}
