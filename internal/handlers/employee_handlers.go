package handlers

import (
	"errors"
	"net/http"

	"easypalm_backend/internal/services"
	"easypalm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// EmployeeHandler holds the employee service.
type EmployeeHandler struct {
	employeeService services.EmployeeService
}

// NewEmployeeHandler creates a new EmployeeHandler.
func NewEmployeeHandler(es services.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: es}
}

// CreateEmployee handles registering a new employee account.
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req services.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	employee, err := h.employeeService.CreateEmployee(req)
	if err != nil {
		if errors.Is(err, services.ErrEmployeeValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), err.Error()))
		} else if errors.Is(err, services.ErrEmployeeDuplicate) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Username or citizen ID already in use.", err.Error()))
		} else {
			utils.LogError(err, "CreateEmployee: Error from employeeService.CreateEmployee")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create employee.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, employee)
}

// GetEmployees handles listing employees with an optional search term.
func (h *EmployeeHandler) GetEmployees(c *gin.Context) {
	var searchTerm *string
	if search := c.Query("search"); search != "" {
		searchTerm = &search
	}

	employees, err := h.employeeService.GetEmployees(searchTerm)
	if err != nil {
		utils.LogError(err, "GetEmployees: Error from employeeService.GetEmployees")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch employees.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, employees)
}

// GetEmployeeByID handles fetching a single employee.
func (h *EmployeeHandler) GetEmployeeByID(c *gin.Context) {
	employee, err := h.employeeService.GetEmployeeByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrEmployeeNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Employee not found.", err.Error()))
		} else {
			utils.LogError(err, "GetEmployeeByID: Error from employeeService.GetEmployeeByID")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch employee.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, employee)
}

// UpdateEmployee handles updating an employee's profile.
func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	var req services.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	employee, err := h.employeeService.UpdateEmployee(c.Param("id"), req)
	if err != nil {
		if errors.Is(err, services.ErrEmployeeNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Employee not found.", err.Error()))
		} else if errors.Is(err, services.ErrEmployeeValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), err.Error()))
		} else if errors.Is(err, services.ErrEmployeeDuplicate) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Username or citizen ID already in use.", err.Error()))
		} else {
			utils.LogError(err, "UpdateEmployee: Error from employeeService.UpdateEmployee")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update employee.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, employee)
}

// SuspendEmployee handles disabling an employee account.
func (h *EmployeeHandler) SuspendEmployee(c *gin.Context) {
	employee, err := h.employeeService.SuspendEmployee(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrEmployeeNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Employee not found.", err.Error()))
		} else if errors.Is(err, services.ErrEmployeeSuspended) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Employee is already suspended.", err.Error()))
		} else {
			utils.LogError(err, "SuspendEmployee: Error from employeeService.SuspendEmployee")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to suspend employee.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, employee)
}

// UnsuspendEmployee handles reinstating a suspended employee account.
func (h *EmployeeHandler) UnsuspendEmployee(c *gin.Context) {
	employee, err := h.employeeService.UnsuspendEmployee(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrEmployeeNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Employee not found.", err.Error()))
		} else if errors.Is(err, services.ErrEmployeeActive) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Employee is not suspended.", err.Error()))
		} else {
			utils.LogError(err, "UnsuspendEmployee: Error from employeeService.UnsuspendEmployee")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to unsuspend employee.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, employee)
}

// DeleteEmployee handles removing an employee record.
func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	if err := h.employeeService.DeleteEmployee(c.Param("id")); err != nil {
		if errors.Is(err, services.ErrEmployeeNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Employee not found.", err.Error()))
		} else if errors.Is(err, services.ErrEmployeeInUse) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Employee has order history; suspend the account instead.", err.Error()))
		} else {
			utils.LogError(err, "DeleteEmployee: Error from employeeService.DeleteEmployee")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete employee.", "Internal error"))
		}
		return
	}
	c.Status(http.StatusNoContent)
}
