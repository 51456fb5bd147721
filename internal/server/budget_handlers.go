package server

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

// BudgetCreateRequest accepts the budget form as the browser sends it
type BudgetCreateRequest struct {
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Amount    json.RawMessage `json:"amount"`
	Period    string          `json:"period"`
	StartDate string          `json:"startDate"`
	EndDate   string          `json:"endDate"`
}

// budgetPayload is the normalized payload the backend expects
type budgetPayload struct {
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Amount    float64 `json:"amount"`
	Period    string  `json:"period"`
	StartDate string  `json:"startDate"`
	EndDate   string  `json:"endDate"`
}

// listBudgets proxies the budget list read
func (s *Server) listBudgets(c *gin.Context) {
	data, err := s.backend.Get(c.Request.Context(), "/budgets")
	normalize(c, http.StatusOK, data, err, "An error occurred while fetching budgets.")
}

// getBudgetSummary proxies the budget summary read
func (s *Server) getBudgetSummary(c *gin.Context) {
	data, err := s.backend.Get(c.Request.Context(), "/budgets/summary")
	normalize(c, http.StatusOK, data, err, "An error occurred while fetching budget summary.")
}

// getBudgetAlerts proxies the over-budget alerts read
func (s *Server) getBudgetAlerts(c *gin.Context) {
	data, err := s.backend.Get(c.Request.Context(), "/budgets/alerts")
	normalize(c, http.StatusOK, data, err, "An error occurred while fetching budget alerts.")
}

// getBudget proxies a single-budget read
func (s *Server) getBudget(c *gin.Context) {
	data, err := s.backend.Get(c.Request.Context(), "/budgets/"+c.Param("id"))
	normalize(c, http.StatusOK, data, err, "An error occurred while fetching the budget.")
}

// createBudget normalizes the budget form before forwarding: the amount is
// coerced to a number and both period dates default to the current instant
// when the form leaves them empty.
func (s *Server) createBudget(c *gin.Context) {
	var req BudgetCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	payload := budgetPayload{
		Name:      req.Name,
		Category:  req.Category,
		Amount:    coerceNumber(req.Amount, 0),
		Period:    req.Period,
		StartDate: isoTimestamp(req.StartDate),
		EndDate:   isoTimestamp(req.EndDate),
	}

	data, err := s.backend.Post(c.Request.Context(), "/budgets", payload)
	normalize(c, http.StatusCreated, data, err, "An error occurred while creating the budget.")
}

// updateBudget forwards a budget update unchanged. The backend exposes
// updates as PUT.
func (s *Server) updateBudget(c *gin.Context) {
	body, ok := readJSONBody(c)
	if !ok {
		return
	}

	data, err := s.backend.Put(c.Request.Context(), "/budgets/"+c.Param("id"), body)
	normalize(c, http.StatusOK, data, err, "An error occurred while updating the budget.")
}

// deleteBudget proxies a budget deletion
func (s *Server) deleteBudget(c *gin.Context) {
	data, err := s.backend.Delete(c.Request.Context(), "/budgets/"+c.Param("id"))
	normalize(c, http.StatusOK, data, err, "An error occurred while deleting the budget.")
}
