package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// listAccounts proxies the account list read
func (s *Server) listAccounts(c *gin.Context) {
	data, err := s.backend.Get(c.Request.Context(), "/accounts")
	normalize(c, http.StatusOK, data, err, "An error occurred while fetching accounts.")
}

// getAccountSummary proxies the aggregated balances read
func (s *Server) getAccountSummary(c *gin.Context) {
	data, err := s.backend.Get(c.Request.Context(), "/accounts/summary")
	normalize(c, http.StatusOK, data, err, "An error occurred while fetching account summary.")
}

// getAccount proxies a single-account read
func (s *Server) getAccount(c *gin.Context) {
	data, err := s.backend.Get(c.Request.Context(), "/accounts/"+c.Param("id"))
	normalize(c, http.StatusOK, data, err, "An error occurred while fetching the account.")
}

// createAccount forwards the account payload unchanged
func (s *Server) createAccount(c *gin.Context) {
	body, ok := readJSONBody(c)
	if !ok {
		return
	}

	data, err := s.backend.Post(c.Request.Context(), "/accounts", body)
	normalize(c, http.StatusCreated, data, err, "An error occurred while creating the account.")
}

// updateAccount forwards an account update. initialBalance is stripped from
// the outbound payload unconditionally: the field is immutable after
// creation and must never reach the backend.
func (s *Server) updateAccount(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	delete(payload, "initialBalance")

	data, err := s.backend.Patch(c.Request.Context(), "/accounts/"+c.Param("id"), payload)
	normalize(c, http.StatusOK, data, err, "An error occurred while updating the account.")
}

// deleteAccount proxies an account deletion
func (s *Server) deleteAccount(c *gin.Context) {
	data, err := s.backend.Delete(c.Request.Context(), "/accounts/"+c.Param("id"))
	normalize(c, http.StatusOK, data, err, "An error occurred while deleting the account.")
}
