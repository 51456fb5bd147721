package server

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

// TransferRequest accepts the transfer form as the browser sends it: amounts
// may arrive as strings and several fields may be absent.
type TransferRequest struct {
	FromAccountID   string          `json:"fromAccountId"`
	ToAccountID     string          `json:"toAccountId"`
	Amount          json.RawMessage `json:"amount"`
	Description     string          `json:"description"`
	ExchangeRate    json.RawMessage `json:"exchangeRate"`
	Fees            json.RawMessage `json:"fees"`
	TransactionDate string          `json:"transactionDate"`
}

// transferPayload is the normalized payload the backend expects
type transferPayload struct {
	FromAccountID   string  `json:"fromAccountId"`
	ToAccountID     string  `json:"toAccountId"`
	Amount          float64 `json:"amount"`
	Description     string  `json:"description"`
	ExchangeRate    float64 `json:"exchangeRate"`
	Fees            float64 `json:"fees"`
	TransactionDate string  `json:"transactionDate"`
}

// listTransactions proxies the transaction list read
func (s *Server) listTransactions(c *gin.Context) {
	data, err := s.backend.Get(c.Request.Context(), "/transactions")
	normalize(c, http.StatusOK, data, err, "An error occurred while fetching transactions.")
}

// getTransactionStatistics proxies the statistics read
func (s *Server) getTransactionStatistics(c *gin.Context) {
	data, err := s.backend.Get(c.Request.Context(), "/transactions/statistics")
	normalize(c, http.StatusOK, data, err, "An error occurred while fetching transaction statistics.")
}

// getTransaction proxies a single-transaction read
func (s *Server) getTransaction(c *gin.Context) {
	data, err := s.backend.Get(c.Request.Context(), "/transactions/"+c.Param("id"))
	normalize(c, http.StatusOK, data, err, "An error occurred while fetching the transaction.")
}

// createTransaction forwards the transaction payload unchanged
func (s *Server) createTransaction(c *gin.Context) {
	body, ok := readJSONBody(c)
	if !ok {
		return
	}

	data, err := s.backend.Post(c.Request.Context(), "/transactions", body)
	normalize(c, http.StatusCreated, data, err, "An error occurred while creating the transaction.")
}

// updateTransaction forwards a transaction update unchanged
func (s *Server) updateTransaction(c *gin.Context) {
	body, ok := readJSONBody(c)
	if !ok {
		return
	}

	data, err := s.backend.Put(c.Request.Context(), "/transactions/"+c.Param("id"), body)
	normalize(c, http.StatusOK, data, err, "An error occurred while updating the transaction.")
}

// deleteTransaction proxies a transaction deletion
func (s *Server) deleteTransaction(c *gin.Context) {
	data, err := s.backend.Delete(c.Request.Context(), "/transactions/"+c.Param("id"))
	normalize(c, http.StatusOK, data, err, "An error occurred while deleting the transaction.")
}

// createTransfer normalizes the transfer form before forwarding: amounts are
// coerced to numbers, exchangeRate defaults to 1, fees to 0, the description
// to an empty string and the transaction date to the current instant.
func (s *Server) createTransfer(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	// A zero exchange rate counts as unset
	exchangeRate := coerceNumber(req.ExchangeRate, 1)
	if exchangeRate == 0 {
		exchangeRate = 1
	}

	payload := transferPayload{
		FromAccountID:   req.FromAccountID,
		ToAccountID:     req.ToAccountID,
		Amount:          coerceNumber(req.Amount, 0),
		Description:     req.Description,
		ExchangeRate:    exchangeRate,
		Fees:            coerceNumber(req.Fees, 0),
		TransactionDate: isoTimestamp(req.TransactionDate),
	}

	data, err := s.backend.Post(c.Request.Context(), "/transactions/transfer", payload)
	normalize(c, http.StatusCreated, data, err, "An error occurred while transferring funds.")
}
