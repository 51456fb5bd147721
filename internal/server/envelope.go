package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fintrack-dev/fintrack/internal/backend"
)

// Envelope is the normalized response shape emitted by every route:
// success=true carries the backend payload verbatim in data, success=false
// carries a human-readable message.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

func respondData(c *gin.Context, status int, data json.RawMessage) {
	if len(data) == 0 {
		data = json.RawMessage("null")
	}
	c.JSON(status, Envelope{Success: true, Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{Success: false, Message: message})
}

// normalize maps a backend call result onto the envelope: the payload
// verbatim at successStatus on success; the backend's status and message on
// failure, with the route fallback used only when the backend supplied no
// message and 500 when no response was received at all.
func normalize(c *gin.Context, successStatus int, data json.RawMessage, err error, fallback string) {
	if err == nil {
		respondData(c, successStatus, data)
		return
	}

	status := http.StatusInternalServerError
	message := fallback

	var be *backend.Error
	if errors.As(err, &be) {
		if be.Status != 0 {
			status = be.Status
		}
		if be.Message != "" {
			message = be.Message
		}
	}

	respondError(c, status, message)
}
