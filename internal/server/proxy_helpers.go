package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// isoLayout renders timestamps the way the browser does: millisecond
// precision, UTC.
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

// readJSONBody reads the request body for pass-through forwarding, answering
// 400 itself on malformed JSON.
func readJSONBody(c *gin.Context) (json.RawMessage, bool) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return json.RawMessage("{}"), true
	}
	if !json.Valid(body) {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}
	return body, true
}

// coerceNumber turns a raw JSON value (number or numeric string) into a
// float, falling back to def when absent or unparseable.
func coerceNumber(raw json.RawMessage, def float64) float64 {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return def
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return parsed
		}
	}

	return def
}

// isoTimestamp re-emits a client-supplied date as ISO-8601 UTC; absent or
// unparseable dates default to the current instant.
func isoTimestamp(value string) string {
	if value != "" {
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, value); err == nil {
				return t.UTC().Format(isoLayout)
			}
		}
	}
	return time.Now().UTC().Format(isoLayout)
}
