package response

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/gudang-labs/warehouse-dashboard/pkg/errors"
)

// Envelope is the wire contract every JSON endpoint speaks:
// {success, message, data}. Data stays raw on the client side so callers
// decode into their own types.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Decode parses an envelope from body and unmarshals its data into out.
// A non-2xx status or success=false is a failure even when a body is
// present; the body's message field wins over the raw text when available.
func Decode(status int, body []byte, out interface{}) error {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		if status >= 200 && status < 300 {
			return apperrors.Wrap(err, apperrors.KindRequestFailed, status, "malformed response body")
		}
		return apperrors.New(apperrors.KindRequestFailed, status, failureMessage("", body))
	}

	if status < 200 || status >= 300 || !env.Success {
		if status >= 200 && status < 300 {
			status = http.StatusBadRequest
		}
		return apperrors.New(apperrors.KindRequestFailed, status, failureMessage(env.Message, body))
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return apperrors.Wrap(err, apperrors.KindRequestFailed, status, "unexpected response shape")
	}
	return nil
}

func failureMessage(message string, body []byte) string {
	if message != "" {
		return message
	}
	if len(body) > 0 {
		return string(body)
	}
	return "request failed"
}

// JSON writes a success envelope. Used by the mock server.
func JSON(c *gin.Context, status int, message string, data interface{}) {
	c.Header("Cache-Control", "no-store")
	payload := gin.H{"success": true, "message": message}
	if data != nil {
		payload["data"] = data
	}
	c.JSON(status, payload)
}

// OK writes a 200 success envelope.
func OK(c *gin.Context, message string, data interface{}) {
	JSON(c, http.StatusOK, message, data)
}

// Created writes a 201 success envelope.
func Created(c *gin.Context, message string, data interface{}) {
	JSON(c, http.StatusCreated, message, data)
}

// Fail writes a failure envelope with the given status.
func Fail(c *gin.Context, status int, message string) {
	c.Header("Cache-Control", "no-store")
	c.JSON(status, gin.H{"success": false, "message": message})
}

// Error writes a failure envelope derived from a typed error. Untyped
// errors become opaque 500s so internals never leak to clients.
func Error(c *gin.Context, err error) {
	status := apperrors.StatusOf(err)
	if status == 0 {
		switch apperrors.KindOf(err) {
		case apperrors.KindValidation:
			status = http.StatusBadRequest
		case apperrors.KindUnauthenticated, apperrors.KindSessionExpired:
			status = http.StatusUnauthorized
		default:
			status = http.StatusInternalServerError
		}
	}
	message := apperrors.Message(err)
	if status == http.StatusInternalServerError {
		message = "terjadi kesalahan pada server"
	}
	Fail(c, status, message)
}
