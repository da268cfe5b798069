package response

import (
	"encoding/json"
	"net/http"

	"github.com/warelane/stockscan/pkg/logger"
)

// Failure is the wire shape for every unsuccessful response: a success flag,
// a human-readable message, and optionally a machine cause plus the raw
// backing-store detail.
type Failure struct {
	Success bool   `json:"success"`
	Cause   string `json:"cause,omitempty"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// Failure causes carried on the wire
const (
	CauseEmptyCode = "EMPTY_CODE"
	CauseDBError   = "DB_ERROR"
)

func JSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

// Fail writes {success:false, message}.
func Fail(w http.ResponseWriter, statusCode int, message string) {
	JSON(w, statusCode, Failure{Success: false, Message: message})
}

// FailCause writes {success:false, cause, message, detail?}.
func FailCause(w http.ResponseWriter, statusCode int, cause, message, detail string) {
	JSON(w, statusCode, Failure{Success: false, Cause: cause, Message: message, Detail: detail})
}

// FailDetail writes {success:false, message, detail}.
func FailDetail(w http.ResponseWriter, statusCode int, message, detail string) {
	JSON(w, statusCode, Failure{Success: false, Message: message, Detail: detail})
}
