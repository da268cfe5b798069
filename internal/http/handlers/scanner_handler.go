package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/warelane/stockscan/internal/domain"
	mw "github.com/warelane/stockscan/internal/http/middleware"
	"github.com/warelane/stockscan/internal/http/response"
	"github.com/warelane/stockscan/internal/service"
	"github.com/warelane/stockscan/pkg/logger"
)

type ScannerHandler struct {
	Scanner service.ScannerService
}

func NewScannerHandler(scanner service.ScannerService) *ScannerHandler {
	return &ScannerHandler{Scanner: scanner}
}

func (h *ScannerHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/validate", h.validate)
	r.Get("/locations", h.locations)
	r.With(mw.RequireIdentity).Post("/insert-detail", h.insertDetail)
	return r
}

func (h *ScannerHandler) validate(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.FailCause(w, http.StatusBadRequest, response.CauseEmptyCode, "Scanned code is missing.", "")
		return
	}

	result, err := h.Scanner.Resolve(r.Context(), in.Code)
	if err != nil {
		if domain.IsValidation(err) {
			response.FailCause(w, http.StatusBadRequest, response.CauseEmptyCode, "Scanned code is missing.", "")
			return
		}
		if se, ok := domain.AsStore(err); ok {
			response.FailCause(w, http.StatusBadRequest, response.CauseDBError, "Database query failed.", se.Err.Error())
			return
		}
		logger.ErrorContext(r.Context(), "resolve failed", "error", err)
		response.Fail(w, http.StatusInternalServerError, "Internal error")
		return
	}

	if !result.Exists {
		response.JSON(w, http.StatusOK, map[string]any{
			"success": true,
			"exists":  false,
			"message": "Code not found in database.",
		})
		return
	}

	response.JSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"exists":       true,
		"description":  result.Description,
		"locationCode": result.LocationCode,
		"location":     result.LocationDescription,
	})
}

func (h *ScannerHandler) locations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.Scanner.Locations(r.Context())
	if err != nil {
		if se, ok := domain.AsStore(err); ok {
			response.Fail(w, http.StatusBadRequest, se.Err.Error())
			return
		}
		logger.ErrorContext(r.Context(), "locations listing failed", "error", err)
		response.Fail(w, http.StatusInternalServerError, "Internal error")
		return
	}

	response.JSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"locations": locations,
	})
}

func (h *ScannerHandler) insertDetail(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Code         string `json:"code"`
		LocationDesc string `json:"locationDesc"`
		Remark1      string `json:"remark1"`
		Remark2      string `json:"remark2"`
		Remark3      string `json:"remark3"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	err := h.Scanner.AssignLocation(r.Context(), mw.Identity(r), &domain.AssignLocationRequest{
		Code:         in.Code,
		LocationDesc: in.LocationDesc,
		Remark1:      in.Remark1,
		Remark2:      in.Remark2,
		Remark3:      in.Remark3,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnauthenticated):
			response.Fail(w, http.StatusUnauthorized, "authentication required")
		case domain.IsValidation(err):
			response.Fail(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrLocationNotFound):
			response.Fail(w, http.StatusOK, "Location not found. Pick one from the list.")
		default:
			if se, ok := domain.AsStore(err); ok {
				response.FailDetail(w, http.StatusBadRequest, "Database query failed.", se.Err.Error())
				return
			}
			logger.ErrorContext(r.Context(), "insert detail failed", "error", err)
			response.Fail(w, http.StatusInternalServerError, "Internal error")
		}
		return
	}

	response.JSON(w, http.StatusOK, map[string]any{"success": true})
}
