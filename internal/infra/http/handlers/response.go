package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/businessofone/crm-backend/internal/usecase"
)

type errorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: code, Message: message})
}

// writeServiceError maps service-layer failures: domain errors are the
// caller's fault, everything else is a 500.
func writeServiceError(w http.ResponseWriter, err error) {
	if de, ok := err.(*usecase.DomainError); ok {
		writeErrorResponse(w, http.StatusBadRequest, de.Code, de.Message)
		return
	}
	writeErrorResponse(w, http.StatusInternalServerError, "CRM_ERROR", err.Error())
}

func writeValidationErrors(w http.ResponseWriter, errs []usecase.ValidationError) {
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Error())
	}
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Error:   "VALIDATION_ERROR",
		Message: "invalid input",
		Fields:  fields,
	})
}
