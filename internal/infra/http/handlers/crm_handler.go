package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/businessofone/crm-backend/internal/entity"
	"github.com/businessofone/crm-backend/internal/infra/http/middleware"
	"github.com/businessofone/crm-backend/internal/usecase"
)

// CRMHandler exposes the lead lifecycle under /api/crm. Validation lives
// here, at the boundary. The service below assumes clean input.
type CRMHandler struct {
	Service *usecase.CRMService
}

func NewCRMHandler(service *usecase.CRMService) *CRMHandler {
	return &CRMHandler{Service: service}
}

func (h *CRMHandler) CreateLead(w http.ResponseWriter, r *http.Request) {
	var lead entity.Lead
	if err := json.NewDecoder(r.Body).Decode(&lead); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON: "+err.Error())
		return
	}

	if errs := usecase.ValidateLeadInput(lead); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	contact, err := h.Service.CreateLead(r.Context(), lead)
	if err != nil {
		middleware.RecordCRMSyncError("create")
		writeServiceError(w, err)
		return
	}

	middleware.RecordLeadScore(contact.LeadScore)
	writeJSON(w, http.StatusCreated, contact)
}

func (h *CRMHandler) UpdateLead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var updates entity.LeadUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON: "+err.Error())
		return
	}

	if errs := usecase.ValidateLeadUpdate(updates); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	contact, err := h.Service.UpdateLead(r.Context(), id, updates)
	if err != nil {
		middleware.RecordCRMSyncError("update")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, contact)
}

func (h *CRMHandler) GetLead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	contact, err := h.Service.GetLead(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if contact == nil {
		writeErrorResponse(w, http.StatusNotFound, "NOT_FOUND", "lead not found")
		return
	}

	writeJSON(w, http.StatusOK, contact)
}

func (h *CRMHandler) SearchLeads(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_QUERY", "query parameter 'q' is required")
		return
	}

	contacts, err := h.Service.SearchLeads(r.Context(), query)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, contacts)
}

func (h *CRMHandler) TrackEvent(w http.ResponseWriter, r *http.Request) {
	var event entity.CRMEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON: "+err.Error())
		return
	}

	if errs := usecase.ValidateEventInput(event); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	if err := h.Service.TrackEvent(r.Context(), event); err != nil {
		middleware.RecordCRMSyncError("track_event")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (h *CRMHandler) ImportLeads(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Leads []entity.Lead `json:"leads"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON: "+err.Error())
		return
	}
	if len(input.Leads) == 0 {
		writeErrorResponse(w, http.StatusBadRequest, "EMPTY_IMPORT", "leads array is empty")
		return
	}

	for i, lead := range input.Leads {
		if errs := usecase.ValidateLeadInput(lead); len(errs) > 0 {
			writeErrorResponse(w, http.StatusBadRequest, "VALIDATION_ERROR", fmt.Sprintf("%s (lead index %d)", errs[0].Error(), i))
			return
		}
	}

	result := h.Service.ImportLeads(r.Context(), input.Leads)
	middleware.RecordImport(len(result.Successful), len(result.Failed))

	// Partial failure is a result, not an error.
	writeJSON(w, http.StatusOK, result)
}

func (h *CRMHandler) TestConnection(w http.ResponseWriter, r *http.Request) {
	ok := h.Service.TestConnection(r.Context())
	status := http.StatusOK
	if !ok {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]bool{"connected": ok})
}
