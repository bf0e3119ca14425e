package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/businessofone/crm-backend/internal/entity"
	"github.com/businessofone/crm-backend/internal/infra/http/middleware"
	"github.com/businessofone/crm-backend/internal/infra/queue"
	"github.com/businessofone/crm-backend/internal/usecase"
)

// CaptureHandler is the public marketing-form endpoint. It persists the lead
// locally first, then syncs to the CRM and queues the follow-up email. A
// vendor outage degrades the sync, never loses the lead.
type CaptureHandler struct {
	Service     *usecase.CRMService
	Repo        entity.CapturedLeadRepositoryInterface
	Producer    usecase.QueueProducerInterface
	rateLimiter *RateLimiter
}

func NewCaptureHandler(service *usecase.CRMService, repo entity.CapturedLeadRepositoryInterface, producer usecase.QueueProducerInterface) *CaptureHandler {
	return &CaptureHandler{
		Service:     service,
		Repo:        repo,
		Producer:    producer,
		rateLimiter: NewRateLimiter(10, time.Minute), // 10 req/min per IP
	}
}

type CaptureLeadResponse struct {
	Success bool   `json:"success"`
	Synced  bool   `json:"synced"`
	Message string `json:"message,omitempty"`
}

func (h *CaptureHandler) CaptureLead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	clientIP := getClientIP(r)
	if !h.rateLimiter.Allow(clientIP) {
		writeJSON(w, http.StatusTooManyRequests, CaptureLeadResponse{
			Success: false,
			Message: "Too many requests. Please try again later.",
		})
		return
	}

	var lead entity.Lead
	if err := json.NewDecoder(r.Body).Decode(&lead); err != nil {
		writeJSON(w, http.StatusBadRequest, CaptureLeadResponse{
			Success: false,
			Message: "Invalid JSON",
		})
		return
	}

	if errs := usecase.ValidateLeadInput(lead); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	score := usecase.CalculateLeadScore(lead)

	captured := &entity.CapturedLead{
		ID:         uuid.New().String(),
		Email:      lead.Email,
		FirstName:  lead.FirstName,
		LastName:   lead.LastName,
		LeadSource: lead.LeadSource,
		LeadScore:  score.Total,
		Category:   score.Category,
	}

	if err := h.Repo.Upsert(ctx, captured); err != nil {
		log.Printf("❌ capture: failed to persist lead %s: %v", lead.Email, err)
		writeJSON(w, http.StatusInternalServerError, CaptureLeadResponse{
			Success: false,
			Message: "Failed to capture lead",
		})
		return
	}

	middleware.RecordLeadCaptured(score.Category)

	// CRM sync is best-effort from the visitor's point of view: the lead is
	// already safe in the mirror.
	synced := true
	crmID := ""
	contact, err := h.Service.CreateLead(ctx, lead)
	if err != nil {
		synced = false
		log.Printf("⚠️ capture: CRM sync failed for %s: %v", lead.Email, err)
		middleware.RecordCRMSyncError("capture")
		if markErr := h.Repo.MarkFailed(ctx, lead.Email, err.Error()); markErr != nil {
			log.Printf("❌ capture: failed to mark sync failure for %s: %v", lead.Email, markErr)
		}
	} else {
		crmID = contact.ID
		if markErr := h.Repo.MarkSynced(ctx, lead.Email, contact.ID); markErr != nil {
			log.Printf("❌ capture: failed to mark sync for %s: %v", lead.Email, markErr)
		}
	}

	payload := queue.LeadCapturedPayload{
		LeadID:     captured.ID,
		Email:      lead.Email,
		FirstName:  lead.FirstName,
		LeadSource: lead.LeadSource,
		LeadScore:  score.Total,
		Category:   score.Category,
		CRMID:      crmID,
	}
	if err := h.Producer.PublishLeadCaptured(ctx, payload); err != nil {
		// Follow-up email is lost but the lead isn't. The DLQ catches
		// consumer-side failures; publish failures only get logged.
		log.Printf("⚠️ capture: failed to queue follow-up for %s: %v", lead.Email, err)
	}

	writeJSON(w, http.StatusOK, CaptureLeadResponse{
		Success: true,
		Synced:  synced,
	})
}

func getClientIP(r *http.Request) string {
	// X-Forwarded-For lists the client first, then each proxy hop. Only the
	// client counts for rate limiting.
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.Index(xff, ","); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
}

type visitor struct {
	count     int
	lastReset time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
	}

	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	now := time.Now()

	if !exists {
		rl.visitors[ip] = &visitor{count: 1, lastReset: now}
		return true
	}

	if now.Sub(v.lastReset) > rl.window {
		v.count = 1
		v.lastReset = now
		return true
	}

	v.count++
	return v.count <= rl.limit
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, v := range rl.visitors {
			if now.Sub(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}
