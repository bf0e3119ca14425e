package database

import (
	"context"
	"database/sql"

	"github.com/businessofone/crm-backend/internal/entity"
)

// CapturedLeadRepository mirrors marketing-form submissions locally, keyed by
// email. The mirror is the durability net for CRM vendor outages.
type CapturedLeadRepository struct {
	DB *sql.DB
}

func NewCapturedLeadRepository(db *sql.DB) *CapturedLeadRepository {
	return &CapturedLeadRepository{DB: db}
}

func (r *CapturedLeadRepository) Upsert(ctx context.Context, lead *entity.CapturedLead) error {
	query := `
		INSERT INTO captured_leads (id, email, first_name, last_name, lead_source, lead_score, category, sync_status, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (email)
		DO UPDATE SET
			first_name = COALESCE(NULLIF(EXCLUDED.first_name, ''), captured_leads.first_name),
			last_name = COALESCE(NULLIF(EXCLUDED.last_name, ''), captured_leads.last_name),
			lead_source = COALESCE(NULLIF(EXCLUDED.lead_source, ''), captured_leads.lead_source),
			lead_score = EXCLUDED.lead_score,
			category = EXCLUDED.category,
			updated_at = NOW()
		RETURNING id, created_at, updated_at, sync_status
	`

	return r.DB.QueryRowContext(
		ctx,
		query,
		lead.ID,
		lead.Email,
		lead.FirstName,
		lead.LastName,
		lead.LeadSource,
		lead.LeadScore,
		lead.Category,
		entity.SyncStatusPending,
	).Scan(
		&lead.ID,
		&lead.CreatedAt,
		&lead.UpdatedAt,
		&lead.SyncStatus,
	)
}

func (r *CapturedLeadRepository) FindByEmail(ctx context.Context, email string) (*entity.CapturedLead, error) {
	query := `
		SELECT id, email, first_name, last_name, lead_source, lead_score, category,
		       COALESCE(crm_id, ''), sync_status, COALESCE(sync_error, ''), created_at, updated_at
		FROM captured_leads
		WHERE email = $1
	`

	var lead entity.CapturedLead
	err := r.DB.QueryRowContext(ctx, query, email).Scan(
		&lead.ID,
		&lead.Email,
		&lead.FirstName,
		&lead.LastName,
		&lead.LeadSource,
		&lead.LeadScore,
		&lead.Category,
		&lead.CRMID,
		&lead.SyncStatus,
		&lead.SyncError,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &lead, nil
}

func (r *CapturedLeadRepository) MarkSynced(ctx context.Context, email, crmID string) error {
	query := `
		UPDATE captured_leads
		SET crm_id = $2, sync_status = $3, sync_error = NULL, updated_at = NOW()
		WHERE email = $1
	`
	_, err := r.DB.ExecContext(ctx, query, email, crmID, entity.SyncStatusSynced)
	return err
}

func (r *CapturedLeadRepository) MarkFailed(ctx context.Context, email, reason string) error {
	query := `
		UPDATE captured_leads
		SET sync_status = $2, sync_error = $3, updated_at = NOW()
		WHERE email = $1
	`
	_, err := r.DB.ExecContext(ctx, query, email, entity.SyncStatusFailed, reason)
	return err
}
