package integration

import (
	"fmt"

	"github.com/businessofone/crm-backend/internal/config"
	"github.com/businessofone/crm-backend/internal/infra/integration/hubspot"
	"github.com/businessofone/crm-backend/internal/usecase"
)

// NewConnector instantiates the connector for the configured provider.
// Unsupported providers fail here, at construction, not on first use.
func NewConnector(cfg config.CRMConfig) (usecase.CRMConnector, error) {
	switch cfg.Provider {
	case "hubspot":
		token := cfg.AccessToken
		if token == "" {
			token = cfg.APIKey
		}
		if token == "" {
			return nil, &usecase.DomainError{
				Code:    "MISSING_CREDENTIALS",
				Message: "hubspot access token is not configured",
			}
		}

		var opts []func(*hubspot.Client)
		if cfg.BaseURL != "" {
			opts = append(opts, hubspot.WithBaseURL(cfg.BaseURL))
		}
		return hubspot.NewClient(token, opts...), nil

	case "salesforce", "pipedrive":
		return nil, &usecase.DomainError{
			Code:    "PROVIDER_NOT_IMPLEMENTED",
			Message: fmt.Sprintf("crm provider %q is not implemented yet", cfg.Provider),
		}

	default:
		return nil, &usecase.DomainError{
			Code:    "UNSUPPORTED_PROVIDER",
			Message: fmt.Sprintf("unsupported crm provider: %q", cfg.Provider),
		}
	}
}
