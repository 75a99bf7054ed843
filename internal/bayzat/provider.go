package bayzat

import (
	"context"
	"fmt"

	"github.com/spacemudd/clarimount2025-sub000/internal/db"
	"github.com/spacemudd/clarimount2025-sub000/internal/model"
	"github.com/spacemudd/clarimount2025-sub000/internal/secrets"
	apperrors "github.com/spacemudd/clarimount2025-sub000/pkg/errors"
)

// ConfigProvider hands the sync executor a company's Bayzat settings
// with the API key already decrypted. Injected explicitly so executors
// never reach for ambient configuration.
type ConfigProvider interface {
	CompanyConfig(ctx context.Context, companyID int64) (*model.BayzatCompanyConfig, error)
}

type repoConfigProvider struct {
	repo   db.Repository
	cipher *secrets.Cipher
}

func NewConfigProvider(repo db.Repository, cipher *secrets.Cipher) ConfigProvider {
	return &repoConfigProvider{repo: repo, cipher: cipher}
}

func (p *repoConfigProvider) CompanyConfig(ctx context.Context, companyID int64) (*model.BayzatCompanyConfig, error) {
	cfg, err := p.repo.GetBayzatConfig(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("%w: company %d", apperrors.ErrBayzatConfigMissing, companyID)
	}
	if !cfg.Enabled {
		return nil, fmt.Errorf("%w: company %d", apperrors.ErrBayzatConfigDisabled, companyID)
	}

	apiKey, err := p.cipher.Decrypt(cfg.APIKeyEncrypted)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt bayzat api key for company %d: %w", companyID, err)
	}
	cfg.APIKey = apiKey
	return cfg, nil
}
