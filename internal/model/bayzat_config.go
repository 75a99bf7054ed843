package model

import "time"

// BayzatCompanyConfig holds one company's Bayzat credentials and
// preferences. The API key is stored encrypted; the config provider
// hands the executor a decrypted copy. Read-only to the sync pipeline.
type BayzatCompanyConfig struct {
	ID              int64             `json:"id" db:"id"`
	CompanyID       int64             `json:"company_id" db:"company_id"`
	APIKeyEncrypted string            `json:"-" db:"api_key_encrypted"`
	APIKey          string            `json:"-" db:"-"`
	Endpoint        string            `json:"endpoint" db:"endpoint"`
	Enabled         bool              `json:"enabled" db:"enabled"`
	SyncFrequency   string            `json:"sync_frequency" db:"sync_frequency"`
	LastSyncAt      *time.Time        `json:"last_sync_at,omitempty" db:"last_sync_at"`
	Settings        map[string]string `json:"settings,omitempty" db:"settings"`
	CreatedAt       time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at" db:"updated_at"`
}
