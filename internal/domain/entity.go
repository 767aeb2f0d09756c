package domain

import (
	"time"
)

// AssetInfo represents metadata for a tracked asset
type AssetInfo struct {
	Symbol       string    `gorm:"primaryKey" json:"symbol"`
	Name         string    `json:"name"`
	IconPath     string    `json:"icon_path"`
	IsActive     bool      `json:"is_active" gorm:"index"`   // Currently displayed on the dashboard
	IsFavorite   bool      `json:"is_favorite" gorm:"index"` // User favorite status
	LastSyncedAt time.Time `json:"last_synced_at"`           // Last icon sync time
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TickLog is the persisted form of one normalized tick. History served to
// the dashboard survives restarts through these rows.
type TickLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Symbol    string    `gorm:"index:idx_tick_symbol_ts" json:"symbol"`
	Timestamp int64     `gorm:"index:idx_tick_symbol_ts" json:"timestamp"` // epoch ms
	Price     string    `json:"price"`                                     // decimal string, KRW
	FxRate    string    `json:"fx_rate"`                                   // USD/KRW
	CreatedAt time.Time `json:"created_at"`
}

// TradeLog records an executed trade as reported by the submission
// collaborator.
type TradeLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	OrderID    string    `json:"order_id"`
	Symbol     string    `gorm:"index" json:"symbol"`
	Exchange   string    `json:"exchange"`
	Side       string    `json:"side"`
	Price      string    `json:"price"`
	Quantity   string    `json:"quantity"`
	FiatAmount string    `json:"fiat_amount"`
	Timestamp  time.Time `json:"timestamp"`
}

// APIKeyRecord stores an exchange API key reference. Only the masked form of
// the access key is ever written; key management itself is a collaborator.
type APIKeyRecord struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"uniqueIndex" json:"name"`
	Exchange        string    `json:"exchange"`
	AccessKeyMasked string    `json:"access_key_masked"`
	CreatedAt       time.Time `json:"created_at"`
}

// AppConfig represents user-specific configuration (Key-Value)
type AppConfig struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
