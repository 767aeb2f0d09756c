package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hangerine/coin-trader/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Storage persists everything the dashboard wants back after a restart:
// tick history, executed trades, the asset catalog, masked API key records,
// and user config. The live series/window state is deliberately not here.
type Storage struct {
	db *gorm.DB
}

// NewStorage creates a SQLite storage instance under the user config dir.
func NewStorage() (*Storage, error) {
	dbPath, err := getDBPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve DB path: %w", err)
	}
	return NewStorageAt(dbPath)
}

// NewStorageAt opens (and migrates) the database at an explicit path.
func NewStorageAt(dbPath string) (*Storage, error) {
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create DB directory: %w", err)
	}

	// Pure Go SQLite
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(
		&domain.AssetInfo{},
		&domain.TickLog{},
		&domain.TradeLog{},
		&domain.APIKeyRecord{},
		&domain.AppConfig{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Storage{db: db}, nil
}

// getDBPath resolves the database file path inside the user config dir.
func getDBPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "CoinTrader", "data", "cointrader.db"), nil
}

// ======================================================================================
// Asset Operations
// ======================================================================================

// UpsertAsset creates or updates asset metadata
func (s *Storage) UpsertAsset(asset *domain.AssetInfo) error {
	return s.db.Save(asset).Error
}

// GetAsset retrieves asset metadata by symbol
func (s *Storage) GetAsset(symbol string) (*domain.AssetInfo, error) {
	var asset domain.AssetInfo
	err := s.db.First(&asset, "symbol = ?", symbol).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // Not found is not an error
	}
	return &asset, err
}

// GetAllAssets retrieves all assets
func (s *Storage) GetAllAssets() ([]domain.AssetInfo, error) {
	var assets []domain.AssetInfo
	err := s.db.Find(&assets).Error
	return assets, err
}

// ToggleFavorite toggles the favorite status of an asset
func (s *Storage) ToggleFavorite(symbol string) (bool, error) {
	var asset domain.AssetInfo
	if err := s.db.First(&asset, "symbol = ?", symbol).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, domain.ErrUnknownAsset
		}
		return false, err
	}

	asset.IsFavorite = !asset.IsFavorite
	err := s.db.Save(&asset).Error
	return asset.IsFavorite, err
}

// DeleteAsset removes an asset from the catalog
func (s *Storage) DeleteAsset(symbol string) error {
	return s.db.Where("symbol = ?", symbol).Delete(&domain.AssetInfo{}).Error
}

// ======================================================================================
// Tick History
// ======================================================================================

// SaveTick persists one normalized tick.
func (s *Storage) SaveTick(symbol string, tick domain.Tick) error {
	row := domain.TickLog{
		Symbol:    symbol,
		Timestamp: tick.Timestamp,
		Price:     tick.Value.String(),
		FxRate:    tick.FxRate.String(),
	}
	return s.db.Create(&row).Error
}

// RecentTicks returns up to limit most recent ticks for a symbol, oldest
// first so the dashboard can chart them directly.
func (s *Storage) RecentTicks(symbol string, limit int) ([]domain.TickLog, error) {
	if limit <= 0 {
		limit = 500
	}
	var rows []domain.TickLog
	err := s.db.Where("symbol = ?", symbol).
		Order("timestamp DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	// Reverse into chronological order
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return rows, nil
}

// ======================================================================================
// Trades
// ======================================================================================

// SaveTrade records an executed fill.
func (s *Storage) SaveTrade(fill domain.Fill) error {
	row := domain.TradeLog{
		OrderID:    fill.OrderID,
		Symbol:     fill.Symbol,
		Exchange:   fill.Exchange,
		Side:       fill.Side,
		Price:      fill.Price.String(),
		Quantity:   fill.Quantity.String(),
		FiatAmount: fill.FiatAmount.String(),
		Timestamp:  fill.ExecutedAt,
	}
	return s.db.Create(&row).Error
}

// RecentTrades returns up to limit most recent trades, newest first.
func (s *Storage) RecentTrades(limit int) ([]domain.TradeLog, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []domain.TradeLog
	err := s.db.Order("timestamp DESC").Limit(limit).Find(&rows).Error
	return rows, err
}

// ======================================================================================
// API Keys
// ======================================================================================

// SaveAPIKey stores a key record. The access key is masked before it ever
// reaches the database; the full secret lives with the key-management
// collaborator.
func (s *Storage) SaveAPIKey(name, exchange, accessKey string) error {
	rec := domain.APIKeyRecord{
		Name:            name,
		Exchange:        exchange,
		AccessKeyMasked: maskKey(accessKey),
		CreatedAt:       time.Now(),
	}
	return s.db.Create(&rec).Error
}

// GetAPIKeys lists all stored key records (masked).
func (s *Storage) GetAPIKeys() ([]domain.APIKeyRecord, error) {
	var keys []domain.APIKeyRecord
	err := s.db.Find(&keys).Error
	return keys, err
}

// maskKey keeps the first and last four characters visible.
func maskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****" + key[len(key)-4:]
}

// ======================================================================================
// Config Operations
// ======================================================================================

// SaveConfig saves a user configuration
func (s *Storage) SaveConfig(key, value string) error {
	config := domain.AppConfig{
		Key:   key,
		Value: value,
	}
	return s.db.Save(&config).Error
}

// LoadConfigMap loads all user configurations as a map
func (s *Storage) LoadConfigMap() (map[string]string, error) {
	var configs []domain.AppConfig
	if err := s.db.Find(&configs).Error; err != nil {
		return nil, err
	}

	result := make(map[string]string)
	for _, cfg := range configs {
		result[cfg.Key] = cfg.Value
	}
	return result, nil
}
