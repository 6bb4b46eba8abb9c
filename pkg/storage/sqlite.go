package storage

import (
	"context"
	"fmt"

	"github.com/saaslens/saaslens/pkg/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type SQLiteStorage struct {
	db *gorm.DB
}

type Config struct {
	DatabasePath string
	Debug        bool
}

func NewSQLiteStorage(cfg Config) (*SQLiteStorage, error) {
	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}

	database, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	// Auto-migrate schema
	if err := database.AutoMigrate(&models.Tool{}, &models.RequestLog{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &SQLiteStorage{db: database}, nil
}

func (s *SQLiteStorage) CreateTool(ctx context.Context, tool *models.Tool) error {
	return s.db.WithContext(ctx).Create(tool).Error
}

// FindToolByName returns the newest record whose stored name contains key as a
// substring. instr() is used instead of LIKE because SQLite LIKE is
// case-insensitive for ASCII and the containment rule is case-sensitive.
func (s *SQLiteStorage) FindToolByName(ctx context.Context, key string) (*models.Tool, error) {
	var tool models.Tool
	err := s.db.WithContext(ctx).
		Where("instr(name, ?) > 0", key).
		Order("created_at DESC").
		First(&tool).Error
	if err != nil {
		return nil, err
	}
	return &tool, nil
}

func (s *SQLiteStorage) GetTool(ctx context.Context, id string) (*models.Tool, error) {
	var tool models.Tool
	err := s.db.WithContext(ctx).First(&tool, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &tool, nil
}

func (s *SQLiteStorage) GetTools(ctx context.Context, limit, offset int) ([]models.Tool, int64, error) {
	var tools []models.Tool
	var total int64

	s.db.WithContext(ctx).Model(&models.Tool{}).Count(&total)

	query := s.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	err := query.Find(&tools).Error
	return tools, total, err
}

func (s *SQLiteStorage) CreateRequestLog(ctx context.Context, log *models.RequestLog) error {
	return s.db.WithContext(ctx).Create(log).Error
}

func (s *SQLiteStorage) GetRequestLog(ctx context.Context, id uint) (*models.RequestLog, error) {
	var log models.RequestLog
	err := s.db.WithContext(ctx).First(&log, id).Error
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func (s *SQLiteStorage) GetRequestLogs(ctx context.Context, limit, offset int) ([]models.RequestLog, int64, error) {
	var logs []models.RequestLog
	var total int64

	s.db.WithContext(ctx).Model(&models.RequestLog{}).Count(&total)

	query := s.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	err := query.Find(&logs).Error
	return logs, total, err
}

func (s *SQLiteStorage) DeleteRequestLog(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Delete(&models.RequestLog{}, id).Error
}

func (s *SQLiteStorage) DeleteAllRequestLogs(ctx context.Context) error {
	return s.db.WithContext(ctx).Where("1 = 1").Delete(&models.RequestLog{}).Error
}

func (s *SQLiteStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
