package storage

import (
	"context"

	"github.com/saaslens/saaslens/pkg/models"
)

type Storage interface {
	// Tool cache operations
	CreateTool(ctx context.Context, tool *models.Tool) error
	FindToolByName(ctx context.Context, key string) (*models.Tool, error)
	GetTool(ctx context.Context, id string) (*models.Tool, error)
	GetTools(ctx context.Context, limit, offset int) ([]models.Tool, int64, error)

	// Request log operations
	CreateRequestLog(ctx context.Context, log *models.RequestLog) error
	GetRequestLog(ctx context.Context, id uint) (*models.RequestLog, error)
	GetRequestLogs(ctx context.Context, limit, offset int) ([]models.RequestLog, int64, error)
	DeleteRequestLog(ctx context.Context, id uint) error
	DeleteAllRequestLogs(ctx context.Context) error

	// Lifecycle
	Close() error
}
