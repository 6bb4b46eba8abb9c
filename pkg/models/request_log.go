package models

import (
	"time"

	"gorm.io/gorm"
)

// Request sources.
const (
	SourceREST = "rest"
	SourceMCP  = "mcp"
)

// RequestLog is an audit row written after each analyze/translate request.
type RequestLog struct {
	ID           uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
	Source       string         `gorm:"type:varchar(16);index" json:"source"`
	Operation    string         `gorm:"type:varchar(64);index;not null" json:"operation"`
	InputJSON    string         `gorm:"type:text" json:"input_json"`
	OutputJSON   string         `gorm:"type:text" json:"output_json,omitempty"`
	ErrorMessage string         `gorm:"type:text" json:"error_message,omitempty"`
	DurationMs   int64          `json:"duration_ms"`
	CacheHit     bool           `json:"cache_hit"`
	Success      bool           `gorm:"index" json:"success"`
}
