package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Feature types as returned by the analysis model.
const (
	FeatureCore  = "core"
	FeatureBloat = "bloat"
)

// Feature is one entry of a tool's feature breakdown.
type Feature struct {
	Name string `json:"name" validate:"required"`
	Type string `json:"type" validate:"required,oneof=core bloat"`
}

// FeatureList is an ordered feature slice stored as a JSON text column.
type FeatureList []Feature

func (f FeatureList) Value() (driver.Value, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal features: %w", err)
	}
	return string(data), nil
}

func (f *FeatureList) Scan(value any) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, f)
	case string:
		return json.Unmarshal([]byte(v), f)
	case nil:
		*f = nil
		return nil
	default:
		return fmt.Errorf("unsupported features column type %T", value)
	}
}

// Tool is an analyzed SaaS product. Records are immutable after creation:
// repeated queries either hit an existing row or insert a new one.
type Tool struct {
	ID          string      `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt   time.Time   `json:"created_at"`
	Name        string      `gorm:"type:varchar(255);index;not null" json:"name"`
	Slug        string      `gorm:"type:varchar(255);index" json:"slug"`
	MonthlyCost float64     `json:"monthly_cost"`
	Features    FeatureList `gorm:"type:text" json:"features"`
}

func (t *Tool) BeforeCreate(_ *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
