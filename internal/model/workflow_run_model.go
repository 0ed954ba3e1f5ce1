package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type WorkflowRun struct {
	Id               uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Query            string         `gorm:"type:varchar(500);not null;index"`
	Category         string         `gorm:"type:varchar(32);not null;index"`
	Step             string         `gorm:"type:varchar(64);not null"`
	MarketData       datatypes.JSON `gorm:"type:jsonb"`
	PriceAnalysis    datatypes.JSON `gorm:"type:jsonb"`
	ComplianceChecks datatypes.JSON `gorm:"type:jsonb"`
	Recommendation   datatypes.JSON `gorm:"type:jsonb"`
	Errors           datatypes.JSON `gorm:"type:jsonb"`
	ErrorCount       int            `gorm:"not null;default:0"`
	ExecutionTime    float64        `gorm:"not null;default:0"`
	CompletedAt      time.Time      `gorm:"not null"`
	CreatedAt        time.Time      `gorm:"autoCreateTime"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime"`
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}

func (WorkflowRun) TableName() string {
	return "workflow_runs"
}
