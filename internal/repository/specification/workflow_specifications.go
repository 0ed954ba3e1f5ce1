package specification

import (
	"time"

	"gorm.io/gorm"
)

// ByQuery filters runs by the exact search term.
type ByQuery struct {
	Query string
}

func (s ByQuery) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("query = ?", s.Query)
}

// ByCategory filters runs by product category.
type ByCategory struct {
	Category string
}

func (s ByCategory) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("category = ?", s.Category)
}

// ByStep filters runs by their terminal step marker.
type ByStep struct {
	Step string
}

func (s ByStep) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("step = ?", s.Step)
}

// CompletedSince keeps runs completed at or after the cutoff.
type CompletedSince struct {
	Cutoff time.Time
}

func (s CompletedSince) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("completed_at >= ?", s.Cutoff)
}

// Degraded keeps runs that recorded at least one error.
type Degraded struct{}

func (s Degraded) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("error_count > 0")
}
