// Package domain defines the canonical data shapes for the application.
package domain

import "time"

// Idempotency records the outcome of a previously processed anonymous
// submission, keyed by the client-chosen Idempotency-Key. It lets a retried
// POST /api/confess return the original result without writing a second
// confession row.
type Idempotency struct {
	ID           string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	Key          string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_submission_key"`
	ConfessionID string    `gorm:"type:TEXT NOT NULL"`
	Status       int       `gorm:"type:INTEGER NOT NULL"`
	CreatedAt    time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt    time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }
