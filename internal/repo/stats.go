// Package repo implements the data persistence layer, backed by GORM. This
// file provides small aggregate queries used for conditional responses
// (ETag generation) in the HTTP layer.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// ConfessionStats returns aggregate metadata over the confessions table: the
// total number of rows and the greatest UpdatedAt among them. When the table
// is empty, count is 0 and maxUpdatedAt is nil.
//
// The pair changes whenever a row is created, deleted, or has a flag toggled,
// which makes it a cheap cache validator for the admin list endpoint.
func ConfessionStats(ctx context.Context, db *gorm.DB) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&confessionRow{})

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, storeErr("stats", err)
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, storeErr("stats", err)
	}
	return count, &row.UpdatedAt, nil
}
