// Package repo implements the data persistence layer, backed by GORM. This
// file seeds demo confessions so the review dashboard is populated on a
// fresh database without any credential or data setup.
package repo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/https-aaryannn/anonbox/internal/domain"
)

// SeedDemoConfessions inserts a handful of sample rows when the confessions
// table is empty. One row carries an AI annotation so the read-only
// passthrough (and its CSV columns) is exercised. Existing data is never
// touched.
func SeedDemoConfessions(ctx context.Context, db *gorm.DB) error {
	var count int64
	if err := db.WithContext(ctx).Model(&confessionRow{}).Count(&count).Error; err != nil {
		return storeErr("seed", err)
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	annotation, _ := json.Marshal(domain.AIAnalysis{
		SentimentScore: 8,
		Tags:           []string{"Kindness", "Neighbors", "Secret"},
		Summary:        "User secretly helps neighbor with plants.",
		RiskFlag:       false,
	})
	blob := string(annotation)

	rows := []confessionRow{
		{
			ID:         uuid.NewString(),
			Content:    "I secretly water my neighbor's plants when they are on vacation because I saw them dying. They think they have a green thumb now.",
			CreatedAt:  now.Add(-10000 * time.Second),
			Read:       true,
			AIAnalysis: &blob,
		},
		{
			ID:        uuid.NewString(),
			Content:   "I feel incredibly lonely in this big city. Everyone seems so busy and connected, but I haven't spoken to a real person in days.",
			CreatedAt: now.Add(-5000 * time.Second),
		},
		{
			ID:        uuid.NewString(),
			Content:   "I ate the last piece of cake and blamed it on the dog. I have no regrets.",
			CreatedAt: now.Add(-200 * time.Second),
		},
	}

	for i := range rows {
		if err := db.WithContext(ctx).Create(&rows[i]).Error; err != nil {
			return storeErr("seed", err)
		}
	}
	return nil
}
