// Package domain defines the canonical data shapes shared across the
// application: the confession record served to clients, its optional AI
// annotation, and the persistence models for admin accounts and sessions.
// The durable confession row is deliberately NOT defined here: its shape
// (including the externally-named "read" column) is private to the store
// adapter in internal/repo, which owns the mapping in both directions.
package domain

import "time"

// AIAnalysis is an optional structured annotation attached to a confession.
// No write path in this service produces one; rows that carry it (demo seed
// data, or annotations written by an external pipeline) are passed through
// read-only.
//
// Fields:
//   - SentimentScore: 0–10 integer sentiment estimate.
//   - Tags: ordered list of topic labels.
//   - Summary: one-line abstract of the content.
//   - RiskFlag: true when the content was judged concerning.
type AIAnalysis struct {
	SentimentScore int      `json:"sentimentScore"`
	Tags           []string `json:"tags"`
	Summary        string   `json:"summary"`
	RiskFlag       bool     `json:"riskFlag"`
}

// Confession is the canonical in-memory record. It is what the review
// controller holds, what handlers serialize, and what the CSV exporter
// consumes.
//
// Invariants:
//   - ID is assigned by the store at creation and never changes.
//   - Content is non-empty (after trimming) and at most 1000 characters;
//     it is immutable once created.
//   - CreatedAt is epoch milliseconds, assigned at creation.
//   - IsRead and Archived are independent flags; all four combinations are
//     valid. Both default to false at creation.
type Confession struct {
	ID         string      `json:"id"`
	Content    string      `json:"content"`
	CreatedAt  int64       `json:"createdAt"` // epoch milliseconds
	IsRead     bool        `json:"isRead"`
	Archived   bool        `json:"archived,omitempty"`
	AIAnalysis *AIAnalysis `json:"aiAnalysis,omitempty"`
}

// CreatedTime returns CreatedAt as a time.Time in UTC.
func (c Confession) CreatedTime() time.Time {
	return time.UnixMilli(c.CreatedAt).UTC()
}

// AdminUser is a reviewer account allowed to access the moderation endpoints.
// Passwords are stored as bcrypt hashes only.
type AdminUser struct {
	ID           string    `json:"id"    gorm:"type:char(36);primaryKey"`
	Email        string    `json:"email" gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string    `json:"-"     gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName returns the database table name for AdminUser.
func (AdminUser) TableName() string { return "admin_users" }

// Session is a server-side login session. The Token doubles as the primary
// key and is handed to the client as an opaque bearer credential. Logout
// deletes the row; expiry is enforced on every lookup.
type Session struct {
	Token     string    `json:"token"      gorm:"type:char(36);primaryKey"`
	AdminID   string    `json:"admin_id"   gorm:"type:char(36);not null;index"`
	Email     string    `json:"email"      gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index"`
}

// TableName returns the database table name for Session.
func (Session) TableName() string { return "sessions" }

// Expired reports whether the session is past its expiry at the given time.
func (s Session) Expired(now time.Time) bool { return !now.Before(s.ExpiresAt) }
