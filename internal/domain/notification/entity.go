package notification

import (
	"database/sql"
	"time"
)

// Type represents notification type
type Type string

const (
	// Visit decisions
	TypeTenantInterested Type = "tenant_interested" // Owner: tenant wants the place, please decide
	TypeOwnerInterested  Type = "owner_interested"  // Tenant: owner wants you, please decide
	TypeVisitMatch       Type = "visit_match"       // Both: mutual interest, listing reserved

	// Communication
	TypeNewMessage Type = "message" // Recipient was offline when a chat message arrived
)

// Notification is a durable, append-only alert. Rows are created only by the
// dispatcher and mutated only by the owning user's read-state toggles.
type Notification struct {
	ID        int64        `gorm:"column:id;primaryKey" json:"id"`
	UserID    int64        `gorm:"column:user_id;index:idx_notifications_user_unread" json:"user_id"`
	Type      Type         `gorm:"column:type" json:"type"`
	Title     string       `gorm:"column:title" json:"title"`
	Message   string       `gorm:"column:message" json:"message"`
	RelatedID int64        `gorm:"column:related_id" json:"related_id,omitempty"`
	IsRead    bool         `gorm:"column:is_read;index:idx_notifications_user_unread" json:"is_read"`
	ReadAt    sql.NullTime `gorm:"column:read_at" json:"read_at,omitempty"`
	CreatedAt time.Time    `gorm:"column:created_at" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }

// MarkAsRead marks notification as read with timestamp
func (n *Notification) MarkAsRead() {
	n.IsRead = true
	n.ReadAt = sql.NullTime{Time: time.Now(), Valid: true}
}
