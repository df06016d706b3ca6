package models

import (
	"time"
)

// Audit actions
const (
	AuditActionCreate  = "CREATE"
	AuditActionUpdate  = "UPDATE"
	AuditActionDelete  = "DELETE"
	AuditActionConfirm = "CONFIRM"
	AuditActionCancel  = "CANCEL"
	AuditActionDeliver = "DELIVER"
	AuditActionReject  = "REJECT"
	AuditActionClose   = "CLOSE"
)

// AuditLog records who did what to which financial record
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ActorID   uint      `gorm:"not null;index" json:"actor_id"`
	Action    string    `gorm:"size:50;not null" json:"action"`
	Entity    string    `gorm:"size:50;not null;index:idx_audit_logs_entity,priority:1" json:"entity"` // Order, Payment, LedgerEntry, DailyBalance
	EntityID  uint      `gorm:"index:idx_audit_logs_entity,priority:2" json:"entity_id"`
	Details   string    `gorm:"type:text" json:"details"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}
