package models

import "time"

// Audit actions recorded by the gateway.
const (
	AuditActionLogin      = "LOGIN"
	AuditActionLogout     = "LOGOUT"
	AuditActionCMSCreate  = "CMS_CREATE"
	AuditActionCMSUpdate  = "CMS_UPDATE"
	AuditActionCMSDelete  = "CMS_DELETE"
	AuditActionCMSReorder = "CMS_REORDER"
	AuditActionApprove    = "READMISSION_APPROVE"
	AuditActionReject     = "READMISSION_REJECT"
	AuditActionExport     = "EXPORT"
	AuditActionUpload     = "UPLOAD"
)

// AuditLog records a single admin action.
type AuditLog struct {
	ID         string    `json:"id" db:"id"`
	Actor      string    `json:"actor" db:"actor"`
	Action     string    `json:"action" db:"action"`
	Resource   string    `json:"resource" db:"resource"`
	ResourceID *string   `json:"resourceId,omitempty" db:"resource_id"`
	Detail     []byte    `json:"detail,omitempty" db:"detail"`
	IPAddress  string    `json:"ipAddress,omitempty" db:"ip_address"`
	UserAgent  string    `json:"userAgent,omitempty" db:"user_agent"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// AuditFilter narrows audit listings.
type AuditFilter struct {
	Actor    *string
	Action   *string
	Resource *string
	Limit    int
	Offset   int
}
