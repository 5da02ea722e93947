package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin || r == RoleSuperadmin
}

// Elevated reports whether r grants support-agent access (admin or superadmin).
func (r Role) Elevated() bool {
	return r == RoleAdmin || r == RoleSuperadmin
}

type TicketStatus string

const (
	TicketStatusOpen    TicketStatus = "open"
	TicketStatusWaiting TicketStatus = "Waiting for user response"
	TicketStatusClosed  TicketStatus = "closed"
)

// ActiveStatuses are the statuses counted against the per-user ticket cap.
func ActiveStatuses() []TicketStatus {
	return []TicketStatus{TicketStatusOpen, TicketStatusWaiting}
}

// ReplyBySupport is recorded as the author of admin and superadmin replies.
const ReplyBySupport = "Support"

type User struct {
	Email        string    `gorm:"primaryKey;type:varchar(255)" json:"email"`
	Role         Role      `gorm:"type:varchar(16);not null;default:'user'" json:"role"`
	LastLogin    time.Time `json:"lastLogin"`
	LastLoginIP  string    `gorm:"type:varchar(64)" json:"lastLoginIp"`
	FirstLoginIP string    `gorm:"type:varchar(64)" json:"firstLoginIp"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Ticket struct {
	ID          string       `gorm:"type:uuid;primaryKey" json:"id"`
	Email       string       `gorm:"type:varchar(255);index;not null" json:"email"`
	GraalID     string       `gorm:"column:graalid;type:varchar(255);not null" json:"graalid"`
	Game        string       `gorm:"type:varchar(64);not null" json:"game"`
	Installed   string       `gorm:"type:varchar(8);not null" json:"installed"`
	Started     *string      `gorm:"type:varchar(8)" json:"started"`
	ProblemType *string      `gorm:"type:varchar(64)" json:"problemType"`
	SubProblem  *string      `gorm:"type:varchar(64)" json:"subProblem"`
	Description string       `gorm:"type:text;not null" json:"description"`
	Status      TicketStatus `gorm:"type:varchar(32);index;not null" json:"status"`
	// AssignedAdmin is sticky: set once on the first elevated reply, never by
	// later replies from other agents. Omitted from non-elevated list responses.
	AssignedAdmin *string `gorm:"type:varchar(255);index" json:"assignedAdmin"`
	Replies       []Reply `gorm:"foreignKey:TicketID" json:"replies"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (t *Ticket) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// Reply is an append-only entry in a ticket's conversation. By holds the
// author email, or ReplyBySupport for agent replies.
type Reply struct {
	ID       uint64    `gorm:"primaryKey" json:"-"`
	TicketID string    `gorm:"type:uuid;index;not null" json:"-"`
	Text     string    `gorm:"type:text;not null" json:"text"`
	By       string    `gorm:"column:author;type:varchar(255);not null" json:"by"`
	Date     time.Time `gorm:"not null" json:"date"`
}

// AuthCode is a one-time login code. Rows are never deleted: a code is
// consumed logically by the 15-minute window check, not by removal.
type AuthCode struct {
	ID        uint64    `gorm:"primaryKey" json:"-"`
	Email     string    `gorm:"type:varchar(255);index:idx_auth_codes_email_code;not null" json:"email"`
	Code      string    `gorm:"type:varchar(6);index:idx_auth_codes_email_code;not null" json:"code"`
	IP        string    `gorm:"type:varchar(64)" json:"ip"`
	CreatedAt time.Time `json:"createdAt"`
}

// NormalizeEmail lowercases and trims an address the way every lookup and
// write in the system expects it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
