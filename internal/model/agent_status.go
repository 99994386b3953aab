package model

import (
	"time"
)

const (
	AgentStatusActive   = "active"
	AgentStatusInactive = "inactive"
)

// AgentStatus is the per-(user, platform) AI auto-reply flag. The status is
// persisted as the two-value string the dashboard schema has always used;
// no history is kept.
type AgentStatus struct {
	ID        int64     `json:"-" gorm:"column:id;primaryKey;autoIncrement"`
	UserID    int64     `json:"user_id" gorm:"column:user_id;uniqueIndex:idx_agent_statuses_user_platform,priority:1"`
	Platform  Platform  `json:"platform" gorm:"column:platform;size:16;uniqueIndex:idx_agent_statuses_user_platform,priority:2" validate:"required"`
	Status    string    `json:"status" gorm:"column:status;size:8;default:inactive"`
	CreatedAt time.Time `json:"created_at,omitempty" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at,omitempty" gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM.
func (AgentStatus) TableName() string {
	return "agent_statuses"
}

// Active reports whether the stored flag means auto-reply is enabled.
func (s AgentStatus) Active() bool {
	return s.Status == AgentStatusActive
}

// StatusString converts the API's boolean flag into the stored enum value.
func StatusString(active bool) string {
	if active {
		return AgentStatusActive
	}
	return AgentStatusInactive
}
