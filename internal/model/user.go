package model

import (
	"time"
)

// User is a dashboard operator account. Immutable after creation except
// for the password hash.
type User struct {
	ID           int64     `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Email        string    `json:"email" gorm:"column:email;uniqueIndex;size:255" validate:"required,email"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;size:255"`
	DatabaseName string    `json:"database_name,omitempty" gorm:"column:database_name;size:64"`
	CreatedAt    time.Time `json:"created_at,omitempty" gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM.
func (User) TableName() string {
	return "users"
}

// Sanitized returns a copy safe to hand to API clients. The password hash
// is already excluded from JSON, this also strips it from the struct so it
// cannot leak through logging or re-marshalling.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}
