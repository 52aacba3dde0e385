package models

import (
	"gorm.io/gorm"
)

// User mirrors the identity provider's display metadata. Subject is the
// provider's stable identifier and is treated as opaque everywhere else.
type User struct {
	gorm.Model
	Subject  string `gorm:"uniqueIndex" json:"subject"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}
