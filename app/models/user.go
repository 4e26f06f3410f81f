package models

import "time"

// User is one version of a user record. Reassigning a user's manager
// retires the row (is_active=false) and inserts a fresh one, so the id
// identifies a version, not the person.
type User struct {
	ID        string     `json:"user_id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	FullName  string     `json:"full_name" gorm:"not null" validate:"required"`
	MobNum    string     `json:"mob_num" gorm:"type:varchar(15);not null"`
	PanNum    string     `json:"pan_num" gorm:"type:varchar(10);not null"`
	ManagerID *string    `json:"manager_id" gorm:"type:uuid;index"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt *time.Time `json:"updated_at"`
	IsActive  bool       `json:"is_active" gorm:"default:true"`
}
