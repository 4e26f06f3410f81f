package models

type Manager struct {
	ID       string `json:"manager_id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	FullName string `json:"full_name" gorm:"not null" validate:"required"`
	Email    string `json:"email" gorm:"uniqueIndex;not null" validate:"required,email"`
	IsActive bool   `json:"is_active" gorm:"default:true"`
}
