package model

import "time"

// User is a dispatcher account — table miosphere_users.
// Password holds the bcrypt hash, never the plaintext.
type User struct {
	ID        int       `gorm:"primaryKey"                    json:"id"`
	Username  string    `gorm:"type:nvarchar(50);uniqueIndex" json:"username"`
	Password  string    `gorm:"type:nvarchar(255)"            json:"-"`
	Fullname  string    `gorm:"type:nvarchar(100)"            json:"fullname"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName pins the legacy table name.
func (User) TableName() string { return "miosphere_users" }
