package models

import "time"

// User represents a registered account. Users are created on signup and read
// on signin; this API never updates or deletes them.
//
// Password is stored as received. The signin contract compares the submitted
// password verbatim, so the column must hold the original value.
type User struct {
	ID        int       `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" db:"name" gorm:"type:text;not null"`
	Email     string    `json:"email" db:"email" gorm:"type:text;not null;uniqueIndex:idx_users_email"`
	Password  string    `json:"-" db:"password" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"not null"`
}
