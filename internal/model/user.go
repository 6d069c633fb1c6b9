// Package model defines the data structures used throughout the application.
package model

// User represents a registered account backed by one row in the users table.
//
// WHY json:"-" ON PasswordHash?
// The stored record includes the bcrypt hash, but no API response should ever
// carry it. Tagging the field with "-" makes the redaction structural — every
// handler that encodes a User gets it for free, instead of each handler
// remembering to strip the field.
//
// WHY ID int64?
// The id column is INTEGER PRIMARY KEY AUTOINCREMENT — the storage engine
// assigns it. int64 matches what database/sql returns from LastInsertId.
type User struct {
	ID           int64  `json:"id"       db:"id"`
	Username     string `json:"username" db:"username"` // unique across all rows
	PasswordHash string `json:"-"        db:"password"` // bcrypt hash, never plaintext after registration
	Email        string `json:"email"    db:"email"`    // unique across all rows
}
