// Package models defines the typed records persisted by the repositories.
// Fields holding sensitive data (addresses, bank details, customs codes) are
// stored encrypted; the structs carry whatever form the current pipeline
// stage holds, the services decide when to encrypt and decrypt.
package models

import "time"

// Login provenance values for User.LoginType.
const (
	LoginTypeNormal = "normal"
	LoginTypeKakao  = "kakao"
	LoginTypeGoogle = "google"
	LoginTypeNaver  = "naver"
)

// User is an account. Created inactive at signup and activated via the
// e-mail auth code; deactivation ("dormant") just clears IsActive, accounts
// are never hard-deleted.
type User struct {
	ID           string
	Email        string
	Nickname     string
	PasswordHash string
	ProfileImage string
	AuthCode     string // empty when no code is outstanding
	LoginType    string
	CustomsCode  string // encrypted at rest
	IsAdmin      bool
	IsActive     bool
	IsSeller     bool
	CreatedAt    time.Time
}
