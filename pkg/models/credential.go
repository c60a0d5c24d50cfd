package models

import "time"

// Credential is an encrypted API key for an external service. The
// plaintext never reaches the store; sealing and opening happen in
// the secrets package.
type Credential struct {
	Service      string    `json:"service" validate:"required"`
	EncryptedKey string    `json:"encrypted_key"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
