/**
 * @description
 * Account domain model for the credential vault. The stored service password
 * is encrypted at rest (AES-256-GCM); the ciphertext and nonce columns are
 * never serialized into API responses.
 */
package domain

import "time"

// Account stores a user's login credentials for an external service.
type Account struct {
	ID                 string    `json:"accountId"`
	UserID             string    `json:"-"`
	ServiceName        string    `json:"serviceName"`
	LoginID            string    `json:"loginId"`
	PasswordCiphertext string    `json:"-"`
	PasswordNonce      string    `json:"-"`
	URL                string    `json:"url,omitempty"`
	CategoryID         string    `json:"categoryId,omitempty"`
	Tags               string    `json:"tags,omitempty"`
	Notes              string    `json:"notes,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}
