// Package model defines domain entities for the application.
package model

// User represents a registered account.
//
// There is no password: the session token is the sole credential, carried
// by the client in the sessionId cookie. It is returned by the self-fetch
// endpoint, so it is stored and served in plaintext.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	SessionToken string `json:"session_token"`
}
