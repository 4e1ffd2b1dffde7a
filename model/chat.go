package model

// ChatMessage is a single message in the site-wide chat. The id is assigned
// by the message store on write; the timestamp (epoch milliseconds, assigned
// at write time) is the sole sort key, with ties broken by id.
//
// Messages are never mutated or deleted by this service; they live for as
// long as the store retains them. The JSON field names match the records the
// original web client wrote, so existing data stays readable.
type ChatMessage struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
	Username  string `json:"username"`
	IsAdmin   bool   `json:"isAdmin"`
}

// AdminCredential is the single stored admin record, point-read from the
// store under the fixed "user/admin" key.
type AdminCredential struct {
	Password string `json:"password"`
}
