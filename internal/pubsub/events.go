package pubsub

import "time"

// SessionEstablished is published whenever a browser session becomes
// authenticated, whatever the method.
type SessionEstablished struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
	// Method is "password", "register" or an OAuth provider name.
	Method string `json:"method"`
	// BrowserID identifies the browser that started the flow, so screens
	// waiting in that browser can react.
	BrowserID  string    `json:"browser_id,omitempty"`
	IP         string    `json:"ip,omitempty"`
	NewAccount bool      `json:"new_account"`
	At         time.Time `json:"at"`
}

// SessionEstablishedEvent is the topic for SessionEstablished.
var SessionEstablishedEvent = NewEvent[SessionEstablished]("auth.session.established")
