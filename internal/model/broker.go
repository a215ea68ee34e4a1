package model

import "time"

// Broker is a funding specialist whose identity the auto-responder replies as.
// Broker records are owned by the admin directory; the core only reads them.
type Broker struct {
	ID          int64
	Name        string
	Email       string // unique company email, quoted verbatim in replies
	KixieEmail  string // telephony-provider alias email used for webhook matching
	PhoneNumber string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
