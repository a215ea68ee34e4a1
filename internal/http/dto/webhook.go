package dto

import "strings"

// SMSEvent is the inbound telephony webhook payload. Kixie wraps the event
// under "data" on some routes and sends it flat on others, so both shapes are
// accepted and flattened before use.
type SMSEvent struct {
	Data *SMSEventFields `json:"data,omitempty"`
	SMSEventFields
}

type SMSEventFields struct {
	Direction      string `json:"direction"`
	From           string `json:"from"`
	To             string `json:"to"`
	BusinessNumber string `json:"businessnumber"`
	Message        string `json:"message"`
	Email          string `json:"email"`
}

// Normalize flattens the payload, preferring the nested "data" object when
// present.
func (e SMSEvent) Normalize() SMSEventFields {
	fields := e.SMSEventFields
	if e.Data != nil {
		fields = *e.Data
	}

	if fields.BusinessNumber == "" {
		fields.BusinessNumber = fields.To
	}
	fields.Direction = strings.ToLower(strings.TrimSpace(fields.Direction))
	return fields
}

// IsIncoming reports whether the event is a customer-originated message.
// Only an explicit "incoming" direction qualifies; a missing or unknown
// direction is log-only, so echoes of our own sends can never trigger a
// reply.
func (f SMSEventFields) IsIncoming() bool {
	return f.Direction == "incoming"
}

type WebhookResponse struct {
	Success  bool   `json:"success"`
	Response string `json:"response,omitempty"`
	Delay    int    `json:"delay,omitempty"`
	Message  string `json:"message,omitempty"`
}
