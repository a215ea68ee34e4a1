package queue

import "time"

// SendTask is an outbound SMS scheduled for delivery. NotBefore carries the
// humanized delay computed at webhook time; the worker holds the message
// until that instant passes.
type SendTask struct {
	To          string
	BrokerEmail string
	Body        string
	NotBefore   time.Time
	Attempt     int
}
