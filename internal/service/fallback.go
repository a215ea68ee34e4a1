package service

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"

	"purefunding.app/responder/internal/model"
)

var (
	greetingPattern  = regexp.MustCompile(`^(hi|hey|hello|howdy|yo|what's up|sup|good morning|good afternoon)`)
	goodbyePattern   = regexp.MustCompile(`(bye|talk later|not interested|another time|not now|busy|call back|later|no thanks)`)
	statementPattern = regexp.MustCompile(`(statement|bank|document|paperwork|send|email)`)
)

var emailTriggers = []string{"email", "e-mail", "contact", "reach you"}

// IsEmailQuestion reports whether the message asks for contact details.
// These inputs always get the deterministic email reply, even when the
// generative backend is available.
func IsEmailQuestion(message string) bool {
	lower := strings.ToLower(message)
	for _, trigger := range emailTriggers {
		if strings.Contains(lower, trigger) {
			return true
		}
	}
	return false
}

// EmailReply is the exact reply for email/contact questions.
func EmailReply(broker *model.Broker) string {
	return fmt.Sprintf("My email is %s", broker.Email)
}

// ResponseSets holds the scripted reply pools, one per category. Kept as
// configuration data so copy can be tuned without code changes.
type ResponseSets struct {
	Greeting         []string
	Goodbye          []string
	StatementRequest []string
	// Default entries may contain a %s placeholder for the broker email.
	Default []string
}

// DefaultResponseSets returns the production reply pools.
func DefaultResponseSets() ResponseSets {
	return ResponseSets{
		Greeting: []string{
			"hey there, what kind of business you running?",
			"hey what's your business about?",
			"how's business going?",
			"what sort of funding are you looking for?",
		},
		Goodbye: []string{
			"sounds good, talk soon",
			"no problem, reach out when ready",
			"ok let me know if anything changes",
			"got it, I'm here when you need",
		},
		StatementRequest: []string{
			"can you send over your last 4 months of bank statements?",
			"just need to see your last few months of statements",
			"shoot over those bank statements when you get a chance",
			"need your statements to get you the best options",
		},
		Default: []string{
			"hey shoot me an email at %s",
			"what's your monthly revenue looking like?",
			"how long have you been in business?",
			"how much funding are you looking for?",
			"what's the funding for specifically?",
		},
	}
}

// FallbackSelector picks a scripted reply when the generative backend is
// unavailable. Deterministic for email questions, uniformly random within
// the matched category otherwise. Never returns an empty string.
type FallbackSelector interface {
	Select(message string, broker *model.Broker) string
}

type fallbackSelector struct {
	sets ResponseSets
}

func NewFallbackSelector(sets ResponseSets) FallbackSelector {
	return &fallbackSelector{sets: sets}
}

func (s *fallbackSelector) Select(message string, broker *model.Broker) string {
	lower := strings.ToLower(message)

	if broker != nil && IsEmailQuestion(message) {
		return EmailReply(broker)
	}

	switch {
	case greetingPattern.MatchString(lower):
		return pick(s.sets.Greeting)
	case goodbyePattern.MatchString(lower):
		return pick(s.sets.Goodbye)
	case statementPattern.MatchString(lower):
		return pick(s.sets.StatementRequest)
	}

	reply := pick(s.sets.Default)
	if strings.Contains(reply, "%s") {
		email := "our support team"
		if broker != nil && broker.Email != "" {
			email = broker.Email
		}
		reply = fmt.Sprintf(reply, email)
	}
	return reply
}

func pick(responses []string) string {
	if len(responses) == 0 {
		return "what kind of funding are you looking for?"
	}
	return responses[rand.IntN(len(responses))]
}
