package queue_test

import (
	"time"

	"github.com/redis/go-redis/v9"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"purefunding.app/responder/internal/queue"
)

var _ = Describe("ParseMessage", func() {
	It("parses a fully populated send", func() {
		notBefore := time.Now().Add(130 * time.Second).Truncate(time.Second)

		msg, err := queue.ParseMessage(redis.XMessage{
			ID: "1-0",
			Values: map[string]any{
				"to":           "3035551234",
				"broker_email": "jane@kixie.purefunding.app",
				"body":         "hey whats your business about?",
				"not_before":   notBefore.Unix(),
				"attempt":      "2",
			},
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(msg.ID).To(Equal("1-0"))
		Expect(msg.To).To(Equal("3035551234"))
		Expect(msg.BrokerEmail).To(Equal("jane@kixie.purefunding.app"))
		Expect(msg.Body).To(Equal("hey whats your business about?"))
		Expect(msg.NotBefore.Unix()).To(Equal(notBefore.Unix()))
		Expect(msg.Attempt).To(Equal(2))
	})

	It("defaults attempt to 1 and tolerates missing schedule", func() {
		msg, err := queue.ParseMessage(redis.XMessage{
			ID: "1-1",
			Values: map[string]any{
				"to":   "3035551234",
				"body": "hello",
			},
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(msg.Attempt).To(Equal(1))
		Expect(msg.NotBefore.IsZero()).To(BeTrue())
	})

	It("rejects a message without a recipient", func() {
		_, err := queue.ParseMessage(redis.XMessage{
			ID:     "1-2",
			Values: map[string]any{"body": "hello"},
		})
		Expect(err).To(MatchError(ContainSubstring("missing to")))
	})

	It("rejects a message without a body", func() {
		_, err := queue.ParseMessage(redis.XMessage{
			ID:     "1-3",
			Values: map[string]any{"to": "3035551234"},
		})
		Expect(err).To(MatchError(ContainSubstring("missing body")))
	})

	It("rejects an unparseable schedule", func() {
		_, err := queue.ParseMessage(redis.XMessage{
			ID: "1-4",
			Values: map[string]any{
				"to":         "3035551234",
				"body":       "hello",
				"not_before": "soon",
			},
		})
		Expect(err).To(MatchError(ContainSubstring("parsing not_before")))
	})
})
