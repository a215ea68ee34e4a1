package service

import (
	"fmt"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"purefunding.app/responder/internal/model"
)

var _ = Describe("FallbackSelector", func() {
	var (
		selector FallbackSelector
		sets     ResponseSets
		broker   *model.Broker
	)

	BeforeEach(func() {
		sets = DefaultResponseSets()
		selector = NewFallbackSelector(sets)
		broker = &model.Broker{Name: "Jane", Email: "jane@purefunding.app"}
	})

	Context("email questions", func() {
		DescribeTable("always gets the deterministic email reply",
			func(message string) {
				Expect(selector.Select(message, broker)).To(Equal("My email is jane@purefunding.app"))
			},
			Entry("email", "whats your email"),
			Entry("e-mail", "can you share your e-mail"),
			Entry("contact", "how do I contact you"),
			Entry("reach you", "best way to reach you?"),
			Entry("email wins over greeting", "hey whats your email"),
		)
	})

	Context("category matching", func() {
		It("picks a greeting reply for messages starting with a greeting", func() {
			Expect(sets.Greeting).To(ContainElement(selector.Select("hey there", broker)))
		})

		It("does not treat a mid-sentence greeting word as a greeting", func() {
			reply := selector.Select("they said hi to me", broker)
			Expect(sets.Greeting).NotTo(ContainElement(reply))
		})

		It("picks a goodbye reply when the message signals disengagement", func() {
			Expect(sets.Goodbye).To(ContainElement(selector.Select("sorry, not interested", broker)))
		})

		It("picks a statement-request reply for document talk", func() {
			Expect(sets.StatementRequest).To(ContainElement(selector.Select("I have my bank paperwork ready", broker)))
		})
	})

	Context("default category", func() {
		expand := func(broker *model.Broker) []string {
			email := "our support team"
			if broker != nil {
				email = broker.Email
			}
			var expanded []string
			for _, r := range DefaultResponseSets().Default {
				if strings.Contains(r, "%s") {
					r = fmt.Sprintf(r, email)
				}
				expanded = append(expanded, r)
			}
			return expanded
		}

		It("interpolates the broker email into templated replies", func() {
			reply := selector.Select("tell me more about the rates", broker)
			Expect(expand(broker)).To(ContainElement(reply))
			Expect(reply).NotTo(ContainSubstring("%s"))
		})

		It("substitutes a generic contact when no broker is present", func() {
			for range 20 {
				reply := selector.Select("tell me more", nil)
				Expect(reply).NotTo(ContainSubstring("%s"))
				Expect(expand(nil)).To(ContainElement(reply))
			}
		})
	})

	It("never returns an empty string even with empty pools", func() {
		empty := NewFallbackSelector(ResponseSets{})
		Expect(empty.Select("anything", nil)).NotTo(BeEmpty())
	})
})
