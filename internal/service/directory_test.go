package service

import (
	"context"
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"purefunding.app/responder/internal/model"
	"purefunding.app/responder/internal/store"
)

var _ = Describe("DirectoryService", func() {
	var (
		brokers *mockBrokerStore
		svc     DirectoryService
		ctx     context.Context

		jane *model.Broker
	)

	BeforeEach(func() {
		ctx = context.Background()
		brokers = &mockBrokerStore{}
		svc = NewDirectoryService(brokers)

		jane = &model.Broker{
			ID:          1,
			Name:        "Jane",
			Email:       "jane@purefunding.app",
			KixieEmail:  "jane@kixie.purefunding.app",
			PhoneNumber: "+13035551234",
			Active:      true,
		}
	})

	Context("alias email lookup", func() {
		It("resolves by alias email first, skipping phone lookups", func() {
			brokers.getByKixieEmailFn = func(ctx context.Context, email string) (*model.Broker, error) {
				if strings.EqualFold(email, jane.KixieEmail) {
					return jane, nil
				}
				return nil, store.ErrNotFound
			}

			broker, err := svc.Resolve(ctx, "jane@kixie.purefunding.app", "3035559999")
			Expect(err).NotTo(HaveOccurred())
			Expect(broker).To(Equal(jane))
			Expect(brokers.phoneLookups).To(BeEmpty())
		})

		It("falls through to phone lookup when the email misses", func() {
			brokers.getByPhoneFn = func(ctx context.Context, phone string) (*model.Broker, error) {
				if phone == "+13035551234" {
					return jane, nil
				}
				return nil, store.ErrNotFound
			}

			broker, err := svc.Resolve(ctx, "nobody@example.com", "3035551234")
			Expect(err).NotTo(HaveOccurred())
			Expect(broker).To(Equal(jane))
		})
	})

	Context("phone variant lookup", func() {
		It("matches a bare 10-digit number against a +1-stored broker", func() {
			brokers.getByPhoneFn = func(ctx context.Context, phone string) (*model.Broker, error) {
				if phone == "+13035551234" {
					return jane, nil
				}
				return nil, store.ErrNotFound
			}

			broker, err := svc.Resolve(ctx, "", "3035551234")
			Expect(err).NotTo(HaveOccurred())
			Expect(broker).To(Equal(jane))
		})

		It("probes variants in precedence order", func() {
			_, err := svc.Resolve(ctx, "", "3035551234")
			Expect(err).To(MatchError(ErrBrokerNotFound))
			Expect(brokers.phoneLookups).To(Equal([]string{
				"3035551234",
				"13035551234",
				"+3035551234",
				"+13035551234",
			}))
		})
	})

	Context("fragment lookup", func() {
		It("falls back to the trailing-8 substring when exact variants miss", func() {
			brokers.getByPhoneFragmentFn = func(ctx context.Context, fragment string) (*model.Broker, error) {
				if fragment == "35551234" {
					return jane, nil
				}
				return nil, store.ErrNotFound
			}

			broker, err := svc.Resolve(ctx, "", "+1 (303) 555-1234")
			Expect(err).NotTo(HaveOccurred())
			Expect(broker).To(Equal(jane))
			Expect(brokers.phoneLookups).NotTo(BeEmpty())
		})
	})

	Context("no match", func() {
		It("returns ErrBrokerNotFound when everything misses", func() {
			_, err := svc.Resolve(ctx, "nobody@example.com", "3035550000")
			Expect(err).To(MatchError(ErrBrokerNotFound))
		})

		It("returns ErrBrokerNotFound with no identity to probe", func() {
			_, err := svc.Resolve(ctx, "", "")
			Expect(err).To(MatchError(ErrBrokerNotFound))
		})

		It("treats store failures as misses rather than surfacing them", func() {
			brokers.getByKixieEmailFn = func(ctx context.Context, email string) (*model.Broker, error) {
				return nil, errors.New("connection refused")
			}
			brokers.getByPhoneFn = func(ctx context.Context, phone string) (*model.Broker, error) {
				return nil, errors.New("connection refused")
			}
			brokers.getByPhoneFragmentFn = func(ctx context.Context, fragment string) (*model.Broker, error) {
				return nil, errors.New("connection refused")
			}

			_, err := svc.Resolve(ctx, "jane@kixie.purefunding.app", "3035551234")
			Expect(err).To(MatchError(ErrBrokerNotFound))
		})
	})
})
