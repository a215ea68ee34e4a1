package sms_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"purefunding.app/responder/core/config"
	"purefunding.app/responder/internal/sms"
)

var _ = Describe("KixieClient", func() {
	var (
		server   *httptest.Server
		received map[string]any
		auth     string
		status   int
	)

	BeforeEach(func() {
		received = nil
		status = http.StatusOK
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth = r.Header.Get("Authorization")
			Expect(json.NewDecoder(r.Body).Decode(&received)).To(Succeed())
			w.WriteHeader(status)
		}))
		DeferCleanup(server.Close)
	})

	newSender := func() sms.Sender {
		return sms.NewKixieClient(config.KixieConfig{
			APIKey:     "kx-test-key",
			BusinessID: "biz-42",
			EventURL:   server.URL,
		})
	}

	It("posts the sms event with bearer auth", func() {
		err := newSender().Send(context.Background(), "3035551234", "jane@kixie.purefunding.app", "hey whats your business about?")
		Expect(err).NotTo(HaveOccurred())

		Expect(auth).To(Equal("Bearer kx-test-key"))
		Expect(received).To(Equal(map[string]any{
			"businessId": "biz-42",
			"email":      "jane@kixie.purefunding.app",
			"target":     "3035551234",
			"eventname":  "sms",
			"message":    "hey whats your business about?",
		}))
	})

	It("returns an error on a non-2xx response", func() {
		status = http.StatusUnauthorized

		err := newSender().Send(context.Background(), "3035551234", "jane@kixie.purefunding.app", "hello")
		Expect(err).To(MatchError(ContainSubstring("status=401")))
	})

	It("returns an error when the endpoint is unreachable", func() {
		sender := sms.NewKixieClient(config.KixieConfig{
			APIKey:   "kx-test-key",
			EventURL: "http://127.0.0.1:1",
		})

		Expect(sender.Send(context.Background(), "3035551234", "jane@kixie.purefunding.app", "hello")).To(HaveOccurred())
	})
})
