package service

import (
	"context"
	"time"

	"purefunding.app/responder/common/llm"
	"purefunding.app/responder/internal/model"
	"purefunding.app/responder/internal/store"
)

type mockBrokerStore struct {
	getByKixieEmailFn    func(ctx context.Context, email string) (*model.Broker, error)
	getByPhoneFn         func(ctx context.Context, phone string) (*model.Broker, error)
	getByPhoneFragmentFn func(ctx context.Context, fragment string) (*model.Broker, error)

	phoneLookups    []string
	fragmentLookups []string
}

func (m *mockBrokerStore) GetByKixieEmail(ctx context.Context, email string) (*model.Broker, error) {
	if m.getByKixieEmailFn != nil {
		return m.getByKixieEmailFn(ctx, email)
	}
	return nil, store.ErrNotFound
}

func (m *mockBrokerStore) GetByPhone(ctx context.Context, phone string) (*model.Broker, error) {
	m.phoneLookups = append(m.phoneLookups, phone)
	if m.getByPhoneFn != nil {
		return m.getByPhoneFn(ctx, phone)
	}
	return nil, store.ErrNotFound
}

func (m *mockBrokerStore) GetByPhoneFragment(ctx context.Context, fragment string) (*model.Broker, error) {
	m.fragmentLookups = append(m.fragmentLookups, fragment)
	if m.getByPhoneFragmentFn != nil {
		return m.getByPhoneFragmentFn(ctx, fragment)
	}
	return nil, store.ErrNotFound
}

type mockConversationStore struct {
	createFn           func(ctx context.Context, conv *model.Conversation) error
	listRecentFn       func(ctx context.Context, phone string, limit int32) ([]model.Conversation, error)
	countSinceFn       func(ctx context.Context, phone, brokerEmail string, since time.Time) (int64, error)
	createCalls        int
	listCalls          int
	capturedConversant *model.Conversation
}

func (m *mockConversationStore) Create(ctx context.Context, conv *model.Conversation) error {
	m.createCalls++
	m.capturedConversant = conv
	if m.createFn != nil {
		return m.createFn(ctx, conv)
	}
	return nil
}

func (m *mockConversationStore) ListRecentByPhone(ctx context.Context, phone string, limit int32) ([]model.Conversation, error) {
	m.listCalls++
	if m.listRecentFn != nil {
		return m.listRecentFn(ctx, phone, limit)
	}
	return nil, nil
}

func (m *mockConversationStore) CountSince(ctx context.Context, phone, brokerEmail string, since time.Time) (int64, error) {
	if m.countSinceFn != nil {
		return m.countSinceFn(ctx, phone, brokerEmail, since)
	}
	return 0, nil
}

type mockLLMClient struct {
	completeFn           func(ctx context.Context, req llm.Request) (string, error)
	completeStructuredFn func(ctx context.Context, req llm.StructuredRequest, result any) error
	capturedRequest      *llm.Request
}

func (m *mockLLMClient) Complete(ctx context.Context, req llm.Request) (string, error) {
	m.capturedRequest = &req
	if m.completeFn != nil {
		return m.completeFn(ctx, req)
	}
	return "sure thing", nil
}

func (m *mockLLMClient) CompleteStructured(ctx context.Context, req llm.StructuredRequest, result any) error {
	if m.completeStructuredFn != nil {
		return m.completeStructuredFn(ctx, req, result)
	}
	return nil
}

func (m *mockLLMClient) Model() string {
	return "gpt-4-turbo-preview"
}

type savedConversation struct {
	phone       string
	userMessage string
	response    string
	brokerEmail string
	isError     bool
}

type mockPersister struct {
	saved []savedConversation
}

func (m *mockPersister) Save(ctx context.Context, phone, userMessage, response, brokerEmail string, isError bool) {
	m.saved = append(m.saved, savedConversation{
		phone:       phone,
		userMessage: userMessage,
		response:    response,
		brokerEmail: brokerEmail,
		isError:     isError,
	})
}

type mockSentiment struct {
	analyzeFn func(ctx context.Context, history []model.Conversation) model.Sentiment
}

func (m *mockSentiment) Analyze(ctx context.Context, history []model.Conversation) model.Sentiment {
	if m.analyzeFn != nil {
		return m.analyzeFn(ctx, history)
	}
	return model.NeutralSentiment()
}
