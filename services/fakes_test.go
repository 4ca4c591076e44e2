// services/fakes_test.go - In-memory Store and PaymentGateway fakes
package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"pitchdesk/models"
)

// memStore is an in-memory Store. ConditionalUpdateIdeaStatus holds the
// mutex for the whole read-check-write, matching the single-statement
// UPDATE the real repository issues.
type memStore struct {
	mu sync.Mutex

	ideas     map[string]*models.Idea
	payments  []*models.Payment
	decisions map[string]*models.ReviewDecision
	messages  []*models.Message
	users     map[string]*models.User
	webhooks  map[string]*models.WebhookEvent

	nextUserID    uint
	nextPaymentID uint
	nextMessageID uint

	failInsertDecision bool
	failInsertMessage  bool
}

func newMemStore() *memStore {
	return &memStore{
		ideas:     make(map[string]*models.Idea),
		decisions: make(map[string]*models.ReviewDecision),
		users:     make(map[string]*models.User),
		webhooks:  make(map[string]*models.WebhookEvent),
	}
}

func (m *memStore) GetIdea(_ context.Context, id string) (*models.Idea, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idea, ok := m.ideas[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *idea
	return &copied, nil
}

func (m *memStore) GetIdeaForSubmitter(_ context.Context, id string, submitterID uint) (*models.Idea, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idea, ok := m.ideas[id]
	if !ok || idea.SubmitterID != submitterID {
		return nil, ErrNotFound
	}
	copied := *idea
	return &copied, nil
}

func (m *memStore) ListIdeasBySubmitter(_ context.Context, submitterID uint) ([]models.Idea, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Idea
	for _, idea := range m.ideas {
		if idea.SubmitterID == submitterID {
			out = append(out, *idea)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) ListIdeasByStatus(_ context.Context, status string) ([]models.Idea, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Idea
	for _, idea := range m.ideas {
		if idea.Status == status {
			out = append(out, *idea)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) ListAllIdeas(_ context.Context) ([]models.Idea, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Idea, 0, len(m.ideas))
	for _, idea := range m.ideas {
		out = append(out, *idea)
	}
	return out, nil
}

func (m *memStore) InsertIdea(_ context.Context, idea *models.Idea) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.ideas[idea.ID]; exists {
		return fmt.Errorf("duplicate idea id %s", idea.ID)
	}
	copied := *idea
	m.ideas[idea.ID] = &copied
	return nil
}

func (m *memStore) ConditionalUpdateIdeaStatus(_ context.Context, id string, fromStatuses []string, toStatus string, extra map[string]any) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idea, ok := m.ideas[id]
	if !ok {
		return 0, nil
	}
	matched := false
	for _, from := range fromStatuses {
		if idea.Status == from {
			matched = true
			break
		}
	}
	if !matched {
		return 0, nil
	}
	idea.Status = toStatus
	idea.UpdatedAt = time.Now().UTC()
	if at, ok := extra["submitted_at"].(time.Time); ok {
		idea.SubmittedAt = &at
	}
	return 1, nil
}

func (m *memStore) InsertPayment(_ context.Context, payment *models.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextPaymentID++
	payment.ID = m.nextPaymentID
	copied := *payment
	m.payments = append(m.payments, &copied)
	return nil
}

func (m *memStore) MarkPaymentPaid(_ context.Context, sessionID string, paidAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.payments {
		if p.StripeSessionID == sessionID {
			p.Status = models.PaymentStatusPaid
			at := paidAt
			p.PaidAt = &at
			return nil
		}
	}
	return ErrNotFound
}

func (m *memStore) PaymentBySessionID(_ context.Context, sessionID string) (*models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.payments {
		if p.StripeSessionID == sessionID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memStore) LatestPaymentForIdea(_ context.Context, ideaID string) (*models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *models.Payment
	for _, p := range m.payments {
		if p.IdeaID != ideaID {
			continue
		}
		if latest == nil || p.ID > latest.ID {
			latest = p
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	copied := *latest
	return &copied, nil
}

func (m *memStore) InsertReviewDecision(_ context.Context, decision *models.ReviewDecision) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failInsertDecision {
		return fmt.Errorf("decision insert failed")
	}
	// Unique index on idea id: later inserts are silently dropped, the way
	// an ON CONFLICT DO NOTHING insert behaves.
	if _, exists := m.decisions[decision.IdeaID]; exists {
		return nil
	}
	copied := *decision
	m.decisions[decision.IdeaID] = &copied
	return nil
}

func (m *memStore) InsertMessage(_ context.Context, message *models.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failInsertMessage {
		return fmt.Errorf("message insert failed")
	}
	// Partial unique index: one terminal notification per idea.
	if message.TemplateKey == models.TemplateApprovedInitial || message.TemplateKey == models.TemplateRejected {
		for _, existing := range m.messages {
			if existing.IdeaID == message.IdeaID &&
				(existing.TemplateKey == models.TemplateApprovedInitial || existing.TemplateKey == models.TemplateRejected) {
				return nil
			}
		}
	}
	m.nextMessageID++
	message.ID = m.nextMessageID
	copied := *message
	m.messages = append(m.messages, &copied)
	return nil
}

func (m *memStore) ListMessagesForIdeas(_ context.Context, ideaIDs []string) ([]models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wanted := make(map[string]bool, len(ideaIDs))
	for _, id := range ideaIDs {
		wanted[id] = true
	}
	var out []models.Message
	for _, msg := range m.messages {
		if wanted[msg.IdeaID] {
			out = append(out, *msg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SentAt.After(out[j].SentAt) })
	return out, nil
}

func (m *memStore) ListAllMessages(_ context.Context) ([]models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Message, 0, len(m.messages))
	for _, msg := range m.messages {
		out = append(out, *msg)
	}
	return out, nil
}

func (m *memStore) FindOrCreateUserByExternalID(_ context.Context, externalID, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.users[externalID]; ok {
		copied := *user
		return &copied, nil
	}
	m.nextUserID++
	user := &models.User{ID: m.nextUserID, ExternalID: externalID}
	if email != "" {
		user.Email = &email
	}
	m.users[externalID] = user
	copied := *user
	return &copied, nil
}

func (m *memStore) ListUsers(_ context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.User, 0, len(m.users))
	for _, user := range m.users {
		out = append(out, *user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) RecordWebhookEvent(_ context.Context, event *models.WebhookEvent) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := event.Provider + "/" + event.ProviderEventID
	if _, exists := m.webhooks[key]; exists {
		return false, nil
	}
	copied := *event
	m.webhooks[key] = &copied
	return true, nil
}

func (m *memStore) MarkWebhookEventProcessed(_ context.Context, provider, providerEventID string, processingError string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	event, ok := m.webhooks[provider+"/"+providerEventID]
	if !ok {
		return ErrNotFound
	}
	now := time.Now().UTC()
	event.ProcessedAt = &now
	event.ProcessingError = processingError
	return nil
}

func (m *memStore) ideaStatus(id string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if idea, ok := m.ideas[id]; ok {
		return idea.Status
	}
	return ""
}

func (m *memStore) messagesForIdea(id string) []models.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Message
	for _, msg := range m.messages {
		if msg.IdeaID == id {
			out = append(out, *msg)
		}
	}
	return out
}

// fakeGateway serves canned session outcomes.
type fakeGateway struct {
	mu       sync.Mutex
	sessions map[string]*SessionOutcome

	nextSession   int
	createErr     error
	retrieveCalls int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{sessions: make(map[string]*SessionOutcome)}
}

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, ideaID string, amountCents int64, _, _ string) (*SessionHandle, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.nextSession++
	sessionID := fmt.Sprintf("cs_test_%d", g.nextSession)
	g.sessions[sessionID] = &SessionOutcome{
		SessionID:   sessionID,
		Outcome:     OutcomePending,
		IdeaID:      ideaID,
		AmountCents: amountCents,
	}
	return &SessionHandle{
		SessionID:   sessionID,
		CheckoutURL: "https://checkout.example.com/" + sessionID,
	}, nil
}

func (g *fakeGateway) RetrieveSession(_ context.Context, sessionID string) (*SessionOutcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.retrieveCalls++
	outcome, ok := g.sessions[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *outcome
	return &copied, nil
}

func (g *fakeGateway) VerifyWebhook(payload []byte, signatureHeader string) (*CheckoutEvent, error) {
	if signatureHeader != "valid" {
		return nil, ErrInvalidSignature
	}
	return &CheckoutEvent{RawPayload: payload}, nil
}

func (g *fakeGateway) markPaid(sessionID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if outcome, ok := g.sessions[sessionID]; ok {
		outcome.Outcome = OutcomePaid
	}
}

func (g *fakeGateway) setOutcome(sessionID string, outcome SessionOutcome) {
	g.mu.Lock()
	defer g.mu.Unlock()
	outcome.SessionID = sessionID
	g.sessions[sessionID] = &outcome
}

func (g *fakeGateway) retrieveCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.retrieveCalls
}
