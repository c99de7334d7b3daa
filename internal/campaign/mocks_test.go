package campaign

import (
	"context"
	"sync"

	"leadpilot/internal/gateway"
)

// --- MockModelGateway ---

// MockModelGateway scripts the four gateway operations. Defaults return
// well-formed values so tests only script the calls they care about.
// Safe for concurrent use; the parallel phases call it from workers.
type MockModelGateway struct {
	mu    sync.Mutex
	calls map[string]int

	CompleteFunc         func(ctx context.Context, prompt string, opts gateway.CallOptions) (string, error)
	CompleteProfileFunc  func(ctx context.Context, prompt string, opts gateway.CallOptions) (gateway.Profile, error)
	CompleteEmailFunc    func(ctx context.Context, prompt string, opts gateway.CallOptions) (gateway.EmailDraft, error)
	CompleteCategoryFunc func(ctx context.Context, prompt string, opts gateway.CallOptions) (gateway.Category, error)
}

func (m *MockModelGateway) record(op string) {
	m.mu.Lock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[op]++
	m.mu.Unlock()
}

// Calls returns how many times the named operation ran.
func (m *MockModelGateway) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

func (m *MockModelGateway) Complete(ctx context.Context, prompt string, opts gateway.CallOptions) (string, error) {
	m.record("complete")
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, prompt, opts)
	}
	return "ok", nil
}

func (m *MockModelGateway) CompleteProfile(ctx context.Context, prompt string, opts gateway.CallOptions) (gateway.Profile, error) {
	m.record("profile")
	if m.CompleteProfileFunc != nil {
		return m.CompleteProfileFunc(ctx, prompt, opts)
	}
	return gateway.Profile{
		Persona:        "Builder",
		PersonaDesc:    "Hands-on engineering lead",
		Priority:       4,
		PriorityReason: "Strong product fit",
	}, nil
}

func (m *MockModelGateway) CompleteEmail(ctx context.Context, prompt string, opts gateway.CallOptions) (gateway.EmailDraft, error) {
	m.record("email")
	if m.CompleteEmailFunc != nil {
		return m.CompleteEmailFunc(ctx, prompt, opts)
	}
	return gateway.EmailDraft{Subject: "Worth a look?", Body: "Short pitch with one ask."}, nil
}

func (m *MockModelGateway) CompleteCategory(ctx context.Context, prompt string, opts gateway.CallOptions) (gateway.Category, error) {
	m.record("category")
	if m.CompleteCategoryFunc != nil {
		return m.CompleteCategoryFunc(ctx, prompt, opts)
	}
	return gateway.CategoryInterested, nil
}

// --- MockSender ---

// MockSender records delivery attempts and can be scripted to fail for
// specific recipients.
type MockSender struct {
	mu       sync.Mutex
	Attempts []string
	FailFor  map[string]error
}

func (m *MockSender) Send(ctx context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Attempts = append(m.Attempts, to)
	if err, ok := m.FailFor[to]; ok {
		return err
	}
	return nil
}

// AttemptCount returns delivery attempts for one recipient.
func (m *MockSender) AttemptCount(to string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, a := range m.Attempts {
		if a == to {
			n++
		}
	}
	return n
}

// --- MockStore ---

// MockStore serves a fixed lead slice and records what gets saved.
type MockStore struct {
	Leads   []*Lead
	LoadErr error
	SaveErr error
	Saved   []*Lead
}

func (m *MockStore) Load(ctx context.Context) ([]*Lead, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Leads, nil
}

func (m *MockStore) Save(ctx context.Context, leads []*Lead) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Saved = leads
	return nil
}

// --- MockReportSink ---

// MockReportSink captures the rendered report.
type MockReportSink struct {
	Report  string
	Written int
	Err     error
}

func (m *MockReportSink) Write(report string) error {
	if m.Err != nil {
		return m.Err
	}
	m.Written++
	m.Report = report
	return nil
}

// --- MockReplySource ---

// MockReplySource scripts the reply stage directly.
type MockReplySource struct {
	GetReplyFunc func(ctx context.Context, lead *Lead) (string, gateway.Category, error)
}

func (m *MockReplySource) GetReply(ctx context.Context, lead *Lead) (string, gateway.Category, error) {
	if m.GetReplyFunc != nil {
		return m.GetReplyFunc(ctx, lead)
	}
	return "Sounds interesting, tell me more.", gateway.CategoryInterested, nil
}
