package wizard

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ad-wizard/backend/internal/services"
	"github.com/google/uuid"
	"go.uber.org/zap/zaptest"
)

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Notify(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, msg)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages)
}

type blockingSubmitter struct {
	calls   atomic.Int32
	release chan struct{}
	result  *services.OrchestrationResult
}

func (s *blockingSubmitter) Run(ctx context.Context, _ uuid.UUID, _ services.Submission) (*services.OrchestrationResult, error) {
	s.calls.Add(1)
	if s.release != nil {
		<-s.release
	}
	if s.result != nil {
		return s.result, nil
	}
	return &services.OrchestrationResult{Success: true, DatabaseID: uuid.New()}, nil
}

func TestSelectionCap(t *testing.T) {
	notifier := &recordingNotifier{}
	m := NewManager(uuid.New(), 5, &blockingSubmitter{}, notifier, zaptest.NewLogger(t))

	for i := 0; i < 5; i++ {
		if !m.ToggleCreative(uuid.New()) {
			t.Fatalf("selection %d rejected below cap", i+1)
		}
	}
	if m.ToggleCreative(uuid.New()) {
		t.Error("sixth selection should be rejected")
	}
	if got := len(m.Selected()); got != 5 {
		t.Errorf("selected = %d, want 5", got)
	}
	if notifier.count() != 1 {
		t.Errorf("notifications = %d, want 1", notifier.count())
	}
}

func TestToggleDeselects(t *testing.T) {
	m := NewManager(uuid.New(), 5, &blockingSubmitter{}, nil, zaptest.NewLogger(t))
	id := uuid.New()
	m.ToggleCreative(id)
	if !m.ToggleCreative(id) {
		t.Fatal("deselect rejected")
	}
	if len(m.Selected()) != 0 {
		t.Error("selection should be empty after toggle off")
	}
}

func TestTabSnapshotRestore(t *testing.T) {
	m := NewManager(uuid.New(), 5, &blockingSubmitter{}, nil, zaptest.NewLogger(t))
	m.EnterForm()

	details := FormValues{"campaign_name": "Summer Launch", "daily_budget": "20"}
	if restored := m.SwitchTab(TabAds, details); restored != nil {
		t.Errorf("ads tab should start empty, got %v", restored)
	}

	restored := m.SwitchTab(TabDetails, FormValues{"selected": "3"})
	if restored["campaign_name"] != "Summer Launch" {
		t.Errorf("details snapshot not restored: %v", restored)
	}
	if m.Tab() != TabDetails {
		t.Errorf("tab = %q, want details", m.Tab())
	}
}

func TestDoubleSubmitDispatchesOnce(t *testing.T) {
	sub := &blockingSubmitter{release: make(chan struct{})}
	m := NewManager(uuid.New(), 5, sub, nil, zaptest.NewLogger(t))
	m.ToggleCreative(uuid.New())

	var wg sync.WaitGroup
	wg.Add(2)
	for i := 0; i < 2; i++ {
		go func() {
			defer wg.Done()
			_, _ = m.Submit(context.Background(), services.Submission{CampaignName: "x"})
		}()
	}

	// Let both submits race; only one should reach the submitter.
	time.Sleep(50 * time.Millisecond)
	close(sub.release)
	wg.Wait()

	if got := sub.calls.Load(); got != 1 {
		t.Errorf("orchestration dispatched %d times, want 1", got)
	}
}

func TestSubmitTransitionsToStatusMode(t *testing.T) {
	dbID := uuid.New()
	sub := &blockingSubmitter{result: &services.OrchestrationResult{Success: true, DatabaseID: dbID}}
	m := NewManager(uuid.New(), 5, sub, nil, zaptest.NewLogger(t))
	m.EnterForm()
	m.ToggleCreative(uuid.New())

	result, err := m.Submit(context.Background(), services.Submission{CampaignName: "x"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !result.Success {
		t.Fatal("expected success")
	}
	if m.Mode() != ModeStatus {
		t.Errorf("mode = %q, want status", m.Mode())
	}
	if m.Result() == nil || m.Result().DatabaseID != dbID {
		t.Error("result not stored")
	}
}

func TestPartialFailureNotifies(t *testing.T) {
	notifier := &recordingNotifier{}
	res := &services.OrchestrationResult{
		Success:         true,
		FailedCreatives: []services.FailedCreative{{CreativeID: uuid.New(), Reason: "rejected"}},
	}
	m := NewManager(uuid.New(), 5, &blockingSubmitter{result: res}, notifier, zaptest.NewLogger(t))
	m.ToggleCreative(uuid.New())

	if _, err := m.Submit(context.Background(), services.Submission{}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if notifier.count() != 1 {
		t.Errorf("notifications = %d, want 1", notifier.count())
	}
}

type scriptedFetcher struct {
	mu     sync.Mutex
	states []struct {
		status string
		done   bool
	}
	idx int
}

func (f *scriptedFetcher) FetchStatus(context.Context, uuid.UUID) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.states[f.idx]
	if f.idx < len(f.states)-1 {
		f.idx++
	}
	return s.status, s.done, nil
}

func TestPollerStopsOnTerminalState(t *testing.T) {
	fetcher := &scriptedFetcher{states: []struct {
		status string
		done   bool
	}{
		{"draft", false},
		{"draft", false},
		{"active", true},
	}}
	p := NewStatusPoller(5*time.Millisecond, fetcher, zaptest.NewLogger(t))

	var mu sync.Mutex
	var seen []string
	done := make(chan struct{})
	go func() {
		p.Run(context.Background(), uuid.New(), func(status string) {
			mu.Lock()
			seen = append(seen, status)
			mu.Unlock()
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop on terminal state")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 3 {
		t.Errorf("observations = %d, want 3", len(seen))
	}
	if seen[len(seen)-1] != "active" {
		t.Errorf("last status = %q, want active", seen[len(seen)-1])
	}
}

func TestPollerStop(t *testing.T) {
	fetcher := &scriptedFetcher{states: []struct {
		status string
		done   bool
	}{{"draft", false}}}
	p := NewStatusPoller(5*time.Millisecond, fetcher, zaptest.NewLogger(t))

	done := make(chan struct{})
	go func() {
		p.Run(context.Background(), uuid.New(), nil)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	p.Stop()
	p.Stop() // idempotent

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop")
	}
}
