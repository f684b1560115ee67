// Package wizard holds the server-side state of the campaign creation flow
// for one user session: mode and tab navigation, cached form values across
// tab switches, the bounded creative selection, and the double-submit guard.
package wizard

import (
	"context"
	"fmt"
	"sync"

	"github.com/ad-wizard/backend/internal/services"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Wizard modes.
const (
	ModeSelection = "mode-selection"
	ModeForm      = "form"
	ModeStatus    = "status"
)

// Form tabs.
const (
	TabDetails = "details"
	TabAds     = "ads"
)

// FormValues is the raw field state of one tab, cached verbatim so a tab
// remount restores exactly what the user typed.
type FormValues map[string]string

// Notifier surfaces non-blocking notifications (selection cap, partial
// failures) to the user.
type Notifier interface {
	Notify(message string)
}

// Submitter dispatches one orchestration run.
type Submitter interface {
	Run(ctx context.Context, userID uuid.UUID, sub services.Submission) (*services.OrchestrationResult, error)
}

// Manager is the state machine behind the campaign wizard. Safe for
// concurrent use; one instance per (user, session).
type Manager struct {
	mu sync.Mutex

	userID       uuid.UUID
	mode         string
	tab          string
	snapshots    map[string]FormValues
	selected     []uuid.UUID
	maxSelection int
	isSubmitting bool
	result       *services.OrchestrationResult

	submitter Submitter
	notifier  Notifier
	log       *zap.Logger
}

func NewManager(userID uuid.UUID, maxSelection int, submitter Submitter, notifier Notifier, log *zap.Logger) *Manager {
	if maxSelection <= 0 {
		maxSelection = 5
	}
	return &Manager{
		userID:       userID,
		mode:         ModeSelection,
		tab:          TabDetails,
		snapshots:    make(map[string]FormValues),
		maxSelection: maxSelection,
		submitter:    submitter,
		notifier:     notifier,
		log:          log,
	}
}

func (m *Manager) Mode() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

func (m *Manager) Tab() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tab
}

// EnterForm moves from mode selection into the form.
func (m *Manager) EnterForm() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mode == ModeSelection {
		m.mode = ModeForm
	}
}

// SwitchTab snapshots the current tab's field values and returns the cached
// values of the target tab, so the remounted tab restores its state.
func (m *Manager) SwitchTab(to string, current FormValues) FormValues {
	m.mu.Lock()
	defer m.mu.Unlock()
	if current != nil {
		m.snapshots[m.tab] = current
	}
	m.tab = to
	return m.snapshots[to]
}

// Selected returns a copy of the selected creative ids.
func (m *Manager) Selected() []uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]uuid.UUID, len(m.selected))
	copy(out, m.selected)
	return out
}

// ToggleCreative adds or removes a creative from the selection. Exceeding
// the cap is rejected with a notification and no state change.
func (m *Manager) ToggleCreative(id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sel := range m.selected {
		if sel == id {
			m.selected = append(m.selected[:i], m.selected[i+1:]...)
			return true
		}
	}
	if len(m.selected) >= m.maxSelection {
		if m.notifier != nil {
			m.notifier.Notify(fmt.Sprintf("You can select up to %d ads per campaign", m.maxSelection))
		}
		return false
	}
	m.selected = append(m.selected, id)
	return true
}

// Submit dispatches the orchestration exactly once. A submit while one is
// already in flight is a logged no-op, not an error.
func (m *Manager) Submit(ctx context.Context, sub services.Submission) (*services.OrchestrationResult, error) {
	m.mu.Lock()
	if m.isSubmitting {
		m.mu.Unlock()
		m.log.Info("submit ignored, submission already in flight",
			zap.String("user_id", m.userID.String()))
		return nil, nil
	}
	m.isSubmitting = true
	sub.SelectedCreativeIDs = append([]uuid.UUID(nil), m.selected...)
	m.mu.Unlock()

	result, err := m.submitter.Run(ctx, m.userID, sub)

	m.mu.Lock()
	m.isSubmitting = false
	if err == nil && result != nil && result.Success {
		m.mode = ModeStatus
		m.result = result
		if m.notifier != nil && len(result.FailedCreatives) > 0 {
			m.notifier.Notify(fmt.Sprintf("Campaign created, but %d of %d ads failed",
				len(result.FailedCreatives), len(result.Ads)))
		}
	}
	m.mu.Unlock()

	return result, err
}

// Result returns the outcome of the last successful submission, if any.
func (m *Manager) Result() *services.OrchestrationResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.result
}
