package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ad-wizard/backend/internal/config"
	"github.com/ad-wizard/backend/internal/fbads"
	"github.com/ad-wizard/backend/internal/models"
	"github.com/ad-wizard/backend/internal/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap/zaptest"
)

type fakeGraph struct {
	mu sync.Mutex

	failCampaign bool
	failAdSet    bool
	failAdFor    map[string]bool // creative name -> fail CreateAd

	campaignCalls int
	adSetCalls    int
	adCalls       int
	statusUpdates map[string]string
}

func (f *fakeGraph) CreateCampaign(_ context.Context, _, _ string, p fbads.CampaignParams) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.campaignCalls++
	if f.failCampaign {
		return "", errors.New("graph api error (400): invalid objective")
	}
	return "cmp_1", nil
}

func (f *fakeGraph) CreateAdSet(_ context.Context, _, _ string, p fbads.AdSetParams) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.adSetCalls++
	if f.failAdSet {
		return "", errors.New("graph api error (400): budget too low")
	}
	return "as_1", nil
}

func (f *fakeGraph) CreateAdCreative(_ context.Context, _, _ string, p fbads.AdCreativeParams) (string, error) {
	return "cr_" + p.Name, nil
}

func (f *fakeGraph) CreateAd(_ context.Context, _, _ string, p fbads.AdParams) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.adCalls++
	if f.failAdFor[p.CreativeID] {
		return "", errors.New("graph api error (400): creative rejected")
	}
	return fmt.Sprintf("ad_%d", f.adCalls), nil
}

func (f *fakeGraph) UploadImage(_ context.Context, _, _, imageURL string) (string, error) {
	return "hash123", nil
}

func (f *fakeGraph) UpdateStatus(_ context.Context, _, objectID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statusUpdates == nil {
		f.statusUpdates = map[string]string{}
	}
	f.statusUpdates[objectID] = status
	return nil
}

func (f *fakeGraph) GetEffectiveStatus(_ context.Context, _, _ string) (string, error) {
	return "ACTIVE", nil
}

type fakeCampaignStore struct {
	mu      sync.Mutex
	rows    map[uuid.UUID]*models.AdCampaign
	updates map[uuid.UUID]string
}

func newFakeCampaignStore() *fakeCampaignStore {
	return &fakeCampaignStore{rows: map[uuid.UUID]*models.AdCampaign{}, updates: map[uuid.UUID]string{}}
}

func (s *fakeCampaignStore) Create(_ context.Context, c *models.AdCampaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	s.rows[c.ID] = c
	return nil
}

func (s *fakeCampaignStore) GetByID(_ context.Context, id uuid.UUID) (*models.AdCampaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.rows[id]
	if !ok {
		return nil, errors.New("no rows")
	}
	return c, nil
}

func (s *fakeCampaignStore) List(_ context.Context, _ repositories.AdCampaignFilter) ([]models.AdCampaign, error) {
	return nil, nil
}

func (s *fakeCampaignStore) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates[id] = status
	if c, ok := s.rows[id]; ok {
		c.Status = status
	}
	return nil
}

func (s *fakeCampaignStore) UpdateResults(_ context.Context, id uuid.UUID, adIDs []string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.rows[id]; ok {
		c.PlatformAdIDs = adIDs
		c.CampaignData = data
	}
	return nil
}

func (s *fakeCampaignStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, id)
	return nil
}

func (s *fakeCampaignStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

type fakeCreativeStore struct {
	variants []models.AdVariant
}

func (s *fakeCreativeStore) ListByIDs(_ context.Context, ids []uuid.UUID) ([]models.AdVariant, error) {
	var out []models.AdVariant
	for _, id := range ids {
		for _, v := range s.variants {
			if v.ID == id {
				out = append(out, v)
			}
		}
	}
	return out, nil
}

type fakeConnections struct {
	conn *models.PlatformConnection
	err  error
}

func (f *fakeConnections) RequireValid(context.Context, uuid.UUID) (*models.PlatformConnection, error) {
	return f.conn, f.err
}

func testConfig() *config.Config {
	return &config.Config{
		FacebookAppID:        "app",
		FacebookAppSecret:    "secret",
		FacebookRedirectURI:  "https://example.com/cb",
		DirectObjective:      "OUTCOME_AWARENESS",
		MaxSelectedCreatives: 5,
	}
}

func testConnection() *models.PlatformConnection {
	adAccount := "act_123"
	page := "page_1"
	return &models.PlatformConnection{
		ID:                  uuid.New(),
		UserID:              uuid.New(),
		Platform:            models.PlatformFacebook,
		AccessToken:         "token",
		SelectedAdAccountID: &adAccount,
		SelectedPageID:      &page,
		Metadata: models.ConnectionMetadata{
			AdAccounts: []models.AdAccount{{ID: "act_123", Name: "Main"}},
			Pages:      []models.Page{{ID: "page_1", Name: "Page"}},
		},
	}
}

func testVariants(n int) []models.AdVariant {
	out := make([]models.AdVariant, n)
	for i := range out {
		out[i] = models.AdVariant{
			ID:          uuid.New(),
			Platform:    models.PlatformFacebook,
			Headline:    fmt.Sprintf("Headline %d", i+1),
			PrimaryText: "Try it today",
			ImageURL:    fmt.Sprintf("https://cdn.example.com/img%d.png", i+1),
			Size:        models.DefaultAdSize,
		}
	}
	return out
}

func testSubmission(variants []models.AdVariant) Submission {
	ids := make([]uuid.UUID, len(variants))
	for i, v := range variants {
		ids[i] = v.ID
	}
	return Submission{
		ProjectID:           uuid.New(),
		CampaignName:        "Summer Launch",
		Mode:                ModePreview,
		DailyBudgetUSD:      20,
		StartDate:           "2026-09-01",
		EndDate:             "2026-09-30",
		SelectedCreativeIDs: ids,
		BusinessIdea:        models.BusinessIdea{Description: "Meal kits", ValueProposition: "Dinner in 15 minutes"},
		TargetAudience:      models.TargetAudience{Demographics: "women 25 to 40 in the US", PainPoints: []string{"no time to cook"}},
		LandingPageURL:      "https://example.com",
	}
}

func newTestOrchestrator(t *testing.T, graph *fakeGraph, store *fakeCampaignStore, creatives *fakeCreativeStore, conns *fakeConnections) *Orchestrator {
	t.Helper()
	return NewOrchestrator(testConfig(), graph, conns, store, creatives, nil, nil, nil, zaptest.NewLogger(t))
}

func TestRunCampaignCreateFailure(t *testing.T) {
	variants := testVariants(2)
	graph := &fakeGraph{failCampaign: true}
	store := newFakeCampaignStore()
	o := newTestOrchestrator(t, graph, store, &fakeCreativeStore{variants: variants}, &fakeConnections{conn: testConnection()})

	result, err := o.Run(context.Background(), uuid.New(), testSubmission(variants))
	if err == nil {
		t.Fatal("expected error")
	}
	var remoteErr *RemoteCreateError
	if !errors.As(err, &remoteErr) {
		t.Fatalf("expected RemoteCreateError, got %T: %v", err, err)
	}
	if remoteErr.Stage != "campaign" {
		t.Errorf("stage = %q, want campaign", remoteErr.Stage)
	}
	if result.Success {
		t.Error("result.Success should be false")
	}
	if store.count() != 0 {
		t.Errorf("persisted %d campaigns, want 0", store.count())
	}
	if graph.adSetCalls != 0 {
		t.Errorf("ad set created after campaign failure: %d calls", graph.adSetCalls)
	}
}

func TestRunAdSetFailureNothingPersisted(t *testing.T) {
	variants := testVariants(1)
	graph := &fakeGraph{failAdSet: true}
	store := newFakeCampaignStore()
	o := newTestOrchestrator(t, graph, store, &fakeCreativeStore{variants: variants}, &fakeConnections{conn: testConnection()})

	_, err := o.Run(context.Background(), uuid.New(), testSubmission(variants))
	var remoteErr *RemoteCreateError
	if !errors.As(err, &remoteErr) || remoteErr.Stage != "adset" {
		t.Fatalf("expected adset RemoteCreateError, got %v", err)
	}
	if store.count() != 0 {
		t.Errorf("persisted %d campaigns, want 0", store.count())
	}
	if graph.adCalls != 0 {
		t.Errorf("ads created after ad set failure: %d", graph.adCalls)
	}
}

func TestRunPartialCreativeFailure(t *testing.T) {
	variants := testVariants(3)
	// The third creative's remote id embeds its mapped name, so fail by name.
	failName := fmt.Sprintf("cr_Headline 3 (%s)", models.DefaultAdSize.Label)
	graph := &fakeGraph{failAdFor: map[string]bool{failName: true}}
	store := newFakeCampaignStore()
	o := newTestOrchestrator(t, graph, store, &fakeCreativeStore{variants: variants}, &fakeConnections{conn: testConnection()})

	result, err := o.Run(context.Background(), uuid.New(), testSubmission(variants))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.Success {
		t.Error("result.Success should be true despite a per-creative failure")
	}
	succeeded := 0
	for _, ad := range result.Ads {
		if ad.Success {
			succeeded++
		}
	}
	if succeeded != 2 {
		t.Errorf("succeeded ads = %d, want 2", succeeded)
	}
	if len(result.FailedCreatives) != 1 {
		t.Fatalf("failed creatives = %d, want 1", len(result.FailedCreatives))
	}
	if result.FailedCreatives[0].CreativeID != variants[2].ID {
		t.Errorf("failed creative id = %s, want %s", result.FailedCreatives[0].CreativeID, variants[2].ID)
	}
	if !strings.Contains(result.FailedCreatives[0].Reason, "creative rejected") {
		t.Errorf("failure reason %q missing remote message", result.FailedCreatives[0].Reason)
	}
	if store.count() != 1 {
		t.Fatalf("persisted %d campaigns, want 1", store.count())
	}

	var row *models.AdCampaign
	for _, c := range store.rows {
		row = c
	}
	if len(row.PlatformAdIDs) != 2 {
		t.Errorf("stored ad ids = %d, want 2", len(row.PlatformAdIDs))
	}
	snap := models.DecodeCampaignSnapshot(row.CampaignData)
	if len(snap.Results) != 3 {
		t.Errorf("snapshot results = %d, want 3", len(snap.Results))
	}
}

func TestRunRejectsTooManyCreatives(t *testing.T) {
	variants := testVariants(6)
	o := newTestOrchestrator(t, &fakeGraph{}, newFakeCampaignStore(), &fakeCreativeStore{variants: variants}, &fakeConnections{conn: testConnection()})

	_, err := o.Run(context.Background(), uuid.New(), testSubmission(variants))
	if err == nil || !strings.Contains(err.Error(), "too many creatives") {
		t.Fatalf("expected selection cap error, got %v", err)
	}
}

func TestRunRequiresSelectedAccountAndPage(t *testing.T) {
	variants := testVariants(1)
	conn := testConnection()
	conn.SelectedAdAccountID = nil
	o := newTestOrchestrator(t, &fakeGraph{}, newFakeCampaignStore(), &fakeCreativeStore{variants: variants}, &fakeConnections{conn: conn})

	_, err := o.Run(context.Background(), uuid.New(), testSubmission(variants))
	if !errors.Is(err, ErrNoAdAccount) {
		t.Fatalf("expected ErrNoAdAccount, got %v", err)
	}
}

func TestRunPropagatesConnectionErrors(t *testing.T) {
	variants := testVariants(1)
	o := newTestOrchestrator(t, &fakeGraph{}, newFakeCampaignStore(), &fakeCreativeStore{variants: variants}, &fakeConnections{err: ErrTokenExpired})

	_, err := o.Run(context.Background(), uuid.New(), testSubmission(variants))
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestActivateDraftCampaign(t *testing.T) {
	variants := testVariants(1)
	graph := &fakeGraph{}
	store := newFakeCampaignStore()
	conn := testConnection()
	userID := uuid.New()
	o := newTestOrchestrator(t, graph, store, &fakeCreativeStore{variants: variants}, &fakeConnections{conn: conn})

	result, err := o.Run(context.Background(), userID, testSubmission(variants))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if err := o.Activate(context.Background(), userID, result.DatabaseID); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if got := store.updates[result.DatabaseID]; got != models.CampaignStatusActive {
		t.Errorf("local status = %q, want active", got)
	}
	if got := graph.statusUpdates["cmp_1"]; got != "ACTIVE" {
		t.Errorf("remote status = %q, want ACTIVE", got)
	}

	// Activating an already-active campaign violates the transition map.
	if err := o.Activate(context.Background(), userID, result.DatabaseID); err == nil {
		t.Error("expected error activating an active campaign")
	}
}

func TestActivateOtherUsersCampaign(t *testing.T) {
	variants := testVariants(1)
	store := newFakeCampaignStore()
	userID := uuid.New()
	o := newTestOrchestrator(t, &fakeGraph{}, store, &fakeCreativeStore{variants: variants}, &fakeConnections{conn: testConnection()})

	result, err := o.Run(context.Background(), userID, testSubmission(variants))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := o.Activate(context.Background(), uuid.New(), result.DatabaseID); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestRetryCreativesOnlyFailed(t *testing.T) {
	variants := testVariants(3)
	failName := fmt.Sprintf("cr_Headline 3 (%s)", models.DefaultAdSize.Label)
	graph := &fakeGraph{failAdFor: map[string]bool{failName: true}}
	store := newFakeCampaignStore()
	userID := uuid.New()
	o := newTestOrchestrator(t, graph, store, &fakeCreativeStore{variants: variants}, &fakeConnections{conn: testConnection()})

	first, err := o.Run(context.Background(), userID, testSubmission(variants))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(first.FailedCreatives) != 1 {
		t.Fatalf("failed creatives = %d, want 1", len(first.FailedCreatives))
	}

	// Asking to retry a creative that succeeded is refused.
	if _, err := o.RetryCreatives(context.Background(), userID, first.DatabaseID, []uuid.UUID{variants[0].ID}); err == nil {
		t.Error("expected error retrying a succeeded creative")
	}

	// Clear the failure and retry the failed one.
	graph.mu.Lock()
	graph.failAdFor = nil
	graph.mu.Unlock()

	retry, err := o.RetryCreatives(context.Background(), userID, first.DatabaseID, []uuid.UUID{variants[2].ID})
	if err != nil {
		t.Fatalf("RetryCreatives: %v", err)
	}
	if len(retry.Ads) != 1 || !retry.Ads[0].Success {
		t.Fatalf("retry ads = %+v, want one success", retry.Ads)
	}
	if len(retry.FailedCreatives) != 0 {
		t.Errorf("retry failed creatives = %d, want 0", len(retry.FailedCreatives))
	}

	row, err := store.GetByID(context.Background(), first.DatabaseID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(row.PlatformAdIDs) != 3 {
		t.Errorf("stored ad ids = %d, want 3", len(row.PlatformAdIDs))
	}
	snap := models.DecodeCampaignSnapshot(row.CampaignData)
	for _, res := range snap.Results {
		if !res.Success {
			t.Errorf("snapshot still records failure for %s", res.CreativeID)
		}
	}
}

func TestRunMissingConfig(t *testing.T) {
	variants := testVariants(1)
	cfg := testConfig()
	cfg.FacebookAppID = ""
	o := NewOrchestrator(cfg, &fakeGraph{}, &fakeConnections{conn: testConnection()}, newFakeCampaignStore(), &fakeCreativeStore{variants: variants}, nil, nil, nil, zaptest.NewLogger(t))

	_, err := o.Run(context.Background(), uuid.New(), testSubmission(variants))
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if len(cfgErr.MissingKeys) == 0 {
		t.Error("ConfigError should name the missing keys")
	}
}
