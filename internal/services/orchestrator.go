package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ad-wizard/backend/internal/config"
	"github.com/ad-wizard/backend/internal/events"
	"github.com/ad-wizard/backend/internal/fbads"
	"github.com/ad-wizard/backend/internal/linkpreview"
	"github.com/ad-wizard/backend/internal/models"
	"github.com/ad-wizard/backend/internal/repositories"
	"github.com/ad-wizard/backend/internal/targeting"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Submission modes. Preview creates everything PAUSED for human review;
// direct creates delivering objects.
const (
	ModePreview = "preview"
	ModeDirect  = "direct"
)

// FacebookAPI is the slice of the Graph client the orchestrator drives.
type FacebookAPI interface {
	CreateCampaign(ctx context.Context, accessToken, adAccountID string, params fbads.CampaignParams) (string, error)
	CreateAdSet(ctx context.Context, accessToken, adAccountID string, params fbads.AdSetParams) (string, error)
	CreateAdCreative(ctx context.Context, accessToken, adAccountID string, params fbads.AdCreativeParams) (string, error)
	CreateAd(ctx context.Context, accessToken, adAccountID string, params fbads.AdParams) (string, error)
	UploadImage(ctx context.Context, accessToken, adAccountID, imageURL string) (string, error)
	UpdateStatus(ctx context.Context, accessToken, objectID, status string) error
	GetEffectiveStatus(ctx context.Context, accessToken, campaignID string) (string, error)
}

// CampaignStore is the ad_campaigns persistence surface.
type CampaignStore interface {
	Create(ctx context.Context, c *models.AdCampaign) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.AdCampaign, error)
	List(ctx context.Context, f repositories.AdCampaignFilter) ([]models.AdCampaign, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	UpdateResults(ctx context.Context, id uuid.UUID, adIDs []string, campaignData []byte) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreativeStore is the read-only view of ad_variants the orchestrator uses.
// Orchestration never mutates or deletes creatives.
type CreativeStore interface {
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.AdVariant, error)
}

// ConnectionProvider resolves a usable platform connection for a user.
type ConnectionProvider interface {
	RequireValid(ctx context.Context, userID uuid.UUID) (*models.PlatformConnection, error)
}

// PreviewFetcher backfills a creative image from the landing page og tags.
type PreviewFetcher interface {
	Fetch(ctx context.Context, pageURL string) (*linkpreview.Preview, error)
}

// Submission is the in-flight request for one orchestration run. It is never
// persisted; only the resulting AdCampaign row is.
type Submission struct {
	ProjectID           uuid.UUID            `json:"project_id"`
	CampaignName        string               `json:"campaign_name"`
	Mode                string               `json:"mode"`
	DailyBudgetUSD      float64              `json:"daily_budget_usd"`
	StartDate           string               `json:"start_date"` // YYYY-MM-DD
	EndDate             string               `json:"end_date"`   // YYYY-MM-DD
	AgeMin              int                  `json:"age_min,omitempty"`
	AgeMax              int                  `json:"age_max,omitempty"`
	Genders             []int                `json:"genders,omitempty"`
	Interests           []targeting.Interest `json:"interests,omitempty"`
	SelectedCreativeIDs []uuid.UUID          `json:"selected_creative_ids"`
	BusinessIdea        models.BusinessIdea  `json:"business_idea"`
	TargetAudience      models.TargetAudience `json:"target_audience"`
	LandingPageURL      string               `json:"landing_page_url"`
}

// FailedCreative identifies one creative whose per-item steps failed, with
// the remote reason, so the caller can retry just those.
type FailedCreative struct {
	CreativeID uuid.UUID `json:"creative_id"`
	Reason     string    `json:"reason"`
}

// OrchestrationResult is the aggregate outcome of one run. Success is true
// when campaign and ad set were created, even with per-creative failures.
type OrchestrationResult struct {
	Success         bool               `json:"success"`
	CampaignID      string             `json:"campaign_id,omitempty"`
	AdSetID         string             `json:"adset_id,omitempty"`
	Ads             []models.AdResult  `json:"ads,omitempty"`
	DatabaseID      uuid.UUID          `json:"database_id,omitempty"`
	FailedCreatives []FailedCreative   `json:"failed_creatives,omitempty"`
	Error           string             `json:"error,omitempty"`
}

// Orchestrator drives the ordered remote calls that stand up one campaign:
// campaign, then ad set, then a per-creative fan-out of image upload,
// creative creation and ad creation. Campaign/ad-set failures abort the
// whole run with nothing persisted; per-creative failures are isolated.
//
// No idempotency: retrying a failed run creates duplicate remote objects.
// Only the per-creative steps are safe to retry, via RetryCreatives.
type Orchestrator struct {
	cfg         *config.Config
	graph       FacebookAPI
	connections ConnectionProvider
	campaigns   CampaignStore
	creatives   CreativeStore
	previews    PreviewFetcher
	audit       *repositories.AuditRepo
	publisher   events.Publisher
	log         *zap.Logger
}

func NewOrchestrator(
	cfg *config.Config,
	graph FacebookAPI,
	connections ConnectionProvider,
	campaigns CampaignStore,
	creatives CreativeStore,
	previews PreviewFetcher,
	audit *repositories.AuditRepo,
	publisher events.Publisher,
	log *zap.Logger,
) *Orchestrator {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Orchestrator{
		cfg:         cfg,
		graph:       graph,
		connections: connections,
		campaigns:   campaigns,
		creatives:   creatives,
		previews:    previews,
		audit:       audit,
		publisher:   publisher,
		log:         log,
	}
}

// run tracks the stage machine of a single submission.
type run struct {
	userID uuid.UUID
	stage  string
}

func (o *Orchestrator) advance(ctx context.Context, r *run, to string) {
	if !models.IsValidStageTransition(r.stage, to) {
		o.log.Error("invalid stage transition",
			zap.String("from", r.stage), zap.String("to", to))
		return
	}
	from := r.stage
	r.stage = to
	o.log.Info("orchestration stage",
		zap.String("from", from), zap.String("to", to),
		zap.String("user_id", r.userID.String()))
	_ = o.publisher.Publish(ctx, events.New(events.CampaignStageChanged, r.userID, map[string]any{
		"from": from,
		"to":   to,
	}))
}

func (o *Orchestrator) mapper(mode string) *fbads.Mapper {
	if mode == ModeDirect {
		return fbads.NewMapper(fbads.DirectOptions(o.cfg.DirectObjective), o.log)
	}
	return fbads.NewMapper(fbads.PreviewOptions(), o.log)
}

// Run executes one campaign submission end to end.
func (o *Orchestrator) Run(ctx context.Context, userID uuid.UUID, sub Submission) (*OrchestrationResult, error) {
	if missing := o.cfg.MissingFacebookKeys(); len(missing) > 0 {
		return nil, &ConfigError{MissingKeys: missing}
	}

	conn, err := o.connections.RequireValid(ctx, userID)
	if err != nil {
		return nil, err
	}
	if conn.SelectedAdAccountID == nil || *conn.SelectedAdAccountID == "" {
		return nil, ErrNoAdAccount
	}
	if conn.SelectedPageID == nil || *conn.SelectedPageID == "" {
		return nil, ErrNoPage
	}
	adAccountID := *conn.SelectedAdAccountID
	pageID := *conn.SelectedPageID

	if n := len(sub.SelectedCreativeIDs); n == 0 {
		return nil, fmt.Errorf("no creatives selected")
	} else if n > o.cfg.MaxSelectedCreatives {
		return nil, fmt.Errorf("too many creatives selected: %d (max %d)", n, o.cfg.MaxSelectedCreatives)
	}

	variants, err := o.creatives.ListByIDs(ctx, sub.SelectedCreativeIDs)
	if err != nil {
		return nil, fmt.Errorf("loading creatives: %w", err)
	}
	if len(variants) != len(sub.SelectedCreativeIDs) {
		return nil, fmt.Errorf("some selected creatives do not exist")
	}

	mapper := o.mapper(sub.Mode)
	spec := targeting.Transform(sub.TargetAudience.Demographics, sub.TargetAudience.PainPoints, targeting.Options{
		DefaultCountry: "US",
		AgeMin:         sub.AgeMin,
		AgeMax:         sub.AgeMax,
		Genders:        sub.Genders,
		ExtraInterests: sub.Interests,
	})

	r := &run{userID: userID, stage: models.StageInit}
	_ = o.publisher.Publish(ctx, events.New(events.CampaignSubmitted, userID, map[string]any{
		"campaign_name": sub.CampaignName,
		"creatives":     len(variants),
	}))

	campaignParams := mapper.MapCampaign(sub.CampaignName)
	campaignID, err := o.graph.CreateCampaign(ctx, conn.AccessToken, adAccountID, campaignParams)
	if err != nil {
		return o.fail(ctx, r, "campaign", err)
	}
	o.advance(ctx, r, models.StageCampaignCreated)

	adSetParams := mapper.MapAdSet(sub.CampaignName, campaignID, sub.DailyBudgetUSD, spec, fbads.Schedule{
		StartDate: sub.StartDate,
		EndDate:   sub.EndDate,
	})
	adSetID, err := o.graph.CreateAdSet(ctx, conn.AccessToken, adAccountID, adSetParams)
	if err != nil {
		// The remote campaign stays orphaned; no rollback is attempted.
		return o.fail(ctx, r, "adset", err)
	}
	o.advance(ctx, r, models.StageAdSetCreated)

	results := o.fanOut(ctx, conn.AccessToken, adAccountID, pageID, mapper, sub, variants, adSetID)

	dbID, err := o.persist(ctx, userID, sub, mapper, campaignID, adSetID, campaignParams, adSetParams, variants, results)
	if err != nil {
		// Remote objects exist but the local row could not be written.
		o.advance(ctx, r, models.StageError)
		_ = o.publisher.Publish(ctx, events.New(events.CampaignFailed, userID, map[string]any{
			"stage": "persist",
			"error": err.Error(),
		}))
		return &OrchestrationResult{Success: false, CampaignID: campaignID, AdSetID: adSetID, Error: err.Error()}, err
	}
	o.advance(ctx, r, models.StagePersisted)
	o.advance(ctx, r, models.StageDone)

	result := &OrchestrationResult{
		Success:    true,
		CampaignID: campaignID,
		AdSetID:    adSetID,
		Ads:        results,
		DatabaseID: dbID,
	}
	for _, res := range results {
		if !res.Success {
			result.FailedCreatives = append(result.FailedCreatives, FailedCreative{
				CreativeID: res.CreativeID,
				Reason:     res.Error,
			})
		}
	}

	eventType := events.CampaignCompleted
	if len(result.FailedCreatives) > 0 {
		eventType = events.CampaignPartial
	}
	_ = o.publisher.Publish(ctx, events.New(eventType, userID, map[string]any{
		"database_id": dbID.String(),
		"campaign_id": campaignID,
		"failed":      len(result.FailedCreatives),
	}))
	o.auditLog(ctx, userID, "campaign.created", dbID, map[string]any{
		"platform_campaign_id": campaignID,
		"ads":                  len(results),
		"failed":               len(result.FailedCreatives),
	})

	return result, nil
}

func (o *Orchestrator) fail(ctx context.Context, r *run, stage string, err error) (*OrchestrationResult, error) {
	o.advance(ctx, r, models.StageError)
	_ = o.publisher.Publish(ctx, events.New(events.CampaignFailed, r.userID, map[string]any{
		"stage": stage,
		"error": err.Error(),
	}))
	return &OrchestrationResult{Success: false, Error: err.Error()},
		&RemoteCreateError{Stage: stage, Message: err.Error()}
}

// fanOut runs the per-creative steps concurrently. Outcomes are gathered
// per item; a failure never cancels siblings, so goroutines always return
// nil to the group.
func (o *Orchestrator) fanOut(ctx context.Context, accessToken, adAccountID, pageID string, mapper *fbads.Mapper, sub Submission, variants []models.AdVariant, adSetID string) []models.AdResult {
	results := make([]models.AdResult, len(variants))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(len(variants))
	for i, v := range variants {
		i, v := i, v
		g.Go(func() error {
			results[i] = o.createAd(gctx, accessToken, adAccountID, pageID, mapper, sub, v, adSetID, i)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// createAd runs the steps for one creative: optional image backfill and
// upload, creative creation, ad creation.
func (o *Orchestrator) createAd(ctx context.Context, accessToken, adAccountID, pageID string, mapper *fbads.Mapper, sub Submission, variant models.AdVariant, adSetID string, index int) models.AdResult {
	res := models.AdResult{CreativeID: variant.ID}

	if variant.ImageURL == "" && sub.LandingPageURL != "" && o.previews != nil {
		if p, err := o.previews.Fetch(ctx, sub.LandingPageURL); err == nil && p.ImageURL != "" {
			variant.ImageURL = p.ImageURL
			o.log.Info("backfilled creative image from landing page",
				zap.String("creative_id", variant.ID.String()))
		}
	}

	params := mapper.MapCreative(sub.BusinessIdea, sub.TargetAudience, variant, pageID, sub.LandingPageURL)

	if variant.ImageURL != "" && fbads.NeedsUpload(variant.ImageURL) {
		hash, err := o.graph.UploadImage(ctx, accessToken, adAccountID, variant.ImageURL)
		if err != nil {
			res.Error = fmt.Sprintf("uploading image: %s", err)
			return res
		}
		res.ImageHash = hash
		res.Stage = models.CreativeStageImageUploaded
		params.ObjectStorySpec.LinkData.ImageHash = hash
		params.ObjectStorySpec.LinkData.Picture = ""
	}

	remoteCreativeID, err := o.graph.CreateAdCreative(ctx, accessToken, adAccountID, params)
	if err != nil {
		res.Error = fmt.Sprintf("creating ad creative: %s", err)
		return res
	}
	res.RemoteCreativeID = remoteCreativeID
	res.Stage = models.CreativeStageCreativeCreated

	adID, err := o.graph.CreateAd(ctx, accessToken, adAccountID, mapper.MapAd(sub.CampaignName, adSetID, remoteCreativeID, index))
	if err != nil {
		res.Error = fmt.Sprintf("creating ad: %s", err)
		return res
	}
	res.AdID = adID
	res.Stage = models.CreativeStageAdCreated
	res.Success = true
	return res
}

func (o *Orchestrator) persist(ctx context.Context, userID uuid.UUID, sub Submission, mapper *fbads.Mapper, campaignID, adSetID string, campaignParams fbads.CampaignParams, adSetParams fbads.AdSetParams, variants []models.AdVariant, results []models.AdResult) (uuid.UUID, error) {
	snapshot, err := buildSnapshot(sub, campaignParams, adSetParams, results)
	if err != nil {
		return uuid.Nil, err
	}

	status := models.CampaignStatusDraft
	if mapper.Options().CampaignStatus == "ACTIVE" {
		status = models.CampaignStatusActive
	}

	var adIDs []string
	for _, res := range results {
		if res.AdID != "" {
			adIDs = append(adIDs, res.AdID)
		}
	}

	var imageURL *string
	for _, v := range variants {
		if v.ImageURL != "" {
			u := v.ImageURL
			imageURL = &u
			break
		}
	}

	row := &models.AdCampaign{
		ProjectID:          sub.ProjectID,
		UserID:             userID,
		Platform:           models.PlatformFacebook,
		Name:               sub.CampaignName,
		Status:             status,
		PlatformCampaignID: &campaignID,
		PlatformAdSetID:    &adSetID,
		PlatformAdIDs:      adIDs,
		CampaignData:       snapshot,
		ImageURL:           imageURL,
	}
	if err := o.campaigns.Create(ctx, row); err != nil {
		return uuid.Nil, fmt.Errorf("persisting campaign: %w", err)
	}
	return row.ID, nil
}

func buildSnapshot(sub Submission, campaignParams fbads.CampaignParams, adSetParams fbads.AdSetParams, results []models.AdResult) (json.RawMessage, error) {
	request, err := json.Marshal(sub)
	if err != nil {
		return nil, err
	}
	cp, err := json.Marshal(campaignParams)
	if err != nil {
		return nil, err
	}
	ap, err := json.Marshal(adSetParams)
	if err != nil {
		return nil, err
	}
	return json.Marshal(models.CampaignSnapshot{
		Mode:           sub.Mode,
		Request:        request,
		CampaignParams: cp,
		AdSetParams:    ap,
		Results:        results,
	})
}

// Get returns a campaign owned by the user.
func (o *Orchestrator) Get(ctx context.Context, userID, campaignID uuid.UUID) (*models.AdCampaign, error) {
	c, err := o.campaigns.GetByID(ctx, campaignID)
	if err != nil {
		return nil, ErrNotFound
	}
	if c.UserID != userID {
		return nil, ErrUnauthorized
	}
	return c, nil
}

// List returns the user's campaigns, optionally filtered by project/status.
func (o *Orchestrator) List(ctx context.Context, userID uuid.UUID, projectID *uuid.UUID, status *string, limit, offset int) ([]models.AdCampaign, error) {
	return o.campaigns.List(ctx, repositories.AdCampaignFilter{
		UserID:    &userID,
		ProjectID: projectID,
		Status:    status,
		Limit:     limit,
		Offset:    offset,
	})
}

// CampaignStatus is the local record combined with the remote delivery
// status when it can be fetched.
type CampaignStatus struct {
	Campaign        *models.AdCampaign      `json:"campaign"`
	Results         []models.AdResult       `json:"results"`
	EffectiveStatus string                  `json:"effective_status,omitempty"`
}

// Status reports the stored campaign and, when a connection is available,
// the live remote effective status.
func (o *Orchestrator) Status(ctx context.Context, userID, campaignID uuid.UUID) (*CampaignStatus, error) {
	c, err := o.Get(ctx, userID, campaignID)
	if err != nil {
		return nil, err
	}
	snap := models.DecodeCampaignSnapshot(c.CampaignData)
	out := &CampaignStatus{Campaign: c, Results: snap.Results}

	if c.PlatformCampaignID != nil {
		if conn, err := o.connections.RequireValid(ctx, userID); err == nil {
			if es, err := o.graph.GetEffectiveStatus(ctx, conn.AccessToken, *c.PlatformCampaignID); err == nil {
				out.EffectiveStatus = es
			} else {
				o.log.Warn("fetching effective status", zap.Error(err))
			}
		}
	}
	return out, nil
}

// Activate flips a draft campaign to active, locally and remotely.
func (o *Orchestrator) Activate(ctx context.Context, userID, campaignID uuid.UUID) error {
	c, err := o.Get(ctx, userID, campaignID)
	if err != nil {
		return err
	}
	if !models.IsValidCampaignTransition(c.Status, models.CampaignStatusActive) {
		return fmt.Errorf("cannot activate campaign in status %q", c.Status)
	}
	if c.PlatformCampaignID == nil {
		return fmt.Errorf("campaign has no remote id")
	}

	conn, err := o.connections.RequireValid(ctx, userID)
	if err != nil {
		return err
	}
	if err := o.graph.UpdateStatus(ctx, conn.AccessToken, *c.PlatformCampaignID, "ACTIVE"); err != nil {
		return fmt.Errorf("activating remote campaign: %w", err)
	}
	if err := o.campaigns.UpdateStatus(ctx, campaignID, models.CampaignStatusActive); err != nil {
		return err
	}

	_ = o.publisher.Publish(ctx, events.New(events.CampaignActivated, userID, map[string]any{
		"database_id": campaignID.String(),
	}))
	o.auditLog(ctx, userID, "campaign.activated", campaignID, nil)
	return nil
}

// Pause flips an active campaign to paused, locally and remotely.
func (o *Orchestrator) Pause(ctx context.Context, userID, campaignID uuid.UUID) error {
	c, err := o.Get(ctx, userID, campaignID)
	if err != nil {
		return err
	}
	if !models.IsValidCampaignTransition(c.Status, models.CampaignStatusPaused) {
		return fmt.Errorf("cannot pause campaign in status %q", c.Status)
	}
	if c.PlatformCampaignID == nil {
		return fmt.Errorf("campaign has no remote id")
	}

	conn, err := o.connections.RequireValid(ctx, userID)
	if err != nil {
		return err
	}
	if err := o.graph.UpdateStatus(ctx, conn.AccessToken, *c.PlatformCampaignID, "PAUSED"); err != nil {
		return fmt.Errorf("pausing remote campaign: %w", err)
	}
	return o.campaigns.UpdateStatus(ctx, campaignID, models.CampaignStatusPaused)
}

// Delete removes the local record. Remote objects are left in place;
// deletion is an explicit user action, never automatic.
func (o *Orchestrator) Delete(ctx context.Context, userID, campaignID uuid.UUID) error {
	if _, err := o.Get(ctx, userID, campaignID); err != nil {
		return err
	}
	if err := o.campaigns.Delete(ctx, campaignID); err != nil {
		return err
	}
	o.auditLog(ctx, userID, "campaign.deleted", campaignID, nil)
	return nil
}

// RetryCreatives re-runs the per-creative steps for the given creative IDs
// under the already-created ad set. Only failed creatives are retried; the
// campaign and ad set are never recreated.
func (o *Orchestrator) RetryCreatives(ctx context.Context, userID, campaignID uuid.UUID, creativeIDs []uuid.UUID) (*OrchestrationResult, error) {
	c, err := o.Get(ctx, userID, campaignID)
	if err != nil {
		return nil, err
	}
	if c.PlatformAdSetID == nil || c.PlatformCampaignID == nil {
		return nil, fmt.Errorf("campaign has no remote ad set")
	}

	conn, err := o.connections.RequireValid(ctx, userID)
	if err != nil {
		return nil, err
	}
	if conn.SelectedAdAccountID == nil || conn.SelectedPageID == nil {
		return nil, ErrNoAdAccount
	}

	snap := models.DecodeCampaignSnapshot(c.CampaignData)
	var sub Submission
	if len(snap.Request) > 0 {
		_ = json.Unmarshal(snap.Request, &sub)
	}

	// Only creatives whose recorded result failed may be retried.
	failed := make(map[uuid.UUID]bool)
	for _, res := range snap.Results {
		if !res.Success {
			failed[res.CreativeID] = true
		}
	}
	var retryable []uuid.UUID
	for _, id := range creativeIDs {
		if failed[id] {
			retryable = append(retryable, id)
		}
	}
	if len(retryable) == 0 {
		return nil, fmt.Errorf("no failed creatives to retry")
	}

	variants, err := o.creatives.ListByIDs(ctx, retryable)
	if err != nil {
		return nil, fmt.Errorf("loading creatives: %w", err)
	}

	mapper := o.mapper(snap.Mode)
	results := o.fanOut(ctx, conn.AccessToken, *conn.SelectedAdAccountID, *conn.SelectedPageID, mapper, sub, variants, *c.PlatformAdSetID)

	// Fold the retry outcomes back into the stored snapshot.
	byID := make(map[uuid.UUID]models.AdResult, len(results))
	for _, res := range results {
		byID[res.CreativeID] = res
	}
	for i, res := range snap.Results {
		if updated, ok := byID[res.CreativeID]; ok {
			snap.Results[i] = updated
		}
	}

	adIDs := c.PlatformAdIDs
	for _, res := range results {
		if res.AdID != "" {
			adIDs = append(adIDs, res.AdID)
		}
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return nil, err
	}
	if err := o.campaigns.UpdateResults(ctx, campaignID, adIDs, data); err != nil {
		return nil, fmt.Errorf("updating campaign results: %w", err)
	}

	result := &OrchestrationResult{
		Success:    true,
		CampaignID: *c.PlatformCampaignID,
		AdSetID:    *c.PlatformAdSetID,
		Ads:        results,
		DatabaseID: campaignID,
	}
	for _, res := range results {
		if !res.Success {
			result.FailedCreatives = append(result.FailedCreatives, FailedCreative{CreativeID: res.CreativeID, Reason: res.Error})
		}
	}
	return result, nil
}

func (o *Orchestrator) auditLog(ctx context.Context, userID uuid.UUID, action string, entityID uuid.UUID, meta map[string]any) {
	if o.audit == nil {
		return
	}
	entry := models.AuditLog{
		ActorUserID: &userID,
		ActorType:   "user",
		Action:      action,
		EntityType:  "ad_campaign",
		EntityID:    &entityID,
		Meta:        meta,
	}
	if err := o.audit.Log(ctx, entry); err != nil {
		o.log.Warn("writing audit log", zap.String("action", action), zap.Error(err))
	}
}
