package fbads

import (
	"fmt"
	"math"
	"strings"

	"github.com/ad-wizard/backend/internal/models"
	"github.com/ad-wizard/backend/internal/targeting"
	"go.uber.org/zap"
)

// Platform field limits for link_data. The mapper warns on violations but
// lets the payload through: the remote API is the final authority.
const (
	MaxHeadlineLen = 40
	MaxMessageLen  = 125

	DefaultCallToAction = "LEARN_MORE"
)

// MapperOptions selects the entry-point behaviour. The two presets preserve
// the two historical paths: preview campaigns start PAUSED so a human
// reviews before spend; the direct path creates them delivering.
type MapperOptions struct {
	Objective      string
	CampaignStatus string
	CallToAction   string
}

func PreviewOptions() MapperOptions {
	return MapperOptions{Objective: "CONVERSIONS", CampaignStatus: "PAUSED", CallToAction: DefaultCallToAction}
}

func DirectOptions(objective string) MapperOptions {
	if objective == "" {
		objective = "OUTCOME_AWARENESS"
	}
	return MapperOptions{Objective: objective, CampaignStatus: "ACTIVE", CallToAction: DefaultCallToAction}
}

// Schedule carries the ad set run window, already formatted YYYY-MM-DD.
type Schedule struct {
	StartDate string
	EndDate   string
}

// Mapper builds Marketing API payloads from domain objects.
type Mapper struct {
	opts MapperOptions
	log  *zap.Logger
}

func NewMapper(opts MapperOptions, log *zap.Logger) *Mapper {
	if opts.CallToAction == "" {
		opts.CallToAction = DefaultCallToAction
	}
	return &Mapper{opts: opts, log: log}
}

func (m *Mapper) Options() MapperOptions { return m.opts }

// MapCampaign builds the campaign payload for a submission.
func (m *Mapper) MapCampaign(name string) CampaignParams {
	return CampaignParams{
		Name:                name,
		Objective:           m.opts.Objective,
		Status:              m.opts.CampaignStatus,
		SpecialAdCategories: []string{},
	}
}

// MapAdSet builds the ad set payload. budgetUSD is converted to minor
// currency units.
func (m *Mapper) MapAdSet(campaignName, campaignID string, budgetUSD float64, spec targeting.Spec, sched Schedule) AdSetParams {
	return AdSetParams{
		Name:             campaignName + " - Ad Set",
		CampaignID:       campaignID,
		DailyBudget:      int64(math.Round(budgetUSD * 100)),
		BillingEvent:     "IMPRESSIONS",
		OptimizationGoal: "REACH",
		Targeting:        spec,
		StartTime:        sched.StartDate,
		EndTime:          sched.EndDate,
		Status:           m.opts.CampaignStatus,
	}
}

// MapCreative builds the ad creative payload for one variant. Validation is
// lenient: violations are logged as warnings and the payload is still
// returned so the caller decides whether to proceed.
func (m *Mapper) MapCreative(idea models.BusinessIdea, audience models.TargetAudience, variant models.AdVariant, pageID, landingPageURL string) AdCreativeParams {
	settings := models.FacebookAdSettings{
		WebsiteURL:   landingPageURL,
		CallToAction: m.opts.CallToAction,
	}.Merge(variant.FBAdSettings)

	headline := variant.Headline
	if headline == "" {
		headline = audience.CoreMessage
	}
	message := variant.PrimaryText
	if message == "" {
		message = idea.ValueProposition
	}

	m.validateLinkData(variant, headline, message)

	link := settings.WebsiteURL
	if link == "" {
		link = landingPageURL
	}

	ld := LinkData{
		Link:        link,
		Message:     message,
		Name:        headline,
		Description: idea.Description,
		Caption:     settings.VisibleLink,
		Picture:     variant.ImageURL,
		CallToAction: CallToAction{
			Type:  settings.CallToAction,
			Value: CallToActionValue{Link: link},
		},
	}

	return AdCreativeParams{
		Name:            fmt.Sprintf("%s (%s)", headline, variant.Size.Label),
		ObjectStorySpec: ObjectStorySpec{PageID: pageID, LinkData: ld},
		URLTags:         strings.TrimPrefix(settings.URLParameters, "?"),
	}
}

// MapAd builds the ad payload tying a created creative to the ad set.
func (m *Mapper) MapAd(campaignName, adSetID, creativeID string, index int) AdParams {
	return AdParams{
		Name:       fmt.Sprintf("%s - Ad %d", campaignName, index+1),
		AdSetID:    adSetID,
		CreativeID: creativeID,
		Status:     m.opts.CampaignStatus,
	}
}

func (m *Mapper) validateLinkData(variant models.AdVariant, headline, message string) {
	if len(headline) > MaxHeadlineLen {
		m.log.Warn("creative headline exceeds platform limit, remote api may reject it",
			zap.String("creative_id", variant.ID.String()),
			zap.Int("length", len(headline)),
			zap.Int("limit", MaxHeadlineLen))
	}
	if len(message) > MaxMessageLen {
		m.log.Warn("creative message exceeds platform limit, remote api may reject it",
			zap.String("creative_id", variant.ID.String()),
			zap.Int("length", len(message)),
			zap.Int("limit", MaxMessageLen))
	}
	if variant.ImageURL == "" {
		m.log.Warn("creative has no image url",
			zap.String("creative_id", variant.ID.String()))
	}
}
