package fbads

import "github.com/ad-wizard/backend/internal/targeting"

// Payload shapes for the Marketing API. Field names follow the Graph API
// wire format; the access token travels as a request parameter, not a
// header, matching the wrapped API's convention.

type CampaignParams struct {
	Name                string   `json:"name"`
	Objective           string   `json:"objective"`
	Status              string   `json:"status"`
	SpecialAdCategories []string `json:"special_ad_categories"`
}

type AdSetParams struct {
	Name             string         `json:"name"`
	CampaignID       string         `json:"campaign_id"`
	DailyBudget      int64          `json:"daily_budget"` // minor currency units (cents)
	BillingEvent     string         `json:"billing_event"`
	OptimizationGoal string         `json:"optimization_goal"`
	Targeting        targeting.Spec `json:"targeting"`
	StartTime        string         `json:"start_time,omitempty"` // YYYY-MM-DD
	EndTime          string         `json:"end_time,omitempty"`   // YYYY-MM-DD
	Status           string         `json:"status"`
}

type CallToActionValue struct {
	Link string `json:"link"`
}

type CallToAction struct {
	Type  string            `json:"type"`
	Value CallToActionValue `json:"value"`
}

type LinkData struct {
	Link         string       `json:"link"`
	Message      string       `json:"message"`
	Name         string       `json:"name"`
	Description  string       `json:"description,omitempty"`
	Caption      string       `json:"caption,omitempty"` // visible link
	Picture      string       `json:"picture,omitempty"`
	ImageHash    string       `json:"image_hash,omitempty"`
	CallToAction CallToAction `json:"call_to_action"`
}

type ObjectStorySpec struct {
	PageID   string   `json:"page_id"`
	LinkData LinkData `json:"link_data"`
}

type AdCreativeParams struct {
	Name            string          `json:"name"`
	ObjectStorySpec ObjectStorySpec `json:"object_story_spec"`
	URLTags         string          `json:"url_tags,omitempty"`
}

type AdParams struct {
	Name       string `json:"name"`
	AdSetID    string `json:"adset_id"`
	CreativeID string `json:"creative_id"`
	Status     string `json:"status"`
}

// Responses

type IDResponse struct {
	ID string `json:"id"`
}

type apiError struct {
	Error struct {
		Message   string `json:"message"`
		Type      string `json:"type"`
		Code      int    `json:"code"`
		FBTraceID string `json:"fbtrace_id"`
	} `json:"error"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"` // seconds
}

type adAccountsResponse struct {
	Data []struct {
		ID            string `json:"id"`
		Name          string `json:"name"`
		AccountStatus int    `json:"account_status"`
	} `json:"data"`
}

type pagesResponse struct {
	Data []struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		AccessToken string `json:"access_token"`
	} `json:"data"`
}

type imageUploadResponse struct {
	Images map[string]struct {
		Hash string `json:"hash"`
		URL  string `json:"url"`
	} `json:"images"`
}
