package fbads

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ad-wizard/backend/internal/models"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// RetryPolicy is the retry behaviour injected into the Graph client.
// Retries fire on transport errors and 5xx responses only; 4xx responses
// are authoritative rejections and returned immediately.
type RetryPolicy struct {
	MaxAttempts int
	Wait        time.Duration
	MaxWait     time.Duration
}

type ClientConfig struct {
	BaseURL    string // e.g. https://graph.facebook.com
	APIVersion string // e.g. v19.0
	Timeout    time.Duration
	Retry      RetryPolicy
}

// Client wraps the Facebook Graph / Marketing API. No idempotency is
// provided: retrying a create call after a partial failure creates a
// duplicate remote object.
type Client struct {
	http       *resty.Client
	apiVersion string
	log        *zap.Logger
}

func NewClient(cfg ClientConfig, log *zap.Logger) *Client {
	hc := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)

	if cfg.Retry.MaxAttempts > 1 {
		hc.SetRetryCount(cfg.Retry.MaxAttempts - 1).
			SetRetryWaitTime(cfg.Retry.Wait).
			SetRetryMaxWaitTime(cfg.Retry.MaxWait).
			AddRetryCondition(func(r *resty.Response, err error) bool {
				return err != nil || r.StatusCode() >= 500
			})
	}

	return &Client{http: hc, apiVersion: cfg.APIVersion, log: log}
}

func (c *Client) path(parts ...string) string {
	return "/" + c.apiVersion + "/" + strings.Join(parts, "/")
}

// decodeError turns a non-2xx Graph response into an error carrying the
// remote message verbatim.
func decodeError(resp *resty.Response) error {
	if env, ok := resp.Error().(*apiError); ok && env.Error.Message != "" {
		return fmt.Errorf("graph api error (%d): %s", resp.StatusCode(), env.Error.Message)
	}
	return fmt.Errorf("graph api error (%d): %s", resp.StatusCode(), resp.String())
}

func (c *Client) postObject(ctx context.Context, path, accessToken string, body any) (string, error) {
	var out IDResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("access_token", accessToken).
		SetBody(body).
		SetResult(&out).
		SetError(&apiError{}).
		Post(path)
	if err != nil {
		return "", fmt.Errorf("graph api unavailable: %w", err)
	}
	if resp.IsError() {
		return "", decodeError(resp)
	}
	if out.ID == "" {
		return "", fmt.Errorf("graph api returned no id")
	}
	return out.ID, nil
}

func (c *Client) CreateCampaign(ctx context.Context, accessToken, adAccountID string, params CampaignParams) (string, error) {
	return c.postObject(ctx, c.path(actPath(adAccountID), "campaigns"), accessToken, params)
}

func (c *Client) CreateAdSet(ctx context.Context, accessToken, adAccountID string, params AdSetParams) (string, error) {
	return c.postObject(ctx, c.path(actPath(adAccountID), "adsets"), accessToken, params)
}

func (c *Client) CreateAdCreative(ctx context.Context, accessToken, adAccountID string, params AdCreativeParams) (string, error) {
	return c.postObject(ctx, c.path(actPath(adAccountID), "adcreatives"), accessToken, params)
}

func (c *Client) CreateAd(ctx context.Context, accessToken, adAccountID string, params AdParams) (string, error) {
	return c.postObject(ctx, c.path(actPath(adAccountID), "ads"), accessToken, params)
}

// UploadImage fetches the image at imageURL and uploads the bytes to the ad
// account's image library, returning the image hash.
func (c *Client) UploadImage(ctx context.Context, accessToken, adAccountID, imageURL string) (string, error) {
	imgResp, err := c.http.R().
		SetContext(ctx).
		Get(imageURL)
	if err != nil {
		return "", fmt.Errorf("fetching image: %w", err)
	}
	if imgResp.IsError() {
		return "", fmt.Errorf("fetching image: status %d", imgResp.StatusCode())
	}
	data := imgResp.Body()
	if len(data) == 0 {
		return "", fmt.Errorf("fetching image: empty body")
	}

	var out imageUploadResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("access_token", accessToken).
		SetFileReader("filename", "creative.jpg", bytes.NewReader(data)).
		SetResult(&out).
		SetError(&apiError{}).
		Post(c.path(actPath(adAccountID), "adimages"))
	if err != nil {
		return "", fmt.Errorf("graph api unavailable: %w", err)
	}
	if resp.IsError() {
		return "", decodeError(resp)
	}
	for _, img := range out.Images {
		if img.Hash != "" {
			return img.Hash, nil
		}
	}
	return "", fmt.Errorf("image upload returned no hash")
}

// UpdateStatus flips the status field of any remote object (campaign, ad
// set, ad).
func (c *Client) UpdateStatus(ctx context.Context, accessToken, objectID, status string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("access_token", accessToken).
		SetBody(map[string]string{"status": status}).
		SetError(&apiError{}).
		Post(c.path(objectID))
	if err != nil {
		return fmt.Errorf("graph api unavailable: %w", err)
	}
	if resp.IsError() {
		return decodeError(resp)
	}
	return nil
}

// GetEffectiveStatus reads the remote delivery status of a campaign.
func (c *Client) GetEffectiveStatus(ctx context.Context, accessToken, campaignID string) (string, error) {
	var out struct {
		ID              string `json:"id"`
		EffectiveStatus string `json:"effective_status"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"access_token": accessToken,
			"fields":       "effective_status",
		}).
		SetResult(&out).
		SetError(&apiError{}).
		Get(c.path(campaignID))
	if err != nil {
		return "", fmt.Errorf("graph api unavailable: %w", err)
	}
	if resp.IsError() {
		return "", decodeError(resp)
	}
	return out.EffectiveStatus, nil
}

// ExchangeCode trades an OAuth authorization code for an access token.
// Credentials are query parameters per the Graph API convention.
func (c *Client) ExchangeCode(ctx context.Context, appID, appSecret, redirectURI, code string) (*TokenResponse, error) {
	var out TokenResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"client_id":     appID,
			"client_secret": appSecret,
			"redirect_uri":  redirectURI,
			"code":          code,
		}).
		SetResult(&out).
		SetError(&apiError{}).
		Get(c.path("oauth", "access_token"))
	if err != nil {
		return nil, fmt.Errorf("graph api unavailable: %w", err)
	}
	if resp.IsError() {
		return nil, decodeError(resp)
	}
	if out.AccessToken == "" {
		return nil, fmt.Errorf("token exchange returned no access token")
	}
	return &out, nil
}

// ListAdAccounts fetches the ad accounts visible to the token.
func (c *Client) ListAdAccounts(ctx context.Context, accessToken string) ([]models.AdAccount, error) {
	var out adAccountsResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"access_token": accessToken,
			"fields":       "id,name,account_status",
		}).
		SetResult(&out).
		SetError(&apiError{}).
		Get(c.path("me", "adaccounts"))
	if err != nil {
		return nil, fmt.Errorf("graph api unavailable: %w", err)
	}
	if resp.IsError() {
		return nil, decodeError(resp)
	}
	accounts := make([]models.AdAccount, 0, len(out.Data))
	for _, a := range out.Data {
		accounts = append(accounts, models.AdAccount{ID: a.ID, Name: a.Name, AccountStatus: a.AccountStatus})
	}
	return accounts, nil
}

// ListPages fetches the pages the token can manage.
func (c *Client) ListPages(ctx context.Context, accessToken string) ([]models.Page, error) {
	var out pagesResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("access_token", accessToken).
		SetResult(&out).
		SetError(&apiError{}).
		Get(c.path("me", "accounts"))
	if err != nil {
		return nil, fmt.Errorf("graph api unavailable: %w", err)
	}
	if resp.IsError() {
		return nil, decodeError(resp)
	}
	pages := make([]models.Page, 0, len(out.Data))
	for _, p := range out.Data {
		pages = append(pages, models.Page{ID: p.ID, Name: p.Name, AccessToken: p.AccessToken})
	}
	return pages, nil
}

// actPath normalises an ad account id to the act_-prefixed path segment.
func actPath(adAccountID string) string {
	if strings.HasPrefix(adAccountID, "act_") {
		return adAccountID
	}
	return "act_" + adAccountID
}

// NeedsUpload reports whether an image URL must be uploaded to the image
// library. Images already on Facebook's CDN can be referenced directly.
func NeedsUpload(imageURL string) bool {
	u, err := url.Parse(imageURL)
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.ToLower(u.Host)
	return !strings.HasSuffix(host, "fbcdn.net") && !strings.HasSuffix(host, "facebook.com")
}
