package dto

type AuthResponse struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

type SuccessResponse struct {
	OK   bool `json:"ok"`
	Data any  `json:"data,omitempty"`
}

type AuthURLResponse struct {
	URL string `json:"url"`
}

// ConnectionStatusResponse describes the stored Facebook connection without
// exposing the access token.
type ConnectionStatusResponse struct {
	Connected           bool    `json:"connected"`
	Valid               bool    `json:"valid"`
	Expired             bool    `json:"expired"`
	SelectedAdAccountID *string `json:"selected_ad_account_id,omitempty"`
	SelectedPageID      *string `json:"selected_page_id,omitempty"`
	AdAccounts          any     `json:"ad_accounts,omitempty"`
	Pages               any     `json:"pages,omitempty"`
}
