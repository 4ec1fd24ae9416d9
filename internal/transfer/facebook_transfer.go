package transfer

import "time"

// FacebookToken is the reply of the oauth/access_token exchange for a
// long-lived user token.
type FacebookToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type FacebookUserInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type FacebookErrorResponse struct {
	Error struct {
		Message      string `json:"message"`
		Type         string `json:"type"`
		Code         int    `json:"code"`
		ErrorSubcode int    `json:"error_subcode"`
		FbtraceID    string `json:"fbtrace_id"`
	} `json:"error"`
}

type FacebookLoginStatus struct {
	Connected   bool      `json:"connected"`
	AccountID   string    `json:"account_id,omitempty"`
	AccountName string    `json:"account_name,omitempty"`
	ExpiresAt   time.Time `json:"expires_at,omitempty"`
}
