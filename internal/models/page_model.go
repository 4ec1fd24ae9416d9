package models

import "time"

// Page is a brand page whose content is planned here. The Facebook fields are
// filled once the page is connected to a publishing target.
type Page struct {
	ID          string `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Niche       string `db:"niche" json:"niche"`
	Avatar      string `db:"avatar" json:"avatar"`
	Description string `db:"description" json:"description"`
	BrandVoice  string `db:"brand_voice" json:"brand_voice"`
	MainColor   string `db:"main_color" json:"main_color"`
	Note        string `db:"note" json:"note,omitempty"`

	ExternalTargetID string `db:"external_target_id" json:"external_target_id,omitempty"`
	AccessToken      string `db:"access_token" json:"-"` // encrypted
	IsConnected      bool   `db:"is_connected" json:"is_connected"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// OperatorCredential is the operator's own Facebook login, used to list the
// pages they manage.
type OperatorCredential struct {
	Provider       string    `db:"provider" json:"provider"`
	AccountID      string    `db:"account_id" json:"account_id"`
	AccountName    string    `db:"account_name" json:"account_name"`
	AccessToken    string    `db:"access_token" json:"-"`
	TokenExpiresAt time.Time `db:"token_expires_at" json:"token_expires_at"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

type PostTemplate struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	UseCase              string `json:"use_case"`
	StructureDescription string `json:"structure_description"`
	CaptionExample       string `json:"caption_example"`
	Tone                 string `json:"tone"`
}
