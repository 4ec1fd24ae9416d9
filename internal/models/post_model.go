package models

import "time"

type PostStatus string

const (
	PostStatusIdea      PostStatus = "IDEA"
	PostStatusDraft     PostStatus = "DRAFT"
	PostStatusReview    PostStatus = "REVIEW"
	PostStatusPublished PostStatus = "PUBLISHED"
)

// PostStatuses lists the statuses in board order.
var PostStatuses = []PostStatus{PostStatusIdea, PostStatusDraft, PostStatusReview, PostStatusPublished}

func (s PostStatus) Valid() bool {
	switch s {
	case PostStatusIdea, PostStatusDraft, PostStatusReview, PostStatusPublished:
		return true
	}
	return false
}

type PostFormat string

const (
	PostFormatImage PostFormat = "IMAGE"
	PostFormatVideo PostFormat = "VIDEO"
	PostFormatReel  PostFormat = "REEL"
	PostFormatAlbum PostFormat = "ALBUM"
	PostFormatStory PostFormat = "STORY"
	PostFormatText  PostFormat = "TEXT"
)

func (f PostFormat) Valid() bool {
	switch f {
	case PostFormatImage, PostFormatVideo, PostFormatReel, PostFormatAlbum, PostFormatStory, PostFormatText:
		return true
	}
	return false
}

type PostGoal string

const (
	PostGoalAwareness   PostGoal = "Awareness"
	PostGoalEngagement  PostGoal = "Engagement"
	PostGoalConversion  PostGoal = "Conversion"
	PostGoalRecruitment PostGoal = "Recruitment"
	PostGoalOther       PostGoal = "Other"
)

func (g PostGoal) Valid() bool {
	switch g {
	case PostGoalAwareness, PostGoalEngagement, PostGoalConversion, PostGoalRecruitment, PostGoalOther:
		return true
	}
	return false
}

type Platform string

const (
	PlatformFacebook  Platform = "Facebook"
	PlatformTikTok    Platform = "TikTok"
	PlatformZalo      Platform = "Zalo"
	PlatformInstagram Platform = "Instagram"
)

const DateLayout = "2006-01-02"

type Post struct {
	ID     string `db:"id" json:"id"`
	PageID string `db:"page_id" json:"page_id"`

	PostDate string `db:"post_date" json:"post_date"` // YYYY-MM-DD
	TimeSlot string `db:"time_slot" json:"time_slot"` // HH:MM or free-form, empty means any time

	Goal     PostGoal   `db:"goal" json:"goal"`
	Topic    string     `db:"topic" json:"topic"`
	Platform Platform   `db:"platform" json:"platform"`
	Format   PostFormat `db:"format" json:"format"`

	MainIdea     string `db:"main_idea" json:"main_idea"`
	Hook         string `db:"hook" json:"hook"`
	CaptionDraft string `db:"caption_draft" json:"caption_draft"`
	CTA          string `db:"cta" json:"cta"`
	VisualBrief  string `db:"visual_brief" json:"visual_brief,omitempty"`
	Notes        string `db:"notes" json:"notes,omitempty"`

	Status   PostStatus `db:"status" json:"status"`
	PostLink string     `db:"post_link" json:"post_link,omitempty"`

	Assets []Asset `db:"-" json:"assets"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type AssetType string

const (
	AssetTypeImage AssetType = "IMAGE"
	AssetTypeVideo AssetType = "VIDEO"
	AssetTypeLink  AssetType = "LINK"
	AssetTypeDrive AssetType = "DRIVE"
	AssetTypeCanva AssetType = "CANVA"
)

type Asset struct {
	ID            string    `db:"id" json:"id"`
	PageID        string    `db:"page_id" json:"page_id"`
	RelatedPostID string    `db:"post_id" json:"related_post_id,omitempty"`
	Type          AssetType `db:"asset_type" json:"type"`
	URLOrPath     string    `db:"url_or_path" json:"url_or_path"`
	Description   string    `db:"description" json:"description"`
	Position      int       `db:"position" json:"-"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// Clone returns a copy of the post whose asset slice is not shared with p.
func (p Post) Clone() Post {
	if p.Assets != nil {
		assets := make([]Asset, len(p.Assets))
		copy(assets, p.Assets)
		p.Assets = assets
	}
	return p
}
