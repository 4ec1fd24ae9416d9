package transfer

type PostCreation struct {
	PostDate     string `json:"post_date" validate:"omitempty,datetime=2006-01-02"`
	TimeSlot     string `json:"time_slot" validate:"time_slot"`
	Topic        string `json:"topic" validate:"max=300"`
	MainIdea     string `json:"main_idea"`
	CaptionDraft string `json:"caption_draft"`
	Format       string `json:"format" validate:"omitempty,oneof=IMAGE VIDEO REEL ALBUM STORY TEXT"`
	Goal         string `json:"goal" validate:"omitempty,oneof=Awareness Engagement Conversion Recruitment Other"`
	Platform     string `json:"platform" validate:"omitempty,oneof=Facebook TikTok Zalo Instagram"`
}

type AssetInput struct {
	ID          string `json:"id"`
	Type        string `json:"type" validate:"required,oneof=IMAGE VIDEO LINK DRIVE CANVA"`
	URLOrPath   string `json:"url_or_path" validate:"required"`
	Description string `json:"description"`
}

// PostUpdate carries the editable fields of a post. Nil fields are left
// unchanged; a non-nil Assets replaces the whole asset list.
type PostUpdate struct {
	PostDate     *string       `json:"post_date" validate:"omitempty,datetime=2006-01-02"`
	TimeSlot     *string       `json:"time_slot" validate:"omitempty,time_slot"`
	Goal         *string       `json:"goal" validate:"omitempty,oneof=Awareness Engagement Conversion Recruitment Other"`
	Topic        *string       `json:"topic" validate:"omitempty,max=300"`
	Platform     *string       `json:"platform" validate:"omitempty,oneof=Facebook TikTok Zalo Instagram"`
	Format       *string       `json:"format" validate:"omitempty,oneof=IMAGE VIDEO REEL ALBUM STORY TEXT"`
	MainIdea     *string       `json:"main_idea"`
	Hook         *string       `json:"hook"`
	CaptionDraft *string       `json:"caption_draft"`
	CTA          *string       `json:"cta"`
	VisualBrief  *string       `json:"visual_brief"`
	Notes        *string       `json:"notes"`
	Assets       *[]AssetInput `json:"assets" validate:"omitempty,dive"`
}

type StatusUpdate struct {
	Status string `json:"status" validate:"required"`
}

type IdeaPost struct {
	Idea  string `json:"idea" validate:"required"`
	Topic string `json:"topic"`
}

type GapAccept struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

type ApplyHook struct {
	Hook               string   `json:"hook" validate:"required"`
	Caption            string   `json:"caption"`
	CTA                string   `json:"cta"`
	VisualIdeas        []string `json:"visual_ideas"`
	HashtagSuggestions []string `json:"hashtag_suggestions"`
}
