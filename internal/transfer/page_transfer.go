package transfer

type PageInput struct {
	Name        string `json:"name" validate:"required,max=200"`
	Niche       string `json:"niche" validate:"max=200"`
	Avatar      string `json:"avatar" validate:"omitempty,url"`
	Description string `json:"description"`
	BrandVoice  string `json:"brand_voice"`
	MainColor   string `json:"main_color" validate:"omitempty,hexcolor"`
	Note        string `json:"note"`
}

type PageConnection struct {
	TargetID string `json:"target_id" validate:"required"`
}
