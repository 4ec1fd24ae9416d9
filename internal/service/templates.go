package service

import "github.com/maheshrc27/content-planner/internal/models"

var postTemplates = []models.PostTemplate{
	{
		ID:                   "tpl-1",
		Name:                 "Promotion launch",
		UseCase:              "Launching a new product or service",
		StructureDescription: "Hook (curiosity) -> Features -> Benefits -> Price -> CTA",
		CaptionExample:       "🚀 IT'S HERE!\n\nMeet Minio Green, small but mighty.\n✅ Smooth ride, no fuel smell\n✅ Fixed price of 8k/km\n\nBook today and feel the difference! 👇\n[App link]",
		Tone:                 "Excited & professional",
	},
	{
		ID:                   "tpl-2",
		Name:                 "Meme / Humor",
		UseCase:              "Engagement & reach",
		StructureDescription: "Everyday situation -> Brand twist -> Question/CTA",
		CaptionExample:       "When payday comes and you still pick 123 GO because it's that cheap... 😎\n\nA taxi for the price of a motorbike ride, why brave the rain?\n\nTell us where you're heading this weekend! 👇",
		Tone:                 "Funny & upbeat",
	},
	{
		ID:                   "tpl-3",
		Name:                 "Customer feedback",
		UseCase:              "Social proof",
		StructureDescription: "Star rating -> Customer quote -> Thanks -> CTA",
		CaptionExample:       "⭐⭐⭐⭐⭐ \"Clean car, friendly driver and surprisingly cheap!\"\n\nThank you An for trusting 123 GO. Happy riders keep our wheels turning every day.\n\nHave you tried us yet? 🚕💨",
		Tone:                 "Grateful & trustworthy",
	},
}

func findTemplate(id string) (models.PostTemplate, bool) {
	for _, t := range postTemplates {
		if t.ID == id {
			return t, true
		}
	}
	return models.PostTemplate{}, false
}
