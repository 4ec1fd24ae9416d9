package textgen

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/maheshrc27/content-planner/internal/apperr"
	"github.com/maheshrc27/content-planner/internal/models"
)

const DefaultAnalysis = "No analysis."

// Draft is a structured post proposal. Every field is always set; missing or
// malformed parts of a reply become empty strings or empty slices.
type Draft struct {
	Analysis           string   `json:"analysis"`
	Hooks              []string `json:"hooks"`
	Caption            string   `json:"caption"`
	CTA                string   `json:"cta"`
	VisualIdeas        []string `json:"visual_ideas"`
	HashtagSuggestions []string `json:"hashtag_suggestions"`
}

func emptyDraft() Draft {
	return Draft{
		Analysis:           DefaultAnalysis,
		Hooks:              []string{},
		VisualIdeas:        []string{},
		HashtagSuggestions: []string{},
	}
}

// ParseDraft reads a draft reply. The returned Draft is usable even when
// err is non-nil; err only reports that defaults were substituted for the
// whole reply.
func ParseDraft(raw string) (Draft, error) {
	d := emptyDraft()

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(stripFences(raw)), &fields); err != nil {
		return d, apperr.Wrap(apperr.ErrParse, err, "draft reply is not a JSON object")
	}

	if s, ok := stringField(fields["analysis"]); ok {
		d.Analysis = s
	}
	if s, ok := stringField(fields["caption"]); ok {
		d.Caption = s
	}
	if s, ok := stringField(fields["cta"]); ok {
		d.CTA = s
	}
	d.Hooks = stringList(fields["hooks"])
	d.VisualIdeas = stringList(fields["visual_ideas"])
	d.HashtagSuggestions = stringList(fields["hashtag_suggestions"])
	return d, nil
}

// ParseIdeas reads a JSON array of ideas. Items that are not strings are
// kept in their JSON form.
func ParseIdeas(raw string) ([]string, error) {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(stripFences(raw)), &items); err != nil {
		return []string{}, apperr.Wrap(apperr.ErrParse, err, "ideas reply is not a JSON array")
	}
	return itemsToStrings(items), nil
}

func stripFences(raw string) string {
	s := strings.ReplaceAll(raw, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}

func stringField(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || isNull(raw) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func stringList(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return []string{}
	}
	return itemsToStrings(items)
}

func itemsToStrings(items []json.RawMessage) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		// null decodes into a string without error
		if isNull(item) {
			continue
		}
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			out = append(out, s)
			continue
		}
		out = append(out, strings.TrimSpace(string(item)))
	}
	return out
}

// ComposeCaption joins the chosen hook with the rest of the draft into the
// final caption text.
func ComposeCaption(hook string, d Draft) string {
	return fmt.Sprintf("%s\n\n%s\n\n%s\n\n%s", hook, d.Caption, d.CTA, strings.Join(d.HashtagSuggestions, " "))
}

// ApplyDraft fills the parts of post that need no choice from the operator.
func ApplyDraft(post models.Post, d Draft) models.Post {
	next := post.Clone()
	next.CTA = d.CTA
	next.VisualBrief = strings.Join(d.VisualIdeas, "\n\n")
	return next
}

// ApplyHook sets hook and rebuilds the caption around it.
func ApplyHook(post models.Post, d Draft, hook string) models.Post {
	next := post.Clone()
	next.Hook = hook
	next.CaptionDraft = ComposeCaption(hook, d)
	return next
}
