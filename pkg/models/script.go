package models

// Script is the AI-generated structured output derived from an Idea.
// It is created once per run and immutable afterwards.
type Script struct {
	Title       string `json:"title"       validate:"required"`
	Description string `json:"description"`
	Prompt      string `json:"prompt"      validate:"required"`
	Hashtags    string `json:"hashtags"`
}

// PostContent builds the caption used for every platform post:
// the description followed by the hashtags, space separated.
func (s Script) PostContent() string {
	return s.Description + " " + s.Hashtags
}
