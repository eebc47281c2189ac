package transfer

// ContentRequest mirrors the generation form: what the post is for,
// where it will run and what to produce.
type ContentRequest struct {
	Objective        string `json:"objective"`
	Network          string `json:"network"`
	Template         string `json:"template"`
	Theme            string `json:"theme"`
	GenerateCaption  bool   `json:"generate_caption"`
	GenerateHashtags bool   `json:"generate_hashtags"`
	GenerateImages   bool   `json:"generate_images"`
}

type GeneratedContent struct {
	Caption         string   `json:"caption,omitempty"`
	Hashtags        []string `json:"hashtags,omitempty"`
	CarouselPrompts []string `json:"carousel_prompts,omitempty"`
}
