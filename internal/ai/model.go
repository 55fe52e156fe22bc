package ai

import "shilajit-be/internal/product"

// ChatReply is an assistant answer. OK is false only when a provider error is
// surfaced verbatim in development.
type ChatReply struct {
	OK          bool     `json:"-"`
	Response    string   `json:"response"`
	Suggestions []string `json:"suggestions"`
}

type Recommendations struct {
	Products []*product.Product `json:"recommendations"`
	Message  string             `json:"message"`
}

type Enhancement struct {
	Original string `json:"original"`
	Enhanced string `json:"enhanced"`
	Applied  bool   `json:"applied"`
}

const (
	MsgFeaturedForYou = "Featured products for you"
	MsgAIForYou       = "AI-powered recommendations for you"

	maxRecommendations = 3
)
