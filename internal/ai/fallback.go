package ai

import "strings"

type cannedAnswer struct {
	keywords    []string
	response    string
	suggestions []string
}

var cannedAnswers = []cannedAnswer{
	{
		keywords:    []string{"shipping", "delivery"},
		response:    "We offer free shipping on orders over PKR 50. Standard delivery takes 3-5 business days within Pakistan. International shipping is also available!",
		suggestions: []string{"Order tracking", "Shipping rates", "International shipping"},
	},
	{
		keywords:    []string{"payment", "pay"},
		response:    "We accept Easypaisa, Bank Transfer and Cash on Delivery. All payments are secure. You can also pay via bank transfer for added security.",
		suggestions: []string{"Payment methods", "Refund policy", "Order status"},
	},
	{
		keywords:    []string{"benefit", "help", "what"},
		response:    "Himalayan Shilajit offers numerous benefits including increased energy, immune support, mental clarity, and contains 84+ essential minerals. It's nature's most potent wellness resin!",
		suggestions: []string{"Energy boost", "Immune support", "Mental clarity"},
	},
	{
		keywords:    []string{"price", "cost"},
		response:    "Our products range from PKR 39.99 to PKR 89.99. We offer discounts on bulk orders and free shipping on orders over PKR 50. Check out our products page for current prices!",
		suggestions: []string{"View products", "Discounts", "Bulk orders"},
	},
	{
		keywords:    []string{"authentic", "quality"},
		response:    "Yes! Our Shilajit is 100% authentic, sourced directly from the Himalayas. All products are lab-tested for purity and quality. We guarantee authenticity!",
		suggestions: []string{"Lab testing", "Source information", "Quality guarantee"},
	},
}

var defaultAnswer = cannedAnswer{
	response:    "Thank you for your question! Our Himalayan Shilajit products are 100% authentic and sourced directly from the Himalayas. How can I help you today? You can ask about products, shipping, payments, or benefits.",
	suggestions: []string{"Product information", "Ordering", "Shipping"},
}

// fallbackReply answers from the first canned topic whose keyword appears in
// the message.
func fallbackReply(message string) *ChatReply {
	lower := strings.ToLower(message)
	for _, a := range cannedAnswers {
		if containsAny(lower, a.keywords...) {
			return &ChatReply{OK: true, Response: a.response, Suggestions: a.suggestions}
		}
	}
	return &ChatReply{OK: true, Response: defaultAnswer.response, Suggestions: defaultAnswer.suggestions}
}

func suggestionsFor(message, response string) []string {
	lowerMessage := strings.ToLower(message)
	lowerResponse := strings.ToLower(response)

	switch {
	case containsAny(lowerMessage, "shilajit", "product", "order", "buy", "price", "shipping"):
		return []string{"View Products", "Shipping Info", "Place Order"}
	case containsAny(lowerResponse, "health", "wellness"):
		return []string{"More about wellness", "Product benefits", "Ask another question"}
	default:
		return []string{"Ask another question", "Product information", "Store help"}
	}
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
