package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"shilajit-be/internal/apperror"
	"shilajit-be/internal/logger"
	"shilajit-be/internal/product"

	"go.uber.org/zap"
)

// Catalog is the slice of the product service the assistant reads and writes.
type Catalog interface {
	List(ctx context.Context, opts product.ListOptions) ([]*product.Product, error)
	GetByID(ctx context.Context, id string) (*product.Product, error)
	UpdateDescription(ctx context.Context, id, description string) (*product.Product, error)
}

type Service interface {
	Chat(ctx context.Context, message string) (*ChatReply, error)
	Recommend(ctx context.Context, preferences map[string]any) (*Recommendations, error)
	// EnhanceDescription rewrites a product description. The rewrite is
	// stored only when apply is set and it differs from the original.
	EnhanceDescription(ctx context.Context, productID string, apply bool) (*Enhancement, error)
}

type service struct {
	gen         Generator
	catalog     Catalog
	development bool
}

// NewService accepts a nil generator, in which case every operation uses
// its offline fallback.
func NewService(gen Generator, catalog Catalog, development bool) Service {
	return &service{gen: gen, catalog: catalog, development: development}
}

var jsonObject = regexp.MustCompile(`(?s)\{.*\}`)

func (s *service) Chat(ctx context.Context, message string) (*ChatReply, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Chat"),
	)

	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperror.Validation("Message is required")
	}

	if s.gen == nil {
		return fallbackReply(message), nil
	}

	text, err := s.gen.Generate(ctx, message)
	if err != nil {
		log.Error("assistant completion failed", zap.Error(err))
		if s.development {
			return &ChatReply{
				OK:          false,
				Response:    fmt.Sprintf("Gemini API Error: %s. Please check server logs for details.", err),
				Suggestions: []string{"Try again", "Check API key", "Contact support"},
			}, nil
		}
		return fallbackReply(message), nil
	}

	text = strings.TrimSpace(text)
	return &ChatReply{OK: true, Response: text, Suggestions: suggestionsFor(message, text)}, nil
}

func (s *service) Recommend(ctx context.Context, preferences map[string]any) (*Recommendations, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Recommend"),
	)

	products, err := s.catalog.List(ctx, product.ListOptions{InStockOnly: true})
	if err != nil {
		log.Error("failed to list products", zap.Error(err))
		return nil, err
	}

	featured := &Recommendations{Products: featuredOf(products), Message: MsgFeaturedForYou}
	if s.gen == nil || len(products) == 0 {
		return featured, nil
	}

	text, err := s.gen.Generate(ctx, recommendationPrompt(products, preferences))
	if err != nil {
		log.Warn("recommendation completion failed, using featured", zap.Error(err))
		return featured, nil
	}

	ids := parseRecommendedIDs(text)
	picked := make([]*product.Product, 0, maxRecommendations)
	for _, p := range products {
		if len(picked) == maxRecommendations {
			break
		}
		if _, ok := ids[p.ID]; ok {
			picked = append(picked, p)
		}
	}
	if len(picked) == 0 {
		log.Info("no recommended ids matched the catalog")
		return &Recommendations{Products: featured.Products, Message: MsgAIForYou}, nil
	}
	return &Recommendations{Products: picked, Message: MsgAIForYou}, nil
}

func (s *service) EnhanceDescription(ctx context.Context, productID string, apply bool) (*Enhancement, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "EnhanceDescription"),
		zap.String("product_id", productID),
	)

	p, err := s.catalog.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	out := &Enhancement{Original: p.Description, Enhanced: p.Description}
	if s.gen == nil {
		return out, nil
	}

	text, err := s.gen.Generate(ctx, enhancementPrompt(p))
	if err != nil {
		log.Warn("enhancement completion failed, keeping original", zap.Error(err))
		return out, nil
	}
	out.Enhanced = strings.TrimSpace(text)

	if apply && out.Enhanced != "" && out.Enhanced != out.Original {
		if _, err := s.catalog.UpdateDescription(ctx, p.ID, out.Enhanced); err != nil {
			log.Error("failed to store enhanced description", zap.Error(err))
			return nil, err
		}
		out.Applied = true
	}
	return out, nil
}

func featuredOf(products []*product.Product) []*product.Product {
	out := make([]*product.Product, 0, maxRecommendations)
	for _, p := range products {
		if len(out) == maxRecommendations {
			break
		}
		if p.Featured {
			out = append(out, p)
		}
	}
	return out
}

func recommendationPrompt(products []*product.Product, preferences map[string]any) string {
	var sb strings.Builder
	sb.WriteString("Based on these Himalayan Shilajit products, recommend the top 3 products for a customer interested in wellness and natural supplements.\n")
	if len(preferences) > 0 {
		if b, err := json.Marshal(preferences); err == nil {
			fmt.Fprintf(&sb, "Customer preferences: %s\n", b)
		}
	}
	sb.WriteString("\nProducts:\n")
	for _, p := range products {
		fmt.Fprintf(&sb, "- [%s] %s: %s. Benefits: %s. Price: PKR %s\n",
			p.ID, p.Name, p.Description, strings.Join(p.Benefits, ", "), p.Price.StringFixed(2))
	}
	sb.WriteString("\nReturn only the product IDs in JSON format: {\"recommendations\": [\"id1\", \"id2\", \"id3\"]}")
	return sb.String()
}

func parseRecommendedIDs(text string) map[string]struct{} {
	ids := map[string]struct{}{}
	raw := jsonObject.FindString(text)
	if raw == "" {
		return ids
	}
	var body struct {
		Recommendations []string `json:"recommendations"`
	}
	if err := json.Unmarshal([]byte(raw), &body); err != nil {
		return ids
	}
	for _, id := range body.Recommendations {
		ids[id] = struct{}{}
	}
	return ids
}

func enhancementPrompt(p *product.Product) string {
	benefits := strings.Join(p.Benefits, ", ")
	if benefits == "" {
		benefits = "Wellness and vitality"
	}
	return fmt.Sprintf(`Enhance this product description to be more engaging and professional while keeping it authentic and informative:

Product: %s
Current Description: %s
Benefits: %s

Return only the enhanced description, make it compelling but honest.`, p.Name, p.Description, benefits)
}
