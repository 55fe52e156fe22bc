package product

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shilajit-be/internal/apperror"
	"shilajit-be/internal/logger"
	"shilajit-be/internal/utils"

	"go.uber.org/zap"
)

type Service interface {
	List(ctx context.Context, opts ListOptions) ([]*Product, error)
	Featured(ctx context.Context, limit int) ([]*Product, error)
	GetBySlug(ctx context.Context, slug string) (*Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	Create(ctx context.Context, input ProductInput) (*Product, error)
	Update(ctx context.Context, id string, input ProductInput) (*Product, error)
	UpdateDescription(ctx context.Context, id, description string) (*Product, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

const defaultFeaturedLimit = 6

func (s *service) List(ctx context.Context, opts ListOptions) ([]*Product, error) {
	if opts.Limit < 0 {
		opts.Limit = 0
	} else if opts.Limit > 100 {
		opts.Limit = 100
	}
	return s.repo.List(ctx, opts)
}

func (s *service) Featured(ctx context.Context, limit int) ([]*Product, error) {
	if limit <= 0 {
		limit = defaultFeaturedLimit
	}
	return s.repo.List(ctx, ListOptions{FeaturedOnly: true, Limit: limit})
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, apperror.Validation("slug is required")
	}
	return s.repo.FindBySlug(ctx, slug)
}

func (s *service) GetByID(ctx context.Context, id string) (*Product, error) {
	return s.repo.FindByID(ctx, strings.TrimSpace(id))
}

func (s *service) Create(ctx context.Context, input ProductInput) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateProduct"),
	)

	if err := validateInput(input); err != nil {
		log.Warn("invalid product input", zap.Error(err))
		return nil, err
	}

	p := &Product{}
	applyInput(p, input)
	if p.Slug == "" {
		p.Slug = fmt.Sprintf("%s-%d", utils.Slugify(p.Name), s.now().UnixMilli())
	}

	if err := s.repo.Create(ctx, p); err != nil {
		log.Error("failed to create product", zap.String("slug", p.Slug), zap.Error(err))
		return nil, err
	}

	log.Info("product created", zap.String("product_id", p.ID), zap.String("slug", p.Slug))
	return p, nil
}

func (s *service) Update(ctx context.Context, id string, input ProductInput) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateProduct"),
		zap.String("product_id", id),
	)

	if err := validateInput(input); err != nil {
		log.Warn("invalid product input", zap.Error(err))
		return nil, err
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	slug := p.Slug
	applyInput(p, input)
	if p.Slug == "" {
		p.Slug = slug
	}

	if err := s.repo.Update(ctx, p); err != nil {
		log.Error("failed to update product", zap.Error(err))
		return nil, err
	}

	log.Info("product updated")
	return p, nil
}

func (s *service) UpdateDescription(ctx context.Context, id, description string) (*Product, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, apperror.Validation("description is required")
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p.Description = description
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "DeleteProduct"),
		zap.String("product_id", id),
	)

	if err := s.repo.Delete(ctx, id); err != nil {
		log.Warn("failed to delete product", zap.Error(err))
		return err
	}

	log.Info("product deleted")
	return nil
}

func validateInput(input ProductInput) error {
	if err := apperror.Struct(input); err != nil {
		return err
	}
	if input.Price.IsNegative() {
		return apperror.Validation("price must not be negative")
	}
	if input.OriginalPrice != nil && input.OriginalPrice.LessThan(input.Price) {
		return apperror.Validation("originalPrice must not be below price")
	}
	return nil
}

// applyInput copies input onto p. Stock availability follows the quantity
// unless the caller sets it explicitly.
func applyInput(p *Product, input ProductInput) {
	p.Name = strings.TrimSpace(input.Name)
	p.Slug = strings.TrimSpace(input.Slug)
	p.Price = input.Price.Round(2)
	p.OriginalPrice = nil
	if input.OriginalPrice != nil {
		v := input.OriginalPrice.Round(2)
		p.OriginalPrice = &v
	}
	p.Discount = input.Discount
	p.Images = nonNil(input.Images)
	p.Description = input.Description
	p.Benefits = nonNil(input.Benefits)
	p.Ingredients = input.Ingredients
	p.Usage = input.Usage
	p.Featured = input.Featured
	p.StockQuantity = input.StockQuantity

	if input.InStock != nil {
		p.InStock = *input.InStock
	} else {
		p.InStock = input.StockQuantity > 0
	}
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
