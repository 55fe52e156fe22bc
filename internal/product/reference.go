package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"shilajit-be/internal/apperror"

	"github.com/google/uuid"
)

// Reference identifies a catalog product in a checkout request.
// It is one of ByKey, BySlug or ByName.
type Reference interface {
	fmt.Stringer
	isReference()
}

type ByKey struct{ ID uuid.UUID }

type BySlug struct{ Slug string }

type ByName struct{ Name string }

func (ByKey) isReference()  {}
func (BySlug) isReference() {}
func (ByName) isReference() {}

func (r ByKey) String() string  { return "id " + r.ID.String() }
func (r BySlug) String() string { return "slug " + r.Slug }
func (r ByName) String() string { return "name " + r.Name }

// ParseReferences turns the raw identifiers of a requested item into the ordered
// lookups to attempt. A key-shaped productID resolves by key only; anything else
// falls back to slug, then name.
func ParseReferences(productID, slug, name string) ([]Reference, error) {
	productID = strings.TrimSpace(productID)
	if id, err := uuid.Parse(productID); err == nil {
		return []Reference{ByKey{ID: id}}, nil
	}

	var refs []Reference
	if s := strings.TrimSpace(slug); s != "" {
		refs = append(refs, BySlug{Slug: s})
	}
	if n := strings.TrimSpace(name); n != "" {
		refs = append(refs, ByName{Name: n})
	}

	if len(refs) == 0 {
		if productID == "" {
			return nil, apperror.Validation("item is missing a product reference")
		}
		return nil, apperror.Validation("product %s is not a catalog key and no slug or name was given", productID)
	}
	return refs, nil
}

// Lookup is the read-only catalog surface needed to resolve references.
type Lookup interface {
	FindByID(ctx context.Context, id string) (*Product, error)
	FindBySlug(ctx context.Context, slug string) (*Product, error)
	FindByName(ctx context.Context, name string) (*Product, error)
}

// Resolve tries refs in order and returns the first product found.
func Resolve(ctx context.Context, lookup Lookup, refs []Reference) (*Product, error) {
	for _, ref := range refs {
		var (
			p   *Product
			err error
		)
		switch r := ref.(type) {
		case ByKey:
			p, err = lookup.FindByID(ctx, r.ID.String())
		case BySlug:
			p, err = lookup.FindBySlug(ctx, r.Slug)
		case ByName:
			p, err = lookup.FindByName(ctx, r.Name)
		default:
			return nil, fmt.Errorf("unsupported product reference %T", ref)
		}

		if errors.Is(err, ErrProductNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return p, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrProductNotFound, describe(refs))
}

func describe(refs []Reference) string {
	parts := make([]string, 0, len(refs))
	for _, r := range refs {
		parts = append(parts, r.String())
	}
	return strings.Join(parts, ", ")
}
