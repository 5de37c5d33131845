package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/niksmo/catalog-engine/internal/core/domain"
)

// ImportDraft turns an externally extracted payload into a review
// draft: the type is taken from the source or inferred from attribute
// shape, attribute values are normalized onto the schema's canonical
// domains, and everything the normalizer or the validators disliked
// becomes a warning on the draft. Drafts never enter the product store
// directly.
func (s Service) ImportDraft(
	ctx context.Context, d domain.ImportedDraft,
) (domain.ReviewDraft, error) {
	const op = "Service.ImportDraft"

	if err := ctx.Err(); err != nil {
		return domain.ReviewDraft{}, fmt.Errorf("%s: %w", op, err)
	}

	tag := d.SuggestedType
	var warnings []string

	if tag != "" {
		if _, err := s.reg.SchemaFor(tag); err != nil {
			warnings = append(warnings,
				fmt.Sprintf("suggested type %q is not a known product type", tag))
			tag = ""
		}
	}
	if tag == "" {
		if guess, ok := s.norm.InferTypeTag(d.RawAttributes); ok {
			tag = guess
			warnings = append(warnings,
				fmt.Sprintf("type %q inferred from attribute shape", tag))
		}
	}

	var attrs domain.Attrs
	if tag == "" {
		warnings = append(warnings,
			"product type could not be determined; attributes kept raw")
		attrs = rawAttrs(d.RawAttributes)
	} else {
		normalized, warns, err := s.norm.Normalize(tag, d.RawAttributes)
		if err != nil {
			return domain.ReviewDraft{}, fmt.Errorf("%s: %w", op, err)
		}
		attrs = normalized
		for _, w := range warns {
			warnings = append(warnings, w.String())
		}

		if err := s.reg.Validate(tag, attrs); err != nil {
			ve, ok := domain.AsValidationErrors(err)
			if !ok {
				return domain.ReviewDraft{}, fmt.Errorf("%s: %w", op, err)
			}
			for _, fe := range ve {
				warnings = append(warnings, "review: "+fe.Error())
			}
		}
	}

	draft := domain.ReviewDraft{
		ID:            uuid.NewString(),
		SourceURL:     d.SourceURL,
		SuggestedType: tag,
		SKU:           d.SKU,
		Name:          d.Name,
		Brand:         d.Brand,
		CategoryID:    d.CategoryID,
		SellingPrice:  d.SellingPrice,
		MRP:           d.MRP,
		Attributes:    attrs,
		Warnings:      warnings,
	}

	saved, err := s.drafts.Save(ctx, draft)
	if err != nil {
		return domain.ReviewDraft{}, fmt.Errorf("%s: %w", op, err)
	}
	return saved, nil
}

// rawAttrs carries untyped source attributes through unchanged when no
// schema applies: single values as strings, repeated values as lists.
func rawAttrs(raw domain.RawAttrs) domain.Attrs {
	attrs := domain.Attrs{}
	for k, vs := range raw {
		switch len(vs) {
		case 0:
		case 1:
			attrs[k] = vs[0]
		default:
			l := make([]string, len(vs))
			copy(l, vs)
			attrs[k] = l
		}
	}
	return attrs
}
