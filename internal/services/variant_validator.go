package services

import (
	"sort"

	"github.com/google/uuid"

	"merchandising-service/internal/models"
)

// AttributeSetValidator checks a batch of candidate variants against a
// product's attribute structure and against variants that already exist.
// It is pure: no storage access, state is only the dictionaries accepted so
// far in the current batch.
//
// Comparisons are O(existing x new) and O(new^2); fine at catalog scale,
// revisit before pointing this at very large assortments.
type AttributeSetValidator struct {
	expected []uuid.UUID
	existing []map[uuid.UUID]string
	accepted []map[uuid.UUID]string
}

// NewAttributeSetValidator builds a validator for one add-variants batch.
// expectedShape is the sorted VariantNameID list every candidate must match;
// existing holds the attribute dictionaries of already-committed variants.
func NewAttributeSetValidator(expectedShape []uuid.UUID, existing []map[uuid.UUID]string) *AttributeSetValidator {
	return &AttributeSetValidator{expected: expectedShape, existing: existing}
}

// Validate checks one candidate in batch order. On success the candidate's
// dictionary joins the accepted set so later candidates are checked against it.
func (v *AttributeSetValidator) Validate(attrs []models.AttributeValue) *Error {
	shape := ShapeOf(attrs)
	if !shapesEqual(shape, v.expected) {
		return NewError(CodeDataInconsistency, "variant attribute structure does not match the product's variants")
	}

	dict := AttributeDict(attrs)
	for _, existing := range v.existing {
		if dictsEqual(existing, dict) {
			return NewError(CodeVariantAlreadyExists, "a variant with these attribute values already exists")
		}
	}
	for _, earlier := range v.accepted {
		if dictsEqual(earlier, dict) {
			return NewError(CodeBadRequest, "duplicate variant within the request")
		}
	}

	v.accepted = append(v.accepted, dict)
	return nil
}

// ShapeOf returns the sorted VariantNameID list of an attribute set.
func ShapeOf(attrs []models.AttributeValue) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(attrs))
	for _, a := range attrs {
		ids = append(ids, a.VariantNameID)
	}
	sortIDs(ids)
	return ids
}

// ShapeOfVariant returns the sorted VariantNameID list of a stored variant.
func ShapeOfVariant(variant *models.ProductVariant) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(variant.Attributes))
	for _, a := range variant.Attributes {
		ids = append(ids, a.VariantNameID)
	}
	sortIDs(ids)
	return ids
}

// AttributeDict converts request attributes to a dimension->value dictionary.
func AttributeDict(attrs []models.AttributeValue) map[uuid.UUID]string {
	dict := make(map[uuid.UUID]string, len(attrs))
	for _, a := range attrs {
		dict[a.VariantNameID] = a.Value
	}
	return dict
}

// VariantDict converts a stored variant's attributes to a dictionary.
func VariantDict(variant *models.ProductVariant) map[uuid.UUID]string {
	dict := make(map[uuid.UUID]string, len(variant.Attributes))
	for _, a := range variant.Attributes {
		dict[a.VariantNameID] = a.Value
	}
	return dict
}

func sortIDs(ids []uuid.UUID) {
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})
}

func shapesEqual(a, b []uuid.UUID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func dictsEqual(a, b map[uuid.UUID]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || av != bv {
			return false
		}
	}
	return true
}
