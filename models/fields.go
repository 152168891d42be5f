package models

import (
	"math"
	"strconv"

	"savora/apperr"
)

type FieldKind int

const (
	KindString FieldKind = iota
	KindStringList
	KindInt
	KindFloat
)

// recipeFields is the declared schema consulted by the normalizers. Unknown
// field names are rejected instead of silently stored. user_id is absent on
// purpose: ownership is fixed at creation.
var recipeFields = map[string]FieldKind{
	"recipe_name":        KindString,
	"user_name":          KindString,
	"description":        KindString,
	"steps":              KindStringList,
	"ingredients":        KindStringList,
	"ingredients_ids":    KindStringList,
	"ingredients_quant":  KindStringList,
	"ingredients_metric": KindStringList,
	"ingredients_imgs":   KindStringList,
	"tips":               KindStringList,
	"images":             KindStringList,
	"tags":               KindStringList,
	"category":           KindStringList,
	"likes_count":        KindInt,
	"shares_count":       KindInt,
	"rating_count":       KindInt,
	"rating_total":       KindFloat,
	"prep_time":          KindInt,
	"cook_time":          KindInt,
}

var requiredOnCreate = []string{
	"recipe_name", "steps",
	"ingredients", "ingredients_ids", "ingredients_quant", "ingredients_metric",
}

var parallelIngredientFields = []string{
	"ingredients", "ingredients_ids", "ingredients_quant", "ingredients_metric",
}

// ConciseFields is the fixed subset the cache projection keeps.
var ConciseFields = []string{
	"images", "recipe_name", "user_name", "likes_count",
	"shares_count", "rating_total", "prep_time", "cook_time",
}

// KnownField reports whether name is part of the declared recipe schema.
func KnownField(name string) bool {
	_, ok := recipeFields[name]
	return ok
}

// FieldKindOf exposes the declared kind of a schema field, for callers that
// parse flat form input and need to know which fields are lists.
func FieldKindOf(name string) (FieldKind, bool) {
	kind, ok := recipeFields[name]
	return kind, ok
}

// ConciseSubset filters a normalized update map down to the concise-view
// field set.
func ConciseSubset(fields map[string]any) map[string]any {
	out := map[string]any{}
	for _, key := range ConciseFields {
		if v, ok := fields[key]; ok {
			out[key] = v
		}
	}
	return out
}

// NewRecipe builds a Recipe from a raw field map, coercing values against
// the declared schema. It rejects unknown fields, missing required fields
// and unequal parallel ingredient arrays.
func NewRecipe(userID string, raw map[string]any) (*Recipe, error) {
	if userID == "" {
		return nil, apperr.Validationf("user id is required")
	}
	fields, err := normalizeFields(raw)
	if err != nil {
		return nil, err
	}
	for _, name := range requiredOnCreate {
		if _, ok := fields[name]; !ok {
			return nil, apperr.Validationf("missing required field %q", name)
		}
	}
	if err := checkParallelArrays(fields); err != nil {
		return nil, err
	}

	rec := &Recipe{UserID: userID}
	applyFields(rec, fields)
	return rec, nil
}

// NormalizeUpdate validates and coerces an update payload. A "comment" key
// is split off into its own Comment; everything else must be a declared
// field. The returned map is keyed by document field name and safe to hand
// to the store.
func NormalizeUpdate(raw map[string]any) (map[string]any, *Comment, error) {
	var comment *Comment
	rest := map[string]any{}
	for key, val := range raw {
		if key == "comment" {
			c, err := normalizeComment(val)
			if err != nil {
				return nil, nil, err
			}
			comment = c
			continue
		}
		rest[key] = val
	}

	fields, err := normalizeFields(rest)
	if err != nil {
		return nil, nil, err
	}
	if err := checkParallelArrays(fields); err != nil {
		return nil, nil, err
	}
	return fields, comment, nil
}

func normalizeComment(val any) (*Comment, error) {
	m, ok := val.(map[string]any)
	if !ok {
		return nil, apperr.Validationf("comment must be an object")
	}
	content, _ := m["content"].(string)
	userID, _ := m["user_id"].(string)
	userName, _ := m["user_name"].(string)
	if content == "" || userID == "" {
		return nil, apperr.Validationf("comment requires content and user_id")
	}
	c := NewComment(userID, userName, content)
	return &c, nil
}

func normalizeFields(raw map[string]any) (map[string]any, error) {
	fields := map[string]any{}
	for key, val := range raw {
		kind, ok := recipeFields[key]
		if !ok {
			return nil, apperr.Validationf("unknown field %q", key)
		}
		coerced, err := coerce(key, kind, val)
		if err != nil {
			return nil, err
		}
		fields[key] = coerced
	}
	return fields, nil
}

func coerce(key string, kind FieldKind, val any) (any, error) {
	switch kind {
	case KindString:
		if s, ok := val.(string); ok {
			return s, nil
		}
	case KindStringList:
		switch v := val.(type) {
		case []string:
			return v, nil
		case []any:
			out := make([]string, 0, len(v))
			for _, item := range v {
				s, ok := item.(string)
				if !ok {
					return nil, apperr.Validationf("field %q must be a list of strings", key)
				}
				out = append(out, s)
			}
			return out, nil
		}
	case KindInt:
		switch v := val.(type) {
		case int:
			return v, nil
		case float64:
			// JSON numbers arrive as float64; a fractional value is a
			// client mistake, not something to truncate.
			if v == math.Trunc(v) {
				return int(v), nil
			}
		case string:
			if n, err := strconv.Atoi(v); err == nil {
				return n, nil
			}
		}
	case KindFloat:
		switch v := val.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		case string:
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f, nil
			}
		}
	}
	return nil, apperr.Validationf("invalid value for field %q", key)
}

func checkParallelArrays(fields map[string]any) error {
	length := -1
	for _, name := range parallelIngredientFields {
		v, ok := fields[name]
		if !ok {
			continue
		}
		list := v.([]string)
		if length == -1 {
			length = len(list)
			continue
		}
		if len(list) != length {
			return apperr.Validationf("ingredient arrays must have equal length")
		}
	}
	return nil
}

func applyFields(rec *Recipe, fields map[string]any) {
	for key, val := range fields {
		switch key {
		case "recipe_name":
			rec.Name = val.(string)
		case "user_name":
			rec.UserName = val.(string)
		case "description":
			rec.Description = val.(string)
		case "steps":
			rec.Steps = val.([]string)
		case "ingredients":
			rec.Ingredients = val.([]string)
		case "ingredients_ids":
			rec.IngredientIDs = val.([]string)
		case "ingredients_quant":
			rec.IngredientQuant = val.([]string)
		case "ingredients_metric":
			rec.IngredientMetric = val.([]string)
		case "ingredients_imgs":
			rec.IngredientImgs = val.([]string)
		case "tips":
			rec.Tips = val.([]string)
		case "images":
			rec.Images = val.([]string)
		case "tags":
			rec.Tags = val.([]string)
		case "category":
			rec.Category = val.([]string)
		case "likes_count":
			rec.LikesCount = val.(int)
		case "shares_count":
			rec.SharesCount = val.(int)
		case "rating_count":
			rec.RatingCount = val.(int)
		case "rating_total":
			rec.RatingTotal = val.(float64)
		case "prep_time":
			rec.PrepTime = val.(int)
		case "cook_time":
			rec.CookTime = val.(int)
		}
	}
}
