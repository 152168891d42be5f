package docstore

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"savora/apperr"
	"savora/models"
)

// Text fields matched by case-insensitive substring instead of equality.
var substringFilterFields = map[string]bool{
	"recipe_name": true,
	"description": true,
}

// RecipeStore is the adapter over the recipes collection. It owns the full
// Recipe documents; callers never cache one.
type RecipeStore struct {
	col       *mongo.Collection
	pageLimit int
}

func NewRecipeStore(db *mongo.Database, pageLimit int) *RecipeStore {
	return &RecipeStore{col: db.Collection("recipes"), pageLimit: pageLimit}
}

func (s *RecipeStore) Insert(ctx context.Context, rec *models.Recipe) (string, error) {
	if rec.ID.IsZero() {
		rec.ID = primitive.NewObjectID()
	}
	rec.LastModified = time.Now().UTC()

	if _, err := s.col.InsertOne(ctx, rec); err != nil {
		return "", apperr.Upstreamf("insert recipe: %v", err)
	}
	return rec.ID.Hex(), nil
}

func (s *RecipeStore) GetByID(ctx context.Context, id string) (*models.Recipe, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFoundf("invalid recipe id %q", id)
	}

	var rec models.Recipe
	err = s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFoundf("recipe %s", id)
	}
	if err != nil {
		return nil, apperr.Upstreamf("get recipe %s: %v", id, err)
	}
	return &rec, nil
}

// UpdateFields applies a partial update. Field names must come from the
// declared schema; anything else is rejected before touching the store.
func (s *RecipeStore) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.NotFoundf("invalid recipe id %q", id)
	}

	set := bson.M{}
	for key, val := range fields {
		if !models.KnownField(key) {
			return apperr.Validationf("unknown field %q", key)
		}
		set[key] = val
	}
	if len(set) == 0 {
		return nil
	}
	set["last_modified"] = time.Now().UTC()

	res, err := s.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return apperr.Upstreamf("update recipe %s: %v", id, err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFoundf("recipe %s", id)
	}
	return nil
}

// AppendComment pushes one comment onto the embedded list in a single
// update, so two concurrent appends both land and keep their order.
func (s *RecipeStore) AppendComment(ctx context.Context, id string, c models.Comment) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.NotFoundf("invalid recipe id %q", id)
	}

	res, err := s.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$push": bson.M{"comments": c},
		"$set":  bson.M{"last_modified": time.Now().UTC()},
	})
	if err != nil {
		return apperr.Upstreamf("append comment to recipe %s: %v", id, err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFoundf("recipe %s", id)
	}
	return nil
}

func (s *RecipeStore) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.NotFoundf("invalid recipe id %q", id)
	}

	res, err := s.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return apperr.Upstreamf("delete recipe %s: %v", id, err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFoundf("recipe %s", id)
	}
	return nil
}

func buildListQuery(filter map[string]string) (bson.M, error) {
	query := bson.M{}
	for key, val := range filter {
		if !models.KnownField(key) && key != "user_id" {
			return nil, apperr.Validationf("unknown filter field %q", key)
		}
		if substringFilterFields[key] {
			query[key] = bson.M{"$regex": primitive.Regex{Pattern: regexp.QuoteMeta(val), Options: "i"}}
			continue
		}
		typed, err := filterValue(key, val)
		if err != nil {
			return nil, err
		}
		query[key] = typed
	}
	return query, nil
}

// filterValue types an equality filter the way the document stores the
// field; equality against a BSON number never matches a string.
func filterValue(key, val string) (any, error) {
	kind, ok := models.FieldKindOf(key)
	if !ok {
		// user_id, stored as a plain string.
		return val, nil
	}
	switch kind {
	case models.KindInt:
		n, err := strconv.Atoi(val)
		if err != nil {
			return nil, apperr.Validationf("filter %q must be an integer", key)
		}
		return n, nil
	case models.KindFloat:
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return nil, apperr.Validationf("filter %q must be a number", key)
		}
		return f, nil
	}
	return val, nil
}

// List returns a page of recipes. recipe_name and description filter by
// case-insensitive substring, other known fields by equality. Ordering is
// store-default; callers must not assume page stability under writes.
func (s *RecipeStore) List(ctx context.Context, filter map[string]string, start, limit int) ([]models.Recipe, error) {
	query, err := buildListQuery(filter)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = s.pageLimit
	}
	opts := options.Find().
		SetSkip(int64(start)).
		SetLimit(int64(limit))

	cursor, err := s.col.Find(ctx, query, opts)
	if err != nil {
		return nil, apperr.Upstreamf("list recipes: %v", err)
	}
	defer cursor.Close(ctx)

	var recipes []models.Recipe
	if err := cursor.All(ctx, &recipes); err != nil {
		return nil, apperr.Upstreamf("decode recipes: %v", err)
	}
	if len(recipes) == 0 {
		recipes = []models.Recipe{}
	}
	return recipes, nil
}
