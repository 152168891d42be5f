package rdx

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/redis/go-redis/v9"

	"savora/apperr"
)

const (
	recipeKeyPrefix      = "recipe:"
	userRecipesKeyPrefix = "user_recipes:"
)

// Cache maintains the concise-view hashes and the per-user recipe index.
// Both are derived data: transiently stale is fine, wrong is not, so writes
// only ever overwrite the keys they are given.
type Cache struct {
	conn *redis.Client
}

func NewCache(conn *redis.Client) *Cache {
	return &Cache{conn: conn}
}

func RecipeKey(recipeID string) string {
	return recipeKeyPrefix + recipeID
}

func UserRecipesKey(userID string) string {
	return userRecipesKeyPrefix + userID
}

// WriteConciseView upserts the supplied subset of concise fields. The hash
// is never deleted here, only overwritten key by key.
func (c *Cache) WriteConciseView(ctx context.Context, recipeID string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	flat := make(map[string]any, len(fields))
	for key, val := range fields {
		enc, err := encodeValue(val)
		if err != nil {
			return apperr.Validationf("concise field %q: %v", key, err)
		}
		flat[key] = enc
	}
	if err := c.conn.HSet(ctx, RecipeKey(recipeID), flat).Err(); err != nil {
		return apperr.Upstreamf("write concise view %s: %v", recipeID, err)
	}
	return nil
}

func (c *Cache) RemoveConciseView(ctx context.Context, recipeID string) error {
	if err := c.conn.Del(ctx, RecipeKey(recipeID)).Err(); err != nil {
		return apperr.Upstreamf("remove concise view %s: %v", recipeID, err)
	}
	return nil
}

func (c *Cache) AddToUserIndex(ctx context.Context, userID, recipeID string, createdAt int64) error {
	z := redis.Z{Score: float64(createdAt), Member: recipeID}
	if err := c.conn.ZAdd(ctx, UserRecipesKey(userID), z).Err(); err != nil {
		return apperr.Upstreamf("add %s to index of %s: %v", recipeID, userID, err)
	}
	return nil
}

func (c *Cache) RemoveFromUserIndex(ctx context.Context, userID, recipeID string) error {
	if err := c.conn.ZRem(ctx, UserRecipesKey(userID), recipeID).Err(); err != nil {
		return apperr.Upstreamf("remove %s from index of %s: %v", recipeID, userID, err)
	}
	return nil
}

// UserRecipeIDs enumerates a user's recipe ids, most recent first.
func (c *Cache) UserRecipeIDs(ctx context.Context, userID string, start, limit int) ([]string, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(start + limit - 1)
	}
	ids, err := c.conn.ZRevRange(ctx, UserRecipesKey(userID), int64(start), stop).Result()
	if err != nil {
		return nil, apperr.Upstreamf("read index of %s: %v", userID, err)
	}
	return ids, nil
}

// Redis hash values are flat strings; lists and other composites go in as
// JSON.
func encodeValue(val any) (any, error) {
	switch v := val.(type) {
	case string, int, int64, float64, bool:
		return v, nil
	}
	if reflect.TypeOf(val) != nil && reflect.TypeOf(val).Kind() == reflect.Slice {
		b, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		return string(b), nil
	}
	return fmt.Sprint(val), nil
}
