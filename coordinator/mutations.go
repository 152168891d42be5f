package coordinator

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"savora/apperr"
	"savora/models"
	"savora/mq"
)

const imageKeySuffix = "_recipe_images.jpg"

// CreateRecipe runs the create pipeline: normalize, upload when media is
// attached, insert, then the best-effort projection and event tail. An
// upload failure aborts before anything is persisted; an insert failure
// after a successful upload leaves the blob orphaned on purpose.
func (c *Coordinator) CreateRecipe(ctx context.Context, userID string, fields map[string]any, media *Media) (*Result, error) {
	o := &op{name: "create", log: c.log}
	o.advance(stateReceived)

	rec, err := models.NewRecipe(userID, fields)
	if err != nil {
		return nil, o.abort(err)
	}
	rec.ID = primitive.NewObjectID()
	o.advance(stateNormalized)

	if media != nil {
		url, err := c.upload(ctx, rec.ID.Hex(), media)
		if err != nil {
			return nil, o.abort(err)
		}
		rec.Images = []string{url}
	}

	callCtx, cancel := c.outbound(ctx)
	id, err := c.store.Insert(callCtx, rec)
	cancel()
	if err != nil {
		return nil, o.abort(err)
	}
	o.advance(statePersisted)

	res := &Result{RecipeID: id, Images: rec.Images}

	// The two projection writes have no data dependency on each other.
	var viewErr, indexErr error
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		callCtx, cancel := c.outbound(gCtx)
		defer cancel()
		viewErr = c.cache.WriteConciseView(callCtx, id, rec.ConciseView())
		return nil
	})
	g.Go(func() error {
		callCtx, cancel := c.outbound(gCtx)
		defer cancel()
		indexErr = c.cache.AddToUserIndex(callCtx, userID, id, rec.CreatedAt().Unix())
		return nil
	})
	_ = g.Wait()
	c.degrade(res, "concise_view", viewErr)
	c.degrade(res, "user_index", indexErr)
	o.advance(stateProjected)

	callCtx, cancel = c.outbound(ctx)
	err = c.events.Publish(callCtx, mq.TopicRecipeCollectionPost, userID,
		[]any{userID, id, mq.StatusCreated})
	cancel()
	c.degrade(res, "publish_create", err)
	o.advance(statePublished)

	o.advance(stateDone)
	return res, nil
}

// UpdateRecipe applies field updates and an optional comment append and
// image replacement. The comment append is its own atomic sub-step and runs
// first; the operation fails unless both it and the field update commit.
// The comment event carries the recipe author's id for notification
// routing and is omitted entirely when no comment was attached.
func (c *Coordinator) UpdateRecipe(ctx context.Context, userID, recipeID string, fields map[string]any, media *Media) (*Result, error) {
	o := &op{name: "update", log: c.log}
	o.advance(stateReceived)

	callCtx, cancel := c.outbound(ctx)
	current, err := c.store.GetByID(callCtx, recipeID)
	cancel()
	if err != nil {
		return nil, o.abort(err)
	}

	updates, comment, err := models.NormalizeUpdate(fields)
	if err != nil {
		return nil, o.abort(err)
	}
	if comment == nil && len(updates) == 0 && media == nil {
		return nil, o.abort(apperr.Validationf("nothing to update"))
	}
	o.advance(stateNormalized)

	if media != nil {
		url, err := c.upload(ctx, recipeID, media)
		if err != nil {
			return nil, o.abort(err)
		}
		updates["images"] = []string{url}
	}

	if comment != nil {
		callCtx, cancel := c.outbound(ctx)
		err := c.store.AppendComment(callCtx, recipeID, *comment)
		cancel()
		if err != nil {
			return nil, o.abort(err)
		}
	}
	if len(updates) > 0 {
		callCtx, cancel := c.outbound(ctx)
		err := c.store.UpdateFields(callCtx, recipeID, updates)
		cancel()
		if err != nil {
			return nil, o.abort(err)
		}
	}
	o.advance(statePersisted)

	res := &Result{RecipeID: recipeID}
	if imgs, ok := updates["images"].([]string); ok {
		res.Images = imgs
	}

	if concise := models.ConciseSubset(updates); len(concise) > 0 {
		callCtx, cancel := c.outbound(ctx)
		err := c.cache.WriteConciseView(callCtx, recipeID, concise)
		cancel()
		c.degrade(res, "concise_view", err)
	}
	o.advance(stateProjected)

	if comment != nil {
		callCtx, cancel := c.outbound(ctx)
		err := c.events.Publish(callCtx, mq.TopicRecipeItemPut, userID,
			[]any{userID, current.UserID, recipeID, comment, mq.StatusOK})
		cancel()
		c.degrade(res, "publish_comment", err)
	}
	o.advance(statePublished)

	o.advance(stateDone)
	return res, nil
}

// DeleteRecipe removes the document, then clears the derived cache entries.
// An already-deleted id still gets its cache entries cleared and surfaces
// the store's NotFound to the caller.
func (c *Coordinator) DeleteRecipe(ctx context.Context, userID, recipeID string) (*Result, error) {
	o := &op{name: "delete", log: c.log}
	o.advance(stateReceived)

	callCtx, cancel := c.outbound(ctx)
	delErr := c.store.Delete(callCtx, recipeID)
	cancel()
	if delErr != nil && !errors.Is(delErr, apperr.ErrNotFound) {
		return nil, o.abort(delErr)
	}
	o.advance(statePersisted)

	res := &Result{RecipeID: recipeID}

	callCtx, cancel = c.outbound(ctx)
	err := c.cache.RemoveConciseView(callCtx, recipeID)
	cancel()
	c.degrade(res, "concise_view", err)

	callCtx, cancel = c.outbound(ctx)
	err = c.cache.RemoveFromUserIndex(callCtx, userID, recipeID)
	cancel()
	c.degrade(res, "user_index", err)
	o.advance(stateProjected)

	o.advance(stateDone)
	return res, delErr
}

func (c *Coordinator) upload(ctx context.Context, recipeID string, media *Media) (string, error) {
	callCtx, cancel := c.outbound(ctx)
	defer cancel()
	return c.uploader.Upload(callCtx, media.Data, media.ContentType, recipeID+imageKeySuffix)
}

// degrade records a failed best-effort step on an already committed result.
func (c *Coordinator) degrade(res *Result, step string, err error) {
	if err == nil {
		return
	}
	res.Degraded = append(res.Degraded, step)
	c.log.Warn().Err(err).Str("step", step).Str("recipe_id", res.RecipeID).
		Msg("best-effort step failed after commit")
}
