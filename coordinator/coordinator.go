package coordinator

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"savora/models"
)

type BlobUploader interface {
	Upload(ctx context.Context, data []byte, contentType, key string) (string, error)
}

type RecipeStore interface {
	Insert(ctx context.Context, rec *models.Recipe) (string, error)
	GetByID(ctx context.Context, id string) (*models.Recipe, error)
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
	AppendComment(ctx context.Context, id string, c models.Comment) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter map[string]string, start, limit int) ([]models.Recipe, error)
}

type CacheProjector interface {
	WriteConciseView(ctx context.Context, recipeID string, fields map[string]any) error
	RemoveConciseView(ctx context.Context, recipeID string) error
	AddToUserIndex(ctx context.Context, userID, recipeID string, createdAt int64) error
	RemoveFromUserIndex(ctx context.Context, userID, recipeID string) error
	UserRecipeIDs(ctx context.Context, userID string, start, limit int) ([]string, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, payload []any) error
}

// Media is an inbound image payload attached to a create or update.
type Media struct {
	Data        []byte
	ContentType string
}

// Result reports a committed mutation. Degraded lists the best-effort tail
// steps that failed after the commit point; the mutation itself succeeded.
type Result struct {
	RecipeID string
	Images   []string
	Degraded []string
}

// Coordinator sequences one logical mutation across the document store, the
// blob store, the cache projection and the event log. The document write is
// the commit point: everything before it can abort the operation, nothing
// after it can.
type Coordinator struct {
	store    RecipeStore
	cache    CacheProjector
	events   EventPublisher
	uploader BlobUploader
	timeout  time.Duration
	log      zerolog.Logger
}

func New(store RecipeStore, cache CacheProjector, events EventPublisher, uploader BlobUploader, timeout time.Duration, log zerolog.Logger) *Coordinator {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Coordinator{
		store:    store,
		cache:    cache,
		events:   events,
		uploader: uploader,
		timeout:  timeout,
		log:      log,
	}
}

// outbound bounds a single call to a backing store.
func (c *Coordinator) outbound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

func (c *Coordinator) GetRecipe(ctx context.Context, id string) (*models.Recipe, error) {
	ctx, cancel := c.outbound(ctx)
	defer cancel()
	return c.store.GetByID(ctx, id)
}

func (c *Coordinator) ListRecipes(ctx context.Context, filter map[string]string, start, limit int) ([]models.Recipe, error) {
	ctx, cancel := c.outbound(ctx)
	defer cancel()
	return c.store.List(ctx, filter, start, limit)
}

// MyRecipeIDs reads the per-user index, most recent first.
func (c *Coordinator) MyRecipeIDs(ctx context.Context, userID string, start, limit int) ([]string, error) {
	ctx, cancel := c.outbound(ctx)
	defer cancel()
	return c.cache.UserRecipeIDs(ctx, userID, start, limit)
}
