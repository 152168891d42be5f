package models

import (
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Comment struct {
	ID        string    `bson:"id" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	UserName  string    `bson:"user_name" json:"user_name"`
	Content   string    `bson:"content" json:"content"`
	TimeStamp time.Time `bson:"time_stamp" json:"time_stamp"`
}

func NewComment(userID, userName, content string) Comment {
	return Comment{
		ID:        uuid.New().String(),
		UserID:    userID,
		UserName:  userName,
		Content:   content,
		TimeStamp: time.Now().UTC(),
	}
}

// Recipe is the primary document. The four ingredients_* lists are parallel
// arrays: equal length, same index order. The normalizer enforces that
// before anything reaches the store.
type Recipe struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID           string             `bson:"user_id" json:"user_id"`
	UserName         string             `bson:"user_name,omitempty" json:"user_name,omitempty"`
	Name             string             `bson:"recipe_name" json:"recipe_name"`
	Description      string             `bson:"description,omitempty" json:"description,omitempty"`
	Steps            []string           `bson:"steps" json:"steps"`
	Ingredients      []string           `bson:"ingredients" json:"ingredients"`
	IngredientIDs    []string           `bson:"ingredients_ids" json:"ingredients_ids"`
	IngredientQuant  []string           `bson:"ingredients_quant" json:"ingredients_quant"`
	IngredientMetric []string           `bson:"ingredients_metric" json:"ingredients_metric"`
	IngredientImgs   []string           `bson:"ingredients_imgs,omitempty" json:"ingredients_imgs,omitempty"`
	Tips             []string           `bson:"tips,omitempty" json:"tips,omitempty"`
	Images           []string           `bson:"images,omitempty" json:"images,omitempty"`
	Tags             []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	Category         []string           `bson:"category,omitempty" json:"category,omitempty"`
	LikesCount       int                `bson:"likes_count" json:"likes_count"`
	SharesCount      int                `bson:"shares_count" json:"shares_count"`
	RatingCount      int                `bson:"rating_count" json:"rating_count"`
	RatingTotal      float64            `bson:"rating_total" json:"rating_total"`
	PrepTime         int                `bson:"prep_time" json:"prep_time"`
	CookTime         int                `bson:"cook_time" json:"cook_time"`
	LastModified     time.Time          `bson:"last_modified" json:"last_modified"`
	Comments         []Comment          `bson:"comments,omitempty" json:"comments,omitempty"`
}

func (r *Recipe) Rating() float64 {
	if r.RatingCount < 1 {
		return 0.0
	}
	return r.RatingTotal / float64(r.RatingCount)
}

// CreatedAt derives the creation instant from the ObjectID, so documents
// sorted by _id come out in creation order.
func (r *Recipe) CreatedAt() time.Time {
	return r.ID.Timestamp()
}

// ConciseView projects the fields the cache keeps per recipe.
func (r *Recipe) ConciseView() map[string]any {
	return map[string]any{
		"images":       r.Images,
		"recipe_name":  r.Name,
		"user_name":    r.UserName,
		"likes_count":  r.LikesCount,
		"shares_count": r.SharesCount,
		"rating_total": r.RatingTotal,
		"prep_time":    r.PrepTime,
		"cook_time":    r.CookTime,
	}
}
