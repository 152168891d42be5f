package recipes

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"savora/coordinator"
	"savora/models"
	"savora/utils"
)

// Service is the mutation/read surface the handlers call. Parsing,
// identity and pagination checks happen here; everything else is the
// coordinator's business.
type Service interface {
	CreateRecipe(ctx context.Context, userID string, fields map[string]any, media *coordinator.Media) (*coordinator.Result, error)
	UpdateRecipe(ctx context.Context, userID, recipeID string, fields map[string]any, media *coordinator.Media) (*coordinator.Result, error)
	DeleteRecipe(ctx context.Context, userID, recipeID string) (*coordinator.Result, error)
	GetRecipe(ctx context.Context, id string) (*models.Recipe, error)
	ListRecipes(ctx context.Context, filter map[string]string, start, limit int) ([]models.Recipe, error)
	MyRecipeIDs(ctx context.Context, userID string, start, limit int) ([]string, error)
}

type Handler struct {
	svc       Service
	pageLimit int
	maxUpload int64
}

func NewHandler(svc Service, pageLimit int, maxUpload int64) *Handler {
	return &Handler{svc: svc, pageLimit: pageLimit, maxUpload: maxUpload}
}

// List recipes with optional filters. recipe_name and description are
// substring filters; remaining params filter by equality.
func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	start, limit, err := utils.ParsePage(query.Get("start"), query.Get("limit"), h.pageLimit)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	filter := map[string]string{}
	for key, vals := range query {
		if key == "start" || key == "limit" || len(vals) == 0 {
			continue
		}
		filter[key] = vals[0]
	}

	recipes, err := h.svc.ListRecipes(r.Context(), filter, start, limit)
	if err != nil {
		utils.RespondWithError(w, utils.StatusFor(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"items": recipes, "count": len(recipes)})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	recipe, err := h.svc.GetRecipe(r.Context(), ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, utils.StatusFor(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, recipe)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromContext(r.Context())
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	fields, media, err := h.parseBody(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, ok := fields["user_name"]; !ok {
		if name := utils.GetUserNameFromContext(r.Context()); name != "" {
			fields["user_name"] = name
		}
	}

	res, err := h.svc.CreateRecipe(r.Context(), userID, fields, media)
	if err != nil {
		utils.RespondWithError(w, utils.StatusFor(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"recipe_id": res.RecipeID,
		"images":    res.Images,
	})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromContext(r.Context())
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	fields, media, err := h.parseBody(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.svc.UpdateRecipe(r.Context(), userID, ps.ByName("id"), fields, media)
	if err != nil {
		utils.RespondWithError(w, utils.StatusFor(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"recipe_id": res.RecipeID})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromContext(r.Context())
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	_, err := h.svc.DeleteRecipe(r.Context(), userID, ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, utils.StatusFor(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "deleted"})
}

// Mine lists the caller's recipe ids, most recent first.
func (h *Handler) Mine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromContext(r.Context())
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	query := r.URL.Query()
	start, limit, err := utils.ParsePage(query.Get("start"), query.Get("limit"), h.pageLimit)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	ids, err := h.svc.MyRecipeIDs(r.Context(), userID, start, limit)
	if err != nil {
		utils.RespondWithError(w, utils.StatusFor(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"items": ids, "count": len(ids)})
}

// parseBody accepts either a JSON object or a multipart form with an
// optional "images" file part. Field values stay raw; the normalizer
// decides what is valid.
func (h *Handler) parseBody(r *http.Request) (map[string]any, *coordinator.Media, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		return h.parseMultipart(r)
	}

	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		return nil, nil, errors.New("invalid request body")
	}
	// "null" decodes cleanly into a nil map; treat it as no body at all.
	if fields == nil {
		return nil, nil, errors.New("invalid request body")
	}
	return fields, nil, nil
}

func (h *Handler) parseMultipart(r *http.Request) (map[string]any, *coordinator.Media, error) {
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		return nil, nil, errors.New("failed to parse form")
	}

	fields := map[string]any{}
	for key, vals := range r.MultipartForm.Value {
		if len(vals) == 0 {
			continue
		}
		if kind, ok := models.FieldKindOf(key); ok && kind == models.KindStringList {
			fields[key] = vals
			continue
		}
		fields[key] = vals[0]
	}

	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		return fields, nil, nil
	}
	file, err := files[0].Open()
	if err != nil {
		return nil, nil, errors.New("error reading file")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxUpload+1))
	if err != nil {
		return nil, nil, errors.New("error reading file")
	}
	media := &coordinator.Media{
		Data:        data,
		ContentType: files[0].Header.Get("Content-Type"),
	}
	return fields, media, nil
}
