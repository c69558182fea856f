package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"recipechain/internal/codec"
	"recipechain/internal/geom"
	"recipechain/internal/interaction"
	"recipechain/internal/render"
	"recipechain/internal/repository"
	"recipechain/internal/service"
	"recipechain/internal/session"
)

// maxBodyBytes bounds dataset uploads and JSON request bodies
const maxBodyBytes = 32 << 20

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// ChainHandler serves the dataset, session and saved view endpoints
type ChainHandler struct {
	svc      *service.Service
	logger   *zap.Logger
	validate *Validator
}

// NewChainHandler creates a new chain handler
func NewChainHandler(svc *service.Service, logger *zap.Logger) *ChainHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChainHandler{svc: svc, logger: logger, validate: NewValidator()}
}

// PickerResponse lists the recipes that can be selected
type PickerResponse struct {
	Placeholder string                `json:"placeholder"`
	Options     []render.PickerOption `json:"options"`
}

// ListRecipes returns the picker options sorted by name
func (h *ChainHandler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, PickerResponse{
		Placeholder: render.PickerPlaceholder,
		Options:     h.svc.Picker(),
	}, http.StatusOK)
}

// ExportDataset writes the dataset bundle in the requested format
func (h *ChainHandler) ExportDataset(w http.ResponseWriter, r *http.Request) {
	c, err := codec.ForFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.writeError(w, "Unsupported format", err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", c.ContentType())
	w.Header().Set("Content-Disposition", "attachment; filename=recipes."+c.Format())
	if err := c.Export(h.svc.Snapshot(), w); err != nil {
		h.logger.Error("failed to export dataset", zap.Error(err))
	}
}

// ImportResponse summarizes an imported dataset
type ImportResponse struct {
	Revision uint64         `json:"revision"`
	Counts   map[string]int `json:"counts"`
}

// ImportDataset replaces the dataset with the uploaded bundle
func (h *ChainHandler) ImportDataset(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	snap, err := h.svc.Import(r.Context(), body, r.URL.Query().Get("format"))
	if err != nil {
		if errors.Is(err, codec.ErrUnsupportedFormat) {
			h.writeError(w, "Unsupported format", err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Warn("dataset import failed", zap.Error(err))
		h.writeError(w, "Failed to import dataset", err.Error(), http.StatusBadRequest)
		return
	}

	h.writeJSON(w, ImportResponse{Revision: snap.Revision, Counts: snap.Counts()}, http.StatusOK)
}

// SelectRecipeRequest selects the target recipe; null clears it
type SelectRecipeRequest struct {
	RecipeID *int `json:"recipe_id" validate:"omitempty,gt=0"`
}

// SelectRecipe changes the target recipe and returns the new scene
func (h *ChainHandler) SelectRecipe(w http.ResponseWriter, r *http.Request) {
	var req SelectRecipeRequest
	if !h.decode(w, r, &req) {
		return
	}

	id := 0
	if req.RecipeID != nil {
		id = *req.RecipeID
	}
	if err := h.svc.Session().SelectRecipe(r.Context(), id); err != nil {
		h.sessionError(w, err)
		return
	}
	h.GetScene(w, r)
}

// GetScene returns the current frame as JSON
func (h *ChainHandler) GetScene(w http.ResponseWriter, r *http.Request) {
	scene, err := h.svc.Session().Scene(r.Context())
	if err != nil {
		h.sessionError(w, err)
		return
	}
	h.writeJSON(w, scene, http.StatusOK)
}

// GetSceneSVG returns the current frame as an SVG document
func (h *ChainHandler) GetSceneSVG(w http.ResponseWriter, r *http.Request) {
	scene, err := h.svc.Session().Scene(r.Context())
	if err != nil {
		h.sessionError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	if err := render.WriteSVG(w, scene); err != nil {
		h.logger.Error("failed to write SVG", zap.Error(err))
	}
}

// ChangeResponse reports what an interaction touched
type ChangeResponse struct {
	View      bool `json:"view"`
	Hover     bool `json:"hover"`
	Selection bool `json:"selection"`
	Layout    bool `json:"layout"`
}

func changeResponse(c interaction.Change) ChangeResponse {
	return ChangeResponse{
		View:      c.Has(interaction.ChangeView),
		Hover:     c.Has(interaction.ChangeHover),
		Selection: c.Has(interaction.ChangeSelection),
		Layout:    c.Has(interaction.ChangeLayout),
	}
}

// HandleEvent feeds one pointer or gesture event to the controller
func (h *ChainHandler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	var ev interaction.Event
	if !h.decode(w, r, &ev) {
		return
	}

	change, err := h.svc.Session().HandleEvent(r.Context(), ev)
	if err != nil {
		h.sessionError(w, err)
		return
	}
	h.writeJSON(w, changeResponse(change), http.StatusOK)
}

// ViewRequest is a toolbar operation
type ViewRequest struct {
	Op string `json:"op" validate:"required,oneof=zoom_in zoom_out reset fit"`
}

// ApplyViewOp runs a zoom, reset or fit operation
func (h *ChainHandler) ApplyViewOp(w http.ResponseWriter, r *http.Request) {
	var req ViewRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.svc.Session().View(r.Context(), req.Op); err != nil {
		h.sessionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Resize sets the viewport size
func (h *ChainHandler) Resize(w http.ResponseWriter, r *http.Request) {
	var size geom.Size
	if !h.decode(w, r, &size) {
		return
	}
	if err := h.svc.Session().Resize(r.Context(), size); err != nil {
		h.sessionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SelectNode selects a node by id
func (h *ChainHandler) SelectNode(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Session().SelectNode(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.sessionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SelectEdge selects an edge by id
func (h *ChainHandler) SelectEdge(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Session().SelectEdge(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.sessionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearSelection clears the node or edge selection
func (h *ChainHandler) ClearSelection(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Session().ClearSelection(r.Context()); err != nil {
		h.sessionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListViews returns saved views, optionally filtered by recipe_id
func (h *ChainHandler) ListViews(w http.ResponseWriter, r *http.Request) {
	recipeID := 0
	if raw := r.URL.Query().Get("recipe_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id < 0 {
			h.writeError(w, "Invalid recipe_id", raw, http.StatusBadRequest)
			return
		}
		recipeID = id
	}

	views, err := h.svc.ListViews(r.Context(), recipeID)
	if err != nil {
		h.logger.Error("failed to list views", zap.Error(err))
		h.writeError(w, "Failed to list views", err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, views, http.StatusOK)
}

// SaveViewRequest names a view to capture
type SaveViewRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// SaveView captures and stores the current layout
func (h *ChainHandler) SaveView(w http.ResponseWriter, r *http.Request) {
	var req SaveViewRequest
	if !h.decode(w, r, &req) {
		return
	}

	view, err := h.svc.SaveView(r.Context(), req.Name)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNoTarget):
			h.writeError(w, "No recipe selected", err.Error(), http.StatusConflict)
		case errors.Is(err, service.ErrInvalidView):
			h.writeError(w, "Invalid view", err.Error(), http.StatusBadRequest)
		default:
			h.sessionError(w, err)
		}
		return
	}
	h.writeJSON(w, view, http.StatusCreated)
}

// ApplyView restores a saved view
func (h *ChainHandler) ApplyView(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.ApplyView(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.writeError(w, "Not found", err.Error(), http.StatusNotFound)
			return
		}
		h.sessionError(w, err)
		return
	}
	h.writeJSON(w, view, http.StatusOK)
}

// DeleteView removes a saved view
func (h *ChainHandler) DeleteView(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteView(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.writeError(w, "Not found", err.Error(), http.StatusNotFound)
			return
		}
		h.logger.Error("failed to delete view", zap.Error(err))
		h.writeError(w, "Failed to delete view", err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Health reports liveness and the dataset revision
func (h *ChainHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, map[string]any{
		"status":   "healthy",
		"revision": h.svc.Snapshot().Revision,
	}, http.StatusOK)
}

// decode reads and validates a JSON body, writing the error reply itself
func (h *ChainHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return false
	}
	if err := h.validate.ValidateStruct(dst); err != nil {
		h.writeError(w, "Validation failed", FormatValidationError(err), http.StatusBadRequest)
		return false
	}
	return true
}

func (h *ChainHandler) sessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrUnknownViewOp):
		h.writeError(w, "Unknown view operation", err.Error(), http.StatusBadRequest)
	case errors.Is(err, session.ErrClosed):
		h.writeError(w, "Session closed", err.Error(), http.StatusServiceUnavailable)
	default:
		h.logger.Error("session request failed", zap.Error(err))
		h.writeError(w, "Request failed", err.Error(), http.StatusInternalServerError)
	}
}

func (h *ChainHandler) writeJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON", zap.Error(err))
	}
}

func (h *ChainHandler) writeError(w http.ResponseWriter, error string, details any, statusCode int) {
	h.writeJSON(w, ErrorResponse{Error: error, Details: details}, statusCode)
}
