package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"recipechain/internal/domain"
	"recipechain/internal/loader"
	"recipechain/internal/render"
	"recipechain/internal/repository/sqlite"
	"recipechain/internal/service"
	"recipechain/internal/session"
)

func dataset() *domain.Snapshot {
	snap := domain.NewSnapshot()
	snap.Units = []domain.Unit{{UnitID: 1, UnitName: "Kilogram", DefaultUnit: "kg"}}
	snap.Items = []domain.Item{{ItemID: 10, ItemName: "Ore", UnitID: 1}, {ItemID: 11, ItemName: "Plate", UnitID: 1}}
	snap.Recipes = []domain.Recipe{
		{RecipeID: 1, RecipeName: "Smelt", Inputs: []domain.ItemAmount{{ItemID: 10, Amount: 2}}, Outputs: []domain.ItemAmount{{ItemID: 11, Amount: 1}}},
		{RecipeID: 2, RecipeName: "Mine", Outputs: []domain.ItemAmount{{ItemID: 10, Amount: 2}}},
	}
	return snap
}

type testServer struct {
	svc    *service.Service
	router http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	l := loader.New(t.TempDir(), zap.NewNop())
	require.NoError(t, l.Save(dataset()))

	repo, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	cfg := session.DefaultConfig()
	cfg.FrameInterval = time.Millisecond
	cfg.Layout.Seed = 11
	bus := service.NewEventBus()
	sess, err := session.New(cfg, service.FramePublisher(bus), zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go sess.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-sess.Done()
	})

	svc := service.New(l, repo, sess, bus, nil, zap.NewNop())
	require.NoError(t, svc.Reload(ctx))

	static := fstest.MapFS{"index.html": {Data: []byte("<html>chain</html>")}}
	router := NewRouter(NewChainHandler(svc, zap.NewNop()), RouterOptions{
		Static: static,
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("metrics"))
		}),
	})
	return &testServer{svc: svc, router: router}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.EqualValues(t, 1, body["revision"])
}

func TestListRecipes(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/api/recipes", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody[PickerResponse](t, rec)
	assert.Equal(t, render.PickerPlaceholder, body.Placeholder)
	require.Len(t, body.Options, 2)
	assert.Equal(t, "Mine", body.Options[0].Name)
}

func TestSelectRecipeAndScene(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/scene", "")
	require.Equal(t, http.StatusOK, rec.Code)
	scene := decodeBody[render.Scene](t, rec)
	require.NotNil(t, scene.Empty)
	assert.Equal(t, render.NoSelection, *scene.Empty)

	rec = s.do(t, http.MethodPut, "/api/selection", `{"recipe_id": 1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	scene = decodeBody[render.Scene](t, rec)
	assert.Equal(t, 1, scene.Target)
	assert.Len(t, scene.Nodes, 2)
	assert.Len(t, scene.Edges, 1)

	rec = s.do(t, http.MethodGet, "/api/scene.svg", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<svg")

	rec = s.do(t, http.MethodPut, "/api/selection", `{"recipe_id": null}`)
	require.Equal(t, http.StatusOK, rec.Code)
	scene = decodeBody[render.Scene](t, rec)
	assert.Zero(t, scene.Target)
}

func TestSelectRecipe_Invalid(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPut, "/api/selection", `{"recipe_id": -3}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, "Validation failed", body.Error)

	rec = s.do(t, http.MethodPut, "/api/selection", `{"recipe": 1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSelectionEndpoints(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPut, "/api/selection", `{"recipe_id": 1}`).Code)

	rec := s.do(t, http.MethodPost, "/api/selection/node/2", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	scene := decodeBody[render.Scene](t, s.do(t, http.MethodGet, "/api/scene", ""))
	require.NotNil(t, scene.Panel)
	assert.True(t, scene.Panel.Selected)
	assert.Equal(t, "2", scene.Panel.ID)

	require.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/api/selection/target", "").Code)
	scene = decodeBody[render.Scene](t, s.do(t, http.MethodGet, "/api/scene", ""))
	assert.Nil(t, scene.Panel)
}

func TestHandleEvent(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPut, "/api/selection", `{"recipe_id": 1}`).Code)

	rec := s.do(t, http.MethodPost, "/api/events", `{"kind":"wheel","x":500,"y":300,"delta_y":-100}`)
	require.Equal(t, http.StatusOK, rec.Code)
	change := decodeBody[ChangeResponse](t, rec)
	assert.True(t, change.View)
	assert.False(t, change.Layout)

	rec = s.do(t, http.MethodPost, "/api/events", `{"kind":"teleport"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody[ErrorResponse](t, rec)
	details, ok := body.Details.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, details, "kind")
}

func TestViewOps(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPut, "/api/selection", `{"recipe_id": 1}`).Code)

	require.Equal(t, http.StatusNoContent, s.do(t, http.MethodPost, "/api/view", `{"op":"zoom_in"}`).Code)
	scene := decodeBody[render.Scene](t, s.do(t, http.MethodGet, "/api/scene", ""))
	assert.InDelta(t, 1.5, scene.Transform.K, 1e-9)

	require.Equal(t, http.StatusNoContent, s.do(t, http.MethodPost, "/api/view", `{"op":"reset"}`).Code)
	scene = decodeBody[render.Scene](t, s.do(t, http.MethodGet, "/api/scene", ""))
	assert.InDelta(t, 1.0, scene.Transform.K, 1e-9)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/view", `{"op":"spin"}`).Code)
}

func TestResize(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusNoContent, s.do(t, http.MethodPut, "/api/viewport", `{"width":640,"height":480}`).Code)

	scene := decodeBody[render.Scene](t, s.do(t, http.MethodGet, "/api/scene", ""))
	assert.Equal(t, 640.0, scene.Viewport.Width)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPut, "/api/viewport", `{"width":0,"height":480}`).Code)
}

func TestDatasetExportImport(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/dataset?format=yaml", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "recipe_name: Smelt")

	rec = s.do(t, http.MethodGet, "/api/dataset", "")
	require.Equal(t, http.StatusOK, rec.Code)
	exported := rec.Body.String()
	assert.Contains(t, exported, `"RecipeName": "Smelt"`)

	updated := strings.Replace(exported, `"RecipeName": "Mine"`, `"RecipeName": "Quarry"`, 1)
	req := httptest.NewRequest(http.MethodPut, "/api/dataset?format=json", bytes.NewBufferString(updated))
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody[ImportResponse](t, rec)
	assert.Equal(t, uint64(2), body.Revision)
	assert.Equal(t, 2, body.Counts["recipes"])

	picker := decodeBody[PickerResponse](t, s.do(t, http.MethodGet, "/api/recipes", ""))
	assert.Equal(t, "Quarry", picker.Options[0].Name)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/dataset?format=csv", "").Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPut, "/api/dataset", "{").Code)
}

func TestSavedViews(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/views", `{"name":"early"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPut, "/api/selection", `{"recipe_id": 1}`).Code)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/views", `{}`).Code)

	rec = s.do(t, http.MethodPost, "/api/views", `{"name":"main line"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	view := decodeBody[domain.SavedView](t, rec)
	assert.NotEmpty(t, view.ID)
	assert.Equal(t, 1, view.RecipeID)

	rec = s.do(t, http.MethodGet, "/api/views?recipe_id=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	views := decodeBody[[]domain.SavedView](t, rec)
	require.Len(t, views, 1)
	assert.Equal(t, "main line", views[0].Name)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/views?recipe_id=x", "").Code)

	rec = s.do(t, http.MethodPost, "/api/views/"+view.ID+"/apply", "")
	require.Equal(t, http.StatusOK, rec.Code)

	require.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/api/views/"+view.ID, "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/api/views/"+view.ID, "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, "/api/views/"+view.ID+"/apply", "").Code)
}

func TestStaticAndMetrics(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "chain")

	rec = s.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "metrics", rec.Body.String())
}
