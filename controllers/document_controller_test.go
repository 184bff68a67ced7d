package controllers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"query-hub/apperrors"
	"query-hub/controllers"
	"query-hub/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// --- Mock DocumentService ---

type mockDocumentService struct {
	listFn   func(ctx context.Context, params models.ListParams) ([]models.Document, error)
	getFn    func(ctx context.Context, id string) (models.Document, error)
	createFn func(ctx context.Context, doc models.Document) (*models.InsertAck, error)
	updateFn func(ctx context.Context, id string, fields models.Document) (*models.UpdateAck, error)
	deleteFn func(ctx context.Context, id string) (*models.DeleteAck, error)
}

func (m *mockDocumentService) Collection() string { return "myQueries" }
func (m *mockDocumentService) List(ctx context.Context, params models.ListParams) ([]models.Document, error) {
	return m.listFn(ctx, params)
}
func (m *mockDocumentService) Get(ctx context.Context, id string) (models.Document, error) {
	return m.getFn(ctx, id)
}
func (m *mockDocumentService) Create(ctx context.Context, doc models.Document) (*models.InsertAck, error) {
	return m.createFn(ctx, doc)
}
func (m *mockDocumentService) Update(ctx context.Context, id string, fields models.Document) (*models.UpdateAck, error) {
	return m.updateFn(ctx, id, fields)
}
func (m *mockDocumentService) Delete(ctx context.Context, id string) (*models.DeleteAck, error) {
	return m.deleteFn(ctx, id)
}

// --- Helpers ---

func setupRouter(dc *controllers.DocumentController) *gin.Engine {
	r := gin.New()
	r.Use(apperrors.ErrorMiddleware())
	r.GET("/docs", dc.List)
	r.POST("/docs", dc.Create)
	r.GET("/docs/:id", dc.Get)
	r.PUT("/docs/:id", dc.Update)
	r.DELETE("/docs/:id", dc.Delete)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apperrors.Error {
	t.Helper()
	var e apperrors.Error
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	return e
}

// --- Tests ---

func TestController_List_PassesQueryParams(t *testing.T) {
	var got models.ListParams
	svc := &mockDocumentService{
		listFn: func(_ context.Context, p models.ListParams) ([]models.Document, error) {
			got = p
			return []models.Document{{"product_name": "iPhone"}}, nil
		},
	}
	r := setupRouter(controllers.NewFilterableDocumentController(svc))

	w := do(r, http.MethodGet, "/docs?search=iph&filter=Apple&sort=asc&page=2", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.ListParams{Search: "iph", Filter: "Apple", Sort: "asc"}, got)
	assert.JSONEq(t, `[{"product_name":"iPhone"}]`, w.Body.String())
}

func TestController_List_UnfilterableIgnoresParams(t *testing.T) {
	var got models.ListParams
	svc := &mockDocumentService{
		listFn: func(_ context.Context, p models.ListParams) ([]models.Document, error) {
			got = p
			return nil, nil
		},
	}
	r := setupRouter(controllers.NewDocumentController(svc))

	w := do(r, http.MethodGet, "/docs?search=iph", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.ListParams{}, got)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestController_List_FailureIsPlainText(t *testing.T) {
	svc := &mockDocumentService{
		listFn: func(context.Context, models.ListParams) ([]models.Document, error) {
			return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, errors.New("boom"))
		},
	}
	r := setupRouter(controllers.NewFilterableDocumentController(svc))

	w := do(r, http.MethodGet, "/docs?search=[", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal Server Error", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
}

func TestController_Get(t *testing.T) {
	oid := primitive.NewObjectID()
	svc := &mockDocumentService{
		getFn: func(_ context.Context, id string) (models.Document, error) {
			switch id {
			case oid.Hex():
				return models.Document{"_id": oid, "title": "Why switch"}, nil
			case "bad":
				return nil, apperrors.ErrInvalidID
			default:
				return nil, nil
			}
		},
	}
	r := setupRouter(controllers.NewDocumentController(svc))

	t.Run("found", func(t *testing.T) {
		w := do(r, http.MethodGet, "/docs/"+oid.Hex(), "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"_id":"`+oid.Hex()+`","title":"Why switch"}`, w.Body.String())
	})

	t.Run("missing renders null", func(t *testing.T) {
		w := do(r, http.MethodGet, "/docs/"+primitive.NewObjectID().Hex(), "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "null", w.Body.String())
	})

	t.Run("malformed id", func(t *testing.T) {
		w := do(r, http.MethodGet, "/docs/bad", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid document id", decodeError(t, w).Message)
	})
}

func TestController_Create(t *testing.T) {
	oid := primitive.NewObjectID()
	var got models.Document
	svc := &mockDocumentService{
		createFn: func(_ context.Context, doc models.Document) (*models.InsertAck, error) {
			got = doc
			return &models.InsertAck{Acknowledged: true, InsertedID: oid}, nil
		},
	}
	r := setupRouter(controllers.NewDocumentController(svc))

	w := do(r, http.MethodPost, "/docs", `{"product_name":"Pixel 8","price":699}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"acknowledged":true,"insertedId":"`+oid.Hex()+`"}`, w.Body.String())
	assert.Equal(t, "Pixel 8", got["product_name"])
	assert.Equal(t, float64(699), got["price"])
}

func TestController_Create_InvalidBody(t *testing.T) {
	called := false
	svc := &mockDocumentService{
		createFn: func(context.Context, models.Document) (*models.InsertAck, error) {
			called = true
			return nil, nil
		},
	}
	r := setupRouter(controllers.NewDocumentController(svc))

	for _, body := range []string{`{"product_name":`, `[1,2]`} {
		w := do(r, http.MethodPost, "/docs", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, "Invalid request body", decodeError(t, w).Message)
	}
	assert.False(t, called)
}

func TestController_Update(t *testing.T) {
	oid := primitive.NewObjectID()
	svc := &mockDocumentService{
		updateFn: func(_ context.Context, id string, fields models.Document) (*models.UpdateAck, error) {
			if len(fields) == 0 {
				return nil, apperrors.ErrEmptyUpdate
			}
			return &models.UpdateAck{Acknowledged: true, UpsertedCount: 1, UpsertedID: oid}, nil
		},
	}
	r := setupRouter(controllers.NewDocumentController(svc))

	w := do(r, http.MethodPut, "/docs/"+oid.Hex(), `{"reason":"battery"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t,
		`{"acknowledged":true,"matchedCount":0,"modifiedCount":0,"upsertedCount":1,"upsertedId":"`+oid.Hex()+`"}`,
		w.Body.String())

	w = do(r, http.MethodPut, "/docs/"+oid.Hex(), `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No update fields provided", decodeError(t, w).Message)
}

func TestController_Delete(t *testing.T) {
	svc := &mockDocumentService{
		deleteFn: func(_ context.Context, id string) (*models.DeleteAck, error) {
			if id == "boom" {
				return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, errors.New("connection reset"))
			}
			return &models.DeleteAck{Acknowledged: true, DeletedCount: 0}, nil
		},
	}
	r := setupRouter(controllers.NewDocumentController(svc))

	w := do(r, http.MethodDelete, "/docs/"+primitive.NewObjectID().Hex(), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"acknowledged":true,"deletedCount":0}`, w.Body.String())

	w = do(r, http.MethodDelete, "/docs/boom", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	e := decodeError(t, w)
	assert.Equal(t, http.StatusInternalServerError, e.Code)
	assert.Equal(t, "Database query error", e.Message)
}

func TestRootAndHealth(t *testing.T) {
	r := gin.New()
	r.GET("/", controllers.Root)
	r.GET("/health", controllers.Health)

	w := do(r, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "query hub is running!", w.Body.String())

	w = do(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"OK","service":"query-hub"}`, w.Body.String())
}
