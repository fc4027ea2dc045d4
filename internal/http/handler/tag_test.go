package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sjyoon/taskhub-api/internal/http/handler"
	"github.com/sjyoon/taskhub-api/internal/model"
)

func TestTagHandler_ListAndCreate(t *testing.T) {
	h := handler.NewTagHandler(testManager(nil))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, authedRequest("GET", "/api/v1/tags", ""))
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", rec.Code)
	}
	var listBody struct {
		Tags []model.Tag `json:"tags"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&listBody); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(listBody.Tags) != 1 || listBody.Tags[0].Name != "work" {
		t.Errorf("tags = %+v", listBody.Tags)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, authedRequest("POST", "/api/v1/tags", `{"name":"errands","color":"#f59e0b"}`))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}
	var created model.Tag
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID != "tag-new" || created.Name != "errands" {
		t.Errorf("created = %+v", created)
	}
}

func TestTagHandler_CreateBlankName(t *testing.T) {
	h := handler.NewTagHandler(testManager(nil))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, authedRequest("POST", "/api/v1/tags", `{"name":"  "}`))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestTagHandler_Delete(t *testing.T) {
	h := handler.NewTagHandler(testManager(nil))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, authedRequest("DELETE", "/api/v1/tags/tag-1", ""))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, authedRequest("DELETE", "/api/v1/tags/tag-1", ""))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("repeat delete status = %d, want 404", rec.Code)
	}
}

func TestCategoryHandler_CRUD(t *testing.T) {
	h := handler.NewCategoryHandler(testManager(nil))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, authedRequest("GET", "/api/v1/categories", ""))
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, authedRequest("POST", "/api/v1/categories",
		`{"name":"Home","color":"#10b981","icon":"house"}`))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}
	var created model.Category
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID != "cat-new" || created.Icon != "house" {
		t.Errorf("created = %+v", created)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, authedRequest("PUT", "/api/v1/categories/cat-1", `{"name":"Office"}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	var updated model.Category
	if err := json.NewDecoder(rec.Body).Decode(&updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.Name != "Office" {
		t.Errorf("updated = %+v", updated)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, authedRequest("DELETE", "/api/v1/categories/cat-1", ""))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, authedRequest("PUT", "/api/v1/categories/cat-1", `{"name":"Office"}`))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("update after delete status = %d, want 404", rec.Code)
	}
}
