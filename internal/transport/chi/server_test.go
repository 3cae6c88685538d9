package chi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/lifeswitch-cloud/catalogd/internal/domain"
)

func getJSON(t *testing.T, url string, wantStatus int, out any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("GET %s: status = %d, want %d", url, resp.StatusCode, wantStatus)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
}

func postJSON(t *testing.T, url string, body any, wantStatus int, out any) {
	t.Helper()
	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(buf))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("POST %s: status = %d, want %d", url, resp.StatusCode, wantStatus)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
}

func TestSearchExercises_RanksExactFirst(t *testing.T) {
	mem := newMemCatalog()
	seedExercise(t, mem, "ex-1", "Lat Pulldown", "lat pulldown")
	seedExercise(t, mem, "ex-2", "Lateral Raise", "lateral raise")
	srv := newTestServer(t, mem)

	var resp SearchResponse
	getJSON(t, srv.URL+"/api/v1/exercises/search?q=lat+pulldown", http.StatusOK, &resp)

	if resp.Total == 0 {
		t.Fatal("no matches")
	}
	first := resp.Items[0]
	if first.EntityID != "ex-1" || first.Score != 1.0 {
		t.Errorf("first = %s score %v", first.EntityID, first.Score)
	}
	if first.MatchedSource != "canonical" {
		t.Errorf("matched source = %q", first.MatchedSource)
	}
	if first.Modality == nil || *first.Modality != "machine" {
		t.Errorf("modality missing on exercise hit")
	}
}

func TestSearchFoods_IncludesMacros(t *testing.T) {
	mem := newMemCatalog()
	seedFood(t, mem, "f-1", "Greek Yogurt", "greek yogurt", "5201054018764", true)
	srv := newTestServer(t, mem)

	var resp SearchResponse
	getJSON(t, srv.URL+"/api/v1/foods/search?q=greek+yogurt", http.StatusOK, &resp)

	if resp.Total != 1 {
		t.Fatalf("total = %d, want 1", resp.Total)
	}
	item := resp.Items[0]
	if item.Kcal == nil || *item.Kcal != 59 {
		t.Errorf("kcal missing on food hit: %+v", item)
	}
	if item.Brand == nil || *item.Brand != "Fage" {
		t.Errorf("brand missing on food hit")
	}
}

func TestSearchFoods_HidesUnapproved(t *testing.T) {
	mem := newMemCatalog()
	seedFood(t, mem, "f-1", "Greek Yogurt", "greek yogurt", "", false)
	srv := newTestServer(t, mem)

	var resp SearchResponse
	getJSON(t, srv.URL+"/api/v1/foods/search?q=greek+yogurt", http.StatusOK, &resp)
	if resp.Total != 0 {
		t.Errorf("total = %d, want 0 for unapproved food", resp.Total)
	}
}

func TestSearch_MissingQuery(t *testing.T) {
	srv := newTestServer(t, newMemCatalog())

	var errResp ErrorResponse
	getJSON(t, srv.URL+"/api/v1/exercises/search", http.StatusBadRequest, &errResp)
	if errResp.Code != CodeValidationFailed {
		t.Errorf("code = %q, want %q", errResp.Code, CodeValidationFailed)
	}
}

func TestSearch_BadLimit(t *testing.T) {
	srv := newTestServer(t, newMemCatalog())

	getJSON(t, srv.URL+"/api/v1/exercises/search?q=x&limit=abc", http.StatusBadRequest, nil)
	getJSON(t, srv.URL+"/api/v1/exercises/search?q=x&limit=500", http.StatusBadRequest, nil)
	// An explicit zero is rejected; only an omitted limit falls back to the default.
	getJSON(t, srv.URL+"/api/v1/exercises/search?q=x&limit=0", http.StatusBadRequest, nil)
}

func TestSearch_StoreUnavailable(t *testing.T) {
	mem := newMemCatalog()
	mem.err = fmt.Errorf("candidates: %w", domain.ErrStoreUnavailable)
	srv := newTestServer(t, mem)

	var errResp ErrorResponse
	getJSON(t, srv.URL+"/api/v1/exercises/search?q=pulldown", http.StatusServiceUnavailable, &errResp)
	if errResp.Code != CodeStoreUnavailable {
		t.Errorf("code = %q, want %q", errResp.Code, CodeStoreUnavailable)
	}
}

func TestFindFoodByBarcode(t *testing.T) {
	mem := newMemCatalog()
	seedFood(t, mem, "f-1", "Greek Yogurt", "greek yogurt", "5201054018764", true)
	srv := newTestServer(t, mem)

	var resp EntityResponse
	getJSON(t, srv.URL+"/api/v1/foods/by_barcode?barcode=5201054018764", http.StatusOK, &resp)
	if resp.ID != "f-1" {
		t.Errorf("id = %q", resp.ID)
	}

	getJSON(t, srv.URL+"/api/v1/foods/by_barcode?barcode=00000000", http.StatusNotFound, nil)
	getJSON(t, srv.URL+"/api/v1/foods/by_barcode?barcode=nope", http.StatusBadRequest, nil)
	getJSON(t, srv.URL+"/api/v1/foods/by_barcode", http.StatusBadRequest, nil)
}

func TestCreateExercise(t *testing.T) {
	mem := newMemCatalog()
	srv := newTestServer(t, mem)

	var resp EntityResponse
	postJSON(t, srv.URL+"/api/v1/exercises", CreateExerciseRequest{
		Name:           "Café Pulldown",
		Modality:       "machine",
		PrimaryMuscles: []string{"lats"},
	}, http.StatusCreated, &resp)

	if resp.DisplayName != "Café Pulldown" || resp.Kind != "exercise" {
		t.Errorf("response = %+v", resp)
	}
	if !resp.IsActive {
		t.Error("new entity must be active")
	}
	stored, ok := mem.entities[resp.ID]
	if !ok {
		t.Fatal("entity not stored")
	}
	if stored.NormName() != "cafe pulldown" {
		t.Errorf("stored norm name = %q", stored.NormName())
	}
}

func TestCreateExercise_MissingName(t *testing.T) {
	srv := newTestServer(t, newMemCatalog())
	postJSON(t, srv.URL+"/api/v1/exercises", CreateExerciseRequest{}, http.StatusBadRequest, nil)
}

func TestCreateFood_BadBarcode(t *testing.T) {
	srv := newTestServer(t, newMemCatalog())
	postJSON(t, srv.URL+"/api/v1/foods", CreateFoodRequest{
		Name:    "Greek Yogurt",
		Barcode: "123",
	}, http.StatusBadRequest, nil)
}

func TestGetEntity_NotFound(t *testing.T) {
	srv := newTestServer(t, newMemCatalog())

	var errResp ErrorResponse
	getJSON(t, srv.URL+"/api/v1/entities/missing", http.StatusNotFound, &errResp)
	if errResp.Code != CodeNotFound {
		t.Errorf("code = %q, want %q", errResp.Code, CodeNotFound)
	}
}

func TestAddAlias_CreatedThenIdempotent(t *testing.T) {
	mem := newMemCatalog()
	seedExercise(t, mem, "ex-1", "Lat Pulldown", "lat pulldown")
	srv := newTestServer(t, mem)

	body := AddAliasRequest{Text: "Pulldown Machine", BrandName: "Hammer Strength"}

	var created AliasResponse
	postJSON(t, srv.URL+"/api/v1/entities/ex-1/aliases", body, http.StatusCreated, &created)
	if created.EntityID != "ex-1" || created.Locale != "en" {
		t.Errorf("alias = %+v", created)
	}

	var again AliasResponse
	postJSON(t, srv.URL+"/api/v1/entities/ex-1/aliases", body, http.StatusOK, &again)
	if again.ID != created.ID {
		t.Errorf("re-tag returned a different alias: %q vs %q", again.ID, created.ID)
	}
}

func TestAddAlias_UnknownEntity(t *testing.T) {
	srv := newTestServer(t, newMemCatalog())
	postJSON(t, srv.URL+"/api/v1/entities/missing/aliases",
		AddAliasRequest{Text: "Pulldown"}, http.StatusNotFound, nil)
}

func TestLifecycleEndpoints(t *testing.T) {
	mem := newMemCatalog()
	seedExercise(t, mem, "ex-1", "Lat Pulldown", "lat pulldown")
	seedFood(t, mem, "f-1", "Greek Yogurt", "greek yogurt", "", false)
	srv := newTestServer(t, mem)

	var resp EntityResponse
	postJSON(t, srv.URL+"/api/v1/entities/ex-1/deactivate", struct{}{}, http.StatusOK, &resp)
	if resp.IsActive {
		t.Error("entity still active after deactivate")
	}

	postJSON(t, srv.URL+"/api/v1/entities/ex-1/reactivate", struct{}{}, http.StatusOK, &resp)
	if !resp.IsActive {
		t.Error("entity inactive after reactivate")
	}

	postJSON(t, srv.URL+"/api/v1/foods/f-1/approve", ApproveFoodRequest{}, http.StatusOK, &resp)
	if resp.Food == nil || !resp.Food.IsPublic {
		t.Error("food not public after approve")
	}

	// Approving an exercise is a validation error.
	postJSON(t, srv.URL+"/api/v1/foods/ex-1/approve", ApproveFoodRequest{}, http.StatusBadRequest, nil)
}

func TestListEntities(t *testing.T) {
	mem := newMemCatalog()
	seedExercise(t, mem, "ex-1", "Lat Pulldown", "lat pulldown")
	seedExercise(t, mem, "ex-2", "Bench Press", "bench press")
	srv := newTestServer(t, mem)

	var resp EntityListResponse
	getJSON(t, srv.URL+"/api/v1/exercises", http.StatusOK, &resp)
	if resp.Total != 2 {
		t.Fatalf("total = %d, want 2", resp.Total)
	}
	if resp.Items[0].DisplayName != "Bench Press" {
		t.Errorf("listing not sorted: %q first", resp.Items[0].DisplayName)
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, newMemCatalog())

	var resp struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	getJSON(t, srv.URL+"/health", http.StatusOK, &resp)
	if resp.Status != "ok" || resp.Checks["database"] != "ok" {
		t.Errorf("health = %+v", resp)
	}
}
