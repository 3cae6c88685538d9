package chi

import (
	"time"

	"github.com/lifeswitch-cloud/catalogd/internal/domain/catalog"
	"github.com/lifeswitch-cloud/catalogd/internal/domain/match"
	cataloguc "github.com/lifeswitch-cloud/catalogd/internal/usecase/catalog"
)

// ErrorCode is a machine-readable error class for API clients.
type ErrorCode string

const (
	CodeBadRequest       ErrorCode = "bad_request"
	CodeValidationFailed ErrorCode = "validation_failed"
	CodeNotFound         ErrorCode = "not_found"
	CodeStoreUnavailable ErrorCode = "store_unavailable"
	CodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// MatchItem is one ranked search hit.
type MatchItem struct {
	EntityID      string  `json:"entity_id"`
	DisplayName   string  `json:"display_name"`
	Kind          string  `json:"kind"`
	Score         float64 `json:"score"`
	MatchedText   string  `json:"matched_text"`
	MatchedSource string  `json:"matched_source"`
	BrandName     *string `json:"brand_name,omitempty"`
	ModelName     *string `json:"model_name,omitempty"`

	// Exercise hits only.
	Modality *string `json:"modality,omitempty"`

	// Food hits only.
	Brand    *string  `json:"brand,omitempty"`
	Barcode  *string  `json:"barcode,omitempty"`
	Basis    *string  `json:"basis,omitempty"`
	Kcal     *float64 `json:"kcal,omitempty"`
	ProteinG *float64 `json:"protein_g,omitempty"`
	CarbsG   *float64 `json:"carbs_g,omitempty"`
	FatG     *float64 `json:"fat_g,omitempty"`
}

// SearchResponse wraps ranked search hits.
type SearchResponse struct {
	Query string      `json:"query"`
	Items []MatchItem `json:"items"`
	Total int         `json:"total"`
}

// ExerciseFields mirror catalog.ExerciseInfo on the wire.
type ExerciseFields struct {
	Modality         string   `json:"modality,omitempty"`
	PrimaryMuscles   []string `json:"primary_muscles,omitempty"`
	SecondaryMuscles []string `json:"secondary_muscles,omitempty"`
	Joints           []string `json:"joints,omitempty"`
}

// FoodFields mirror catalog.FoodInfo on the wire.
type FoodFields struct {
	Brand    string  `json:"brand,omitempty"`
	Barcode  string  `json:"barcode,omitempty"`
	Source   string  `json:"source,omitempty"`
	Basis    string  `json:"basis,omitempty"`
	Kcal     float64 `json:"kcal"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
	FiberG   float64 `json:"fiber_g,omitempty"`
	SugarG   float64 `json:"sugar_g,omitempty"`
	SodiumMg float64 `json:"sodium_mg,omitempty"`
	IsPublic bool    `json:"is_public"`
}

// EntityResponse is the full entity representation.
type EntityResponse struct {
	ID          string          `json:"id"`
	Kind        string          `json:"kind"`
	DisplayName string          `json:"display_name"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Exercise    *ExerciseFields `json:"exercise,omitempty"`
	Food        *FoodFields     `json:"food,omitempty"`
}

// EntityListResponse wraps a kind listing.
type EntityListResponse struct {
	Items []EntityResponse `json:"items"`
	Total int              `json:"total"`
}

// AliasResponse is the full alias representation.
type AliasResponse struct {
	ID         string    `json:"id"`
	EntityID   string    `json:"entity_id"`
	Text       string    `json:"text"`
	Locale     string    `json:"locale"`
	BrandName  string    `json:"brand_name,omitempty"`
	ModelName  string    `json:"model_name,omitempty"`
	Source     string    `json:"source"`
	Confidence float64   `json:"confidence,omitempty"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

// AliasListResponse wraps an entity's aliases.
type AliasListResponse struct {
	Items []AliasResponse `json:"items"`
	Total int             `json:"total"`
}

// CreateExerciseRequest is the POST /exercises body.
type CreateExerciseRequest struct {
	Name             string   `json:"name"`
	Modality         string   `json:"modality"`
	PrimaryMuscles   []string `json:"primary_muscles"`
	SecondaryMuscles []string `json:"secondary_muscles"`
	Joints           []string `json:"joints"`
}

// CreateFoodRequest is the POST /foods body.
type CreateFoodRequest struct {
	Name     string  `json:"name"`
	Brand    string  `json:"brand"`
	Barcode  string  `json:"barcode"`
	Source   string  `json:"source"`
	Basis    string  `json:"basis"`
	Kcal     float64 `json:"kcal"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
	FiberG   float64 `json:"fiber_g"`
	SugarG   float64 `json:"sugar_g"`
	SodiumMg float64 `json:"sodium_mg"`
	IsPublic bool    `json:"is_public"`
}

// AddAliasRequest is the POST /entities/{id}/aliases body.
type AddAliasRequest struct {
	Text       string  `json:"text"`
	Locale     string  `json:"locale"`
	BrandName  string  `json:"brand_name"`
	ModelName  string  `json:"model_name"`
	Source     string  `json:"source"`
	Confidence float64 `json:"confidence"`
}

// ApproveFoodRequest is the POST /foods/{id}/approve body.
type ApproveFoodRequest struct {
	IsPublic *bool `json:"is_public"`
}

func matchToItem(m *match.Match) MatchItem {
	item := MatchItem{
		EntityID:      m.Entity.ID(),
		DisplayName:   m.Entity.DisplayName(),
		Kind:          string(m.Entity.Kind()),
		Score:         m.Candidate.Score(),
		MatchedText:   m.Candidate.MatchedText(),
		MatchedSource: string(m.Candidate.Source()),
	}
	if b := m.Candidate.BrandName(); b != "" {
		item.BrandName = &b
	}
	if mn := m.Candidate.ModelName(); mn != "" {
		item.ModelName = &mn
	}

	if info := m.Entity.Exercise(); info != nil && info.Modality != "" {
		mod := info.Modality
		item.Modality = &mod
	}
	if info := m.Entity.Food(); info != nil {
		if info.Brand != "" {
			b := info.Brand
			item.Brand = &b
		}
		if info.Barcode != "" {
			bc := info.Barcode
			item.Barcode = &bc
		}
		basis := info.Basis
		kcal, protein, carbs, fat := info.Kcal, info.ProteinG, info.CarbsG, info.FatG
		item.Basis = &basis
		item.Kcal = &kcal
		item.ProteinG = &protein
		item.CarbsG = &carbs
		item.FatG = &fat
	}
	return item
}

func entityToResponse(e *catalog.Entity) EntityResponse {
	resp := EntityResponse{
		ID:          e.ID(),
		Kind:        string(e.Kind()),
		DisplayName: e.DisplayName(),
		IsActive:    e.Active(),
		CreatedAt:   time.UnixMilli(e.CreatedAt()).UTC(),
		UpdatedAt:   time.UnixMilli(e.UpdatedAt()).UTC(),
	}
	if info := e.Exercise(); info != nil {
		resp.Exercise = &ExerciseFields{
			Modality:         info.Modality,
			PrimaryMuscles:   info.PrimaryMuscles,
			SecondaryMuscles: info.SecondaryMuscles,
			Joints:           info.Joints,
		}
	}
	if info := e.Food(); info != nil {
		resp.Food = &FoodFields{
			Brand:    info.Brand,
			Barcode:  info.Barcode,
			Source:   info.Source,
			Basis:    info.Basis,
			Kcal:     info.Kcal,
			ProteinG: info.ProteinG,
			CarbsG:   info.CarbsG,
			FatG:     info.FatG,
			FiberG:   info.FiberG,
			SugarG:   info.SugarG,
			SodiumMg: info.SodiumMg,
			IsPublic: info.Public,
		}
	}
	return resp
}

func aliasToResponse(a *catalog.Alias) AliasResponse {
	return AliasResponse{
		ID:         a.ID(),
		EntityID:   a.EntityID(),
		Text:       a.Text(),
		Locale:     a.Locale(),
		BrandName:  a.BrandName(),
		ModelName:  a.ModelName(),
		Source:     string(a.Source()),
		Confidence: a.Confidence(),
		IsActive:   a.Active(),
		CreatedAt:  time.UnixMilli(a.CreatedAt()).UTC(),
	}
}

func exerciseInfoFromRequest(req CreateExerciseRequest) catalog.ExerciseInfo {
	return catalog.ExerciseInfo{
		Modality:         req.Modality,
		PrimaryMuscles:   req.PrimaryMuscles,
		SecondaryMuscles: req.SecondaryMuscles,
		Joints:           req.Joints,
	}
}

func foodInfoFromRequest(req CreateFoodRequest) catalog.FoodInfo {
	return catalog.FoodInfo{
		Brand:    req.Brand,
		Barcode:  req.Barcode,
		Source:   req.Source,
		Basis:    req.Basis,
		Kcal:     req.Kcal,
		ProteinG: req.ProteinG,
		CarbsG:   req.CarbsG,
		FatG:     req.FatG,
		FiberG:   req.FiberG,
		SugarG:   req.SugarG,
		SodiumMg: req.SodiumMg,
		Public:   req.IsPublic,
	}
}

func aliasParamsFromRequest(req AddAliasRequest) cataloguc.AliasParams {
	return cataloguc.AliasParams{
		Text:       req.Text,
		Locale:     req.Locale,
		BrandName:  req.BrandName,
		ModelName:  req.ModelName,
		Source:     catalog.AliasSource(req.Source),
		Confidence: req.Confidence,
	}
}
