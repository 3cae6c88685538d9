package entity

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/lifeswitch-cloud/catalogd/internal/domain/catalog"
)

// entityToHash converts a domain Entity to a map for HSET.
func entityToHash(e catalog.Entity) (map[string]string, error) {
	m := map[string]string{
		"id":           e.ID(),
		"kind":         string(e.Kind()),
		"display_name": e.DisplayName(),
		"norm_name":    e.NormName(),
		"is_active":    strconv.FormatBool(e.Active()),
		"created_at":   strconv.FormatInt(e.CreatedAt(), 10),
		"updated_at":   strconv.FormatInt(e.UpdatedAt(), 10),
	}

	if ex := e.Exercise(); ex != nil {
		m["modality"] = ex.Modality
		for field, vals := range map[string][]string{
			"primary_muscles":   ex.PrimaryMuscles,
			"secondary_muscles": ex.SecondaryMuscles,
			"joints":            ex.Joints,
		} {
			if len(vals) == 0 {
				continue
			}
			data, err := json.Marshal(vals)
			if err != nil {
				return nil, fmt.Errorf("marshal %s: %w", field, err)
			}
			m[field] = string(data)
		}
	}

	if f := e.Food(); f != nil {
		m["brand"] = f.Brand
		m["barcode"] = f.Barcode
		m["source"] = f.Source
		m["basis"] = f.Basis
		m["kcal"] = formatFloat(f.Kcal)
		m["protein_g"] = formatFloat(f.ProteinG)
		m["carbs_g"] = formatFloat(f.CarbsG)
		m["fat_g"] = formatFloat(f.FatG)
		m["fiber_g"] = formatFloat(f.FiberG)
		m["sugar_g"] = formatFloat(f.SugarG)
		m["sodium_mg"] = formatFloat(f.SodiumMg)
		m["is_public"] = strconv.FormatBool(f.Public)
	}

	return m, nil
}

// entityFromHash hydrates a domain Entity from an HGETALL result map.
func entityFromHash(m map[string]string) (catalog.Entity, error) {
	id := m["id"]
	if id == "" {
		return catalog.Entity{}, fmt.Errorf("missing id")
	}
	kind := catalog.Kind(m["kind"])
	if !kind.IsValid() {
		return catalog.Entity{}, fmt.Errorf("unknown kind %q", m["kind"])
	}

	createdAt, err := strconv.ParseInt(m["created_at"], 10, 64)
	if err != nil {
		return catalog.Entity{}, fmt.Errorf("invalid created_at: %w", err)
	}
	updatedAt, _ := strconv.ParseInt(m["updated_at"], 10, 64)
	active := m["is_active"] == "true"

	var exercise *catalog.ExerciseInfo
	var food *catalog.FoodInfo

	switch kind {
	case catalog.KindExercise:
		ex := catalog.ExerciseInfo{Modality: m["modality"]}
		if ex.PrimaryMuscles, err = unmarshalStrings(m["primary_muscles"]); err != nil {
			return catalog.Entity{}, fmt.Errorf("primary_muscles: %w", err)
		}
		if ex.SecondaryMuscles, err = unmarshalStrings(m["secondary_muscles"]); err != nil {
			return catalog.Entity{}, fmt.Errorf("secondary_muscles: %w", err)
		}
		if ex.Joints, err = unmarshalStrings(m["joints"]); err != nil {
			return catalog.Entity{}, fmt.Errorf("joints: %w", err)
		}
		exercise = &ex
	case catalog.KindFood:
		food = &catalog.FoodInfo{
			Brand:    m["brand"],
			Barcode:  m["barcode"],
			Source:   m["source"],
			Basis:    m["basis"],
			Kcal:     parseFloat(m["kcal"]),
			ProteinG: parseFloat(m["protein_g"]),
			CarbsG:   parseFloat(m["carbs_g"]),
			FatG:     parseFloat(m["fat_g"]),
			FiberG:   parseFloat(m["fiber_g"]),
			SugarG:   parseFloat(m["sugar_g"]),
			SodiumMg: parseFloat(m["sodium_mg"]),
			Public:   m["is_public"] == "true",
		}
	}

	return catalog.Reconstruct(
		id, kind, m["display_name"], m["norm_name"],
		active, createdAt, updatedAt, exercise, food,
	), nil
}

func unmarshalStrings(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
