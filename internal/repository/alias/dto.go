package alias

import (
	"fmt"
	"strconv"

	"github.com/lifeswitch-cloud/catalogd/internal/domain/catalog"
)

// aliasToHash converts a domain Alias to a map for HSET.
func aliasToHash(a catalog.Alias) map[string]string {
	return map[string]string{
		"id":         a.ID(),
		"entity_id":  a.EntityID(),
		"text":       a.Text(),
		"norm_text":  a.NormText(),
		"locale":     a.Locale(),
		"brand_name": a.BrandName(),
		"model_name": a.ModelName(),
		"source":     string(a.Source()),
		"confidence": strconv.FormatFloat(a.Confidence(), 'f', -1, 64),
		"is_active":  strconv.FormatBool(a.Active()),
		"created_at": strconv.FormatInt(a.CreatedAt(), 10),
	}
}

// aliasFromHash hydrates a domain Alias from an HGETALL result map.
func aliasFromHash(m map[string]string) (catalog.Alias, error) {
	if m["id"] == "" {
		return catalog.Alias{}, fmt.Errorf("missing id")
	}
	createdAt, err := strconv.ParseInt(m["created_at"], 10, 64)
	if err != nil {
		return catalog.Alias{}, fmt.Errorf("invalid created_at: %w", err)
	}
	confidence, _ := strconv.ParseFloat(m["confidence"], 64)

	return catalog.ReconstructAlias(
		m["id"], m["entity_id"], m["text"], m["norm_text"], m["locale"],
		m["brand_name"], m["model_name"],
		catalog.AliasSource(m["source"]), confidence,
		m["is_active"] == "true", createdAt,
	), nil
}
