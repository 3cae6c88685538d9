// Package catalogd embeds the catalog resolver in-process, for tools and
// services that want to search and curate the catalog without running the
// HTTP server.
package catalogd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lifeswitch-cloud/catalogd/internal/db"
	dbRedis "github.com/lifeswitch-cloud/catalogd/internal/db/redis"
	domcatalog "github.com/lifeswitch-cloud/catalogd/internal/domain/catalog"
	"github.com/lifeswitch-cloud/catalogd/internal/domain/match"
	aliasrepo "github.com/lifeswitch-cloud/catalogd/internal/repository/alias"
	entityrepo "github.com/lifeswitch-cloud/catalogd/internal/repository/entity"
	systemrepo "github.com/lifeswitch-cloud/catalogd/internal/repository/system"
	cataloguc "github.com/lifeswitch-cloud/catalogd/internal/usecase/catalog"
	resolveuc "github.com/lifeswitch-cloud/catalogd/internal/usecase/resolve"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the catalogd embedded entry point.
type Client struct {
	store      db.Store
	resolveSvc *resolveuc.Service
	catalogSvc *cataloguc.Service
}

// New creates a catalogd Client and connects to the database.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		readinessTimeout: defaultReadinessTimeout,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("catalogd: database address required (use WithRedis or WithAddrs)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
		DB:       cfg.db,
	})
	if err != nil {
		return nil, fmt.Errorf("catalogd: create redis store: %w", err)
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, cfg.readinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("catalogd: database not ready: %w", err)
	}
	if err := systemrepo.New(store).EnsureNormVersion(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("catalogd: %w", err)
	}

	return wireClient(store), nil
}

func wireClient(store db.Store) *Client {
	entities := entityrepo.New(store)
	aliases := aliasrepo.New(store)

	return &Client{
		store:      store,
		resolveSvc: resolveuc.New(entities, aliases),
		catalogSvc: cataloguc.New(entities, aliases),
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// SearchExercises resolves free-form text against the exercise catalog.
func (c *Client) SearchExercises(ctx context.Context, query string, opts SearchOptions) ([]Match, error) {
	return c.search(ctx, domcatalog.KindExercise, query, opts)
}

// SearchFoods resolves free-form text against the food catalog.
func (c *Client) SearchFoods(ctx context.Context, query string, opts SearchOptions) ([]Match, error) {
	return c.search(ctx, domcatalog.KindFood, query, opts)
}

func (c *Client) search(ctx context.Context, kind domcatalog.Kind, query string, opts SearchOptions) ([]Match, error) {
	limit := opts.Limit
	if limit == 0 {
		limit = match.DefaultLimit
	}
	req, err := match.NewRequest(query, opts.Locale, limit, opts.MinScore)
	if err != nil {
		return nil, err
	}
	matches, err := c.resolveSvc.Resolve(ctx, kind, &req)
	if err != nil {
		return nil, err
	}
	out := make([]Match, len(matches))
	for i := range matches {
		out[i] = matchFromDomain(&matches[i])
	}
	return out, nil
}

// FoodByBarcode resolves a food by its exact barcode.
func (c *Client) FoodByBarcode(ctx context.Context, barcode string) (Entity, error) {
	e, err := c.catalogSvc.FindByBarcode(ctx, barcode)
	if err != nil {
		return Entity{}, err
	}
	return entityFromDomain(&e), nil
}

// GetEntity retrieves an entity by id.
func (c *Client) GetEntity(ctx context.Context, id string) (Entity, error) {
	e, err := c.catalogSvc.Get(ctx, id)
	if err != nil {
		return Entity{}, err
	}
	return entityFromDomain(&e), nil
}

// ListEntities returns all entities of a kind, sorted by display name.
func (c *Client) ListEntities(ctx context.Context, kind Kind) ([]Entity, error) {
	entities, err := c.catalogSvc.List(ctx, domcatalog.Kind(kind))
	if err != nil {
		return nil, err
	}
	out := make([]Entity, len(entities))
	for i := range entities {
		out[i] = entityFromDomain(&entities[i])
	}
	return out, nil
}

// CreateExercise adds a canonical exercise.
func (c *Client) CreateExercise(ctx context.Context, p ExerciseParams) (Entity, error) {
	e, err := c.catalogSvc.CreateExercise(ctx, p.Name, domcatalog.ExerciseInfo{
		Modality:         p.Modality,
		PrimaryMuscles:   p.PrimaryMuscles,
		SecondaryMuscles: p.SecondaryMuscles,
		Joints:           p.Joints,
	})
	if err != nil {
		return Entity{}, err
	}
	return entityFromDomain(&e), nil
}

// CreateFood adds a canonical food.
func (c *Client) CreateFood(ctx context.Context, p FoodParams) (Entity, error) {
	f, err := c.catalogSvc.CreateFood(ctx, p.Name, domcatalog.FoodInfo{
		Brand:    p.Brand,
		Barcode:  p.Barcode,
		Source:   p.Source,
		Basis:    p.Basis,
		Kcal:     p.Kcal,
		ProteinG: p.ProteinG,
		CarbsG:   p.CarbsG,
		FatG:     p.FatG,
		FiberG:   p.FiberG,
		SugarG:   p.SugarG,
		SodiumMg: p.SodiumMg,
		Public:   p.Public,
	})
	if err != nil {
		return Entity{}, err
	}
	return entityFromDomain(&f), nil
}

// AddAlias tags an entity with an alternate name. The bool reports
// whether a new alias was created rather than an existing one re-tagged.
func (c *Client) AddAlias(ctx context.Context, entityID string, p AliasParams) (Alias, bool, error) {
	a, created, err := c.catalogSvc.AddAlias(ctx, entityID, cataloguc.AliasParams{
		Text:       p.Text,
		Locale:     p.Locale,
		BrandName:  p.BrandName,
		ModelName:  p.ModelName,
		Source:     domcatalog.AliasSource(p.Source),
		Confidence: p.Confidence,
	})
	if err != nil {
		return Alias{}, false, err
	}
	return aliasFromDomain(&a), created, nil
}

// Aliases lists all aliases attached to an entity.
func (c *Client) Aliases(ctx context.Context, entityID string) ([]Alias, error) {
	aliases, err := c.catalogSvc.Aliases(ctx, entityID)
	if err != nil {
		return nil, err
	}
	out := make([]Alias, len(aliases))
	for i := range aliases {
		out[i] = aliasFromDomain(&aliases[i])
	}
	return out, nil
}

// DeactivateEntity withdraws an entity from resolution.
func (c *Client) DeactivateEntity(ctx context.Context, id string) (Entity, error) {
	e, err := c.catalogSvc.Deactivate(ctx, id)
	if err != nil {
		return Entity{}, err
	}
	return entityFromDomain(&e), nil
}

// ReactivateEntity restores a withdrawn entity.
func (c *Client) ReactivateEntity(ctx context.Context, id string) (Entity, error) {
	e, err := c.catalogSvc.Reactivate(ctx, id)
	if err != nil {
		return Entity{}, err
	}
	return entityFromDomain(&e), nil
}

// ApproveFood flips a food's public visibility flag.
func (c *Client) ApproveFood(ctx context.Context, id string, public bool) (Entity, error) {
	e, err := c.catalogSvc.Approve(ctx, id, public)
	if err != nil {
		return Entity{}, err
	}
	return entityFromDomain(&e), nil
}
