// Seed loader for catalogd. Reads a YAML seed file of canonical
// exercises, foods, and their aliases and loads it through the embedded
// client, so the trigram index is built exactly as the server builds it.
//
// Usage:
//
//	catalogseed -file seed.yaml -addr localhost:6379
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	catalogd "github.com/lifeswitch-cloud/catalogd"
)

func main() {
	cfg := parseFlags()

	ctx, cancel := signal.NotifyContext(
		context.Background(), syscall.SIGTERM, syscall.SIGINT,
	)
	defer cancel()

	if err := run(ctx, cfg); err != nil {
		cancel()
		log.Fatal(err)
	}
}

type config struct {
	file     string
	addr     string
	password string
	db       int
}

func parseFlags() config {
	cfg := config{}
	flag.StringVar(&cfg.file, "file", "seed.yaml", "seed file to load")
	flag.StringVar(&cfg.addr, "addr", "localhost:6379", "redis address")
	flag.StringVar(&cfg.password, "password", os.Getenv("REDIS_PASSWORD"), "redis password")
	flag.IntVar(&cfg.db, "db", 0, "redis logical database")
	flag.Parse()
	return cfg
}

type seedAlias struct {
	Text       string  `yaml:"text"`
	Locale     string  `yaml:"locale"`
	BrandName  string  `yaml:"brand_name"`
	ModelName  string  `yaml:"model_name"`
	Confidence float64 `yaml:"confidence"`
}

type seedExercise struct {
	Name             string      `yaml:"name"`
	Modality         string      `yaml:"modality"`
	PrimaryMuscles   []string    `yaml:"primary_muscles"`
	SecondaryMuscles []string    `yaml:"secondary_muscles"`
	Joints           []string    `yaml:"joints"`
	Aliases          []seedAlias `yaml:"aliases"`
}

type seedFood struct {
	Name     string      `yaml:"name"`
	Brand    string      `yaml:"brand"`
	Barcode  string      `yaml:"barcode"`
	Source   string      `yaml:"source"`
	Basis    string      `yaml:"basis"`
	Kcal     float64     `yaml:"kcal"`
	ProteinG float64     `yaml:"protein_g"`
	CarbsG   float64     `yaml:"carbs_g"`
	FatG     float64     `yaml:"fat_g"`
	FiberG   float64     `yaml:"fiber_g"`
	SugarG   float64     `yaml:"sugar_g"`
	SodiumMg float64     `yaml:"sodium_mg"`
	Public   bool        `yaml:"public"`
	Aliases  []seedAlias `yaml:"aliases"`
}

type seedFile struct {
	Exercises []seedExercise `yaml:"exercises"`
	Foods     []seedFood     `yaml:"foods"`
}

func run(ctx context.Context, cfg config) error {
	start := time.Now()

	data, err := os.ReadFile(cfg.file)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}

	client, err := catalogd.New(
		catalogd.WithRedis(cfg.addr, cfg.password),
		catalogd.WithDB(cfg.db),
	)
	if err != nil {
		return err
	}
	defer client.Close()

	entities, aliases := 0, 0

	for _, ex := range seed.Exercises {
		e, err := client.CreateExercise(ctx, catalogd.ExerciseParams{
			Name:             ex.Name,
			Modality:         ex.Modality,
			PrimaryMuscles:   ex.PrimaryMuscles,
			SecondaryMuscles: ex.SecondaryMuscles,
			Joints:           ex.Joints,
		})
		if err != nil {
			return fmt.Errorf("create exercise %q: %w", ex.Name, err)
		}
		entities++

		n, err := addAliases(ctx, client, e.ID, ex.Aliases)
		if err != nil {
			return fmt.Errorf("exercise %q: %w", ex.Name, err)
		}
		aliases += n
	}

	for _, fd := range seed.Foods {
		f, err := client.CreateFood(ctx, catalogd.FoodParams{
			Name:     fd.Name,
			Brand:    fd.Brand,
			Barcode:  fd.Barcode,
			Source:   fd.Source,
			Basis:    fd.Basis,
			Kcal:     fd.Kcal,
			ProteinG: fd.ProteinG,
			CarbsG:   fd.CarbsG,
			FatG:     fd.FatG,
			FiberG:   fd.FiberG,
			SugarG:   fd.SugarG,
			SodiumMg: fd.SodiumMg,
			Public:   fd.Public,
		})
		if err != nil {
			return fmt.Errorf("create food %q: %w", fd.Name, err)
		}
		entities++

		n, err := addAliases(ctx, client, f.ID, fd.Aliases)
		if err != nil {
			return fmt.Errorf("food %q: %w", fd.Name, err)
		}
		aliases += n
	}

	log.Printf("seeded %d entities and %d aliases in %s", entities, aliases, time.Since(start).Round(time.Millisecond))
	return nil
}

func addAliases(ctx context.Context, client *catalogd.Client, entityID string, seeds []seedAlias) (int, error) {
	added := 0
	for _, a := range seeds {
		_, created, err := client.AddAlias(ctx, entityID, catalogd.AliasParams{
			Text:       a.Text,
			Locale:     a.Locale,
			BrandName:  a.BrandName,
			ModelName:  a.ModelName,
			Source:     "seed",
			Confidence: a.Confidence,
		})
		if err != nil {
			return added, fmt.Errorf("add alias %q: %w", a.Text, err)
		}
		if created {
			added++
		}
	}
	return added, nil
}
