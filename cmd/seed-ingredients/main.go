// Command seed-ingredients loads ingredients from a JSON file into the
// shared catalog. Rows are upserted by id, so the command can be re-run
// after editing the file.
//
// The file holds an array of objects:
//
//	[{"id": "0b7f…", "name": "Oats", "serving_size": 100, "serving_unit": "g",
//	  "category": "grains", "calories": 389, "protein": 16.9,
//	  "carbs": 66.3, "fat": 6.9, "fiber": 10.6, "verified": true}]
//
// Flags:
//
//	--file      path to the JSON file (required)
//	--dry-run   validate the file without writing to DB
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/nutrition-engine/internal/app"
	"github.com/heartmarshall/nutrition-engine/internal/domain"
)

type ingredientRecord struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	ServingSize float64 `json:"serving_size"`
	ServingUnit string  `json:"serving_unit"`
	Category    string  `json:"category"`
	Calories    float64 `json:"calories"`
	Protein     float64 `json:"protein"`
	Carbs       float64 `json:"carbs"`
	Fat         float64 `json:"fat"`
	Fiber       float64 `json:"fiber"`
	Verified    bool    `json:"verified"`
}

func main() {
	fileFlag := flag.String("file", "", "path to the ingredients JSON file")
	dryRunFlag := flag.Bool("dry-run", false, "validate the file without writing to DB")
	flag.Parse()

	if *fileFlag == "" {
		fmt.Fprintln(os.Stderr, "Usage: seed-ingredients --file=ingredients.json [--dry-run]")
		os.Exit(1)
	}

	ingredients, err := readIngredients(*fileFlag)
	if err != nil {
		log.Fatalf("read ingredients: %v", err)
	}

	if *dryRunFlag {
		fmt.Printf("%d ingredients are valid.\n", len(ingredients))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	e, err := app.Bootstrap(ctx)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}
	defer e.Close()

	start := time.Now()
	affected, err := e.Ingredients.BulkUpsert(ctx, ingredients)
	if err != nil {
		e.Log.Error("seed ingredients failed",
			slog.String("file", *fileFlag),
			slog.Int("affected", affected),
			slog.String("error", err.Error()),
		)
		e.Close()
		os.Exit(1)
	}

	e.Log.Info("seed ingredients completed",
		slog.String("file", *fileFlag),
		slog.Int("read", len(ingredients)),
		slog.Int("affected", affected),
		slog.Duration("duration", time.Since(start)),
	)
}

// readIngredients decodes and validates the whole file before anything is
// written. Records without an id get a fresh one.
func readIngredients(path string) ([]domain.Ingredient, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var records []ingredientRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	result := make([]domain.Ingredient, 0, len(records))
	for i, rec := range records {
		ing := domain.Ingredient{
			Name:        rec.Name,
			ServingSize: rec.ServingSize,
			ServingUnit: rec.ServingUnit,
			Category:    rec.Category,
			Macros: domain.MacroVector{
				Calories: rec.Calories,
				Protein:  rec.Protein,
				Carbs:    rec.Carbs,
				Fat:      rec.Fat,
				Fiber:    rec.Fiber,
			},
			Verified: rec.Verified,
		}

		if rec.ID != "" {
			id, err := uuid.Parse(rec.ID)
			if err != nil {
				return nil, fmt.Errorf("record %d: invalid id %q: %w", i, rec.ID, err)
			}
			ing.ID = id
		} else {
			ing.ID = uuid.New()
		}

		if err := ing.Validate(); err != nil {
			return nil, fmt.Errorf("record %d (%s): %w", i, rec.Name, err)
		}
		result = append(result, ing)
	}
	return result, nil
}
