// Command suggest prints the recipe suggestions for an owner and day.
// The first call for a day generates and stores the batch; later calls
// return the stored batch unless --regenerate is given.
//
// Usage:
//
//	suggest --owner=<uuid> [--date=2026-01-31] [--regenerate]
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/nutrition-engine/internal/app"
	"github.com/heartmarshall/nutrition-engine/internal/domain"
	"github.com/heartmarshall/nutrition-engine/internal/service/suggestion"
)

func main() {
	ownerFlag := flag.String("owner", "", "owner id")
	dateFlag := flag.String("date", "", "calendar date, YYYY-MM-DD (default: today)")
	regenerate := flag.Bool("regenerate", false, "discard the stored batch and generate a new one")
	flag.Parse()

	ownerID, err := uuid.Parse(*ownerFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Usage: suggest --owner=<uuid> [--date=YYYY-MM-DD] [--regenerate]")
		os.Exit(1)
	}

	date := time.Now()
	if *dateFlag != "" {
		if date, err = domain.ParseDay(*dateFlag); err != nil {
			log.Fatalf("invalid --date: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	e, err := app.Bootstrap(ctx)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}
	defer e.Close()

	input := suggestion.SuggestInput{OwnerID: ownerID, Date: date}

	var result *suggestion.Result
	if *regenerate {
		result, err = e.Suggestions.Regenerate(ctx, input)
	} else {
		result, err = e.Suggestions.Suggest(ctx, input)
	}
	if err != nil {
		e.Log.Error("suggest failed",
			slog.String("owner_id", ownerID.String()),
			slog.String("error", err.Error()),
		)
		e.Close()
		os.Exit(1)
	}

	printResult(result, domain.Day(date))
}

func printResult(r *suggestion.Result, day time.Time) {
	if r.Unavailable {
		fmt.Printf("No active goal, no suggestions for %s.\n", day.Format(domain.DateLayout))
		return
	}

	fmt.Printf("Suggestions for %s (%s)\n", day.Format(domain.DateLayout), r.Origin)
	if r.Budget != nil {
		fmt.Printf("Remaining: %s\n", formatMacros(r.Budget.Remaining))
	}

	if len(r.Recipes) == 0 {
		fmt.Println("Nothing to suggest.")
	}
	for i, rec := range r.Recipes {
		fmt.Printf("%d. %s [%s]\n", i+1, rec.Name, rec.ID)
		if per, err := rec.PerServing(); err == nil {
			fmt.Printf("   per serving: %s\n", formatMacros(per))
		}
	}

	for _, d := range r.Diagnostics {
		if d.RefID != uuid.Nil {
			fmt.Printf("! %s %s: %s\n", d.Kind, d.RefID, d.Message)
			continue
		}
		fmt.Printf("! %s: %s\n", d.Kind, d.Message)
	}
}

func formatMacros(m domain.MacroVector) string {
	return fmt.Sprintf("%.0f kcal, protein %.1fg, carbs %.1fg, fat %.1fg, fiber %.1fg",
		m.Calories, m.Protein, m.Carbs, m.Fat, m.Fiber)
}
