// Command shopping-list prints the aggregated shopping list for an owner's
// meal plan over an inclusive date range, grouped by category.
//
// Usage:
//
//	shopping-list --owner=<uuid> --from=2026-01-26 --to=2026-02-01
//	shopping-list --owner=<uuid> --week=2026-01-28
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
	"github.com/heartmarshall/nutrition-engine/internal/service/shopping"
)

const usage = "Usage: shopping-list --owner=<uuid> (--from=YYYY-MM-DD --to=YYYY-MM-DD | --week=YYYY-MM-DD)"

func main() {
	ownerFlag := flag.String("owner", "", "owner id")
	fromFlag := flag.String("from", "", "first planned date, YYYY-MM-DD")
	toFlag := flag.String("to", "", "last planned date, YYYY-MM-DD")
	weekFlag := flag.String("week", "", "any date of the Monday..Sunday week to list")
	flag.Parse()

	ownerID, err := uuid.Parse(*ownerFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	r, err := parseRange(*fromFlag, *toFlag, *weekFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	e, err := app.Bootstrap(ctx)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}
	defer e.Close()

	list, err := e.Shopping.BuildList(ctx, shopping.BuildListInput{OwnerID: ownerID, Range: r})
	if err != nil {
		e.Log.Error("build shopping list failed",
			slog.String("owner_id", ownerID.String()),
			slog.String("error", err.Error()),
		)
		e.Close()
		os.Exit(1)
	}

	printList(list)
}

func parseRange(from, to, week string) (domain.DateRange, error) {
	if week != "" {
		d, err := domain.ParseDay(week)
		if err != nil {
			return domain.DateRange{}, err
		}
		return domain.WeekOf(d), nil
	}

	if from == "" || to == "" {
		return domain.DateRange{}, fmt.Errorf("--from and --to are required without --week")
	}
	fromDay, err := domain.ParseDay(from)
	if err != nil {
		return domain.DateRange{}, err
	}
	toDay, err := domain.ParseDay(to)
	if err != nil {
		return domain.DateRange{}, err
	}
	return domain.NewDateRange(fromDay, toDay)
}

func printList(list *shopping.List) {
	fmt.Printf("Shopping list %s .. %s\n",
		list.Range.From.Format(domain.DateLayout), list.Range.To.Format(domain.DateLayout))

	if len(list.Items) == 0 {
		fmt.Println("Nothing planned.")
	}

	// Items arrive sorted by category, so a header is printed on each change.
	category := ""
	for _, item := range list.Items {
		if item.Category != category {
			category = item.Category
			fmt.Printf("\n[%s]\n", category)
		}
		fmt.Printf("  %-32s %10.1f %s\n", item.IngredientName, item.Amount, item.Unit)
	}

	for _, d := range list.Diagnostics {
		fmt.Printf("! %s %s: %s\n", d.Kind, d.RefID, d.Message)
	}
}
