package main

import (
	"context"
	"log"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/daystar/grant-hub/internal/config"
	"github.com/daystar/grant-hub/internal/db"
)

// Prints recently stored grants. Filter by school with SCHOOL, cap rows
// with LIMIT.
func main() {
	settings := config.FromEnv()

	ctx := context.Background()
	pool, err := db.Connect(ctx, settings.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	limit := 20
	if raw := os.Getenv("LIMIT"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	store := db.NewStore(pool)
	grants, err := store.ListGrants(ctx, os.Getenv("SCHOOL"), limit)
	if err != nil {
		log.Fatal(err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Title", "Funder", "School", "Score", "Deadline", "Link"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Title", WidthMax: 50, WidthMaxEnforcer: text.WrapText},
		{Name: "Link", WidthMax: 40},
	})

	for _, g := range grants {
		t.AppendRow(table.Row{g.Title, g.Funder, g.School, g.RelevanceScore, g.Deadline, g.Link})
	}
	t.Render()
}
