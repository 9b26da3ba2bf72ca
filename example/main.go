package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/meikuraledutech/workflow"
	"github.com/meikuraledutech/workflow/internal/config"
	"github.com/meikuraledutech/workflow/postgres"
)

func main() {
	ctx := context.Background()
	logger := log.NewWithOptions(os.Stderr, log.Options{Level: log.DebugLevel})

	cfg := config.Default()
	reg := cfg.Registry()

	// The canvas starts 240px from the left and 64px from the top.
	ed := workflow.NewEditor(reg,
		workflow.WithLogger(logger),
		workflow.WithDropOrigin(workflow.FixedOrigin{X: 240, Y: 64}),
	)
	ed.Rename("Nightly Report")

	// ── Drag components onto the canvas ───────────────────────────────
	timer, err := ed.Drop(workflow.DropEvent{ComponentKey: "Timer", ClientX: 360, ClientY: 144})
	if err != nil {
		logger.Fatal("drop", "err", err)
	}
	fetch, err := ed.Drop(workflow.DropEvent{ComponentKey: "HttpRequest", ClientX: 360, ClientY: 304})
	if err != nil {
		logger.Fatal("drop", "err", err)
	}
	mail, err := ed.Drop(workflow.DropEvent{ComponentKey: "Email", ClientX: 360, ClientY: 464})
	if err != nil {
		logger.Fatal("drop", "err", err)
	}

	// Unknown keys are rejected and leave the canvas alone.
	if _, err := ed.Drop(workflow.DropEvent{ComponentKey: "Teleporter"}); err != nil {
		fmt.Println("rejected:", err)
	}

	// ── Wire them top to bottom ───────────────────────────────────────
	for _, pair := range [][2]string{{timer.ID, fetch.ID}, {fetch.ID, mail.ID}} {
		if _, err := ed.Connect(workflow.Connection{
			Source: pair[0], SourceHandle: workflow.HandleBottom,
			Target: pair[1], TargetHandle: workflow.HandleTop,
		}); err != nil {
			logger.Fatal("connect", "err", err)
		}
	}

	// ── Export to a file ──────────────────────────────────────────────
	doc := ed.Export()
	path, err := workflow.WriteDocumentFile(doc, os.TempDir(), time.Now())
	if err != nil {
		logger.Fatal("export", "err", err)
	}
	fmt.Println("exported to", path)
	printJSON(doc)

	// ── Re-import where Email is no longer available ──────────────────
	var partial []workflow.Descriptor
	for _, d := range cfg.Components {
		if d.Key != "Email" {
			partial = append(partial, d)
		}
	}
	f, err := os.Open(path)
	if err != nil {
		logger.Fatal("open", "err", err)
	}
	defer f.Close()

	restored := workflow.NewEditor(workflow.NewMapRegistry(partial...), workflow.WithLogger(logger))
	res, err := restored.ImportFrom(f)
	if err != nil {
		logger.Fatal("import", "err", err)
	}
	fmt.Printf("\nimported %q: %d nodes, %d edges, unresolved %v\n", res.Name, res.Nodes, res.Edges, res.Unresolved)
	printJSON(restored.Snapshot().Nodes())

	// ── Archive, when a database is available ─────────────────────────
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return
	}
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		logger.Fatal("connect", "err", err)
	}
	defer pool.Close()

	var repo workflow.Repository = postgres.New(pool)
	if err := repo.CreateSchema(ctx); err != nil {
		logger.Fatal("schema", "err", err)
	}
	id, err := repo.SaveDocument(ctx, "", doc)
	if err != nil {
		logger.Fatal("save", "err", err)
	}
	infos, err := repo.ListDocuments(ctx)
	if err != nil {
		logger.Fatal("list", "err", err)
	}
	fmt.Printf("\narchived as %s\n", id)
	printJSON(infos)

	if err := repo.DeleteDocument(ctx, id); err != nil {
		logger.Fatal("delete", "err", err)
	}
}

func printJSON(v any) {
	out, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(out))
}
