package main

import (
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v3"
	"github.com/meikuraledutech/workflow"
)

type dropRequest struct {
	workflow.DropEvent
	OriginX float64 `json:"originX"`
	OriginY float64 `json:"originY"`
}

type moveRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type renameRequest struct {
	Name string `json:"name"`
}

type workflowView struct {
	Name  string          `json:"name"`
	Nodes []workflow.Node `json:"nodes"`
	Edges []workflow.Edge `json:"edges"`
}

func newApp(reg *workflow.MapRegistry, repo workflow.Repository, logger *log.Logger) *fiber.App {
	app, _ := newAppWithEditors(reg, repo, logger)
	return app
}

func newAppWithEditors(reg *workflow.MapRegistry, repo workflow.Repository, logger *log.Logger) (*fiber.App, *editors) {
	eds := newEditors(reg, logger)
	app := fiber.New()

	editor := func(c fiber.Ctx) *workflow.Editor { return eds.get(sessionFrom(c)) }

	// ── Registry ──────────────────────────────────────────────────────
	app.Get("/components", func(c fiber.Ctx) error {
		out := make([]*workflow.Descriptor, 0, reg.Len())
		for _, k := range reg.Keys() {
			d, _ := reg.Lookup(k)
			out = append(out, d)
		}
		return c.JSON(out)
	})

	// ── Session ───────────────────────────────────────────────────────
	app.Delete("/session", func(c fiber.Ctx) error {
		if !eds.end(sessionFrom(c)) {
			return c.Status(404).JSON(fiber.Map{"error": "session not found"})
		}
		return c.SendStatus(204)
	})

	// ── Workflow ──────────────────────────────────────────────────────
	app.Get("/workflow", func(c fiber.Ctx) error {
		ed := editor(c)
		s := ed.Snapshot()
		view := workflowView{Name: ed.Name(), Nodes: s.Nodes(), Edges: s.Edges()}
		if view.Nodes == nil {
			view.Nodes = []workflow.Node{}
		}
		if view.Edges == nil {
			view.Edges = []workflow.Edge{}
		}
		return c.JSON(view)
	})

	app.Put("/workflow/name", func(c fiber.Ctx) error {
		var req renameRequest
		if err := c.Bind().JSON(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		editor(c).Rename(req.Name)
		return c.SendStatus(204)
	})

	app.Delete("/workflow", func(c fiber.Ctx) error {
		ed := editor(c)
		confirmed := workflow.ConfirmFunc(func(string) bool { return c.Query("confirm") == "true" })
		if !ed.Clear(confirmed) && !ed.Snapshot().Empty() {
			return c.Status(409).JSON(fiber.Map{"error": "confirmation required", "prompt": workflow.ClearPrompt})
		}
		return c.SendStatus(204)
	})

	app.Post("/workflow/drop", func(c fiber.Ctx) error {
		var req dropRequest
		if err := c.Bind().JSON(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		n, err := editor(c).DropAt(req.DropEvent, workflow.Position{X: req.OriginX, Y: req.OriginY})
		if errors.Is(err, workflow.ErrUnknownComponent) {
			return c.Status(422).JSON(fiber.Map{"error": err.Error()})
		}
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(201).JSON(n)
	})

	app.Post("/workflow/connect", func(c fiber.Ctx) error {
		var req workflow.Connection
		if err := c.Bind().JSON(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		e, err := editor(c).Connect(req)
		if err != nil {
			return c.Status(422).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(201).JSON(e)
	})

	app.Patch("/workflow/nodes/:id", func(c fiber.Ctx) error {
		var req moveRequest
		if err := c.Bind().JSON(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		err := editor(c).Move(c.Params("id"), workflow.Position{X: req.X, Y: req.Y})
		if errors.Is(err, workflow.ErrNodeNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "node not found"})
		}
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.SendStatus(204)
	})

	app.Delete("/workflow/nodes/:id", func(c fiber.Ctx) error {
		if err := editor(c).DeleteNode(c.Params("id")); errors.Is(err, workflow.ErrNodeNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "node not found"})
		}
		return c.SendStatus(204)
	})

	app.Delete("/workflow/edges/:id", func(c fiber.Ctx) error {
		if err := editor(c).DeleteEdge(c.Params("id")); errors.Is(err, workflow.ErrEdgeNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "edge not found"})
		}
		return c.SendStatus(204)
	})

	app.Get("/workflow/check", func(c fiber.Ctx) error {
		opts := workflow.CheckOptions{}
		if c.Query("strict") == "true" {
			opts = workflow.Strict
		}
		violations := workflow.Check(editor(c).Snapshot(), opts)
		if violations == nil {
			violations = []workflow.Violation{}
		}
		return c.JSON(fiber.Map{"violations": violations})
	})

	// ── Export / import ───────────────────────────────────────────────
	app.Get("/workflow/export", func(c fiber.Ctx) error {
		doc := editor(c).Export()
		data, err := workflow.MarshalDocument(doc)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		c.Attachment(workflow.Filename(doc.Name, time.Now()))
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
		return c.Send(data)
	})

	app.Post("/workflow/import", func(c fiber.Ctx) error {
		res, err := editor(c).Import(c.Body())
		if errors.Is(err, workflow.ErrMalformedDocument) {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(res)
	})

	if repo != nil {
		mountArchive(app, repo, editor)
	}

	return app, eds
}

// mountArchive exposes the document archive. Saved documents are still
// resolved against the registry when loaded back into a session.
func mountArchive(app *fiber.App, repo workflow.Repository, editor func(fiber.Ctx) *workflow.Editor) {
	app.Post("/archive", func(c fiber.Ctx) error {
		id, err := repo.SaveDocument(c.Context(), c.Query("id"), editor(c).Export())
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(201).JSON(fiber.Map{"id": id})
	})

	app.Get("/archive", func(c fiber.Ctx) error {
		infos, err := repo.ListDocuments(c.Context())
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(infos)
	})

	app.Get("/archive/:id", func(c fiber.Ctx) error {
		doc, err := repo.GetDocument(c.Context(), c.Params("id"))
		if errors.Is(err, workflow.ErrDocumentNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "document not found"})
		}
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(doc)
	})

	app.Post("/archive/:id/load", func(c fiber.Ctx) error {
		doc, err := repo.GetDocument(c.Context(), c.Params("id"))
		if errors.Is(err, workflow.ErrDocumentNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "document not found"})
		}
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(editor(c).Load(doc))
	})

	app.Delete("/archive/:id", func(c fiber.Ctx) error {
		if err := repo.DeleteDocument(c.Context(), c.Params("id")); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.SendStatus(204)
	})
}
