package main

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v3"
	"github.com/meikuraledutech/workflow"
)

// SessionHeader names the editing session a request belongs to.
const SessionHeader = "X-Workflow-Session"

const defaultSession = "default"

// Session identifies one editing session. It is resolved per request and
// handed to whatever needs it; there is no process-wide current session.
type Session struct {
	ID string
}

func sessionFrom(c fiber.Ctx) Session {
	return Session{ID: c.Get(SessionHeader, defaultSession)}
}

// editors keeps one Editor per session until the session is ended with
// DELETE /session.
type editors struct {
	reg    workflow.Registry
	logger *log.Logger

	mu   sync.Mutex
	byID map[string]*workflow.Editor
}

func newEditors(reg workflow.Registry, logger *log.Logger) *editors {
	return &editors{reg: reg, logger: logger, byID: make(map[string]*workflow.Editor)}
}

func (s *editors) get(sess Session) *workflow.Editor {
	s.mu.Lock()
	defer s.mu.Unlock()
	ed, ok := s.byID[sess.ID]
	if !ok {
		ed = workflow.NewEditor(s.reg, workflow.WithLogger(s.logger.With("session", sess.ID)))
		s.byID[sess.ID] = ed
	}
	return ed
}

// end forgets the editor of sess. It reports whether one existed.
func (s *editors) end(sess Session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.byID[sess.ID]
	delete(s.byID, sess.ID)
	return ok
}

func (s *editors) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}
