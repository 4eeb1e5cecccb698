package parley

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/parley-labs/parley/internal/logging"
	"github.com/parley-labs/parley/pkg/catalog"
	"github.com/parley-labs/parley/pkg/engine"
	"github.com/parley-labs/parley/pkg/evaluate"
	"github.com/parley-labs/parley/pkg/ports"
	"github.com/parley-labs/parley/pkg/session"
)

// Trainer bundles a fully wired training engine with the collaborators the
// outer layers (HTTP, CLI) also need direct access to. All dependencies are
// constructed explicitly here; there is no ambient global state.
type Trainer struct {
	Engine   *engine.Engine
	Catalog  ports.Catalog
	Sessions *session.Store
}

// Option configures the Trainer.
type Option func(*settings)

type settings struct {
	catalog        ports.Catalog
	catalogFile    string
	model          ports.DialogueModel
	logger         *slog.Logger
	sessionTimeout time.Duration
}

// WithDialogueModel injects the remote dialogue model client. Required.
func WithDialogueModel(model ports.DialogueModel) Option {
	return func(s *settings) {
		s.model = model
	}
}

// WithCatalog replaces the built-in Module 1 content.
func WithCatalog(c ports.Catalog) Option {
	return func(s *settings) {
		s.catalog = c
	}
}

// WithCatalogFile loads module content from a YAML content pack instead of
// the built-in catalog.
func WithCatalogFile(path string) Option {
	return func(s *settings) {
		s.catalogFile = path
	}
}

// WithLogger configures logging for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithSessionTimeout overrides the default one-hour inactivity expiry.
func WithSessionTimeout(d time.Duration) Option {
	return func(s *settings) {
		s.sessionTimeout = d
	}
}

// New wires catalog, session store, evaluator, and engine together.
func New(opts ...Option) (*Trainer, error) {
	s := &settings{
		logger:         logging.NewNop(),
		sessionTimeout: session.DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.model == nil {
		return nil, fmt.Errorf("a dialogue model is required; use WithDialogueModel")
	}

	cat := s.catalog
	if cat == nil {
		if s.catalogFile != "" {
			loaded, err := catalog.LoadFile(s.catalogFile)
			if err != nil {
				return nil, fmt.Errorf("failed to load catalog: %w", err)
			}
			cat = loaded
		} else {
			cat = catalog.Module1()
		}
	}

	store := session.NewStore(session.WithTimeout(s.sessionTimeout))
	evaluator := evaluate.New(cat, s.model)
	eng := engine.New(store, cat, evaluator, s.model, engine.WithLogger(s.logger))

	return &Trainer{
		Engine:   eng,
		Catalog:  cat,
		Sessions: store,
	}, nil
}
