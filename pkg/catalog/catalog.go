// Package catalog provides the fixed content for a training module: the five
// scenario steps, the static mini-lesson card, and the module topic. Content
// is validated once at construction; a malformed catalog refuses to
// initialize rather than failing at runtime.
package catalog

import (
	"fmt"

	"github.com/parley-labs/parley/pkg/domain"
)

// Catalog is an immutable content table implementing ports.Catalog.
type Catalog struct {
	topic  string
	steps  map[int]*domain.Step
	lesson domain.MiniLessonCard
}

// New builds a catalog from the given content and validates it.
func New(topic string, steps []*domain.Step, lesson domain.MiniLessonCard) (*Catalog, error) {
	byID := make(map[int]*domain.Step, len(steps))
	for _, s := range steps {
		if _, dup := byID[s.ID]; dup {
			return nil, fmt.Errorf("duplicate step %d", s.ID)
		}
		byID[s.ID] = s.Clone()
	}

	c := &Catalog{topic: topic, steps: byID, lesson: lesson}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) validate() error {
	if c.topic == "" {
		return fmt.Errorf("catalog missing topic")
	}
	if len(c.steps) != 5 {
		return fmt.Errorf("expected 5 steps, found %d", len(c.steps))
	}
	for id := 1; id <= 5; id++ {
		step, ok := c.steps[id]
		if !ok {
			return fmt.Errorf("missing step %d", id)
		}
		if err := step.Validate(); err != nil {
			return err
		}
	}
	if c.lesson.Principle == "" {
		return fmt.Errorf("mini-lesson missing principle")
	}
	if c.lesson.Formula == "" {
		return fmt.Errorf("mini-lesson missing formula")
	}
	return nil
}

// Step returns a copy of the step with the given id, or nil if absent.
func (c *Catalog) Step(id int) *domain.Step {
	step, ok := c.steps[id]
	if !ok {
		return nil
	}
	return step.Clone()
}

// Steps returns copies of all steps keyed by id.
func (c *Catalog) Steps() map[int]*domain.Step {
	out := make(map[int]*domain.Step, len(c.steps))
	for id, step := range c.steps {
		out[id] = step.Clone()
	}
	return out
}

// MiniLessonCard returns the static lesson card.
func (c *Catalog) MiniLessonCard() domain.MiniLessonCard {
	return c.lesson
}

// Topic returns the module topic.
func (c *Catalog) Topic() string {
	return c.topic
}
