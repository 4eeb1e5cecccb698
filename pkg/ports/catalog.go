package ports

import "github.com/parley-labs/parley/pkg/domain"

// Catalog is the static, validated-at-construction content table for one
// training module. Immutable after construction.
type Catalog interface {
	// Step returns the step with the given id, or nil if absent.
	Step(id int) *domain.Step

	// Steps returns all steps keyed by id.
	Steps() map[int]*domain.Step

	// MiniLessonCard returns the static lesson shown on the overview page.
	MiniLessonCard() domain.MiniLessonCard

	// Topic returns the module topic used to steer generated content.
	Topic() string
}
