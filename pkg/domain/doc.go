// Package domain holds the core data model of the training module: sessions,
// steps, evaluation results, and the shapes of content generated by the
// remote dialogue model. It has no dependencies on the rest of the project.
package domain
