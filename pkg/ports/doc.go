// Package ports defines the interfaces between the training engine core and
// its collaborators: session storage, the content catalog, answer evaluation,
// and the remote dialogue model. Adapters and fakes implement these.
package ports
