package parley_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parley-labs/parley"
)

func TestNew_RequiresDialogueModel(t *testing.T) {
	_, err := parley.New()
	assert.ErrorContains(t, err, "dialogue model is required")
}

func TestNew_DefaultCatalog(t *testing.T) {
	trainer, err := parley.New(parley.WithDialogueModel(scriptedModel{}))
	require.NoError(t, err)

	assert.Equal(t, "Autonomy vs Accountability", trainer.Catalog.Topic())
	assert.Len(t, trainer.Catalog.Steps(), 5)
}

func TestNew_CatalogFileErrors(t *testing.T) {
	_, err := parley.New(
		parley.WithDialogueModel(scriptedModel{}),
		parley.WithCatalogFile("does-not-exist.yaml"),
	)
	assert.ErrorContains(t, err, "failed to load catalog")
}

func TestTrainer_EngineIsWired(t *testing.T) {
	trainer, err := parley.New(parley.WithDialogueModel(scriptedModel{}))
	require.NoError(t, err)

	sess, err := trainer.Engine.Start(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, sess.CurrentStep)

	// The trainer's store is the engine's store.
	_, err = trainer.Sessions.Get("u1")
	assert.NoError(t, err)
}
