package cli

import (
	"context"

	"github.com/matzehuels/archscope/pkg/arch"
	"github.com/matzehuels/archscope/pkg/archfile"
)

// loadArchitecture reads an architecture file into a fresh store and logs
// how long it took.
func (c *CLI) loadArchitecture(ctx context.Context, path string) (*arch.Store, error) {
	logger := loggerFromContext(ctx)
	logger.Debugf("Loading %s", path)

	prog := newProgress(logger)
	store, err := archfile.Load(path)
	if err != nil {
		return nil, err
	}

	components, relationships := store.Len()
	prog.done(pluralize(components, "component") + ", " + pluralize(relationships, "relationship") + " loaded")
	return store, nil
}
