package templates

import (
	"context"
	stderrors "errors"
)

// ChainSource asks each source in order. A miss moves on to the next source;
// any other error stops the lookup.
type ChainSource struct {
	sources []Source
}

func NewChainSource(sources ...Source) *ChainSource {
	return &ChainSource{sources: sources}
}

func (c *ChainSource) Get(ctx context.Context, id string) (*Template, error) {
	for _, src := range c.sources {
		t, err := src.Get(ctx, id)
		if err == nil {
			return t, nil
		}
		if !stderrors.Is(err, ErrTemplateNotFound) {
			return nil, err
		}
	}
	return nil, ErrTemplateNotFound
}

// List merges the listings of every source that can list. Earlier sources win
// for duplicate ids.
func (c *ChainSource) List(ctx context.Context) ([]Template, error) {
	seen := make(map[string]bool)
	var out []Template
	for _, src := range c.sources {
		lister, ok := src.(Lister)
		if !ok {
			continue
		}
		list, err := lister.List(ctx)
		if err != nil {
			return nil, err
		}
		for _, t := range list {
			if !seen[t.ID] {
				seen[t.ID] = true
				out = append(out, t)
			}
		}
	}
	return out, nil
}
