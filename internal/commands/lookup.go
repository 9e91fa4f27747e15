package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/naago/internal/domain"
	"github.com/MrSnakeDoc/naago/internal/render"
)

// maxCandidates bounds the list shown when a search is ambiguous.
const maxCandidates = 10

// lookup searches name on world. It returns the single matching character,
// or a view listing candidates when the search is ambiguous.
func lookup(ctx context.Context, d Deps, name, world string) (*domain.SearchResult, *render.View, error) {
	if name == "" || world == "" {
		return nil, nil, userError("Both a name and a world are required.", nil)
	}
	w, ok := d.Worlds.Resolve(world)
	if !ok {
		return nil, nil, userError(fmt.Sprintf("I don't know a world called %q.", world), nil)
	}

	results, err := d.Search.SearchCharacter(ctx, name, w.Name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, notFound(name, w.Name)
		}
		return nil, nil, err
	}

	var exact []domain.SearchResult
	for _, r := range results {
		if strings.EqualFold(r.Name, name) && (r.World == "" || strings.EqualFold(r.World, w.Name)) {
			exact = append(exact, r)
		}
	}
	switch {
	case len(exact) == 1:
		return &exact[0], nil, nil
	case len(results) == 1:
		return &results[0], nil, nil
	case len(results) == 0:
		return nil, nil, notFound(name, w.Name)
	default:
		return nil, render.Candidates(results, maxCandidates), nil
	}
}

func notFound(name, world string) error {
	return userError(fmt.Sprintf("No character called **%s** on %s.", name, world), domain.ErrNotFound)
}

// character builds a minimal snapshot from a search result, enough to render
// prompts before the full profile is fetched.
func character(r *domain.SearchResult) *domain.Character {
	return &domain.Character{ID: r.ID, Name: r.Name, World: r.World, Avatar: r.Avatar}
}
