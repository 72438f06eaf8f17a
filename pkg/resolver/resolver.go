// Package resolver picks the snippet a free-text query refers to.
// Resolution strategies are chained: an AI-backed resolver runs first when
// available and a fuzzy keyword matcher covers the rest.
package resolver

import (
	"context"

	"github.com/pkg/errors"
)

// ErrNoMatch reports that a resolver examined the candidates and ruled out
// all of them, ending the chain early.
var ErrNoMatch = errors.New("no matching snippet")

// Candidate is one snippet offered for resolution. The JSON tags shape the
// analysis file handed to the claude subprocess.
type Candidate struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Preview string `json:"content_preview"`
	Content string `json:"full_content"`
}

// Resolver maps a query to the id of the best candidate. ok is false when
// the resolver has no answer but another one might; ErrNoMatch means the
// query is ruled out and no further resolver should be consulted.
type Resolver interface {
	Resolve(ctx context.Context, query string, candidates []Candidate) (id string, ok bool, err error)
}

// Chain consults resolvers in order until one answers or rules the query
// out.
type Chain []Resolver

// Resolve implements Resolver.
func (c Chain) Resolve(ctx context.Context, query string, candidates []Candidate) (string, bool, error) {
	for _, r := range c {
		id, ok, err := r.Resolve(ctx, query, candidates)
		if err != nil {
			if errors.Is(err, ErrNoMatch) {
				return "", false, nil
			}
			return "", false, err
		}
		if ok {
			return id, true, nil
		}
	}
	return "", false, nil
}
