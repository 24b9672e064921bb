package services

import (
	"context"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/himudigonda/Vyayamam/internal/models"
)

// MatchThreshold is the minimum 0-100 similarity score for a resolver hit.
const MatchThreshold = 85

type planLister interface {
	FindAll(ctx context.Context) ([]models.DayPlan, error)
}

// ResolverService maps free exercise text to a catalog definition by scoring
// the query against every canonical name and alias across all day plans.
// Searching all plans, not just today's, is deliberate: users log supersets
// and out-of-day exercises, and restricting to today caused false negatives.
type ResolverService struct {
	plans planLister
}

func NewResolverService(plans planLister) *ResolverService {
	return &ResolverService{plans: plans}
}

// Resolve returns the best-scoring definition, or nil when nothing reaches
// the threshold. On an exact score tie the first candidate in catalog order
// wins; callers must not rely on which one that is.
func (s *ResolverService) Resolve(ctx context.Context, query string) (*models.ExerciseDefinition, error) {
	plans, err := s.plans.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	normalized := strings.ToLower(strings.TrimSpace(query))
	seen := make(map[string]struct{})
	var best *models.ExerciseDefinition
	bestScore := -1

	consider := func(candidate string, def models.ExerciseDefinition) {
		candidate = strings.ToLower(strings.TrimSpace(candidate))
		if candidate == "" {
			return
		}
		if _, dup := seen[candidate]; dup {
			return
		}
		seen[candidate] = struct{}{}

		if score := Similarity(normalized, candidate); score > bestScore {
			bestScore = score
			defCopy := def
			best = &defCopy
		}
	}

	for _, plan := range plans {
		for _, def := range plan.Exercises {
			consider(def.Name, def)
			for _, alias := range def.Aliases {
				consider(alias, def)
			}
		}
	}

	if bestScore < MatchThreshold {
		return nil, nil
	}
	return best, nil
}

// Similarity scores two strings on a 0-100 scale from their Levenshtein
// distance relative to the longer string.
func Similarity(a, b string) int {
	if a == b {
		return 100
	}

	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 100
	}

	dist := levenshtein.ComputeDistance(a, b)
	return int(100 * (1 - float64(dist)/float64(maxLen)))
}
