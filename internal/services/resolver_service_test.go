package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/himudigonda/Vyayamam/internal/models"
)

type stubPlanLister struct {
	plans []models.DayPlan
	err   error
}

func (s *stubPlanLister) FindAll(_ context.Context) ([]models.DayPlan, error) {
	return s.plans, s.err
}

func resolverCatalog() []models.DayPlan {
	return []models.DayPlan{
		{
			DayOfWeek: 1,
			DayName:   "Push A",
			Exercises: []models.ExerciseDefinition{
				{ID: uuid.New(), Name: "Bench Press", Aliases: []string{"bench"}, Order: 1, TargetSets: 3, TargetReps: "8-12"},
				{ID: uuid.New(), Name: "Cable Crossover", Aliases: []string{"cable fly", "crossovers"}, Order: 2, TargetSets: 3, TargetReps: "12-15"},
			},
		},
		{
			DayOfWeek: 2,
			DayName:   "Pull A",
			Exercises: []models.ExerciseDefinition{
				{ID: uuid.New(), Name: "Lat Pulldowns", Aliases: []string{"lats pulldown"}, Order: 1, TargetSets: 4, TargetReps: "8-12"},
			},
		},
	}
}

func TestResolveExactCanonicalName(t *testing.T) {
	resolver := NewResolverService(&stubPlanLister{plans: resolverCatalog()})

	def, err := resolver.Resolve(context.Background(), "Bench Press")
	require.NoError(t, err)
	require.NotNil(t, def)
	assert.Equal(t, "Bench Press", def.Name)
}

func TestResolveMatchesAcrossAllPlans(t *testing.T) {
	// "lats pulldown" lives on the pull day; the resolver must find it even
	// when the user is mid push-day.
	resolver := NewResolverService(&stubPlanLister{plans: resolverCatalog()})

	def, err := resolver.Resolve(context.Background(), "lats pulldown")
	require.NoError(t, err)
	require.NotNil(t, def)
	assert.Equal(t, "Lat Pulldowns", def.Name)
}

func TestResolveAliasAndTypo(t *testing.T) {
	resolver := NewResolverService(&stubPlanLister{plans: resolverCatalog()})

	def, err := resolver.Resolve(context.Background(), "cable fly")
	require.NoError(t, err)
	require.NotNil(t, def)
	assert.Equal(t, "Cable Crossover", def.Name)

	// One edit away from "bench press" still clears the threshold.
	def, err = resolver.Resolve(context.Background(), "bench pres")
	require.NoError(t, err)
	require.NotNil(t, def)
	assert.Equal(t, "Bench Press", def.Name)
}

func TestResolveBelowThresholdReturnsNil(t *testing.T) {
	resolver := NewResolverService(&stubPlanLister{plans: resolverCatalog()})

	def, err := resolver.Resolve(context.Background(), "interpretive dance")
	require.NoError(t, err)
	assert.Nil(t, def)
}

func TestResolveTieReturnsSomeValidDefinition(t *testing.T) {
	// Two distinct definitions carry equally-scoring aliases (both two edits
	// from the query over fifteen runes, scoring 86). Which one wins is
	// unspecified; the result just has to be one of them.
	first := models.ExerciseDefinition{ID: uuid.New(), Name: "Machine Press", Aliases: []string{"incline press a"}, Order: 1, TargetSets: 3, TargetReps: "10"}
	second := models.ExerciseDefinition{ID: uuid.New(), Name: "Smith Press", Aliases: []string{"incline press b"}, Order: 2, TargetSets: 3, TargetReps: "10"}
	plans := []models.DayPlan{{DayOfWeek: 1, Exercises: []models.ExerciseDefinition{first, second}}}
	resolver := NewResolverService(&stubPlanLister{plans: plans})

	def, err := resolver.Resolve(context.Background(), "incline press")
	require.NoError(t, err)
	require.NotNil(t, def)
	assert.Contains(t, []uuid.UUID{first.ID, second.ID}, def.ID)
}

func TestSimilarityScoring(t *testing.T) {
	assert.Equal(t, 100, Similarity("bench press", "bench press"))
	assert.Equal(t, 100, Similarity("", ""))
	// One edit over eleven runes floors to 90.
	assert.Equal(t, 90, Similarity("bench press", "bench pres"))
	assert.Less(t, Similarity("bench press", "leg press"), MatchThreshold)
}
