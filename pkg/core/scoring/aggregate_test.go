package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/db"
)

func testCriteria() []db.Criterion {
	return []db.Criterion{
		{
			ID: "punctuality", Name: "Punctuality", Category: db.CategoryBasic,
			DataType: db.DataTypeNumeric, MaxScore: 10, Weight: 2,
			AppliesToRole: db.RoleAll, IsActive: true,
		},
		{
			ID: "attendance", Name: "Attendance", Category: db.CategoryBasic,
			DataType: db.DataTypeBoolean, MaxScore: 5, Weight: 1,
			AppliesToRole: db.RoleAll, IsActive: true,
		},
		{
			ID: "mentoring", Name: "Mentoring", Category: db.CategoryResponsibility,
			DataType: db.DataTypeNumeric, MaxScore: 10, Weight: 1,
			AppliesToRole: "mentor", IsActive: true,
		},
		{
			ID: "retired", Name: "Retired criterion", Category: db.CategoryBonus,
			DataType: db.DataTypeNumeric, MaxScore: 10, Weight: 1,
			AppliesToRole: db.RoleAll, IsActive: false,
		},
	}
}

func TestAggregate_WeightedTotals(t *testing.T) {
	scores := []SubmittedScore{
		{CriteriaID: "punctuality", Value: "10"},
		{CriteriaID: "attendance", Value: "true"},
	}

	result, err := Aggregate("helper", testCriteria(), scores)
	require.NoError(t, err)

	// punctuality: 10 * weight 2 = 20, attendance: 5 * weight 1 = 5
	assert.Equal(t, 25.0, result.TotalScore)
	assert.Equal(t, 25.0, result.MaxPossibleScore)
	assert.Equal(t, 100.0, result.Percentage)
	assert.Len(t, result.Details, 2)
	assert.Empty(t, result.SkippedCriteriaIDs)
}

func TestAggregate_TextCriterionExcludedFromTotals(t *testing.T) {
	criteria := []db.Criterion{
		{
			ID: "quality", Name: "Quality", Category: db.CategoryBasic,
			DataType: db.DataTypeNumeric, MaxScore: 10, Weight: 1,
			AppliesToRole: db.RoleAll, IsActive: true,
		},
		{
			ID: "comments", Name: "Monthly comments", Category: db.CategoryBasic,
			DataType: db.DataTypeText, MaxScore: 10, Weight: 1,
			AppliesToRole: db.RoleAll, IsActive: true,
		},
	}
	scores := []SubmittedScore{
		{CriteriaID: "quality", Value: "10"},
		{CriteriaID: "comments", Value: "did great this month"},
	}

	result, err := Aggregate("helper", criteria, scores)
	require.NoError(t, err)

	// The comments field is kept as a detail but must not dilute the
	// percentage of an otherwise perfect score
	assert.Equal(t, 10.0, result.TotalScore)
	assert.Equal(t, 10.0, result.MaxPossibleScore)
	assert.Equal(t, 100.0, result.Percentage)

	require.Len(t, result.Details, 2)
	assert.Equal(t, "did great this month", result.Details[1].RawValue)
	assert.Equal(t, 0.0, result.Details[1].ScoreValue)
}

func TestAggregate_PercentageRounded(t *testing.T) {
	scores := []SubmittedScore{
		{CriteriaID: "punctuality", Value: "6.6667"},
	}

	result, err := Aggregate("helper", testCriteria(), scores)
	require.NoError(t, err)

	assert.InDelta(t, 66.67, result.Percentage, 0.001)
}

func TestAggregate_SkipsUnknownAndInactiveCriteria(t *testing.T) {
	scores := []SubmittedScore{
		{CriteriaID: "punctuality", Value: "5"},
		{CriteriaID: "retired", Value: "5"},
		{CriteriaID: "no-such-criterion", Value: "5"},
	}

	result, err := Aggregate("helper", testCriteria(), scores)
	require.NoError(t, err)

	// Only punctuality counts; skipped ids do not inflate the denominator
	assert.Equal(t, 10.0, result.TotalScore)
	assert.Equal(t, 20.0, result.MaxPossibleScore)
	assert.ElementsMatch(t, []string{"retired", "no-such-criterion"}, result.SkippedCriteriaIDs)
}

func TestAggregate_RoleScopedCriterion(t *testing.T) {
	scores := []SubmittedScore{
		{CriteriaID: "mentoring", Value: "8"},
	}

	mentorResult, err := Aggregate("mentor", testCriteria(), scores)
	require.NoError(t, err)
	assert.Equal(t, 8.0, mentorResult.TotalScore)

	helperResult, err := Aggregate("helper", testCriteria(), scores)
	require.NoError(t, err)
	assert.Equal(t, 0.0, helperResult.TotalScore)
	assert.Equal(t, []string{"mentoring"}, helperResult.SkippedCriteriaIDs)
}

func TestAggregate_DuplicateCriterionRejected(t *testing.T) {
	scores := []SubmittedScore{
		{CriteriaID: "punctuality", Value: "5"},
		{CriteriaID: "punctuality", Value: "9"},
	}

	_, err := Aggregate("helper", testCriteria(), scores)
	assert.ErrorIs(t, err, db.ErrValidation)
}

func TestAggregate_Deterministic(t *testing.T) {
	scores := []SubmittedScore{
		{CriteriaID: "punctuality", Value: "7"},
		{CriteriaID: "attendance", Value: "false"},
	}

	first, err := Aggregate("helper", testCriteria(), scores)
	require.NoError(t, err)
	second, err := Aggregate("helper", testCriteria(), scores)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAggregate_EmptyBatch(t *testing.T) {
	result, err := Aggregate("helper", testCriteria(), nil)
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.TotalScore)
	assert.Equal(t, 0.0, result.MaxPossibleScore)
	assert.Equal(t, 0.0, result.Percentage)
}

func TestNewRegistry_FiltersAndPreservesOrder(t *testing.T) {
	registry := NewRegistry(testCriteria(), "mentor")

	assert.Equal(t, 3, registry.Len())
	assert.NotNil(t, registry.Lookup("punctuality"))
	assert.NotNil(t, registry.Lookup("mentoring"))
	assert.Nil(t, registry.Lookup("retired"))

	ids := make([]string, 0, registry.Len())
	for _, c := range registry.Criteria() {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"punctuality", "attendance", "mentoring"}, ids)
}
