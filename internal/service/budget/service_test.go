package budget

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/nutrition-engine/internal/domain"
)

// ---------------------------------------------------------------------------
// Manual mocks (moq-style with func fields)
// ---------------------------------------------------------------------------

type mockGoalRepo struct {
	GetActiveFunc func(ctx context.Context, ownerID uuid.UUID) (*domain.Goal, error)
}

func (m *mockGoalRepo) GetActive(ctx context.Context, ownerID uuid.UUID) (*domain.Goal, error) {
	return m.GetActiveFunc(ctx, ownerID)
}

type mockMealLogRepo struct {
	ListByRangeFunc func(ctx context.Context, ownerID uuid.UUID, r domain.DateRange) ([]domain.MealLogEntry, error)
}

func (m *mockMealLogRepo) ListByRange(ctx context.Context, ownerID uuid.UUID, r domain.DateRange) ([]domain.MealLogEntry, error) {
	return m.ListByRangeFunc(ctx, ownerID, r)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var testDay = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func logsOf(entries ...domain.MealLogEntry) *mockMealLogRepo {
	return &mockMealLogRepo{
		ListByRangeFunc: func(context.Context, uuid.UUID, domain.DateRange) ([]domain.MealLogEntry, error) {
			return entries, nil
		},
	}
}

func activeGoal(target domain.MacroVector) *mockGoalRepo {
	return &mockGoalRepo{
		GetActiveFunc: func(_ context.Context, ownerID uuid.UUID) (*domain.Goal, error) {
			return &domain.Goal{ID: uuid.New(), OwnerID: ownerID, Target: target, IsActive: true}, nil
		},
	}
}

func meal(owner uuid.UUID, v domain.MacroVector) domain.MealLogEntry {
	return domain.MealLogEntry{ID: uuid.New(), OwnerID: owner, Date: testDay, TotalMacros: v}
}

// ---------------------------------------------------------------------------
// Fold properties
// ---------------------------------------------------------------------------

func TestSumMeals_EmptyIsZero(t *testing.T) {
	t.Parallel()

	assert.True(t, SumMeals(nil).IsZero())
	assert.True(t, SumMeals([]domain.MealLogEntry{}).IsZero())
}

func TestSumMeals_OrderIndependent(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	rng := rand.New(rand.NewSource(42))

	entries := make([]domain.MealLogEntry, 25)
	for i := range entries {
		entries[i] = meal(owner, domain.MacroVector{
			Calories: rng.Float64() * 900,
			Protein:  rng.Float64() * 60,
			Carbs:    rng.Float64() * 110,
			Fat:      rng.Float64() * 40,
			Fiber:    rng.Float64() * 12,
		})
	}
	want := SumMeals(entries)

	for i := 0; i < 50; i++ {
		shuffled := append([]domain.MealLogEntry(nil), entries...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, want, SumMeals(shuffled), "shuffle %d changed the result", i)
	}
}

func TestRemaining_NeverNegative(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		target := domain.MacroVector{
			Calories: rng.Float64() * 3000, Protein: rng.Float64() * 200,
			Carbs: rng.Float64() * 300, Fat: rng.Float64() * 100, Fiber: rng.Float64() * 40,
		}
		consumed := domain.MacroVector{
			Calories: rng.Float64() * 4000, Protein: rng.Float64() * 250,
			Carbs: rng.Float64() * 400, Fat: rng.Float64() * 150, Fiber: rng.Float64() * 60,
		}
		got := Remaining(target, consumed)
		assert.GreaterOrEqual(t, got.Calories, 0.0)
		assert.GreaterOrEqual(t, got.Protein, 0.0)
		assert.GreaterOrEqual(t, got.Carbs, 0.0)
		assert.GreaterOrEqual(t, got.Fat, 0.0)
		assert.GreaterOrEqual(t, got.Fiber, 0.0)
	}
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

func TestService_Remaining_ConcreteScenario(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	goals := activeGoal(domain.MacroVector{Calories: 2000, Protein: 150, Carbs: 200, Fat: 65, Fiber: 30})
	logs := logsOf(
		meal(owner, domain.MacroVector{Calories: 600, Protein: 40, Carbs: 70, Fat: 20, Fiber: 10}),
		meal(owner, domain.MacroVector{Calories: 1200, Protein: 100, Carbs: 110, Fat: 40, Fiber: 15}),
	)
	svc := NewService(slog.Default(), goals, logs)

	b, err := svc.Remaining(context.Background(), owner, testDay.Add(13*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, domain.MacroVector{Calories: 1800, Protein: 140, Carbs: 180, Fat: 60, Fiber: 25}, b.Consumed)
	assert.Equal(t, domain.MacroVector{Calories: 200, Protein: 10, Carbs: 20, Fat: 5, Fiber: 5}, b.Remaining)
	assert.Equal(t, testDay, b.Date.From)
	assert.Equal(t, testDay, b.Date.To)
}

func TestService_Remaining_NoMealsReturnsTarget(t *testing.T) {
	t.Parallel()

	target := domain.MacroVector{Calories: 1800, Protein: 120}
	svc := NewService(slog.Default(), activeGoal(target), logsOf())

	b, err := svc.Remaining(context.Background(), uuid.New(), testDay)
	require.NoError(t, err)
	assert.True(t, b.Consumed.IsZero())
	assert.Equal(t, target, b.Remaining)
}

func TestService_Remaining_NoActiveGoal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		repo *mockGoalRepo
	}{
		{"not found", &mockGoalRepo{GetActiveFunc: func(context.Context, uuid.UUID) (*domain.Goal, error) {
			return nil, domain.ErrNotFound
		}}},
		{"nil goal", &mockGoalRepo{GetActiveFunc: func(context.Context, uuid.UUID) (*domain.Goal, error) {
			return nil, nil
		}}},
		{"inactive goal", &mockGoalRepo{GetActiveFunc: func(context.Context, uuid.UUID) (*domain.Goal, error) {
			return &domain.Goal{IsActive: false}, nil
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := NewService(slog.Default(), tt.repo, logsOf())
			_, err := svc.Remaining(context.Background(), uuid.New(), testDay)
			assert.ErrorIs(t, err, domain.ErrNoActiveGoal)
		})
	}
}

func TestService_Remaining_GoalStoreError(t *testing.T) {
	t.Parallel()

	boom := errors.New("timeout")
	repo := &mockGoalRepo{GetActiveFunc: func(context.Context, uuid.UUID) (*domain.Goal, error) { return nil, boom }}
	svc := NewService(slog.Default(), repo, logsOf())

	_, err := svc.Remaining(context.Background(), uuid.New(), testDay)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrNoActiveGoal)
}

func TestService_Consumed_DropsEntriesOutsideRequest(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	other := meal(uuid.New(), domain.MacroVector{Calories: 999})
	nextDay := meal(owner, domain.MacroVector{Calories: 500})
	nextDay.Date = testDay.AddDate(0, 0, 1)

	svc := NewService(slog.Default(), activeGoal(domain.MacroVector{}), logsOf(
		meal(owner, domain.MacroVector{Calories: 300, Protein: 20}),
		other,
		nextDay,
	))

	got, err := svc.Consumed(context.Background(), owner, domain.SingleDay(testDay))
	require.NoError(t, err)
	assert.Equal(t, domain.MacroVector{Calories: 300, Protein: 20}, got)
}

func TestService_Consumed_RangePassedThrough(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	week := domain.WeekOf(testDay)

	var gotRange domain.DateRange
	logs := &mockMealLogRepo{
		ListByRangeFunc: func(_ context.Context, _ uuid.UUID, r domain.DateRange) ([]domain.MealLogEntry, error) {
			gotRange = r
			return nil, nil
		},
	}
	svc := NewService(slog.Default(), activeGoal(domain.MacroVector{}), logs)

	got, err := svc.Consumed(context.Background(), owner, week)
	require.NoError(t, err)
	assert.True(t, got.IsZero())
	assert.Equal(t, week, gotRange)
}

func TestService_Consumed_RequiresOwner(t *testing.T) {
	t.Parallel()

	svc := NewService(slog.Default(), activeGoal(domain.MacroVector{}), logsOf())
	_, err := svc.Consumed(context.Background(), uuid.Nil, domain.SingleDay(testDay))
	assert.ErrorIs(t, err, domain.ErrValidation)
}
