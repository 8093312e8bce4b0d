package service

import (
	"context"
	"testing"

	"github.com/Jarolccis/agreements-core-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLookupsRepo struct {
	values      []domain.LookupValueResult
	listCalls   int
	singleCalls int
}

func (r *countingLookupsRepo) GetValuesByCategoryCode(ctx context.Context, categoryCode string) ([]domain.LookupValueResult, error) {
	r.listCalls++
	return r.values, nil
}

func (r *countingLookupsRepo) GetValueByCategoryAndKey(ctx context.Context, categoryCode, optionKey string) (*domain.LookupValueResult, error) {
	r.singleCalls++
	for i := range r.values {
		if r.values[i].OptionKey == optionKey {
			return &r.values[i], nil
		}
	}
	return nil, nil
}

func TestLookupsServiceDelegatesToRepository(t *testing.T) {
	repo := &countingLookupsRepo{
		values: []domain.LookupValueResult{
			{LookupValueID: 1, OptionKey: "RT1", DisplayValue: "Rebate"},
			{LookupValueID: 2, OptionKey: "RT2", DisplayValue: "Sell-in"},
		},
	}
	svc := NewLookupsService(nil, repo)

	ctx := context.Background()

	values, err := svc.GetCategoryValues(ctx, "REBATE_TYPES")
	require.NoError(t, err)
	assert.Len(t, values, 2)

	// Every call reaches the repository: the service holds no cache of its
	// own, that responsibility belongs to the repository decorator.
	_, err = svc.GetCategoryValues(ctx, "REBATE_TYPES")
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)

	value, err := svc.GetCategoryValue(ctx, "REBATE_TYPES", "RT2")
	require.NoError(t, err)
	require.NotNil(t, value)
	assert.Equal(t, "Sell-in", value.DisplayValue)
	assert.Equal(t, 1, repo.singleCalls)
}
