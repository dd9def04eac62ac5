package search_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/motog-app/motog-app-be/api/handlers/search"
	"github.com/motog-app/motog-app-be/models"
)

// fakePager returns a canned page per radius and records every invocation so
// tests can assert how far the controller expanded.
type fakePager struct {
	pages map[float64][]models.ListingResponse
	err   error

	calls []float64
}

func (f *fakePager) Page(_ context.Context, p search.Params) ([]models.ListingResponse, error) {
	f.calls = append(f.calls, p.RadiusKM)
	if f.err != nil {
		return nil, f.err
	}
	return f.pages[p.RadiusKM], nil
}

func page(n int) []models.ListingResponse {
	out := make([]models.ListingResponse, n)
	for i := range out {
		out[i] = models.ListingResponse{}
	}
	return out
}

func TestControllerShortCircuitsOnFirstSatisfyingRadius(t *testing.T) {
	pager := &fakePager{pages: map[float64][]models.ListingResponse{30: page(10)}}
	c := search.NewController(pager, nil, 0)

	out, err := c.Search(context.Background(), search.Params{Limit: 20})

	assert.NoError(t, err)
	assert.Len(t, out, 10)
	// the wider radii are never tried once the minimum is met
	assert.Equal(t, []float64{30}, pager.calls)
}

func TestControllerExpandsUntilSatisfied(t *testing.T) {
	pager := &fakePager{pages: map[float64][]models.ListingResponse{
		30: page(3),
		60: page(12),
	}}
	c := search.NewController(pager, nil, 0)

	out, err := c.Search(context.Background(), search.Params{Limit: 20})

	assert.NoError(t, err)
	assert.Len(t, out, 12)
	assert.Equal(t, []float64{30, 60}, pager.calls)
}

func TestControllerBestEffortAtWidestRadius(t *testing.T) {
	pager := &fakePager{pages: map[float64][]models.ListingResponse{
		30:  page(1),
		60:  page(2),
		100: page(3),
	}}
	c := search.NewController(pager, nil, 0)

	out, err := c.Search(context.Background(), search.Params{Limit: 20})

	assert.NoError(t, err)
	// under the minimum everywhere: return the widest radius's page, not an
	// error and not an empty page
	assert.Len(t, out, 3)
	assert.Equal(t, []float64{30, 60, 100}, pager.calls)
}

func TestControllerReturnsEmptyPageWhenNothingMatches(t *testing.T) {
	pager := &fakePager{pages: map[float64][]models.ListingResponse{}}
	c := search.NewController(pager, nil, 0)

	out, err := c.Search(context.Background(), search.Params{Limit: 20})

	assert.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
	assert.Equal(t, []float64{30, 60, 100}, pager.calls)
}

func TestControllerMinimumGatesContinuationNotLimit(t *testing.T) {
	// 10 rows is under the requested limit of 20 but meets the minimum, so
	// the controller must stop at 30 km
	pager := &fakePager{pages: map[float64][]models.ListingResponse{
		30:  page(10),
		60:  page(25),
		100: page(25),
	}}
	c := search.NewController(pager, nil, 0)

	out, err := c.Search(context.Background(), search.Params{Limit: 20})

	assert.NoError(t, err)
	assert.Len(t, out, 10)
	assert.Equal(t, []float64{30}, pager.calls)
}

func TestControllerHomepageConfiguration(t *testing.T) {
	pager := &fakePager{pages: map[float64][]models.ListingResponse{100: page(2)}}
	c := search.NewController(pager, search.HomepageRadiiKM, search.HomepageMinResults)

	out, err := c.Search(context.Background(), search.Params{Limit: 20})

	assert.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Equal(t, []float64{100}, pager.calls)
}

func TestControllerPropagatesEngineError(t *testing.T) {
	pager := &fakePager{err: errors.New("mocked-error")}
	c := search.NewController(pager, nil, 0)

	_, err := c.Search(context.Background(), search.Params{Limit: 20})

	assert.EqualError(t, err, "mocked-error")
	assert.Equal(t, []float64{30}, pager.calls)
}
