package search

import (
	"context"

	"github.com/motog-app/motog-app-be/models"
)

// Defaults for the expanding-radius search. The homepage feed runs the same
// controller with a single wide radius and a lower floor.
var (
	DefaultRadiiKM  = []float64{30, 60, 100}
	HomepageRadiiKM = []float64{100}
)

const (
	DefaultMinResults  = 10
	HomepageMinResults = 5
)

// Pager produces one ordered result page for a fixed search radius.
type Pager interface {
	Page(ctx context.Context, p Params) ([]models.ListingResponse, error)
}

// Controller widens the search radius stepwise until a page reaches the
// minimum result count. Attempts are strictly sequential: each radius is
// presumed more expensive than the last, and the common case (a small radius
// suffices) short-circuits without touching the wider ones.
type Controller struct {
	pager      Pager
	radiiKM    []float64
	minResults int
}

// NewController initializes a Controller over the given pager. Zero-value
// radii or minResults fall back to the defaults.
func NewController(pager Pager, radiiKM []float64, minResults int) *Controller {
	if len(radiiKM) == 0 {
		radiiKM = DefaultRadiiKM
	}
	if minResults <= 0 {
		minResults = DefaultMinResults
	}
	return &Controller{pager: pager, radiiKM: radiiKM, minResults: minResults}
}

// Search tries each radius in order and returns the first page whose length
// reaches the minimum count. Only the minimum gates continuation: a page
// shorter than the requested limit but at or above the minimum stops the
// search. If no radius satisfies the minimum, the widest radius's page is
// returned as-is rather than an error.
func (c *Controller) Search(ctx context.Context, p Params) ([]models.ListingResponse, error) {
	var results []models.ListingResponse
	for _, r := range c.radiiKM {
		p.RadiusKM = r
		out, err := c.pager.Page(ctx, p)
		if err != nil {
			return nil, err
		}
		results = out
		if len(out) >= c.minResults {
			break
		}
	}
	if results == nil {
		results = []models.ListingResponse{}
	}
	return results, nil
}
