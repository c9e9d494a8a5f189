package market

import (
	"context"
	"net/url"
	"strconv"

	"github.com/avtohub/avtohub/internal/model"
	"github.com/avtohub/avtohub/internal/transport"
)

// Filter narrows a catalog search. Zero values are omitted from the query so
// the backend applies its own defaults.
type Filter struct {
	Search    string
	Category  string // "all" and "" are both treated as no filter
	City      string
	MinPrice  float64
	MaxPrice  float64
	MinRating float64
	SortBy    string // rating | price | name
	Page      int
	Limit     int
}

func (f Filter) query() string {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Category != "" && f.Category != "all" {
		q.Set("category", f.Category)
	}
	if f.City != "" {
		q.Set("city", f.City)
	}
	if f.MinPrice > 0 {
		q.Set("minPrice", strconv.FormatFloat(f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice > 0 {
		q.Set("maxPrice", strconv.FormatFloat(f.MaxPrice, 'f', -1, 64))
	}
	if f.MinRating > 0 {
		q.Set("rating", strconv.FormatFloat(f.MinRating, 'f', -1, 64))
	}
	if f.SortBy != "" {
		q.Set("sortBy", f.SortBy)
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// SearchResult is one page of the catalog.
type SearchResult struct {
	Services   []model.Service  `json:"services"`
	Pagination model.Pagination `json:"pagination"`
}

// ServiceInput is the create/update payload for a business offering.
type ServiceInput struct {
	Name         string  `json:"name" validate:"required"`
	Description  string  `json:"description,omitempty"`
	Category     string  `json:"category" validate:"required"`
	Price        float64 `json:"price" validate:"required,gt=0"`
	Duration     int     `json:"duration,omitempty" validate:"omitempty,gt=0"`
	City         string  `json:"city,omitempty"`
	Address      string  `json:"address,omitempty"`
	WorkingHours string  `json:"workingHours,omitempty"`
	ContactPhone string  `json:"contactPhone,omitempty"`
}

// Catalog browses and (for business accounts) maintains service offerings.
type Catalog struct {
	api *transport.Client
}

// NewCatalog constructs the catalog client.
func NewCatalog(api *transport.Client) *Catalog {
	return &Catalog{api: api}
}

// Search returns one page of services matching the filter.
func (c *Catalog) Search(ctx context.Context, f Filter) (*SearchResult, error) {
	var res SearchResult
	if err := c.api.Get(ctx, "/services"+f.query(), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Get fetches a single service with full detail.
func (c *Catalog) Get(ctx context.Context, id string) (*model.Service, error) {
	var svc model.Service
	if err := c.api.Get(ctx, "/services/"+url.PathEscape(id), &svc); err != nil {
		return nil, err
	}
	return &svc, nil
}

// Categories lists the known service categories.
func (c *Catalog) Categories(ctx context.Context) ([]string, error) {
	var cats []string
	if err := c.api.Get(ctx, "/services/categories", &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

// Mine lists the offerings owned by the signed-in business account.
func (c *Catalog) Mine(ctx context.Context) ([]model.Service, error) {
	var svcs []model.Service
	if err := c.api.Get(ctx, "/services/business/my-services", &svcs); err != nil {
		return nil, err
	}
	return svcs, nil
}

// Create publishes a new offering (business role).
func (c *Catalog) Create(ctx context.Context, in ServiceInput) (*model.Service, error) {
	var svc model.Service
	if err := c.api.Post(ctx, "/services", in, &svc); err != nil {
		return nil, err
	}
	return &svc, nil
}

// Update replaces an offering's fields (business role).
func (c *Catalog) Update(ctx context.Context, id string, in ServiceInput) (*model.Service, error) {
	var svc model.Service
	if err := c.api.Put(ctx, "/services/"+url.PathEscape(id), in, &svc); err != nil {
		return nil, err
	}
	return &svc, nil
}

// Delete withdraws an offering (business role).
func (c *Catalog) Delete(ctx context.Context, id string) error {
	return c.api.Delete(ctx, "/services/"+url.PathEscape(id))
}
