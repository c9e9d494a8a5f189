// Package market contains thin resource clients over the HTTP transport:
// vehicles, the service catalog and orders. No business logic lives here —
// availability, pricing and authorization are all enforced by the backend.
package market

import (
	"context"
	"fmt"
	"net/url"

	"github.com/avtohub/avtohub/internal/model"
	"github.com/avtohub/avtohub/internal/transport"
)

// CarInput is the create/update payload for a vehicle.
type CarInput struct {
	Make         string  `json:"make" validate:"required"`
	Model        string  `json:"model" validate:"required"`
	Year         int     `json:"year" validate:"required,gte=1950,lte=2100"`
	Color        string  `json:"color,omitempty"`
	LicensePlate string  `json:"licensePlate,omitempty"`
	VIN          string  `json:"vin,omitempty"`
	FuelType     string  `json:"fuelType,omitempty" validate:"omitempty,oneof=petrol diesel electric hybrid gas"`
	EngineSize   float64 `json:"engineSize,omitempty"`
	IsPrimary    bool    `json:"isPrimary,omitempty"`
}

// Cars manages the account's vehicles.
type Cars struct {
	api *transport.Client
}

// NewCars constructs the vehicle client.
func NewCars(api *transport.Client) *Cars {
	return &Cars{api: api}
}

// List returns all vehicles registered under the account.
func (c *Cars) List(ctx context.Context) ([]model.Car, error) {
	var cars []model.Car
	if err := c.api.Get(ctx, "/cars", &cars); err != nil {
		return nil, err
	}
	return cars, nil
}

// Add registers a vehicle and returns the created record.
func (c *Cars) Add(ctx context.Context, in CarInput) (*model.Car, error) {
	var car model.Car
	if err := c.api.Post(ctx, "/cars", in, &car); err != nil {
		return nil, err
	}
	return &car, nil
}

// Update replaces a vehicle's fields.
func (c *Cars) Update(ctx context.Context, id string, in CarInput) (*model.Car, error) {
	var car model.Car
	if err := c.api.Put(ctx, "/cars/"+url.PathEscape(id), in, &car); err != nil {
		return nil, fmt.Errorf("update car %s: %w", id, err)
	}
	return &car, nil
}

// Remove deletes a vehicle.
func (c *Cars) Remove(ctx context.Context, id string) error {
	return c.api.Delete(ctx, "/cars/"+url.PathEscape(id))
}
