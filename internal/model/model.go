// Package model defines domain records exchanged with the marketplace backend.
// All records are read-only projections of server state: the backend produces
// them, the client renders them and never caches beyond a single command run.
package model

// Role classifies an account; it only selects which views a client shows.
type Role string

const (
	RoleUser     Role = "user"
	RoleBusiness Role = "business"
)

// UserRecord is the backend's projection of the authenticated account.
// Opaque beyond the fields the client reads for display and role branching.
type UserRecord struct {
	ID           string `json:"_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         Role   `json:"role"`
	Phone        string `json:"phone,omitempty"`
	BusinessName string `json:"businessName,omitempty"`
}

// Car is a vehicle registered under the account.
type Car struct {
	ID           string  `json:"_id"`
	Make         string  `json:"make"`
	Model        string  `json:"model"`
	Year         int     `json:"year"`
	Color        string  `json:"color,omitempty"`
	LicensePlate string  `json:"licensePlate,omitempty"`
	VIN          string  `json:"vin,omitempty"`
	FuelType     string  `json:"fuelType,omitempty"`
	EngineSize   float64 `json:"engineSize,omitempty"`
	IsPrimary    bool    `json:"isPrimary,omitempty"`
}

// Business is the embedded provider summary attached to services and orders.
type Business struct {
	ID           string `json:"_id"`
	Name         string `json:"name,omitempty"`
	BusinessName string `json:"businessName,omitempty"`
	Phone        string `json:"phone,omitempty"`
}

// Service is a single offering in the catalog.
type Service struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Category     string    `json:"category"`
	Price        float64   `json:"price"`
	Duration     int       `json:"duration,omitempty"` // minutes
	Rating       float64   `json:"rating,omitempty"`
	Location     *Location `json:"location,omitempty"`
	WorkingHours string    `json:"workingHours,omitempty"`
	ContactPhone string    `json:"contactPhone,omitempty"`
	Business     *Business `json:"business,omitempty"`
}

// Location is the service point address.
type Location struct {
	City    string `json:"city,omitempty"`
	Address string `json:"address,omitempty"`
}

// Order statuses as issued by the backend. The client treats them as labels;
// allowed transitions are enforced server-side.
const (
	OrderPending    = "pending"
	OrderSearching  = "searching"
	OrderConfirmed  = "confirmed"
	OrderInProgress = "in_progress"
	OrderCompleted  = "completed"
	OrderCancelled  = "cancelled"
)

// Order is a booking of a service for a car.
type Order struct {
	ID                string    `json:"_id"`
	Service           *Service  `json:"service,omitempty"`
	Car               *Car      `json:"car,omitempty"`
	Business          *Business `json:"business,omitempty"`
	Status            string    `json:"status"`
	Price             float64   `json:"price,omitempty"`
	ScheduledDate     string    `json:"scheduledDate,omitempty"` // YYYY-MM-DD
	PreferredTime     string    `json:"preferredTime,omitempty"` // HH:MM
	EstimatedDuration int       `json:"estimatedDuration,omitempty"`
	UserNotes         string    `json:"userNotes,omitempty"`
	BusinessNotes     string    `json:"businessNotes,omitempty"`
	Review            *Review   `json:"review,omitempty"`
}

// Review is the customer's rating of a completed order.
type Review struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

// Pagination accompanies catalog listings.
type Pagination struct {
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Total int `json:"total"`
}
