// Package store defines the repository interfaces the route layer depends on,
// with an in-memory implementation (the default, and the one tests use) and a
// GORM-backed SQLite implementation for durable deployments.
package store

import (
	"errors"

	"food-marketplace-api/models"
)

var (
	// ErrNotFound is returned when a referenced id is absent from the store.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateUID is returned when a user's uid is already registered.
	ErrDuplicateUID = errors.New("uid already registered")
	// ErrDriverAssigned is returned when a transition tries to claim an order
	// that already belongs to another driver.
	ErrDriverAssigned = errors.New("order already assigned to another driver")
	// ErrTotalMismatch is returned when an order's total does not reconcile
	// with the sum of its items plus the delivery fee.
	ErrTotalMismatch = errors.New("total amount does not match items plus delivery fee")
)

// UserUpdate is a partial user update; nil fields are left untouched.
type UserUpdate struct {
	Name          *string
	Email         *string
	Phone         *string
	BusinessName  *string
	BusinessType  *string
	VehicleType   *string
	LicenseNumber *string
	Preferences   *[]string
}

// ProductUpdate is a partial product update; nil fields are left untouched.
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *int64
	ImageURL    *string
	Category    *string
	Available   *bool
}

// StatusUpdate carries everything a status transition may change or record.
type StatusUpdate struct {
	Status    models.OrderStatus
	DriverID  string // non-empty claims the order for that driver
	ChangedBy string // actor uid for the history row, when known
	Note      string
}

// UserStore owns user records.
type UserStore interface {
	CreateUser(u models.User) (models.User, error)
	GetUser(id uint) (models.User, error)
	GetUserByUID(uid string) (models.User, error)
	UpdateUser(id uint, upd UserUpdate) (models.User, error)
}

// ProductStore owns product records, scoped by owning business uid.
type ProductStore interface {
	CreateProduct(p models.Product) (models.Product, error)
	GetProduct(id uint) (models.Product, error)
	ProductsByBusiness(businessID string) ([]models.Product, error)
	UpdateProduct(id uint, upd ProductUpdate) (models.Product, error)
	DeleteProduct(id uint) error
}

// OrderStore owns orders and their items as one creation unit.
type OrderStore interface {
	// CreateOrder persists the order and its items atomically, snapshotting
	// item prices. The order's total must equal the item sum plus the
	// delivery fee or ErrTotalMismatch is returned. An empty status is
	// resolved from the owning business type (kitchen path for restaurants,
	// ready_for_pickup otherwise).
	CreateOrder(o models.Order, items []models.OrderItem) (models.OrderWithItems, error)
	GetOrderWithItems(id uint) (models.OrderWithItems, error)
	OrdersByCustomer(uid string) ([]models.OrderWithItems, error)
	OrdersByBusiness(uid string) ([]models.OrderWithItems, error)
	OrdersByDriver(uid string) ([]models.OrderWithItems, error)
	// AvailableOrders returns pickup-ready orders with no driver assigned.
	AvailableOrders() ([]models.OrderWithItems, error)
	// UpdateOrderStatus applies a validated transition. Illegal transitions
	// return a *statemachine.TransitionError; claiming an order another
	// driver holds returns ErrDriverAssigned. Repeating the current status
	// is a no-op that only advances UpdatedAt.
	UpdateOrderStatus(id uint, upd StatusUpdate) (models.OrderWithItems, error)
}

// RecommendationStore serves the fixed recommendation catalog and tracks
// per-user favorites.
type RecommendationStore interface {
	// Recommendations returns the catalog, reordered by descending overlap
	// with userUID's stored preference tags when the user is known. Ties and
	// unknown users keep catalog order.
	Recommendations(userUID string) ([]models.Recommendation, error)
	Favorites(userUID string) ([]uint, error)
	// ToggleFavorite flips membership and returns the resulting state.
	ToggleFavorite(userUID string, recID uint) (bool, error)
}

// Store bundles every repository the route layer needs.
type Store interface {
	UserStore
	ProductStore
	OrderStore
	RecommendationStore
}
