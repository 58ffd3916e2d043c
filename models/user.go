package models

import "time"

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleBusiness UserRole = "business"
	RoleDelivery UserRole = "delivery"
)

// ValidRole reports whether r is one of the three marketplace roles.
func ValidRole(r UserRole) bool {
	return r == RoleCustomer || r == RoleBusiness || r == RoleDelivery
}

// User is an account in the marketplace. UID is the external identity string
// issued by the auth provider; it is the foreign key used by orders and
// products, distinct from the store's numeric ID.
type User struct {
	ID    uint     `json:"id" gorm:"primaryKey"`
	UID   string   `json:"uid" gorm:"uniqueIndex;not null"`
	Role  UserRole `json:"role" gorm:"not null;default:'customer'"`
	Name  string   `json:"name" gorm:"not null"`
	Email string   `json:"email"`
	Phone string   `json:"phone"`

	// Business-role fields
	BusinessName string `json:"businessName,omitempty"`
	BusinessType string `json:"businessType,omitempty"` // "restaurant", "grocery", ...

	// Delivery-role fields
	VehicleType   string `json:"vehicleType,omitempty"`
	LicenseNumber string `json:"licenseNumber,omitempty"`

	// Free-form preference tags used to personalize recommendations
	Preferences []string `json:"preferences" gorm:"serializer:json"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
