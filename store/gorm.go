package store

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"food-marketplace-api/models"
	"food-marketplace-api/statemachine"
)

// favorite is the persisted form of a user's favorite toggle.
type favorite struct {
	ID      uint   `gorm:"primaryKey"`
	UserUID string `gorm:"index;not null"`
	RecID   uint   `gorm:"not null"`
}

// GormStore is the durable Store implementation. The route layer only sees
// the Store interface, so it is interchangeable with MemoryStore.
type GormStore struct {
	db      *gorm.DB
	catalog []models.Recommendation
}

// NewGormStore migrates the schema and wraps db as a Store.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusHistory{},
		&favorite{},
	)
	if err != nil {
		return nil, err
	}
	return &GormStore{db: db, catalog: recommendationCatalog()}, nil
}

// ── Users ───────────────────────────────────────────────────────────────────

func (s *GormStore) CreateUser(u models.User) (models.User, error) {
	var existing models.User
	if err := s.db.Where("uid = ?", u.UID).First(&existing).Error; err == nil {
		return models.User{}, ErrDuplicateUID
	}
	if err := s.db.Create(&u).Error; err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *GormStore) GetUser(id uint) (models.User, error) {
	var u models.User
	if err := s.db.First(&u, id).Error; err != nil {
		return models.User{}, translate(err)
	}
	return u, nil
}

func (s *GormStore) GetUserByUID(uid string) (models.User, error) {
	var u models.User
	if err := s.db.Where("uid = ?", uid).First(&u).Error; err != nil {
		return models.User{}, translate(err)
	}
	return u, nil
}

func (s *GormStore) UpdateUser(id uint, upd UserUpdate) (models.User, error) {
	var u models.User
	if err := s.db.First(&u, id).Error; err != nil {
		return models.User{}, translate(err)
	}
	updates := map[string]interface{}{}
	if upd.Name != nil {
		updates["name"] = *upd.Name
	}
	if upd.Email != nil {
		updates["email"] = *upd.Email
	}
	if upd.Phone != nil {
		updates["phone"] = *upd.Phone
	}
	if upd.BusinessName != nil {
		updates["business_name"] = *upd.BusinessName
	}
	if upd.BusinessType != nil {
		updates["business_type"] = *upd.BusinessType
	}
	if upd.VehicleType != nil {
		updates["vehicle_type"] = *upd.VehicleType
	}
	if upd.LicenseNumber != nil {
		updates["license_number"] = *upd.LicenseNumber
	}
	if len(updates) > 0 {
		if err := s.db.Model(&u).Updates(updates).Error; err != nil {
			return models.User{}, err
		}
	}
	if upd.Preferences != nil {
		u.Preferences = *upd.Preferences
		if err := s.db.Save(&u).Error; err != nil {
			return models.User{}, err
		}
	}
	return u, nil
}

// ── Products ────────────────────────────────────────────────────────────────

func (s *GormStore) CreateProduct(p models.Product) (models.Product, error) {
	if err := s.db.Create(&p).Error; err != nil {
		return models.Product{}, err
	}
	return p, nil
}

func (s *GormStore) GetProduct(id uint) (models.Product, error) {
	var p models.Product
	if err := s.db.First(&p, id).Error; err != nil {
		return models.Product{}, translate(err)
	}
	return p, nil
}

func (s *GormStore) ProductsByBusiness(businessID string) ([]models.Product, error) {
	products := []models.Product{}
	if err := s.db.Where("business_id = ?", businessID).Order("id asc").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (s *GormStore) UpdateProduct(id uint, upd ProductUpdate) (models.Product, error) {
	var p models.Product
	if err := s.db.First(&p, id).Error; err != nil {
		return models.Product{}, translate(err)
	}
	updates := map[string]interface{}{}
	if upd.Name != nil {
		updates["name"] = *upd.Name
	}
	if upd.Description != nil {
		updates["description"] = *upd.Description
	}
	if upd.Price != nil {
		updates["price"] = *upd.Price
	}
	if upd.ImageURL != nil {
		updates["image_url"] = *upd.ImageURL
	}
	if upd.Category != nil {
		updates["category"] = *upd.Category
	}
	if upd.Available != nil {
		updates["available"] = *upd.Available
	}
	if len(updates) > 0 {
		if err := s.db.Model(&p).Updates(updates).Error; err != nil {
			return models.Product{}, err
		}
	}
	return p, nil
}

func (s *GormStore) DeleteProduct(id uint) error {
	res := s.db.Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ── Orders ──────────────────────────────────────────────────────────────────

func (s *GormStore) CreateOrder(o models.Order, items []models.OrderItem) (models.OrderWithItems, error) {
	var sum int64
	for _, it := range items {
		sum += it.Price * int64(it.Quantity)
	}
	if sum+o.DeliveryFee != o.TotalAmount {
		return models.OrderWithItems{}, ErrTotalMismatch
	}

	if o.Status == "" {
		var business models.User
		businessType := ""
		if err := s.db.Where("uid = ?", o.BusinessID).First(&business).Error; err == nil {
			businessType = business.BusinessType
		}
		o.Status = statemachine.InitialStatus(businessType)
	}
	if o.PaymentStatus == "" {
		o.PaymentStatus = models.PaymentPending
	}
	o.DriverID = ""
	o.CompletedAt = nil

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&o).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].ID = 0
			items[i].OrderID = o.ID
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}
		history := models.OrderStatusHistory{
			OrderID:   o.ID,
			ToStatus:  o.Status,
			ChangedBy: o.CustomerID,
			Note:      "order placed",
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		return models.OrderWithItems{}, err
	}
	return s.GetOrderWithItems(o.ID)
}

func (s *GormStore) GetOrderWithItems(id uint) (models.OrderWithItems, error) {
	var o models.Order
	if err := s.db.First(&o, id).Error; err != nil {
		return models.OrderWithItems{}, translate(err)
	}
	return s.aggregate(o)
}

func (s *GormStore) OrdersByCustomer(uid string) ([]models.OrderWithItems, error) {
	return s.findOrders("customer_id = ?", uid)
}

func (s *GormStore) OrdersByBusiness(uid string) ([]models.OrderWithItems, error) {
	return s.findOrders("business_id = ?", uid)
}

func (s *GormStore) OrdersByDriver(uid string) ([]models.OrderWithItems, error) {
	return s.findOrders("driver_id = ?", uid)
}

func (s *GormStore) AvailableOrders() ([]models.OrderWithItems, error) {
	return s.findOrders("status IN ? AND driver_id = ''",
		[]models.OrderStatus{models.StatusReady, models.StatusReadyForPickup})
}

func (s *GormStore) UpdateOrderStatus(id uint, upd StatusUpdate) (models.OrderWithItems, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var o models.Order
		if err := tx.First(&o, id).Error; err != nil {
			return translate(err)
		}
		if upd.DriverID != "" && o.DriverID != "" && o.DriverID != upd.DriverID {
			return ErrDriverAssigned
		}
		if err := statemachine.CanTransition(o.Status, upd.Status); err != nil {
			return err
		}

		updates := map[string]interface{}{
			"status":     upd.Status,
			"updated_at": time.Now(),
		}
		if statemachine.MarksCompletion(upd.Status) && o.CompletedAt == nil {
			updates["completed_at"] = time.Now()
		}

		write := tx.Model(&models.Order{}).Where("id = ?", id)
		if upd.DriverID != "" {
			// Conditional claim: only wins if the slot is still empty (or
			// already ours), so two racing drivers cannot both attach.
			write = write.Where("driver_id = '' OR driver_id = ?", upd.DriverID)
			updates["driver_id"] = upd.DriverID
		}
		res := write.Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrDriverAssigned
		}

		if o.Status != upd.Status {
			history := models.OrderStatusHistory{
				OrderID:    id,
				FromStatus: o.Status,
				ToStatus:   upd.Status,
				ChangedBy:  upd.ChangedBy,
				Note:       upd.Note,
			}
			return tx.Create(&history).Error
		}
		return nil
	})
	if err != nil {
		return models.OrderWithItems{}, err
	}
	return s.GetOrderWithItems(id)
}

// ── Recommendations & favorites ─────────────────────────────────────────────

func (s *GormStore) Recommendations(userUID string) ([]models.Recommendation, error) {
	out := make([]models.Recommendation, len(s.catalog))
	copy(out, s.catalog)
	if userUID == "" {
		return out, nil
	}
	var u models.User
	if err := s.db.Where("uid = ?", userUID).First(&u).Error; err != nil {
		return out, nil
	}
	return personalize(out, u.Preferences), nil
}

func (s *GormStore) Favorites(userUID string) ([]uint, error) {
	rows := []favorite{}
	if err := s.db.Where("user_uid = ?", userUID).Order("rec_id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	ids := []uint{}
	for _, f := range rows {
		ids = append(ids, f.RecID)
	}
	return ids, nil
}

func (s *GormStore) ToggleFavorite(userUID string, recID uint) (bool, error) {
	var on bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var f favorite
		err := tx.Where("user_uid = ? AND rec_id = ?", userUID, recID).First(&f).Error
		if err == nil {
			on = false
			return tx.Delete(&f).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		on = true
		return tx.Create(&favorite{UserUID: userUID, RecID: recID}).Error
	})
	if err != nil {
		return false, err
	}
	return on, nil
}

// ── internals ───────────────────────────────────────────────────────────────

func (s *GormStore) aggregate(o models.Order) (models.OrderWithItems, error) {
	items := []models.OrderItem{}
	if err := s.db.Where("order_id = ?", o.ID).Order("id asc").Find(&items).Error; err != nil {
		return models.OrderWithItems{}, err
	}
	history := []models.OrderStatusHistory{}
	if err := s.db.Where("order_id = ?", o.ID).Order("id asc").Find(&history).Error; err != nil {
		return models.OrderWithItems{}, err
	}
	return models.OrderWithItems{Order: o, Items: items, History: history}, nil
}

func (s *GormStore) findOrders(query string, args ...interface{}) ([]models.OrderWithItems, error) {
	orders := []models.Order{}
	if err := s.db.Where(query, args...).Order("id asc").Find(&orders).Error; err != nil {
		return nil, err
	}
	out := []models.OrderWithItems{}
	for _, o := range orders {
		agg, err := s.aggregate(o)
		if err != nil {
			return nil, err
		}
		out = append(out, agg)
	}
	return out, nil
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
