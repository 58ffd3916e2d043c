package store

import (
	"sort"
	"sync"
	"time"

	"food-marketplace-api/models"
	"food-marketplace-api/statemachine"
)

// MemoryStore keeps everything in process memory. Ids are monotonically
// increasing counters, never reused, and not persisted across restarts. A
// single mutex serializes mutations, which is what makes the driver claim in
// UpdateOrderStatus an atomic check-then-set.
type MemoryStore struct {
	mu sync.RWMutex

	users      map[uint]models.User
	usersByUID map[string]uint
	nextUserID uint

	products      map[uint]models.Product
	nextProductID uint

	orders        map[uint]models.Order
	orderItems    map[uint][]models.OrderItem
	orderHistory  map[uint][]models.OrderStatusHistory
	nextOrderID   uint
	nextItemID    uint
	nextHistoryID uint

	catalog   []models.Recommendation
	favorites map[string]map[uint]bool
}

// NewMemoryStore returns an empty store seeded with the recommendation catalog.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:        make(map[uint]models.User),
		usersByUID:   make(map[string]uint),
		products:     make(map[uint]models.Product),
		orders:       make(map[uint]models.Order),
		orderItems:   make(map[uint][]models.OrderItem),
		orderHistory: make(map[uint][]models.OrderStatusHistory),
		catalog:      recommendationCatalog(),
		favorites:    make(map[string]map[uint]bool),
	}
}

// ── Users ───────────────────────────────────────────────────────────────────

func (s *MemoryStore) CreateUser(u models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.usersByUID[u.UID]; ok {
		return models.User{}, ErrDuplicateUID
	}
	s.nextUserID++
	u.ID = s.nextUserID
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	s.users[u.ID] = u
	s.usersByUID[u.UID] = u.ID
	return u, nil
}

func (s *MemoryStore) GetUser(id uint) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return u, nil
}

func (s *MemoryStore) GetUserByUID(uid string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usersByUID[uid]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return s.users[id], nil
}

func (s *MemoryStore) UpdateUser(id uint, upd UserUpdate) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.Phone != nil {
		u.Phone = *upd.Phone
	}
	if upd.BusinessName != nil {
		u.BusinessName = *upd.BusinessName
	}
	if upd.BusinessType != nil {
		u.BusinessType = *upd.BusinessType
	}
	if upd.VehicleType != nil {
		u.VehicleType = *upd.VehicleType
	}
	if upd.LicenseNumber != nil {
		u.LicenseNumber = *upd.LicenseNumber
	}
	if upd.Preferences != nil {
		u.Preferences = *upd.Preferences
	}
	u.UpdatedAt = time.Now()
	s.users[id] = u
	return u, nil
}

// ── Products ────────────────────────────────────────────────────────────────

func (s *MemoryStore) CreateProduct(p models.Product) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextProductID++
	p.ID = s.nextProductID
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	s.products[p.ID] = p
	return p, nil
}

func (s *MemoryStore) GetProduct(id uint) (models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return models.Product{}, ErrNotFound
	}
	return p, nil
}

func (s *MemoryStore) ProductsByBusiness(businessID string) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Product{}
	for _, id := range sortedKeys(s.products) {
		if s.products[id].BusinessID == businessID {
			out = append(out, s.products[id])
		}
	}
	return out, nil
}

func (s *MemoryStore) UpdateProduct(id uint, upd ProductUpdate) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return models.Product{}, ErrNotFound
	}
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.Price != nil {
		p.Price = *upd.Price
	}
	if upd.ImageURL != nil {
		p.ImageURL = *upd.ImageURL
	}
	if upd.Category != nil {
		p.Category = *upd.Category
	}
	if upd.Available != nil {
		p.Available = *upd.Available
	}
	p.UpdatedAt = time.Now()
	s.products[id] = p
	return p, nil
}

func (s *MemoryStore) DeleteProduct(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return ErrNotFound
	}
	delete(s.products, id)
	return nil
}

// ── Orders ──────────────────────────────────────────────────────────────────

func (s *MemoryStore) CreateOrder(o models.Order, items []models.OrderItem) (models.OrderWithItems, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sum int64
	for _, it := range items {
		sum += it.Price * int64(it.Quantity)
	}
	if sum+o.DeliveryFee != o.TotalAmount {
		return models.OrderWithItems{}, ErrTotalMismatch
	}

	if o.Status == "" {
		o.Status = statemachine.InitialStatus(s.businessTypeLocked(o.BusinessID))
	}
	if o.PaymentStatus == "" {
		o.PaymentStatus = models.PaymentPending
	}

	s.nextOrderID++
	o.ID = s.nextOrderID
	now := time.Now()
	o.CreatedAt = now
	o.UpdatedAt = now
	o.CompletedAt = nil
	o.DriverID = ""
	s.orders[o.ID] = o

	stored := make([]models.OrderItem, 0, len(items))
	for _, it := range items {
		s.nextItemID++
		it.ID = s.nextItemID
		it.OrderID = o.ID
		stored = append(stored, it)
	}
	s.orderItems[o.ID] = stored

	s.appendHistoryLocked(o.ID, "", o.Status, o.CustomerID, "order placed")

	return s.aggregateLocked(o), nil
}

func (s *MemoryStore) GetOrderWithItems(id uint) (models.OrderWithItems, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return models.OrderWithItems{}, ErrNotFound
	}
	return s.aggregateLocked(o), nil
}

func (s *MemoryStore) OrdersByCustomer(uid string) ([]models.OrderWithItems, error) {
	return s.filterOrders(func(o models.Order) bool { return o.CustomerID == uid })
}

func (s *MemoryStore) OrdersByBusiness(uid string) ([]models.OrderWithItems, error) {
	return s.filterOrders(func(o models.Order) bool { return o.BusinessID == uid })
}

func (s *MemoryStore) OrdersByDriver(uid string) ([]models.OrderWithItems, error) {
	return s.filterOrders(func(o models.Order) bool { return o.DriverID == uid })
}

func (s *MemoryStore) AvailableOrders() ([]models.OrderWithItems, error) {
	return s.filterOrders(func(o models.Order) bool {
		return statemachine.PickupReady(o.Status) && o.DriverID == ""
	})
}

func (s *MemoryStore) UpdateOrderStatus(id uint, upd StatusUpdate) (models.OrderWithItems, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return models.OrderWithItems{}, ErrNotFound
	}

	// Claim check before the transition check: a second driver racing on the
	// same order must see a conflict, not an invalid-transition error.
	if upd.DriverID != "" && o.DriverID != "" && o.DriverID != upd.DriverID {
		return models.OrderWithItems{}, ErrDriverAssigned
	}

	if err := statemachine.CanTransition(o.Status, upd.Status); err != nil {
		return models.OrderWithItems{}, err
	}

	prev := o.Status
	o.Status = upd.Status
	if upd.DriverID != "" && o.DriverID == "" {
		o.DriverID = upd.DriverID
	}
	o.UpdatedAt = time.Now()
	if statemachine.MarksCompletion(o.Status) && o.CompletedAt == nil {
		t := o.UpdatedAt
		o.CompletedAt = &t
	}
	s.orders[id] = o

	if prev != o.Status {
		s.appendHistoryLocked(id, prev, o.Status, upd.ChangedBy, upd.Note)
	}

	return s.aggregateLocked(o), nil
}

// ── Recommendations & favorites ─────────────────────────────────────────────

func (s *MemoryStore) Recommendations(userUID string) ([]models.Recommendation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Recommendation, len(s.catalog))
	copy(out, s.catalog)

	if userUID == "" {
		return out, nil
	}
	id, ok := s.usersByUID[userUID]
	if !ok {
		return out, nil
	}
	return personalize(out, s.users[id].Preferences), nil
}

func (s *MemoryStore) Favorites(userUID string) ([]uint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := []uint{}
	for id, on := range s.favorites[userUID] {
		if on {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *MemoryStore) ToggleFavorite(userUID string, recID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.favorites[userUID]
	if !ok {
		set = make(map[uint]bool)
		s.favorites[userUID] = set
	}
	if set[recID] {
		delete(set, recID)
		return false, nil
	}
	set[recID] = true
	return true, nil
}

// ── internals ───────────────────────────────────────────────────────────────

func (s *MemoryStore) businessTypeLocked(businessUID string) string {
	if id, ok := s.usersByUID[businessUID]; ok {
		return s.users[id].BusinessType
	}
	return ""
}

func (s *MemoryStore) aggregateLocked(o models.Order) models.OrderWithItems {
	items := make([]models.OrderItem, len(s.orderItems[o.ID]))
	copy(items, s.orderItems[o.ID])
	history := make([]models.OrderStatusHistory, len(s.orderHistory[o.ID]))
	copy(history, s.orderHistory[o.ID])
	return models.OrderWithItems{Order: o, Items: items, History: history}
}

func (s *MemoryStore) appendHistoryLocked(orderID uint, from, to models.OrderStatus, by, note string) {
	s.nextHistoryID++
	s.orderHistory[orderID] = append(s.orderHistory[orderID], models.OrderStatusHistory{
		ID:         s.nextHistoryID,
		OrderID:    orderID,
		FromStatus: from,
		ToStatus:   to,
		ChangedBy:  by,
		Note:       note,
		CreatedAt:  time.Now(),
	})
}

func (s *MemoryStore) filterOrders(keep func(models.Order) bool) ([]models.OrderWithItems, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.OrderWithItems{}
	for _, id := range sortedKeys(s.orders) {
		if o := s.orders[id]; keep(o) {
			out = append(out, s.aggregateLocked(o))
		}
	}
	return out, nil
}

func sortedKeys[V any](m map[uint]V) []uint {
	keys := make([]uint, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
