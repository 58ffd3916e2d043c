package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"food-marketplace-api/models"
	"food-marketplace-api/statemachine"
)

func newTestOrder(customer, business string) (models.Order, []models.OrderItem) {
	order := models.Order{
		CustomerID:      customer,
		BusinessID:      business,
		TotalAmount:     4490,
		DeliveryFee:     2490,
		DeliveryAddress: "Sukhbaatar district, building 12",
		RequestedTime:   "asap",
		PaymentMethod:   models.MethodCard,
	}
	items := []models.OrderItem{
		{ProductID: 1, Name: "Beef Buuz", Quantity: 2, Price: 1000},
	}
	return order, items
}

func mustCreate(t *testing.T, s *MemoryStore, customer, business string) models.OrderWithItems {
	t.Helper()
	order, items := newTestOrder(customer, business)
	created, err := s.CreateOrder(order, items)
	require.NoError(t, err)
	return created
}

func TestCreateOrderAggregate(t *testing.T) {
	s := NewMemoryStore()

	first := mustCreate(t, s, "cust-1", "biz-1")
	second := mustCreate(t, s, "cust-2", "biz-1")
	assert.NotEqual(t, first.ID, second.ID)

	got, err := s.GetOrderWithItems(first.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4490), got.TotalAmount)
	require.Len(t, got.Items, 1)
	assert.Equal(t, first.ID, got.Items[0].OrderID)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.Equal(t, int64(1000), got.Items[0].Price)

	// placed by an unknown business defaults to the kitchen path
	assert.Equal(t, models.StatusPlaced, got.Status)
	assert.Nil(t, got.CompletedAt)
	assert.Empty(t, got.DriverID)

	// creation leaves an initial history row
	require.Len(t, got.History, 1)
	assert.Equal(t, models.StatusPlaced, got.History[0].ToStatus)
}

func TestCreateOrderTotalMismatch(t *testing.T) {
	s := NewMemoryStore()
	order, items := newTestOrder("cust-1", "biz-1")
	order.TotalAmount = 5000 // items sum 2000 + fee 2490 = 4490

	_, err := s.CreateOrder(order, items)
	assert.ErrorIs(t, err, ErrTotalMismatch)
}

func TestInitialStatusFollowsBusinessType(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.CreateUser(models.User{UID: "biz-rest", Role: models.RoleBusiness, Name: "Buuz House", BusinessType: "restaurant"})
	require.NoError(t, err)
	_, err = s.CreateUser(models.User{UID: "biz-shop", Role: models.RoleBusiness, Name: "Corner Shop", BusinessType: "grocery"})
	require.NoError(t, err)

	fromKitchen := mustCreate(t, s, "cust-1", "biz-rest")
	assert.Equal(t, models.StatusPlaced, fromKitchen.Status)

	fromShelf := mustCreate(t, s, "cust-1", "biz-shop")
	assert.Equal(t, models.StatusReadyForPickup, fromShelf.Status)
}

func TestGetOrderNotFound(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.GetOrderWithItems(42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCompletedAtLifecycle(t *testing.T) {
	s := NewMemoryStore()
	order := mustCreate(t, s, "cust-1", "biz-1")
	assert.Nil(t, order.CompletedAt)

	step := func(status models.OrderStatus, driver string) models.OrderWithItems {
		got, err := s.UpdateOrderStatus(order.ID, StatusUpdate{Status: status, DriverID: driver})
		require.NoError(t, err)
		return got
	}

	assert.Nil(t, step(models.StatusPreparing, "").CompletedAt)
	assert.Nil(t, step(models.StatusReady, "").CompletedAt)
	assert.Nil(t, step(models.StatusOnTheWay, "drv-1").CompletedAt)

	delivered := step(models.StatusDelivered, "")
	require.NotNil(t, delivered.CompletedAt)
	stamp := *delivered.CompletedAt

	// delivered → completed keeps the original stamp, it never reverts
	completed := step(models.StatusCompleted, "")
	require.NotNil(t, completed.CompletedAt)
	assert.Equal(t, stamp, *completed.CompletedAt)
}

func TestCancelStampsCompletedAt(t *testing.T) {
	s := NewMemoryStore()
	order := mustCreate(t, s, "cust-1", "biz-1")

	got, err := s.UpdateOrderStatus(order.ID, StatusUpdate{Status: models.StatusCancelled, ChangedBy: "cust-1"})
	require.NoError(t, err)
	assert.NotNil(t, got.CompletedAt)
}

func TestIllegalTransitionRejected(t *testing.T) {
	s := NewMemoryStore()
	order := mustCreate(t, s, "cust-1", "biz-1")

	_, err := s.UpdateOrderStatus(order.ID, StatusUpdate{Status: models.StatusDelivered})
	var te *statemachine.TransitionError
	require.ErrorAs(t, err, &te)

	// the rejected write must not leak through
	got, err := s.GetOrderWithItems(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPlaced, got.Status)
}

func TestSameStatusIsIdempotent(t *testing.T) {
	s := NewMemoryStore()
	order := mustCreate(t, s, "cust-1", "biz-1")

	first, err := s.UpdateOrderStatus(order.ID, StatusUpdate{Status: models.StatusPreparing})
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	second, err := s.UpdateOrderStatus(order.ID, StatusUpdate{Status: models.StatusPreparing})
	require.NoError(t, err)

	assert.Equal(t, first.Status, second.Status)
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
	// no extra history row for the no-op
	assert.Len(t, second.History, len(first.History))
}

func TestDriverClaim(t *testing.T) {
	s := NewMemoryStore()
	order := mustCreate(t, s, "cust-1", "biz-1")

	for _, status := range []models.OrderStatus{models.StatusPreparing, models.StatusReady} {
		_, err := s.UpdateOrderStatus(order.ID, StatusUpdate{Status: status})
		require.NoError(t, err)
	}

	claimed, err := s.UpdateOrderStatus(order.ID, StatusUpdate{Status: models.StatusOnTheWay, DriverID: "drv-1"})
	require.NoError(t, err)
	assert.Equal(t, "drv-1", claimed.DriverID)

	// a second driver cannot steal the order
	_, err = s.UpdateOrderStatus(order.ID, StatusUpdate{Status: models.StatusOnTheWay, DriverID: "drv-2"})
	assert.ErrorIs(t, err, ErrDriverAssigned)

	// the assigned driver keeps working it
	done, err := s.UpdateOrderStatus(order.ID, StatusUpdate{Status: models.StatusDelivered, DriverID: "drv-1"})
	require.NoError(t, err)
	assert.Equal(t, "drv-1", done.DriverID)
}

func TestAvailableOrders(t *testing.T) {
	s := NewMemoryStore()

	// empty store returns an empty sequence, not an error
	available, err := s.AvailableOrders()
	require.NoError(t, err)
	assert.Empty(t, available)

	ready := mustCreate(t, s, "cust-1", "biz-1")
	for _, status := range []models.OrderStatus{models.StatusPreparing, models.StatusReady} {
		_, err = s.UpdateOrderStatus(ready.ID, StatusUpdate{Status: status})
		require.NoError(t, err)
	}
	stillPlaced := mustCreate(t, s, "cust-2", "biz-1")

	available, err = s.AvailableOrders()
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, ready.ID, available[0].ID)
	assert.NotEqual(t, stillPlaced.ID, available[0].ID)

	// claiming removes it from the pool
	_, err = s.UpdateOrderStatus(ready.ID, StatusUpdate{Status: models.StatusOnTheWay, DriverID: "drv-1"})
	require.NoError(t, err)

	available, err = s.AvailableOrders()
	require.NoError(t, err)
	for _, o := range available {
		assert.Empty(t, o.DriverID)
	}
	assert.Empty(t, available)
}

func TestRoleScopedQueries(t *testing.T) {
	s := NewMemoryStore()
	mustCreate(t, s, "cust-1", "biz-1")
	mustCreate(t, s, "cust-1", "biz-2")
	other := mustCreate(t, s, "cust-2", "biz-1")

	for _, status := range []models.OrderStatus{models.StatusPreparing, models.StatusReady, models.StatusOnTheWay} {
		_, err := s.UpdateOrderStatus(other.ID, StatusUpdate{Status: status, DriverID: "drv-1"})
		require.NoError(t, err)
	}

	byCustomer, err := s.OrdersByCustomer("cust-1")
	require.NoError(t, err)
	require.Len(t, byCustomer, 2)
	for _, o := range byCustomer {
		assert.Equal(t, "cust-1", o.CustomerID)
	}

	byBusiness, err := s.OrdersByBusiness("biz-1")
	require.NoError(t, err)
	require.Len(t, byBusiness, 2)
	for _, o := range byBusiness {
		assert.Equal(t, "biz-1", o.BusinessID)
	}

	byDriver, err := s.OrdersByDriver("drv-1")
	require.NoError(t, err)
	require.Len(t, byDriver, 1)
	assert.Equal(t, other.ID, byDriver[0].ID)
}

func TestUserStore(t *testing.T) {
	s := NewMemoryStore()

	created, err := s.CreateUser(models.User{UID: "u-1", Role: models.RoleCustomer, Name: "Bat", Preferences: []string{"spicy"}})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	_, err = s.CreateUser(models.User{UID: "u-1", Role: models.RoleCustomer, Name: "Copycat"})
	assert.ErrorIs(t, err, ErrDuplicateUID)

	byUID, err := s.GetUserByUID("u-1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byUID.ID)

	name := "Bat-Erdene"
	prefs := []string{"spicy", "noodles"}
	updated, err := s.UpdateUser(created.ID, UserUpdate{Name: &name, Preferences: &prefs})
	require.NoError(t, err)
	assert.Equal(t, "Bat-Erdene", updated.Name)
	assert.Equal(t, prefs, updated.Preferences)
	// untouched fields survive a partial update
	assert.Equal(t, models.RoleCustomer, updated.Role)

	_, err = s.GetUser(999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductStore(t *testing.T) {
	s := NewMemoryStore()

	p1, err := s.CreateProduct(models.Product{BusinessID: "biz-1", Name: "Khuushuur", Price: 1500, Available: true})
	require.NoError(t, err)
	_, err = s.CreateProduct(models.Product{BusinessID: "biz-2", Name: "Pizza", Price: 12000, Available: true})
	require.NoError(t, err)

	list, err := s.ProductsByBusiness("biz-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, p1.ID, list[0].ID)

	off := false
	updated, err := s.UpdateProduct(p1.ID, ProductUpdate{Available: &off})
	require.NoError(t, err)
	assert.False(t, updated.Available)
	assert.Equal(t, int64(1500), updated.Price)

	require.NoError(t, s.DeleteProduct(p1.ID))
	assert.ErrorIs(t, s.DeleteProduct(p1.ID), ErrNotFound)
}

func TestFavoritesToggleIsItsOwnInverse(t *testing.T) {
	s := NewMemoryStore()

	on, err := s.ToggleFavorite("u-1", 3)
	require.NoError(t, err)
	assert.True(t, on)

	favs, err := s.Favorites("u-1")
	require.NoError(t, err)
	assert.Equal(t, []uint{3}, favs)

	off, err := s.ToggleFavorite("u-1", 3)
	require.NoError(t, err)
	assert.False(t, off)

	favs, err = s.Favorites("u-1")
	require.NoError(t, err)
	assert.Empty(t, favs)
}

func TestRecommendationsPersonalization(t *testing.T) {
	s := NewMemoryStore()

	baseline, err := s.Recommendations("")
	require.NoError(t, err)
	require.NotEmpty(t, baseline)

	// unknown user gets catalog order
	unknown, err := s.Recommendations("nobody")
	require.NoError(t, err)
	assert.Equal(t, baseline, unknown)

	_, err = s.CreateUser(models.User{UID: "u-veg", Role: models.RoleCustomer, Name: "Veggie", Preferences: []string{"vegetarian"}})
	require.NoError(t, err)

	personalized, err := s.Recommendations("u-veg")
	require.NoError(t, err)
	require.Len(t, personalized, len(baseline))

	// every vegetarian-tagged record sorts ahead of the rest, ties keep
	// catalog order
	hasTag := func(r models.Recommendation) bool {
		for _, tag := range r.Tags {
			if tag == "vegetarian" {
				return true
			}
		}
		return false
	}
	seenMiss := false
	var lastMatchID, lastMissID uint
	for _, r := range personalized {
		if hasTag(r) {
			assert.False(t, seenMiss, "matching record %d after non-matching", r.ID)
			assert.Greater(t, r.ID, lastMatchID, "ties must keep catalog order")
			lastMatchID = r.ID
		} else {
			seenMiss = true
			assert.Greater(t, r.ID, lastMissID, "ties must keep catalog order")
			lastMissID = r.ID
		}
	}
}
