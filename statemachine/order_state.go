package statemachine

import (
	"fmt"

	"food-marketplace-api/models"
)

// Transition defines a valid state change
type Transition struct {
	From models.OrderStatus `json:"from"`
	To   models.OrderStatus `json:"to"`
}

// validTransitions is the authoritative state machine definition.
// Restaurant orders walk the kitchen path placed → preparing → ready;
// non-restaurant orders start directly at ready_for_pickup. Both converge on
// the driver leg on_the_way → delivered → completed. Cancellation is allowed
// from any non-terminal state and is appended below.
var validTransitions = func() []Transition {
	ts := []Transition{
		{From: models.StatusPlaced, To: models.StatusPreparing},
		{From: models.StatusPreparing, To: models.StatusReady},
		{From: models.StatusReady, To: models.StatusOnTheWay},
		{From: models.StatusReadyForPickup, To: models.StatusOnTheWay},
		{From: models.StatusOnTheWay, To: models.StatusDelivered},
		{From: models.StatusDelivered, To: models.StatusCompleted},
	}
	for _, s := range AllStatuses() {
		if !IsTerminal(s) {
			ts = append(ts, Transition{From: s, To: models.StatusCancelled})
		}
	}
	return ts
}()

type transitionKey struct {
	From models.OrderStatus
	To   models.OrderStatus
}

// Lookup map for O(1) validation
var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To}] = true
	}
	return m
}()

// TransitionError reports a rejected status change.
type TransitionError struct {
	From models.OrderStatus
	To   models.OrderStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid transition: %s → %s (valid next states: %s)",
		e.From, e.To, describeValidFrom(e.From))
}

// AllStatuses returns the closed set of order statuses.
func AllStatuses() []models.OrderStatus {
	return []models.OrderStatus{
		models.StatusPlaced,
		models.StatusReadyForPickup,
		models.StatusPreparing,
		models.StatusReady,
		models.StatusOnTheWay,
		models.StatusDelivered,
		models.StatusCompleted,
		models.StatusCancelled,
	}
}

// ValidStatus reports whether s belongs to the closed status set.
func ValidStatus(s models.OrderStatus) bool {
	for _, v := range AllStatuses() {
		if s == v {
			return true
		}
	}
	return false
}

// InitialStatus picks the entry state for a new order. Businesses without a
// kitchen skip the preparing/ready stages entirely.
func InitialStatus(businessType string) models.OrderStatus {
	if businessType != "" && businessType != "restaurant" {
		return models.StatusReadyForPickup
	}
	return models.StatusPlaced
}

// IsTerminal reports whether no further transition is possible from s.
func IsTerminal(s models.OrderStatus) bool {
	return s == models.StatusCompleted || s == models.StatusCancelled
}

// MarksCompletion reports whether entering s stamps the order's CompletedAt.
// Delivered counts even though delivered → completed is still allowed.
func MarksCompletion(s models.OrderStatus) bool {
	return s == models.StatusDelivered || IsTerminal(s)
}

// PickupReady reports whether a driver may claim an order in state s.
func PickupReady(s models.OrderStatus) bool {
	return s == models.StatusReady || s == models.StatusReadyForPickup
}

// CanTransition checks whether an order may move from one state to another.
// A same-status call is accepted so that repeated submissions stay idempotent.
func CanTransition(from, to models.OrderStatus) error {
	if from == to {
		return nil
	}
	if transitionMap[transitionKey{From: from, To: to}] {
		return nil
	}
	return &TransitionError{From: from, To: to}
}

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

func describeValidFrom(status models.OrderStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	result := ""
	for i, s := range nexts {
		if i > 0 {
			result += ", "
		}
		result += string(s)
	}
	return result
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
