package order

import (
	"errors"
	"testing"

	"maxdoors-backend/internal/models"
)

func TestIsActiveStatus(t *testing.T) {
	active := []models.OrderStatus{models.OrderStatusCreated, models.OrderStatusEditRequested}
	inactive := []models.OrderStatus{models.OrderStatusPacked, models.OrderStatusShipped, models.OrderStatusCancelled}

	for _, st := range active {
		if !IsActiveStatus(st) {
			t.Errorf("IsActiveStatus(%s) = false, beklenen true", st)
		}
	}
	for _, st := range inactive {
		if IsActiveStatus(st) {
			t.Errorf("IsActiveStatus(%s) = true, beklenen false", st)
		}
	}
}

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to models.OrderStatus }{
		{models.OrderStatusCreated, models.OrderStatusPacked},
		{models.OrderStatusCreated, models.OrderStatusCancelled},
		{models.OrderStatusEditRequested, models.OrderStatusPacked},
		{models.OrderStatusEditRequested, models.OrderStatusCancelled},
		{models.OrderStatusPacked, models.OrderStatusShipped},
		{models.OrderStatusPacked, models.OrderStatusCancelled},
	}
	denied := []struct{ from, to models.OrderStatus }{
		{models.OrderStatusCreated, models.OrderStatusShipped},
		{models.OrderStatusCreated, models.OrderStatusEditRequested}, // sadece onay akışıyla
		{models.OrderStatusShipped, models.OrderStatusPacked},
		{models.OrderStatusShipped, models.OrderStatusCancelled},
		{models.OrderStatusCancelled, models.OrderStatusCreated},
		{models.OrderStatusPacked, models.OrderStatusCreated},
	}

	for _, tc := range allowed {
		if !CanTransition(tc.from, tc.to) {
			t.Errorf("CanTransition(%s, %s) = false, beklenen true", tc.from, tc.to)
		}
	}
	for _, tc := range denied {
		if CanTransition(tc.from, tc.to) {
			t.Errorf("CanTransition(%s, %s) = true, beklenen false", tc.from, tc.to)
		}
	}
}

func TestTransitionSentinel(t *testing.T) {
	if err := Transition(models.OrderStatusCreated, models.OrderStatusPacked); err != nil {
		t.Errorf("Transition(created, packed) = %v, beklenen nil", err)
	}

	err := Transition(models.OrderStatusShipped, models.OrderStatusCancelled)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Transition(shipped, cancelled) = %v, beklenen ErrInvalidTransition", err)
	}
}
