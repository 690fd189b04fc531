package order

import (
	"errors"
	"fmt"

	"maxdoors-backend/internal/models"
)

var (
	ErrOrderNotActive    = errors.New("sipariş aktif durumda değil, kalem düzenlenemez")
	ErrInvalidTransition = errors.New("geçersiz durum geçişi")
)

// IsActiveStatus: kalemleri düzenlenebilen, stok etkisi gerçek zamanlı işleyen durumlar
func IsActiveStatus(st models.OrderStatus) bool {
	return st == models.OrderStatusCreated || st == models.OrderStatusEditRequested
}

// Durum makinesi. edit_requested'a geçiş burada yok: o geçiş sadece onaylanmış
// düzenleme talebi üzerinden yapılır (edit_request_handler).
var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusCreated:       {models.OrderStatusPacked, models.OrderStatusCancelled},
	models.OrderStatusEditRequested: {models.OrderStatusPacked, models.OrderStatusCancelled},
	models.OrderStatusPacked:        {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped:       {},
	models.OrderStatusCancelled:     {},
}

func CanTransition(from, to models.OrderStatus) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Transition: geçiş kuralını uygular, izin yoksa ErrInvalidTransition döner
func Transition(from, to models.OrderStatus) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s durumundan %s durumuna geçilemez", ErrInvalidTransition, from, to)
	}
	return nil
}
