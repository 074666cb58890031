package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCart_Totals(t *testing.T) {
	cart := &Cart{ID: "c1", Items: []CartItem{
		{ProductID: "a", Price: 10, Quantity: 2},
		{ProductID: "b", Price: 2.5, Quantity: 4},
	}}

	assert.InDelta(t, 30.0, cart.Total(), 0.0001)
	assert.Equal(t, 6, cart.Count())
	assert.False(t, cart.IsEmpty())
}

func TestCart_IsEmpty(t *testing.T) {
	var nilCart *Cart
	assert.True(t, nilCart.IsEmpty())
	assert.True(t, (&Cart{}).IsEmpty())
}

func TestSession_IsExpired(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{"no expiry", time.Time{}, false},
		{"future", now.Add(time.Minute), false},
		{"exactly now", now, true},
		{"past", now.Add(-time.Minute), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Session{ExpiresAt: tt.expiresAt}
			assert.Equal(t, tt.want, s.IsExpired(now))
		})
	}
}
