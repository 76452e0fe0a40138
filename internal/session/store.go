package session

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/serenity-pos/api/internal/checkout"
)

var ErrNotFound = errors.New("cart session not found")

// Store is the in-memory cart registry. Update holds the write lock across
// the whole mutation, so each cart edit is one serialized recompute and no
// reader ever sees a partial snapshot.
type Store struct {
	mu    sync.RWMutex
	carts map[uuid.UUID]checkout.Cart
}

func NewStore() *Store {
	return &Store{carts: make(map[uuid.UUID]checkout.Cart)}
}

// Create registers a new empty cart against the given rates snapshot.
func (s *Store) Create(rates checkout.Rates) checkout.Cart {
	cart := checkout.NewCart(rates)
	s.mu.Lock()
	s.carts[cart.ID] = cart
	s.mu.Unlock()
	return cart
}

// Exists reports whether a cart session is registered.
func (s *Store) Exists(id uuid.UUID) bool {
	s.mu.RLock()
	_, ok := s.carts[id]
	s.mu.RUnlock()
	return ok
}

func (s *Store) Get(id uuid.UUID) (checkout.Cart, error) {
	s.mu.RLock()
	cart, ok := s.carts[id]
	s.mu.RUnlock()
	if !ok {
		return checkout.Cart{}, ErrNotFound
	}
	return cart, nil
}

// Update applies fn to the cart and stores the result. When fn returns an
// error the stored cart is left unchanged.
func (s *Store) Update(id uuid.UUID, fn func(checkout.Cart) (checkout.Cart, error)) (checkout.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[id]
	if !ok {
		return checkout.Cart{}, ErrNotFound
	}
	next, err := fn(cart)
	if err != nil {
		return checkout.Cart{}, err
	}
	s.carts[id] = next
	return next, nil
}

func (s *Store) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.carts[id]; !ok {
		return ErrNotFound
	}
	delete(s.carts, id)
	return nil
}
