package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/sirupsen/logrus"
)

// Store is the single source of truth for the shopping cart. Mutations are
// applied under the store mutex, persisted to the snapshot store under the
// fixed store name, and then published synchronously to subscribers as
// deep-copied snapshots, so no observer ever sees a torn line list.
//
// Mutations are total: invalid numeric input is sanitized, unknown product
// ids are no-ops. A persistence failure is logged and swallowed so the
// in-memory cart keeps working; the next successful mutation re-persists the
// full state anyway.
type Store struct {
	name      string
	snapshots port.SnapshotStore
	logger    *logrus.Entry

	mu     sync.Mutex
	state  domain.CartSnapshot
	subs   map[int]func(domain.CartSnapshot)
	nextID int
}

// New rehydrates the store from persistence; a missing snapshot yields the
// empty state.
func New(ctx context.Context, name string, snapshots port.SnapshotStore, logger *logrus.Entry) (*Store, error) {
	if name == "" {
		return nil, fmt.Errorf("name is empty")
	}
	if snapshots == nil {
		return nil, fmt.Errorf("snapshots is nil")
	}
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}

	snapshot, found, err := snapshots.Load(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("snapshots.Load: %w", err)
	}
	if !found {
		snapshot = domain.CartSnapshot{}
	}

	return &Store{
		name:      name,
		snapshots: snapshots,
		logger:    logger,
		state:     snapshot,
		subs:      make(map[int]func(domain.CartSnapshot)),
	}, nil
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() domain.CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.Clone()
}

// Subscribe registers fn to be called synchronously after every mutation and
// returns an unsubscribe func.
func (s *Store) Subscribe(fn func(domain.CartSnapshot)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// AddToCart increments the existing line for the product, clamped to its
// stock quantity, or appends a new line with quantity 1.
func (s *Store) AddToCart(ctx context.Context, product domain.Product) {
	s.mutate(ctx, func(state *domain.CartSnapshot) {
		for i, line := range state.Lines {
			if line.Product.ID == product.ID {
				state.Lines[i].Quantity = min(line.Quantity+1, product.StockQty)
				return
			}
		}
		state.Lines = append(state.Lines, domain.CartLine{Product: product, Quantity: 1})
	})
}

// UpdateQuantity floors quantity to 1, clamps it to the line's stock quantity
// and drops any line whose resulting quantity is not positive. An unknown
// product id is a no-op.
func (s *Store) UpdateQuantity(ctx context.Context, productID int64, quantity int) {
	s.mutate(ctx, func(state *domain.CartSnapshot) {
		sanitized := max(1, quantity)

		kept := state.Lines[:0]
		for _, line := range state.Lines {
			if line.Product.ID == productID {
				line.Quantity = min(sanitized, line.Product.StockQty)
			}
			if line.Quantity > 0 {
				kept = append(kept, line)
			}
		}
		state.Lines = kept
	})
}

// RemoveFromCart removes the line for the product id if present.
func (s *Store) RemoveFromCart(ctx context.Context, productID int64) {
	s.mutate(ctx, func(state *domain.CartSnapshot) {
		kept := state.Lines[:0]
		for _, line := range state.Lines {
			if line.Product.ID != productID {
				kept = append(kept, line)
			}
		}
		state.Lines = kept
	})
}

// ClearCart empties the line sequence. Sidebar flag and last order id survive.
func (s *Store) ClearCart(ctx context.Context) {
	s.mutate(ctx, func(state *domain.CartSnapshot) {
		state.Lines = nil
	})
}

// ToggleSidebar flips the sidebar visibility flag.
func (s *Store) ToggleSidebar(ctx context.Context) {
	s.mutate(ctx, func(state *domain.CartSnapshot) {
		state.SidebarOpen = !state.SidebarOpen
	})
}

// SetSidebarOpen sets the sidebar visibility flag.
func (s *Store) SetSidebarOpen(ctx context.Context, open bool) {
	s.mutate(ctx, func(state *domain.CartSnapshot) {
		state.SidebarOpen = open
	})
}

// SetLastOrderID records the most recently created order's identifier.
func (s *Store) SetLastOrderID(ctx context.Context, id int64) {
	s.mutate(ctx, func(state *domain.CartSnapshot) {
		state.LastOrderID = id
	})
}

// ClearLastOrderID forgets the most recently created order.
func (s *Store) ClearLastOrderID(ctx context.Context) {
	s.mutate(ctx, func(state *domain.CartSnapshot) {
		state.LastOrderID = 0
	})
}

func (s *Store) mutate(ctx context.Context, fn func(*domain.CartSnapshot)) {
	s.mu.Lock()

	fn(&s.state)

	if err := s.snapshots.Save(ctx, s.name, s.state.Clone()); err != nil {
		s.logger.WithError(err).WithField("store", s.name).Error("failed to persist cart snapshot")
	}

	published := s.state.Clone()
	subs := make([]func(domain.CartSnapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(published)
	}
}
