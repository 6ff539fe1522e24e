package port

import (
	"context"

	"github.com/nikolayk812/storefront/internal/domain"
)

// SnapshotStore persists the whole cart state under a fixed store name so a
// process restart reconstructs the identical cart.
type SnapshotStore interface {
	// Load returns the stored snapshot, with found=false when nothing has
	// been persisted under the name yet.
	Load(ctx context.Context, storeName string) (snapshot domain.CartSnapshot, found bool, err error)

	// Save replaces the stored snapshot wholesale.
	Save(ctx context.Context, storeName string, snapshot domain.CartSnapshot) error
}
