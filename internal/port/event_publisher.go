package port

import (
	"context"

	"github.com/rl1809/warehouse-orders/internal/core/domain"
)

// EventPublisher emits order lifecycle events after commit. Publish
// failures must not unwind the committed transaction; callers log them.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, ev domain.OrderPlaced) error
	PublishOrderCancelled(ctx context.Context, ev domain.OrderCancelled) error
}
