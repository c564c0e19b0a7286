package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopmesh/storefront/internal/domain"
	pkgkafka "github.com/shopmesh/storefront/pkg/kafka"
)

// Kafka topics for storefront activity events.
const (
	TopicCatalogSearched = "storefront.catalog.searched"
	TopicCartItemUpdated = "storefront.cart.item_updated"
	TopicCartItemRemoved = "storefront.cart.item_removed"
	TopicOrderViewed     = "storefront.order.viewed"
)

// Aggregate type constant.
const AggregateTypeSession = "session"

// Source identifier for events originating from the storefront BFF.
const SourceStorefront = "storefront-bff"

// CatalogSearchedData is the payload for a catalog.searched event.
type CatalogSearchedData struct {
	SessionID  string               `json:"session_id"`
	Filter     domain.FilterRequest `json:"filter"`
	TotalPages int                  `json:"total_pages"`
}

// CartItemUpdatedData is the payload for a cart.item_updated event.
type CartItemUpdatedData struct {
	SessionID string `json:"session_id"`
	ItemID    string `json:"item_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CartItemRemovedData is the payload for a cart.item_removed event.
type CartItemRemovedData struct {
	SessionID string `json:"session_id"`
	ItemID    string `json:"item_id"`
}

// OrderViewedData is the payload for an order.viewed event.
type OrderViewedData struct {
	SessionID string `json:"session_id"`
	OrderID   string `json:"order_id"`
}

// Producer publishes storefront activity events to Kafka. Publishing is best
// effort; callers log failures and continue.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the storefront.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishCatalogSearched publishes a catalog.searched event.
func (p *Producer) PublishCatalogSearched(ctx context.Context, sessionID string, filter domain.FilterRequest, totalPages int) error {
	data := CatalogSearchedData{
		SessionID:  sessionID,
		Filter:     filter,
		TotalPages: totalPages,
	}

	event, err := pkgkafka.NewEvent(TopicCatalogSearched, sessionID, AggregateTypeSession, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create catalog.searched event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCatalogSearched, event); err != nil {
		return fmt.Errorf("publish catalog.searched event: %w", err)
	}

	return nil
}

// PublishCartItemUpdated publishes a cart.item_updated event.
func (p *Producer) PublishCartItemUpdated(ctx context.Context, sessionID string, item domain.CartItem) error {
	data := CartItemUpdatedData{
		SessionID: sessionID,
		ItemID:    item.ID,
		ProductID: item.Product.ID,
		Quantity:  item.Quantity,
	}

	event, err := pkgkafka.NewEvent(TopicCartItemUpdated, sessionID, AggregateTypeSession, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.item_updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartItemUpdated, event); err != nil {
		return fmt.Errorf("publish cart.item_updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.item_updated event",
		slog.String("session_id", sessionID),
		slog.String("item_id", item.ID),
		slog.Int("quantity", item.Quantity),
	)

	return nil
}

// PublishCartItemRemoved publishes a cart.item_removed event.
func (p *Producer) PublishCartItemRemoved(ctx context.Context, sessionID, itemID string) error {
	data := CartItemRemovedData{SessionID: sessionID, ItemID: itemID}

	event, err := pkgkafka.NewEvent(TopicCartItemRemoved, sessionID, AggregateTypeSession, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.item_removed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartItemRemoved, event); err != nil {
		return fmt.Errorf("publish cart.item_removed event: %w", err)
	}

	return nil
}

// PublishOrderViewed publishes an order.viewed event.
func (p *Producer) PublishOrderViewed(ctx context.Context, sessionID, orderID string) error {
	data := OrderViewedData{SessionID: sessionID, OrderID: orderID}

	event, err := pkgkafka.NewEvent(TopicOrderViewed, sessionID, AggregateTypeSession, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create order.viewed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderViewed, event); err != nil {
		return fmt.Errorf("publish order.viewed event: %w", err)
	}

	return nil
}
