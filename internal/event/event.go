package event

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	TypeProductCreated = "PRODUCT_CREATED"
	TypeProductDeleted = "PRODUCT_DELETED"
)

// ProductEvent is the queue wire format for product domain events.
// Payload is present only on PRODUCT_CREATED and carries the name and price
// as they were at creation time.
type ProductEvent struct {
	Type       string         `json:"type"`
	ProductID  int64          `json:"productId"`
	Payload    map[string]any `json:"payload,omitempty"`
	OccurredAt string         `json:"occurredAt"`
}

func NewProductCreated(productID int64, name string, price float64, occurredAt time.Time) ProductEvent {
	return ProductEvent{
		Type:      TypeProductCreated,
		ProductID: productID,
		Payload: map[string]any{
			"name":  name,
			"price": price,
		},
		OccurredAt: occurredAt.UTC().Format(time.RFC3339Nano),
	}
}

func NewProductDeleted(productID int64, occurredAt time.Time) ProductEvent {
	return ProductEvent{
		Type:       TypeProductDeleted,
		ProductID:  productID,
		OccurredAt: occurredAt.UTC().Format(time.RFC3339Nano),
	}
}

// Decode parses a message body into a ProductEvent. A body decodes
// successfully only if it is valid JSON with a non-empty type and a
// non-zero productId.
func Decode(body []byte) (ProductEvent, error) {
	var ev ProductEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return ProductEvent{}, fmt.Errorf("unmarshal product event: %w", err)
	}

	if ev.Type == "" {
		return ProductEvent{}, fmt.Errorf("product event has no type")
	}
	if ev.ProductID == 0 {
		return ProductEvent{}, fmt.Errorf("product event has no productId")
	}

	return ev, nil
}
