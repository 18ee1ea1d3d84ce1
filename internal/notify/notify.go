// Package notify publishes order lifecycle events for kitchen consumers.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/common/mq"
	"restaurant-ordering/internal/domain"
)

// Publisher receives order lifecycle notifications. Publishing is best-effort:
// a failed publish never rolls back the order mutation that triggered it.
type Publisher interface {
	OrderCreated(ctx context.Context, o domain.Order)
	OrderStatusChanged(ctx context.Context, o domain.Order, previous domain.OrderStatus)
}

// Nop is used when RabbitMQ is not configured.
type Nop struct{}

func (Nop) OrderCreated(context.Context, domain.Order)                            {}
func (Nop) OrderStatusChanged(context.Context, domain.Order, domain.OrderStatus) {}

type lineEvent struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type orderEvent struct {
	Event           string      `json:"event"`
	OrderNumber     string      `json:"order_number"`
	CustomerName    string      `json:"customer_name"`
	OrderType       string      `json:"order_type"`
	TableNumber     *string     `json:"table_number,omitempty"`
	DeliveryAddress *string     `json:"delivery_address,omitempty"`
	Items           []lineEvent `json:"items,omitempty"`
	TotalAmount     float64     `json:"total_amount"`
	Status          string      `json:"status"`
	PreviousStatus  string      `json:"previous_status,omitempty"`
	ChangedAt       time.Time   `json:"changed_at"`
}

// Kitchen publishes persistent JSON events to the orders exchange with
// routing key kitchen.<order-type>.<status>.
type Kitchen struct {
	client *mq.Client
	log    *logger.Logger
}

func NewKitchen(client *mq.Client, log *logger.Logger) *Kitchen {
	return &Kitchen{client: client, log: log}
}

func (k *Kitchen) OrderCreated(ctx context.Context, o domain.Order) {
	ev := eventFrom(o)
	ev.Event = "order_created"
	ev.Items = make([]lineEvent, 0, len(o.Items))
	for _, line := range o.Items {
		ev.Items = append(ev.Items, lineEvent{Name: line.Name, Quantity: line.Quantity, Price: line.Price})
	}
	k.publish(ctx, o, ev)
}

func (k *Kitchen) OrderStatusChanged(ctx context.Context, o domain.Order, previous domain.OrderStatus) {
	ev := eventFrom(o)
	ev.Event = "order_status_changed"
	ev.PreviousStatus = string(previous)
	k.publish(ctx, o, ev)
}

func (k *Kitchen) publish(ctx context.Context, o domain.Order, ev orderEvent) {
	body, err := json.Marshal(ev)
	if err != nil {
		k.log.Error("event_marshal_failed", err, map[string]any{"order_number": o.Number})
		return
	}
	key := fmt.Sprintf("kitchen.%s.%s", o.Type, o.Status)
	if err := k.client.PublishPersistent(ctx, key, body); err != nil {
		k.log.Error("event_publish_failed", err, map[string]any{
			"order_number": o.Number, "routing_key": key,
		})
		return
	}
	k.log.Debug("event_published", map[string]any{"order_number": o.Number, "routing_key": key})
}

func eventFrom(o domain.Order) orderEvent {
	return orderEvent{
		OrderNumber:     o.Number,
		CustomerName:    o.CustomerName,
		OrderType:       string(o.Type),
		TableNumber:     o.TableNumber,
		DeliveryAddress: o.DeliveryAddress,
		TotalAmount:     o.TotalAmount,
		Status:          string(o.Status),
		ChangedAt:       time.Now().UTC(),
	}
}
