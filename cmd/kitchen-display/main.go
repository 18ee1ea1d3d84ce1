// kitchen-display consumes order events from the kitchen queue and prints
// them as structured tickets. It is a read-only companion to the main server
// and requires RabbitMQ to be configured.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/common/mq"
	"restaurant-ordering/internal/config"
)

const kitchenQueue = "kitchen.q"

type ticketLine struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type ticket struct {
	Event          string       `json:"event"`
	OrderNumber    string       `json:"order_number"`
	CustomerName   string       `json:"customer_name"`
	OrderType      string       `json:"order_type"`
	TableNumber    *string      `json:"table_number"`
	Items          []ticketLine `json:"items"`
	TotalAmount    float64      `json:"total_amount"`
	Status         string       `json:"status"`
	PreviousStatus string       `json:"previous_status"`
}

func main() {
	cfgPath := flag.String("config", "", "path to YAML config")
	prefetch := flag.Int("prefetch", 10, "max unacked messages")
	flag.Parse()

	lg := logger.New("kitchen-display")

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		lg.Error("config_load_failed", err, nil)
		os.Exit(1)
	}
	if !cfg.RabbitMQ.Enabled() {
		lg.Error("rabbitmq_not_configured", errors.New("rabbitmq.host is empty"), nil)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client, err := mq.Dial(cfg.RabbitMQ)
	if err != nil {
		lg.Error("rabbitmq_connect_failed", err, nil)
		os.Exit(1)
	}
	defer client.Close()
	if err := client.DeclareTopology(); err != nil {
		lg.Error("rabbitmq_declare_failed", err, nil)
		os.Exit(1)
	}

	deliveries, err := client.Consume(ctx, kitchenQueue, *prefetch)
	if err != nil {
		lg.Error("consume_failed", err, nil)
		os.Exit(1)
	}
	lg.Info("service_started", map[string]any{"queue": kitchenQueue})

	for {
		select {
		case <-ctx.Done():
			lg.Info("service_stopped", nil)
			return
		case d, ok := <-deliveries:
			if !ok {
				lg.Info("channel_closed", nil)
				return
			}
			handle(lg, d.Body, d.RoutingKey)
			_ = d.Ack(false)
		}
	}
}

func handle(lg *logger.Logger, body []byte, key string) {
	var t ticket
	if err := json.Unmarshal(body, &t); err != nil {
		lg.Error("ticket_decode_failed", err, map[string]any{"routing_key": key})
		return
	}
	fields := map[string]any{
		"order_number": t.OrderNumber,
		"customer":     t.CustomerName,
		"order_type":   t.OrderType,
		"status":       t.Status,
		"total_amount": t.TotalAmount,
		"items":        len(t.Items),
	}
	if t.TableNumber != nil {
		fields["table"] = *t.TableNumber
	}
	if t.PreviousStatus != "" {
		fields["previous_status"] = t.PreviousStatus
	}
	lg.Info(t.Event, fields)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		found, err := config.FindConfig()
		if errors.Is(err, fs.ErrNotExist) {
			return config.FromEnv(), nil
		}
		if err != nil {
			return nil, err
		}
		path = found
	}
	return config.Load(path)
}
