package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"restaurant-ordering/internal/auth"
	"restaurant-ordering/internal/common/db"
	"restaurant-ordering/internal/common/httpx"
	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/common/mq"
	"restaurant-ordering/internal/config"
	"restaurant-ordering/internal/httpapi"
	"restaurant-ordering/internal/notify"
	menusvc "restaurant-ordering/internal/service/menu"
	ordersvc "restaurant-ordering/internal/service/order"
	statssvc "restaurant-ordering/internal/service/stats"
	tablesvc "restaurant-ordering/internal/service/table"
	usersvc "restaurant-ordering/internal/service/user"
	"restaurant-ordering/internal/storage"
	"restaurant-ordering/internal/storage/memory"
	"restaurant-ordering/internal/storage/postgres"
)

func main() {
	cfgPath := flag.String("config", "", "path to YAML config")
	port := flag.Int("port", 0, "http port (overrides config)")
	flag.Parse()

	lg := logger.New("restaurant-server")

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		lg.Error("config_load_failed", err, nil)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if cfg.Auth.Secret == "" {
		cfg.Auth.Secret = "dev-secret-change-me"
		lg.Warn("auth_secret_defaulted", map[string]any{"hint": "set auth.secret or AUTH_SECRET"})
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var (
		menuStore  storage.MenuStore
		orderStore storage.OrderStore
		tableStore storage.TableStore
		userStore  storage.UserStore
	)
	if cfg.Database.Enabled() {
		conn, err := db.Connect(ctx, cfg.Database)
		if err != nil {
			lg.Error("database_connect_failed", err, nil)
			os.Exit(1)
		}
		defer conn.Close()
		pg := postgres.New(conn)
		if err := pg.EnsureSchema(ctx); err != nil {
			lg.Error("schema_setup_failed", err, nil)
			os.Exit(1)
		}
		menuStore, orderStore, tableStore, userStore = pg, pg, pg, pg
		lg.Info("storage_ready", map[string]any{"backend": "postgres"})
	} else {
		mem := memory.New()
		if err := memory.Seed(mem); err != nil {
			lg.Error("seed_failed", err, nil)
			os.Exit(1)
		}
		menuStore, orderStore, tableStore, userStore = mem, mem, mem, mem
		lg.Info("storage_ready", map[string]any{"backend": "memory"})
	}

	var events notify.Publisher = notify.Nop{}
	if cfg.RabbitMQ.Enabled() {
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
		events = notify.NewKitchen(client, lg)
		lg.Info("kitchen_events_enabled", nil)
	}

	tokens := auth.NewManager(cfg.Auth.Secret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)

	users := usersvc.New(userStore, tokens, logger.New("user"))
	if err := users.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPhone, cfg.Auth.AdminPassword); err != nil {
		lg.Error("admin_bootstrap_failed", err, nil)
		os.Exit(1)
	}

	orders := ordersvc.New(menuStore, orderStore, tableStore, events, logger.New("order"))
	svcs := httpapi.Services{
		Menu:   menusvc.New(menuStore, orderStore, orders.Locker(), logger.New("menu")),
		Orders: orders,
		Tables: tablesvc.New(tableStore, logger.New("table")),
		Users:  users,
		Stats:  statssvc.New(orderStore, menuStore, tableStore),
	}

	handler := httpapi.NewHandler(svcs, tokens, logger.New("httpapi"))
	srv := httpx.New(":"+strconv.Itoa(cfg.Server.Port), handler)

	lg.Info("service_started", map[string]any{"port": cfg.Server.Port})
	if err := srv.Run(ctx); err != nil {
		lg.Error("fatal", err, nil)
		os.Exit(1)
	}
	lg.Info("service_stopped", nil)
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
