// Package httpapi is the REST facade over the services. Every response uses
// the {success, message, data, count} envelope.
package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"restaurant-ordering/internal/apperr"
	"restaurant-ordering/internal/auth"
	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/domain"
	"restaurant-ordering/internal/metrics"
	menusvc "restaurant-ordering/internal/service/menu"
	ordersvc "restaurant-ordering/internal/service/order"
	statssvc "restaurant-ordering/internal/service/stats"
	tablesvc "restaurant-ordering/internal/service/table"
	usersvc "restaurant-ordering/internal/service/user"
)

const serviceVersion = "1.0.0"

type handler struct {
	menu   *menusvc.Service
	orders *ordersvc.Service
	tables *tablesvc.Service
	users  *usersvc.Service
	stats  *statssvc.Service
	tokens *auth.Manager
	log    *logger.Logger
}

type Services struct {
	Menu   *menusvc.Service
	Orders *ordersvc.Service
	Tables *tablesvc.Service
	Users  *usersvc.Service
	Stats  *statssvc.Service
}

// NewHandler builds the full routing table with CORS, logging and metrics
// middleware applied.
func NewHandler(svcs Services, tokens *auth.Manager, log *logger.Logger) http.Handler {
	if log == nil {
		log = logger.New("httpapi")
	}
	h := &handler{
		menu:   svcs.Menu,
		orders: svcs.Orders,
		tables: svcs.Tables,
		users:  svcs.Users,
		stats:  svcs.Stats,
		tokens: tokens,
		log:    log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", h.health)
	mux.HandleFunc("/api/menu", h.menuList)
	mux.HandleFunc("/api/menu/", h.menuResources)
	mux.HandleFunc("/api/orders", h.ordersCollection)
	mux.HandleFunc("/api/orders/", h.orderResources)
	mux.HandleFunc("/api/tables", h.tablesList)
	mux.HandleFunc("/api/tables/reserve", h.tableReserve)
	mux.HandleFunc("/api/tables/free", h.tableFree)
	mux.HandleFunc("/api/stats", h.statsSnapshot)
	mux.HandleFunc("/api/users/register", h.userRegister)
	mux.HandleFunc("/api/users/login", h.userLogin)
	mux.HandleFunc("/api/users/", h.userResources)
	mux.HandleFunc("/api/admin/menu", h.requireAdmin(h.adminMenuAdd))
	mux.HandleFunc("/api/admin/menu/", h.requireAdmin(h.adminMenuItem))
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeNotFoundRoute(w)
	})

	return metricsMiddleware(h.logMiddleware(corsMiddleware(mux)))
}

// Health ------------------------------------------------------------------

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	items, err := h.menu.List(r.Context(), menusvc.Filter{})
	if err != nil {
		writeError(w, err)
		return
	}
	orders, err := h.orders.List(r.Context(), ordersvc.Filter{})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response{Success: true, Data: map[string]any{
		"status":    "healthy",
		"service":   "Restaurant Ordering System",
		"version":   serviceVersion,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"menuItems": len(items),
		"orders":    len(orders),
	}})
}

// Menu --------------------------------------------------------------------

func (h *handler) menuList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	q := r.URL.Query()
	items, err := h.menu.List(r.Context(), menusvc.Filter{
		Category:   q.Get("category"),
		Vegetarian: q.Get("vegetarian") == "true",
		Available:  q.Get("available") == "true",
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, items, len(items))
}

func (h *handler) menuResources(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/menu"), "/")
	parts := strings.SplitN(rest, "/", 2)

	switch {
	case parts[0] == "categories":
		categories, err := h.menu.Categories(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, "", categories)

	case parts[0] == "search" && len(parts) == 2:
		results, err := h.menu.Search(r.Context(), parts[1])
		if err != nil {
			writeError(w, err)
			return
		}
		writeList(w, results, len(results))

	default:
		id, err := strconv.Atoi(parts[0])
		if err != nil {
			writeNotFoundRoute(w)
			return
		}
		item, err := h.menu.Get(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, "", item)
	}
}

// Orders ------------------------------------------------------------------

type createOrderRequest struct {
	CustomerName        string `json:"customerName"`
	CustomerPhone       string `json:"customerPhone"`
	CustomerEmail       string `json:"customerEmail"`
	Items               []struct {
		ItemID   int `json:"itemId"`
		Quantity int `json:"quantity"`
	} `json:"items"`
	TableNumber         string `json:"tableNumber"`
	DeliveryAddress     string `json:"deliveryAddress"`
	OrderType           string `json:"orderType"`
	SpecialInstructions string `json:"specialInstructions"`
}

func (h *handler) ordersCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req createOrderRequest
		if err := decodeJSON(r.Body, &req); err != nil {
			writeError(w, err)
			return
		}
		params := ordersvc.CreateParams{
			CustomerName:        req.CustomerName,
			CustomerPhone:       req.CustomerPhone,
			CustomerEmail:       req.CustomerEmail,
			OrderType:           req.OrderType,
			TableNumber:         req.TableNumber,
			DeliveryAddress:     req.DeliveryAddress,
			SpecialInstructions: req.SpecialInstructions,
		}
		for _, it := range req.Items {
			params.Items = append(params.Items, ordersvc.LineParams{ItemID: it.ItemID, Quantity: it.Quantity})
		}
		created, err := h.orders.Create(r.Context(), params)
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusCreated, "Order created successfully", created)

	case http.MethodGet:
		q := r.URL.Query()
		orders, err := h.orders.List(r.Context(), ordersvc.Filter{
			Status: q.Get("status"),
			Phone:  q.Get("phone"),
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeList(w, orders, len(orders))

	default:
		writeMethodNotAllowed(w)
	}
}

func (h *handler) orderResources(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/orders"), "/")
	parts := strings.Split(rest, "/")
	if len(parts) == 0 || parts[0] == "" {
		writeNotFoundRoute(w)
		return
	}
	id := parts[0]

	if len(parts) == 1 {
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w)
			return
		}
		o, err := h.orders.Get(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, "", o)
		return
	}

	if len(parts) != 2 || r.Method != http.MethodPatch {
		writeNotFoundRoute(w)
		return
	}
	switch parts[1] {
	case "status":
		var req struct {
			Status string `json:"status"`
		}
		if err := decodeJSON(r.Body, &req); err != nil {
			writeError(w, err)
			return
		}
		updated, err := h.orders.UpdateStatus(r.Context(), id, domain.OrderStatus(req.Status))
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, "Order status updated to "+req.Status, updated)

	case "payment":
		var req struct {
			PaymentStatus string `json:"paymentStatus"`
		}
		if err := decodeJSON(r.Body, &req); err != nil {
			writeError(w, err)
			return
		}
		updated, err := h.orders.UpdatePayment(r.Context(), id, domain.PaymentStatus(req.PaymentStatus))
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, "Payment status updated to "+req.PaymentStatus, updated)

	default:
		writeNotFoundRoute(w)
	}
}

// Tables ------------------------------------------------------------------

func (h *handler) tablesList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	minSeats := 0
	if v := r.URL.Query().Get("seats"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, apperr.Validationf("seats must be an integer"))
			return
		}
		minSeats = n
	}
	tables, err := h.tables.ListAvailable(r.Context(), minSeats)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, tables, len(tables))
}

type tableRequest struct {
	TableNumber string `json:"tableNumber"`
}

func (h *handler) tableReserve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	var req tableRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeError(w, err)
		return
	}
	t, err := h.tables.Reserve(r.Context(), req.TableNumber)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "Table "+req.TableNumber+" reserved successfully", t)
}

func (h *handler) tableFree(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	var req tableRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeError(w, err)
		return
	}
	t, err := h.tables.Free(r.Context(), req.TableNumber)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "Table "+req.TableNumber+" freed successfully", t)
}

// Stats -------------------------------------------------------------------

func (h *handler) statsSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	st, err := h.stats.Snapshot(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "", st)
}

// Users -------------------------------------------------------------------

func (h *handler) userRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r.Body, &req); err != nil {
		writeError(w, err)
		return
	}
	u, err := h.users.Register(r.Context(), usersvc.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, "User registered successfully", u)
}

func (h *handler) userLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	var req struct {
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r.Body, &req); err != nil {
		writeError(w, err)
		return
	}
	u, token, err := h.users.Login(r.Context(), req.Email, req.Phone, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "Login successful", map[string]any{
		"user":  u,
		"token": token,
	})
}

func (h *handler) userResources(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/users"), "/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[1] != "orders" || r.Method != http.MethodGet {
		writeNotFoundRoute(w)
		return
	}
	u, err := h.users.Get(r.Context(), parts[0])
	if err != nil {
		writeError(w, err)
		return
	}
	orders, err := h.orders.ListForCustomer(r.Context(), u.Phone, u.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, orders, len(orders))
}

// Admin menu --------------------------------------------------------------

type menuItemPayload struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Image       *string  `json:"image"`
	Available   *bool    `json:"available"`
	Vegetarian  *bool    `json:"vegetarian"`
	Spicy       *bool    `json:"spicy"`
	Rating      *float64 `json:"rating"`
}

func (h *handler) adminMenuAdd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	var req menuItemPayload
	if err := decodeJSON(r.Body, &req); err != nil {
		writeError(w, err)
		return
	}
	params := menusvc.AddParams{Available: req.Available}
	if req.Name != nil {
		params.Name = *req.Name
	}
	if req.Description != nil {
		params.Description = *req.Description
	}
	if req.Price != nil {
		params.Price = *req.Price
	}
	if req.Category != nil {
		params.Category = *req.Category
	}
	if req.Image != nil {
		params.Image = *req.Image
	}
	if req.Vegetarian != nil {
		params.Vegetarian = *req.Vegetarian
	}
	if req.Spicy != nil {
		params.Spicy = *req.Spicy
	}
	created, err := h.menu.Add(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, "Menu item added successfully", created)
}

func (h *handler) adminMenuItem(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/admin/menu"), "/")
	id, err := strconv.Atoi(rest)
	if err != nil {
		writeNotFoundRoute(w)
		return
	}

	switch r.Method {
	case http.MethodPut:
		var req menuItemPayload
		if err := decodeJSON(r.Body, &req); err != nil {
			writeError(w, err)
			return
		}
		updated, err := h.menu.Update(r.Context(), id, menusvc.Patch{
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			Category:    req.Category,
			Image:       req.Image,
			Available:   req.Available,
			Vegetarian:  req.Vegetarian,
			Spicy:       req.Spicy,
			Rating:      req.Rating,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, "Menu item updated successfully", updated)

	case http.MethodDelete:
		deleted, err := h.menu.Delete(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, "Menu item deleted successfully", deleted)

	default:
		writeMethodNotAllowed(w)
	}
}
