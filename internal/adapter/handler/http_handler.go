package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/rl1809/warehouse-orders/internal/core/domain"
	"github.com/rl1809/warehouse-orders/internal/core/service"
)

type HTTPHandler struct {
	orders  *service.OrderService
	reports *service.ReportingService
	logger  *zap.Logger
}

func NewHTTPHandler(orders *service.OrderService, reports *service.ReportingService, logger *zap.Logger) *HTTPHandler {
	return &HTTPHandler{orders: orders, reports: reports, logger: logger}
}

// Register wires all routes onto the mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.HealthCheck)

	mux.HandleFunc("POST /api/orders", h.PlaceOrder)
	mux.HandleFunc("PUT /api/orders/{id}/cancel", h.CancelOrder)

	mux.HandleFunc("GET /api/orders", h.ListOrders)
	mux.HandleFunc("GET /api/orders/recent", h.RecentOrders)
	mux.HandleFunc("GET /api/orders/{id}", h.GetOrder)
	mux.HandleFunc("GET /api/orderItems/{id}", h.ListOrderItems)
	mux.HandleFunc("GET /api/warehouses", h.ListWarehouses)
	mux.HandleFunc("GET /api/warehouses/{id}/metrics", h.WarehouseMetrics)
	mux.HandleFunc("GET /api/warehouses/{id}/stock", h.WarehouseStock)
	mux.HandleFunc("GET /api/products", h.ListProducts)
	mux.HandleFunc("GET /api/dashboard", h.Dashboard)
}

type placeOrderItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type placeOrderRequest struct {
	RequestID    string           `json:"request_id"`
	WarehouseID  int64            `json:"warehouse_id"`
	CustomerName string           `json:"customer_name"`
	Items        []placeOrderItem `json:"items"`
}

type messageResponse struct {
	Message string `json:"message"`
	OrderID int64  `json:"order_id,omitempty"`
}

func (h *HTTPHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "invalid request body"})
		return
	}

	items := make([]service.PlaceOrderItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = service.PlaceOrderItem{ProductID: it.ProductID, Quantity: it.Quantity}
	}

	orderID, err := h.orders.PlaceOrder(r.Context(), service.PlaceOrderRequest{
		RequestID:    req.RequestID,
		WarehouseID:  req.WarehouseID,
		CustomerName: req.CustomerName,
		Items:        items,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, messageResponse{
		Message: "Order placed successfully",
		OrderID: orderID,
	})
}

func (h *HTTPHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.orders.CancelOrder(r.Context(), orderID); err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Order cancelled successfully"})
}

func (h *HTTPHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.reports.ListOrders(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (h *HTTPHandler) RecentOrders(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.reports.RecentOrders(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (h *HTTPHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(w, r)
	if !ok {
		return
	}

	summary, err := h.reports.GetOrder(r.Context(), orderID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if summary == nil {
		writeJSON(w, http.StatusNotFound, messageResponse{Message: "Order does not exist"})
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *HTTPHandler) ListOrderItems(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(w, r)
	if !ok {
		return
	}

	items, err := h.reports.ListOrderItems(r.Context(), orderID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if len(items) == 0 {
		writeJSON(w, http.StatusNotFound, messageResponse{Message: "Order does not exist"})
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *HTTPHandler) ListWarehouses(w http.ResponseWriter, r *http.Request) {
	warehouses, err := h.reports.ListWarehouses(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, warehouses)
}

func (h *HTTPHandler) WarehouseMetrics(w http.ResponseWriter, r *http.Request) {
	warehouseID, ok := pathID(w, r)
	if !ok {
		return
	}

	metrics, err := h.reports.WarehouseMetrics(r.Context(), warehouseID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if metrics == nil {
		writeJSON(w, http.StatusNotFound, messageResponse{Message: "Warehouse does not exist"})
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}

func (h *HTTPHandler) WarehouseStock(w http.ResponseWriter, r *http.Request) {
	warehouseID, ok := pathID(w, r)
	if !ok {
		return
	}

	stock, err := h.reports.WarehouseStock(r.Context(), warehouseID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if len(stock) == 0 {
		writeJSON(w, http.StatusNotFound, messageResponse{Message: "Warehouse does not exist"})
		return
	}
	writeJSON(w, http.StatusOK, stock)
}

func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.reports.ListProducts(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *HTTPHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	counts, err := h.reports.DashboardCounts(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrUnknownWarehouse):
		status, message = http.StatusNotFound, "Warehouse does not exist"
	case errors.Is(err, domain.ErrUnknownProduct):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrUnknownOrder):
		status, message = http.StatusNotFound, "Order does not exist"
	case errors.Is(err, service.ErrDuplicateRequest):
		status, message = http.StatusConflict, "duplicate request"
	case errors.Is(err, domain.ErrInsufficientStock):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrNotCancellable):
		status, message = http.StatusConflict, "Order is not cancellable"
	case errors.Is(err, domain.ErrTxConflict):
		status, message = http.StatusServiceUnavailable, "transaction conflict, please retry"
	case errors.Is(err, domain.ErrAmbiguous):
		// The commit outcome is unknown; a retry could place the order twice.
		message = "order outcome unknown, do not retry"
		h.logger.Error("ambiguous transaction outcome", zap.Error(err))
	default:
		h.logger.Error("request failed", zap.Error(err))
	}

	writeJSON(w, status, messageResponse{Message: message})
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "invalid ID"})
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
