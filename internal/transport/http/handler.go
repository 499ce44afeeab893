package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/kaviyavarma08/Cafeteria-Management-System/internal/logger"
	"github.com/kaviyavarma08/Cafeteria-Management-System/internal/menu"
	"github.com/kaviyavarma08/Cafeteria-Management-System/internal/money"
	"github.com/kaviyavarma08/Cafeteria-Management-System/internal/order"
	"github.com/kaviyavarma08/Cafeteria-Management-System/internal/user"
	"github.com/kaviyavarma08/Cafeteria-Management-System/internal/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	users  user.Service
	menu   menu.Service
	orders order.Service
}

func NewHandler(users user.Service, menuSvc menu.Service, orders order.Service) *Handler {
	return &Handler{users: users, menu: menuSvc, orders: orders}
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "username, email and password are required")
		return
	}

	_, err := h.users.Signup(r.Context(), req.Username, req.Email, req.Password)
	switch {
	case errors.Is(err, user.ErrUsernameExists), errors.Is(err, user.ErrEmailExists):
		respondError(w, http.StatusConflict, err.Error())
	case err != nil:
		respondError(w, http.StatusInternalServerError, "internal server error")
	default:
		respondJSON(w, http.StatusCreated, map[string]string{"message": "User created successfully!"})
	}
}

// Login accepts the form-encoded username/password shape OAuth2 password
// clients send.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		respondError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	token, err := h.users.Login(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "invalid username or password")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"access_token": token,
		"token_type":   "bearer",
	})
}

func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.menu.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if items == nil {
		items = []menu.Item{}
	}
	respondJSON(w, http.StatusOK, items)
}

type orderLineRequest struct {
	MenuID   int64 `json:"menu_id"`
	Quantity int   `json:"quantity"`
}

type createOrderRequest struct {
	Name        string             `json:"name"`
	PhoneNumber string             `json:"phone_number"`
	Email       string             `json:"email"`
	Address     string             `json:"address"`
	City        string             `json:"city"`
	State       string             `json:"state"`
	Items       []orderLineRequest `json:"items"`
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.resolveUser(w, r)
	if !ok {
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	customer := order.CustomerInfo{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
	}
	lines := make([]order.Line, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, order.Line{MenuID: item.MenuID, Quantity: item.Quantity})
	}

	orderID, err := h.orders.Place(r.Context(), userID, customer, lines)
	if err != nil {
		var notFound *order.LineItemNotFoundError
		switch {
		case errors.As(err, &notFound):
			respondError(w, http.StatusNotFound, notFound.Error())
		case errors.Is(err, order.ErrEmptyOrder), errors.Is(err, order.ErrInvalidQuantity):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			logger.FromCtx(r.Context()).Error("order placement failed", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"message":  "Order created successfully!",
		"order_id": orderID,
	})
}

type orderResponse struct {
	ID          int64       `json:"id"`
	TotalPrice  money.Cents `json:"total_price"`
	Name        string      `json:"name"`
	PhoneNumber string      `json:"phone_number"`
	Email       string      `json:"email"`
	Address     string      `json:"address"`
	City        string      `json:"city"`
	State       string      `json:"state"`
	OrderDate   time.Time   `json:"order_date"`
	Status      string      `json:"status"`
}

func toOrderResponse(o order.Order) orderResponse {
	return orderResponse{
		ID:          o.ID,
		TotalPrice:  o.Total,
		Name:        o.Customer.Name,
		PhoneNumber: o.Customer.PhoneNumber,
		Email:       o.Customer.Email,
		Address:     o.Customer.Address,
		City:        o.Customer.City,
		State:       o.Customer.State,
		OrderDate:   o.OrderDate,
		Status:      string(o.Status),
	}
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.resolveUser(w, r)
	if !ok {
		return
	}

	orders, err := h.orders.ListByUser(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, toOrderResponse(o))
	}
	respondJSON(w, http.StatusOK, resp)
}

type orderItemResponse struct {
	Name           string      `json:"name"`
	Quantity       int         `json:"quantity"`
	PricePerItem   money.Cents `json:"price_per_item"`
	TotalItemPrice money.Cents `json:"total_item_price"`
}

type orderDetailResponse struct {
	orderResponse
	Items []orderItemResponse `json:"items"`
}

func (h *Handler) GetOrderDetail(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.resolveUser(w, r)
	if !ok {
		return
	}

	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	o, err := h.orders.GetDetail(r.Context(), orderID, userID)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "order not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := orderDetailResponse{
		orderResponse: toOrderResponse(*o),
		Items:         make([]orderItemResponse, 0, len(o.Items)),
	}
	for _, item := range o.Items {
		resp.Items = append(resp.Items, orderItemResponse{
			Name:           item.MenuName,
			Quantity:       item.Quantity,
			PricePerItem:   item.UnitPrice,
			TotalItemPrice: item.LineTotal(),
		})
	}
	respondJSON(w, http.StatusOK, resp)
}

// resolveUser maps the verified token subject to the internal user id. A
// subject with no user row is a distinct condition from a bad credential
// and surfaces as 404.
func (h *Handler) resolveUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	username, ok := utils.GetUsernameFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing credentials")
		return 0, false
	}

	userID, err := h.users.ResolveUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			respondError(w, http.StatusNotFound, "user not found")
			return 0, false
		}
		respondError(w, http.StatusInternalServerError, "internal server error")
		return 0, false
	}

	return userID, true
}
