package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/kaviyavarma08/Cafeteria-Management-System/internal/menu"
	"github.com/kaviyavarma08/Cafeteria-Management-System/internal/order"
	"github.com/kaviyavarma08/Cafeteria-Management-System/internal/user"
	"github.com/kaviyavarma08/Cafeteria-Management-System/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Signup(ctx context.Context, username, email, password string) (user.User, error) {
	args := m.Called(ctx, username, email, password)
	return args.Get(0).(user.User), args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, username, password string) (string, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.Error(1)
}

func (m *MockUserService) ResolveUsername(ctx context.Context, username string) (int64, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(int64), args.Error(1)
}

type MockMenuService struct {
	mock.Mock
}

func (m *MockMenuService) List(ctx context.Context) ([]menu.Item, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]menu.Item), args.Error(1)
}

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Place(ctx context.Context, userID int64, customer order.CustomerInfo, lines []order.Line) (int64, error) {
	args := m.Called(ctx, userID, customer, lines)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderService) ListByUser(ctx context.Context, userID int64) ([]order.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderService) GetDetail(ctx context.Context, orderID, userID int64) (*order.Order, error) {
	args := m.Called(ctx, orderID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

// authenticated attaches a verified subject the way the auth middleware does.
func authenticated(r *http.Request, username string) *http.Request {
	return r.WithContext(utils.SetUserContext(r.Context(), username))
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHandler_Signup(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		users := new(MockUserService)
		users.On("Signup", mock.Anything, "john", "john@example.com", "secret").
			Return(user.User{ID: 1, Username: "john"}, nil)

		h := NewHandler(users, nil, nil)
		req := httptest.NewRequest("POST", "/signup", strings.NewReader(
			`{"username":"john","email":"john@example.com","password":"secret"}`))
		w := httptest.NewRecorder()

		h.Signup(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "User created successfully!", decodeBody(t, w)["message"])
	})

	t.Run("Duplicate", func(t *testing.T) {
		users := new(MockUserService)
		users.On("Signup", mock.Anything, "john", "john@example.com", "secret").
			Return(user.User{}, user.ErrUsernameExists)

		h := NewHandler(users, nil, nil)
		req := httptest.NewRequest("POST", "/signup", strings.NewReader(
			`{"username":"john","email":"john@example.com","password":"secret"}`))
		w := httptest.NewRecorder()

		h.Signup(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("MissingFields", func(t *testing.T) {
		h := NewHandler(new(MockUserService), nil, nil)
		req := httptest.NewRequest("POST", "/signup", strings.NewReader(`{"username":"john"}`))
		w := httptest.NewRecorder()

		h.Signup(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("BadBody", func(t *testing.T) {
		h := NewHandler(new(MockUserService), nil, nil)
		req := httptest.NewRequest("POST", "/signup", strings.NewReader(`{`))
		w := httptest.NewRecorder()

		h.Signup(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("RepoError", func(t *testing.T) {
		users := new(MockUserService)
		users.On("Signup", mock.Anything, "john", "john@example.com", "secret").
			Return(user.User{}, errors.New("pq: duplicate key value violates unique constraint"))

		h := NewHandler(users, nil, nil)
		req := httptest.NewRequest("POST", "/signup", strings.NewReader(
			`{"username":"john","email":"john@example.com","password":"secret"}`))
		w := httptest.NewRecorder()

		h.Signup(w, req)

		// Driver error text must never leak to the client.
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "pq:")
	})
}

func TestHandler_Login(t *testing.T) {
	form := url.Values{"username": {"john"}, "password": {"secret"}}

	newLoginRequest := func(body string) *http.Request {
		req := httptest.NewRequest("POST", "/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req
	}

	t.Run("Success", func(t *testing.T) {
		users := new(MockUserService)
		users.On("Login", mock.Anything, "john", "secret").Return("signed-token", nil)

		h := NewHandler(users, nil, nil)
		w := httptest.NewRecorder()

		h.Login(w, newLoginRequest(form.Encode()))

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "signed-token", body["access_token"])
		assert.Equal(t, "bearer", body["token_type"])
	})

	t.Run("InvalidCredentials", func(t *testing.T) {
		users := new(MockUserService)
		users.On("Login", mock.Anything, "john", "secret").
			Return("", user.ErrInvalidCredentials)

		h := NewHandler(users, nil, nil)
		w := httptest.NewRecorder()

		h.Login(w, newLoginRequest(form.Encode()))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("MissingFields", func(t *testing.T) {
		h := NewHandler(new(MockUserService), nil, nil)
		w := httptest.NewRecorder()

		h.Login(w, newLoginRequest("username=john"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_GetMenu(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		menuSvc := new(MockMenuService)
		menuSvc.On("List", mock.Anything).Return([]menu.Item{
			{ID: 1, Name: "Espresso", Price: 250},
			{ID: 2, Name: "Latte", Price: 450},
		}, nil)

		h := NewHandler(nil, menuSvc, nil)
		w := httptest.NewRecorder()

		h.GetMenu(w, httptest.NewRequest("GET", "/menu", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"Espresso"`)
		assert.Contains(t, w.Body.String(), `"2.50"`)
	})

	t.Run("EmptyMenu", func(t *testing.T) {
		menuSvc := new(MockMenuService)
		menuSvc.On("List", mock.Anything).Return([]menu.Item(nil), nil)

		h := NewHandler(nil, menuSvc, nil)
		w := httptest.NewRecorder()

		h.GetMenu(w, httptest.NewRequest("GET", "/menu", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]\n", w.Body.String())
	})
}

func TestHandler_CreateOrder(t *testing.T) {
	orderBody := `{
		"name": "John Doe",
		"phone_number": "555-0100",
		"email": "john@example.com",
		"address": "1 Main St",
		"city": "Springfield",
		"state": "IL",
		"items": [{"menu_id": 1, "quantity": 2}, {"menu_id": 2, "quantity": 1}]
	}`

	t.Run("Success", func(t *testing.T) {
		users := new(MockUserService)
		users.On("ResolveUsername", mock.Anything, "john").Return(int64(7), nil)

		orders := new(MockOrderService)
		orders.On("Place", mock.Anything, int64(7),
			order.CustomerInfo{
				Name:        "John Doe",
				PhoneNumber: "555-0100",
				Email:       "john@example.com",
				Address:     "1 Main St",
				City:        "Springfield",
				State:       "IL",
			},
			[]order.Line{{MenuID: 1, Quantity: 2}, {MenuID: 2, Quantity: 1}},
		).Return(int64(42), nil)

		h := NewHandler(users, nil, orders)
		req := authenticated(httptest.NewRequest("POST", "/orders", strings.NewReader(orderBody)), "john")
		w := httptest.NewRecorder()

		h.CreateOrder(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "Order created successfully!", body["message"])
		assert.Equal(t, float64(42), body["order_id"])
		orders.AssertExpectations(t)
	})

	t.Run("UserGone", func(t *testing.T) {
		users := new(MockUserService)
		users.On("ResolveUsername", mock.Anything, "ghost").Return(int64(0), user.ErrUserNotFound)

		orders := new(MockOrderService)
		h := NewHandler(users, nil, orders)
		req := authenticated(httptest.NewRequest("POST", "/orders", strings.NewReader(orderBody)), "ghost")
		w := httptest.NewRecorder()

		h.CreateOrder(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		orders.AssertNotCalled(t, "Place", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("UnknownMenuItem", func(t *testing.T) {
		users := new(MockUserService)
		users.On("ResolveUsername", mock.Anything, "john").Return(int64(7), nil)

		orders := new(MockOrderService)
		orders.On("Place", mock.Anything, int64(7), mock.Anything, mock.Anything).
			Return(int64(0), &order.LineItemNotFoundError{MenuID: 999})

		h := NewHandler(users, nil, orders)
		req := authenticated(httptest.NewRequest("POST", "/orders", strings.NewReader(orderBody)), "john")
		w := httptest.NewRecorder()

		h.CreateOrder(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "menu item 999 not found")
	})

	t.Run("EmptyItems", func(t *testing.T) {
		users := new(MockUserService)
		users.On("ResolveUsername", mock.Anything, "john").Return(int64(7), nil)

		orders := new(MockOrderService)
		orders.On("Place", mock.Anything, int64(7), mock.Anything, mock.Anything).
			Return(int64(0), order.ErrEmptyOrder)

		h := NewHandler(users, nil, orders)
		req := authenticated(httptest.NewRequest("POST", "/orders", strings.NewReader(
			`{"name":"John Doe","items":[]}`)), "john")
		w := httptest.NewRecorder()

		h.CreateOrder(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("NoIdentity", func(t *testing.T) {
		h := NewHandler(new(MockUserService), nil, new(MockOrderService))
		req := httptest.NewRequest("POST", "/orders", strings.NewReader(orderBody))
		w := httptest.NewRecorder()

		h.CreateOrder(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestHandler_ListOrders(t *testing.T) {
	users := new(MockUserService)
	users.On("ResolveUsername", mock.Anything, "john").Return(int64(7), nil)

	orders := new(MockOrderService)
	orders.On("ListByUser", mock.Anything, int64(7)).Return([]order.Order{
		{ID: 42, UserID: 7, Total: 1350, Status: order.StatusPending, OrderDate: time.Now()},
	}, nil)

	h := NewHandler(users, nil, orders)
	req := authenticated(httptest.NewRequest("GET", "/orders", nil), "john")
	w := httptest.NewRecorder()

	h.ListOrders(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_price":"13.50"`)
	assert.Contains(t, w.Body.String(), `"status":"PENDING"`)
}

func TestHandler_GetOrderDetail(t *testing.T) {
	newRouter := func(h *Handler, username string) http.Handler {
		r := chi.NewRouter()
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				next.ServeHTTP(w, authenticated(req, username))
			})
		})
		r.Get("/orders/{orderID}", h.GetOrderDetail)
		return r
	}

	t.Run("Success", func(t *testing.T) {
		users := new(MockUserService)
		users.On("ResolveUsername", mock.Anything, "john").Return(int64(7), nil)

		orders := new(MockOrderService)
		orders.On("GetDetail", mock.Anything, int64(42), int64(7)).Return(&order.Order{
			ID:     42,
			UserID: 7,
			Total:  1350,
			Status: order.StatusPending,
			Items: []order.Item{
				{MenuID: 1, Quantity: 2, UnitPrice: 500, MenuName: "Espresso"},
				{MenuID: 2, Quantity: 1, UnitPrice: 350, MenuName: "Croissant"},
			},
		}, nil)

		w := httptest.NewRecorder()
		newRouter(NewHandler(users, nil, orders), "john").
			ServeHTTP(w, httptest.NewRequest("GET", "/orders/42", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"total_item_price":"10.00"`)
		assert.Contains(t, w.Body.String(), `"price_per_item":"3.50"`)
		assert.Contains(t, w.Body.String(), `"Espresso"`)
	})

	t.Run("NotFound", func(t *testing.T) {
		users := new(MockUserService)
		users.On("ResolveUsername", mock.Anything, "john").Return(int64(7), nil)

		orders := new(MockOrderService)
		orders.On("GetDetail", mock.Anything, int64(42), int64(7)).
			Return(nil, order.ErrOrderNotFound)

		w := httptest.NewRecorder()
		newRouter(NewHandler(users, nil, orders), "john").
			ServeHTTP(w, httptest.NewRequest("GET", "/orders/42", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("BadOrderID", func(t *testing.T) {
		users := new(MockUserService)
		users.On("ResolveUsername", mock.Anything, "john").Return(int64(7), nil)

		w := httptest.NewRecorder()
		newRouter(NewHandler(users, nil, new(MockOrderService)), "john").
			ServeHTTP(w, httptest.NewRequest("GET", "/orders/abc", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
