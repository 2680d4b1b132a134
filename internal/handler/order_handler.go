package handler

import (
	"net/http"
	"net/url"
	"strings"

	"delivery/internal/config"
	"delivery/internal/domain/model"
	"delivery/internal/repository"
	"delivery/internal/usecase"
	"delivery/internal/validator"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

type OrderLineRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type OrderCreateRequest struct {
	CustomerID      int64              `json:"customer_id"`
	RestaurantID    int64              `json:"restaurant_id"`
	DeliveryAddress string             `json:"delivery_address"`
	Notes           string             `json:"notes"`
	Items           []OrderLineRequest `json:"items"`
}

type CalculateTotalRequest struct {
	RestaurantID int64              `json:"restaurant_id"`
	Items        []OrderLineRequest `json:"items"`
}

type OrderStatusUpdateRequest struct {
	Status string `json:"status"`
}

func toLines(items []OrderLineRequest) ([]validator.OrderLine, []usecase.OrderLineInput) {
	vl := make([]validator.OrderLine, 0, len(items))
	in := make([]usecase.OrderLineInput, 0, len(items))
	for _, it := range items {
		vl = append(vl, validator.OrderLine{ProductID: it.ProductID, Quantity: it.Quantity})
		in = append(in, usecase.OrderLineInput{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return vl, in
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/api/orders")
	g.Use(authChain(cfg, userRepo)...)

	admin := middlewareFor(model.RoleAdmin)
	buyers := middlewareFor(model.RoleAdmin, model.RoleCustomer)

	g.POST("", h.create, middlewareFor(model.RoleCustomer)...)
	g.POST("/calculate", h.calculate)
	g.GET("", h.list, admin...)
	g.GET("/number/:number", h.getByNumber)
	g.GET("/customer/:customerId", h.listByCustomer, buyers...)
	g.GET("/restaurant/:restaurantId", h.listByRestaurant, middlewareFor(model.RoleAdmin, model.RoleRestaurant)...)
	g.GET("/:id", h.detail)
	g.POST("/:id/items", h.addItem, buyers...)
	g.DELETE("/:id/items/:itemId", h.removeItem, buyers...)
	g.PUT("/:id/confirm", h.confirm, buyers...)
	g.PATCH("/:id/status", h.updateStatus, middlewareFor(model.RoleAdmin, model.RoleRestaurant)...)
	g.DELETE("/:id", h.cancel, buyers...)
}

func (h *OrderHandler) create(c echo.Context) error {
	p, ok := principalFrom(c)
	if !ok {
		return unauthorized(c)
	}

	var req OrderCreateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	vl, lines := toLines(req.Items)
	if f := validator.ValidateCreateOrder(req.CustomerID, req.RestaurantID, req.DeliveryAddress, vl); !f.Empty() {
		return invalidFields(c, f)
	}

	out, err := h.uc.CreateOrder(c.Request().Context(), p, usecase.CreateOrderInput{
		CustomerID:      req.CustomerID,
		RestaurantID:    req.RestaurantID,
		DeliveryAddress: req.DeliveryAddress,
		Notes:           req.Notes,
		Items:           lines,
	})
	if err != nil {
		return writeError(c, err)
	}

	c.Response().Header().Set(echo.HeaderLocation, "/api/orders/"+out.OrderNumber)
	return c.JSON(http.StatusCreated, out)
}

// 保存せずに合計だけ計算する
func (h *OrderHandler) calculate(c echo.Context) error {
	var req CalculateTotalRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	vl, lines := toLines(req.Items)
	if f := validator.ValidateCalculateTotal(req.RestaurantID, vl); !f.Empty() {
		return invalidFields(c, f)
	}

	out, err := h.uc.CalculateTotal(c.Request().Context(), usecase.CalculateTotalInput{
		RestaurantID: req.RestaurantID,
		Items:        lines,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) list(c echo.Context) error {
	page, fields := pageRequestFrom(c)
	from := optionalTime(c, "from", false, fields)
	to := optionalTime(c, "to", true, fields)
	if !fields.Empty() {
		return invalidFields(c, fields)
	}
	status := strings.ToUpper(strings.TrimSpace(c.QueryParam("status")))

	out, err := h.uc.ListOrders(c.Request().Context(), usecase.ListOrdersInput{
		Status: status,
		From:   from,
		To:     to,
		Page:   page,
	})
	if err != nil {
		return writeError(c, err)
	}

	q := url.Values{}
	for _, k := range []string{"from", "to", "sort"} {
		if v := c.QueryParam(k); v != "" {
			q.Set(k, v)
		}
	}
	if status != "" {
		q.Set("status", status)
	}
	return c.JSON(http.StatusOK, out.WithLinks(c.Path(), q))
}

func (h *OrderHandler) getByNumber(c echo.Context) error {
	out, err := h.uc.GetOrderByNumber(c.Request().Context(), c.Param("number"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) listByCustomer(c echo.Context) error {
	p, ok := principalFrom(c)
	if !ok {
		return unauthorized(c)
	}
	customerID, err := parseIDParam(c, "customerId")
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.ListByCustomer(c.Request().Context(), p, customerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) listByRestaurant(c echo.Context) error {
	p, ok := principalFrom(c)
	if !ok {
		return unauthorized(c)
	}
	restaurantID, err := parseIDParam(c, "restaurantId")
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.ListByRestaurant(c.Request().Context(), p, restaurantID, c.QueryParam("status"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) detail(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.GetOrder(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) addItem(c echo.Context) error {
	p, ok := principalFrom(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req OrderLineRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	line := validator.OrderLine{ProductID: req.ProductID, Quantity: req.Quantity}
	if f := validator.ValidateAddItem(line); !f.Empty() {
		return invalidFields(c, f)
	}

	out, err := h.uc.AddItem(c.Request().Context(), p, id, usecase.OrderLineInput{ProductID: req.ProductID, Quantity: req.Quantity})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) removeItem(c echo.Context) error {
	p, ok := principalFrom(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	itemID, err := parseIDParam(c, "itemId")
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.RemoveItem(c.Request().Context(), p, id, itemID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) confirm(c echo.Context) error {
	p, ok := principalFrom(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.ConfirmOrder(c.Request().Context(), p, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) updateStatus(c echo.Context) error {
	p, ok := principalFrom(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req OrderStatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if f := validator.ValidateStatusUpdate(req.Status); !f.Empty() {
		return invalidFields(c, f)
	}

	out, err := h.uc.UpdateStatus(c.Request().Context(), p, id, req.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// DELETE /api/orders/:id?reason= はキャンセル
func (h *OrderHandler) cancel(c echo.Context) error {
	p, ok := principalFrom(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.CancelOrder(c.Request().Context(), p, id, c.QueryParam("reason"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
