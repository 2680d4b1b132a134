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
	"github.com/shopspring/decimal"
)

type RestaurantHandler struct {
	uc       *usecase.RestaurantUsecase
	products *usecase.ProductUsecase
}

func NewRestaurantHandler(uc *usecase.RestaurantUsecase, products *usecase.ProductUsecase) *RestaurantHandler {
	return &RestaurantHandler{uc: uc, products: products}
}

type RestaurantRequest struct {
	Name                string           `json:"name"`
	Category            string           `json:"category"`
	Address             string           `json:"address"`
	Phone               string           `json:"phone"`
	DeliveryFee         *decimal.Decimal `json:"delivery_fee"`
	DeliveryTimeMinutes int              `json:"delivery_time_minutes"`
	OpeningHours        string           `json:"opening_hours"`
}

func (r RestaurantRequest) validate() validator.Fields {
	return validator.ValidateRestaurant(r.Name, r.DeliveryFee, r.DeliveryTimeMinutes)
}

// validate を通ったあとに呼ぶ
func (r RestaurantRequest) input() usecase.RestaurantInput {
	return usecase.RestaurantInput{
		Name:                r.Name,
		Category:            r.Category,
		Address:             r.Address,
		Phone:               r.Phone,
		DeliveryFee:         *r.DeliveryFee,
		DeliveryTimeMinutes: r.DeliveryTimeMinutes,
		OpeningHours:        r.OpeningHours,
	}
}

func (h *RestaurantHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/api/restaurants")

	g.GET("", h.list)
	g.GET("/category/:category", h.listByCategory)
	g.GET("/nearby/:cep", h.nearby)
	g.GET("/:id", h.get)
	g.GET("/:id/delivery-fee/:cep", h.deliveryFee)
	g.GET("/:id/products", h.listProducts)

	g.POST("", h.create, authChain(cfg, userRepo, model.RoleAdmin)...)

	// 所有者チェックは usecase 側
	managers := authChain(cfg, userRepo, model.RoleAdmin, model.RoleRestaurant)
	g.PUT("/:id", h.update, managers...)
	g.PATCH("/:id/status", h.toggleActive, managers...)
}

func (h *RestaurantHandler) list(c echo.Context) error {
	page, fields := pageRequestFrom(c)
	active := optionalBool(c, "active", fields)
	if !fields.Empty() {
		return invalidFields(c, fields)
	}
	category := strings.TrimSpace(c.QueryParam("category"))

	out, err := h.uc.List(c.Request().Context(), usecase.ListRestaurantsInput{
		Category: category,
		Active:   active,
		Page:     page,
	})
	if err != nil {
		return writeError(c, err)
	}

	q := url.Values{}
	if category != "" {
		q.Set("category", category)
	}
	if active != nil {
		q.Set("active", c.QueryParam("active"))
	}
	if page.Sort != "" {
		q.Set("sort", page.Sort)
	}
	return c.JSON(http.StatusOK, out.WithLinks(c.Path(), q))
}

func (h *RestaurantHandler) listByCategory(c echo.Context) error {
	out, err := h.uc.ListByCategory(c.Request().Context(), c.Param("category"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *RestaurantHandler) nearby(c echo.Context) error {
	fields := validator.Fields{}
	radius := optionalInt(c, "radius", fields)
	if !fields.Empty() {
		return invalidFields(c, fields)
	}
	if radius == 0 {
		radius = usecase.DefaultNearbyRadiusKm
	}

	out, err := h.uc.Nearby(c.Request().Context(), c.Param("cep"), radius)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *RestaurantHandler) get(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *RestaurantHandler) deliveryFee(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.DeliveryFee(c.Request().Context(), id, c.Param("cep"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *RestaurantHandler) listProducts(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	fields := validator.Fields{}
	available := optionalBool(c, "available", fields)
	if !fields.Empty() {
		return invalidFields(c, fields)
	}

	out, err := h.products.ListByRestaurant(c.Request().Context(), id, available)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *RestaurantHandler) create(c echo.Context) error {
	var req RestaurantRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if f := req.validate(); !f.Empty() {
		return invalidFields(c, f)
	}

	out, err := h.uc.Create(c.Request().Context(), req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *RestaurantHandler) update(c echo.Context) error {
	p, ok := principalFrom(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req RestaurantRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if f := req.validate(); !f.Empty() {
		return invalidFields(c, f)
	}

	out, err := h.uc.Update(c.Request().Context(), p, id, req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *RestaurantHandler) toggleActive(c echo.Context) error {
	p, ok := principalFrom(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.ToggleActive(c.Request().Context(), p, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
