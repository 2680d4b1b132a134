package handler

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"delivery/internal/config"
	"delivery/internal/domain/model"
	"delivery/internal/repository"
	"delivery/internal/usecase"
	"delivery/internal/validator"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// /api/products
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

type ProductRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Category    string           `json:"category"`
}

func (r ProductRequest) input() usecase.ProductInput {
	return usecase.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       *r.Price,
		Category:    r.Category,
	}
}

func (h *ProductHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/api/products")

	g.GET("", h.list)
	g.GET("/category/:category", h.listByCategory)
	g.GET("/search", h.search)
	g.GET("/:id", h.detail)

	managers := authChain(cfg, userRepo, model.RoleAdmin, model.RoleRestaurant)
	g.POST("", h.create, managers...)
	g.PUT("/:id", h.update, managers...)
	g.DELETE("/:id", h.delete, managers...)
	g.PATCH("/:id/availability", h.toggleAvailability, managers...)
}

func (h *ProductHandler) list(c echo.Context) error {
	page, fields := pageRequestFrom(c)
	restaurantID := optionalInt64(c, "restaurant_id", fields)
	available := optionalBool(c, "available", fields)
	if !fields.Empty() {
		return invalidFields(c, fields)
	}
	category := strings.TrimSpace(c.QueryParam("category"))

	out, err := h.uc.List(c.Request().Context(), usecase.ListProductsInput{
		RestaurantID: restaurantID,
		Category:     category,
		Available:    available,
		Page:         page,
	})
	if err != nil {
		return writeError(c, err)
	}

	q := url.Values{}
	if restaurantID != nil {
		q.Set("restaurant_id", strconv.FormatInt(*restaurantID, 10))
	}
	if category != "" {
		q.Set("category", category)
	}
	if available != nil {
		q.Set("available", strconv.FormatBool(*available))
	}
	if page.Sort != "" {
		q.Set("sort", page.Sort)
	}
	return c.JSON(http.StatusOK, out.WithLinks(c.Path(), q))
}

func (h *ProductHandler) listByCategory(c echo.Context) error {
	out, err := h.uc.ListByCategory(c.Request().Context(), c.Param("category"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) search(c echo.Context) error {
	out, err := h.uc.SearchByName(c.Request().Context(), c.QueryParam("name"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) detail(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	p, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// POST /api/products?restaurant_id=
func (h *ProductHandler) create(c echo.Context) error {
	p, ok := principalFrom(c)
	if !ok {
		return unauthorized(c)
	}

	fields := validator.Fields{}
	restaurantID := optionalInt64(c, "restaurant_id", fields)
	if restaurantID == nil && fields.Empty() {
		// RESTAURANTE は自分のレストランを既定にする
		restaurantID = p.RestaurantID
	}
	if restaurantID == nil && fields.Empty() {
		fields["restaurant_id"] = "is required"
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	for k, v := range validator.ValidateProduct(req.Name, req.Price) {
		fields[k] = v
	}
	if !fields.Empty() {
		return invalidFields(c, fields)
	}

	out, err := h.uc.Create(c.Request().Context(), p, *restaurantID, req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *ProductHandler) update(c echo.Context) error {
	p, ok := principalFrom(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if f := validator.ValidateProduct(req.Name, req.Price); !f.Empty() {
		return invalidFields(c, f)
	}

	out, err := h.uc.Update(c.Request().Context(), p, id, req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) delete(c echo.Context) error {
	p, ok := principalFrom(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.uc.Delete(c.Request().Context(), p, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ProductHandler) toggleAvailability(c echo.Context) error {
	p, ok := principalFrom(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.ToggleAvailability(c.Request().Context(), p, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
