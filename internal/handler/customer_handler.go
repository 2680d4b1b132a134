package handler

import (
	"net/http"

	"delivery/internal/config"
	"delivery/internal/domain/model"
	"delivery/internal/repository"
	"delivery/internal/usecase"
	"delivery/internal/validator"

	"github.com/labstack/echo/v4"
)

type CustomerHandler struct {
	uc *usecase.CustomerUsecase
}

func NewCustomerHandler(uc *usecase.CustomerUsecase) *CustomerHandler {
	return &CustomerHandler{uc: uc}
}

type CustomerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (r CustomerRequest) input() usecase.CustomerInput {
	return usecase.CustomerInput{Name: r.Name, Email: r.Email, Phone: r.Phone, Address: r.Address}
}

func (h *CustomerHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/api/customers")
	g.POST("", h.register)

	admin := authChain(cfg, userRepo, model.RoleAdmin)
	g.GET("", h.listActive, admin...)
	g.GET("/search", h.search, admin...)
	g.GET("/email/:email", h.getByEmail, admin...)
	g.GET("/:id", h.get, admin...)
	g.PUT("/:id", h.update, admin...)
	g.DELETE("/:id", h.inactivate, admin...)
}

func (h *CustomerHandler) register(c echo.Context) error {
	var req CustomerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if f := validator.ValidateCustomer(req.Name, req.Email, req.Phone); !f.Empty() {
		return invalidFields(c, f)
	}

	out, err := h.uc.Register(c.Request().Context(), req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *CustomerHandler) listActive(c echo.Context) error {
	out, err := h.uc.ListActive(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CustomerHandler) search(c echo.Context) error {
	out, err := h.uc.SearchByName(c.Request().Context(), c.QueryParam("name"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CustomerHandler) getByEmail(c echo.Context) error {
	out, err := h.uc.GetByEmail(c.Request().Context(), c.Param("email"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CustomerHandler) get(c echo.Context) error {
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

func (h *CustomerHandler) update(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req CustomerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if f := validator.ValidateCustomer(req.Name, req.Email, req.Phone); !f.Empty() {
		return invalidFields(c, f)
	}

	out, err := h.uc.Update(c.Request().Context(), id, req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CustomerHandler) inactivate(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.uc.Inactivate(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
