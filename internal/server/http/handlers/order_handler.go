package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/melodix/vipgate/internal/domain/errors"
	"github.com/melodix/vipgate/internal/domain/model"
	"github.com/melodix/vipgate/internal/server/http/dto"
)

// OrderHandler serves VIP order endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler creates OrderHandler instance.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Create handles POST /api/vip/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.OrderCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	accountID := CurrentAccountID(c)
	order, err := h.facade.CreateOrder(c.Request.Context(), accountID, req.Amount, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidParameters):
			c.Status(http.StatusBadRequest)
		case errors.Is(err, domainErrors.ErrAlreadyEntitled):
			c.Status(http.StatusConflict)
		case errors.Is(err, domainErrors.ErrGatewayUnavailable):
			c.Status(http.StatusBadGateway)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusCreated, orderResponse(order))
}

// List handles GET /api/vip/orders.
func (h *OrderHandler) List(c *gin.Context) {
	accountID := CurrentAccountID(c)
	orders, err := h.facade.Orders(c.Request.Context(), accountID)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	resp := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, orderResponse(&orders[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// Cancel handles POST /api/vip/orders/:code/cancel.
func (h *OrderHandler) Cancel(c *gin.Context) {
	code, err := strconv.ParseInt(c.Param("code"), 10, 64)
	if err != nil || code <= 0 {
		c.Status(http.StatusBadRequest)
		return
	}

	accountID := CurrentAccountID(c)
	if err := h.facade.CancelOrder(c.Request.Context(), accountID, code); err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.Status(http.StatusOK)
}

// Status handles GET /api/vip/status.
func (h *OrderHandler) Status(c *gin.Context) {
	accountID := CurrentAccountID(c)
	ent, err := h.facade.Entitlement(c.Request.Context(), accountID)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, dto.EntitlementResponse{
		Active:   ent.Active,
		ExpireAt: ent.ExpireAt,
	})
}

func orderResponse(order *model.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:          order.ID,
		Code:        order.Code,
		Amount:      order.Amount,
		Description: order.Description,
		Status:      string(order.Status),
		CheckoutURL: order.CheckoutURL,
		CreatedAt:   order.CreatedAt,
	}
}
