package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/melodix/vipgate/internal/domain/errors"
	"github.com/melodix/vipgate/internal/server/http/dto"
	"github.com/melodix/vipgate/internal/usecase"
)

// WebhookHandler accepts payment result notifications from the gateway.
type WebhookHandler struct {
	facade WebhookFacade
}

// NewWebhookHandler creates WebhookHandler instance.
func NewWebhookHandler(facade WebhookFacade) *WebhookHandler {
	return &WebhookHandler{facade: facade}
}

// Notify handles POST /api/payment/webhook.
// Duplicate notifications are acknowledged with 200 so the gateway stops retrying.
func (h *WebhookHandler) Notify(c *gin.Context) {
	var req dto.WebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	err := h.facade.SettlePayment(c.Request.Context(), usecase.SettleInput{
		Code:   req.OrderCode,
		LinkID: req.LinkID,
		Status: req.Status,
		Cancel: req.Cancel,
	})
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrAlreadyProcessed):
			c.Status(http.StatusOK)
		case errors.Is(err, domainErrors.ErrInvalidParameters):
			c.Status(http.StatusBadRequest)
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.Status(http.StatusOK)
}
