package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/haxllo/ar-alphaya-jewellery-sub002/errors"
	"github.com/haxllo/ar-alphaya-jewellery-sub002/logger"
	"github.com/haxllo/ar-alphaya-jewellery-sub002/models"
	"github.com/haxllo/ar-alphaya-jewellery-sub002/services"
)

// PaymentController receives PayHere server-to-server notifications.
type PaymentController struct {
	Service services.PaymentService
}

func NewPaymentController(service services.PaymentService) *PaymentController {
	return &PaymentController{Service: service}
}

// Notify handles the PayHere notify URL. PayHere posts form-encoded fields
// and expects a 200 once the notification has been accepted.
func (pc *PaymentController) Notify(c *gin.Context) {
	var notification models.PaymentNotification
	if err := c.ShouldBind(&notification); err != nil {
		logger.Warn(c, "Malformed payment notification", zap.Error(err))
		c.Error(apperrors.ErrBadRequest.Wrap(err))
		return
	}

	if appErr := pc.Service.HandleNotification(c.Request.Context(), &notification); appErr != nil {
		c.Error(appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
