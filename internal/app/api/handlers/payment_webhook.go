package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	membersvc "github.com/fitdesk/gymcrm/internal/app/service/member"
	models "github.com/fitdesk/gymcrm/internal/models"
	"github.com/fitdesk/gymcrm/pkg/config"
	"github.com/fitdesk/gymcrm/pkg/response"
	"github.com/fitdesk/gymcrm/pkg/types"
)

const webhookSecretHeader = "X-Webhook-Secret"

// PaymentWebhookRequest is the notification body the payment processor posts
// when a charge settles or changes state.
type PaymentWebhookRequest struct {
	MemberID           string     `json:"member_id" binding:"required"`
	Amount             int64      `json:"amount"`
	Currency           string     `json:"currency"`
	SubscriptionPeriod string     `json:"subscription_period"`
	StartDate          time.Time  `json:"start_date"`
	EndingDate         *time.Time `json:"ending_date"`
	Status             string     `json:"status"`
	ProviderReference  string     `json:"provider_reference"`
}

// @Summary      Payment Webhook
// @Description  Receives payment notifications from the external processor and upserts the matching transaction.
// @Tags         Webhook
// @Accept       json
// @Produce      json
// @Param        X-Webhook-Secret header string true "Shared webhook secret"
// @Param        request body PaymentWebhookRequest true "Payment notification"
// @Success      200  {object}  RespOK
// @Router       /api/v1/webhook/payment [post]
func ApiPaymentWebhook(cfg *config.Config, svc *membersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.Webhook.PaymentSharedSecret != "" &&
			c.GetHeader(webhookSecretHeader) != cfg.Webhook.PaymentSharedSecret {
			c.JSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeUnauthorized, "invalid webhook secret"))
			return
		}

		var req PaymentWebhookRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}

		currency := req.Currency
		if currency == "" {
			currency = "KES"
		}

		item := &models.Transaction{
			MemberID:           req.MemberID,
			Amount:             req.Amount,
			Currency:           currency,
			SubscriptionPeriod: req.SubscriptionPeriod,
			StartDate:          req.StartDate,
			EndingDate:         req.EndingDate,
			Status:             req.Status,
			Extra: datatypes.NewJSONType(&models.TransactionExtra{
				ProviderReference: req.ProviderReference,
			}),
		}

		if err := svc.IngestTransaction(c.Request.Context(), item, types.TransactionChangeReasonWebhook); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

func RegisterWebhookRoutes(r gin.IRouter, cfg *config.Config, svc *membersvc.Service) {
	r.POST("/payment", ApiPaymentWebhook(cfg, svc))
}
