package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/fitdesk/gymcrm/internal/app/service/categorization"
	membersvc "github.com/fitdesk/gymcrm/internal/app/service/member"
	"github.com/fitdesk/gymcrm/internal/app/service/statistics"
	models "github.com/fitdesk/gymcrm/internal/models"
	"github.com/fitdesk/gymcrm/pkg/response"
	"github.com/fitdesk/gymcrm/pkg/types"
)

type MemberItem struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Email          *string            `json:"email"`
	Phone          *string            `json:"phone"`
	Status         types.MemberStatus `json:"status"`
	MembershipType *string            `json:"membership_type"`
	JoinDate       time.Time          `json:"join_date"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

func toMemberItem(m *models.Member) *MemberItem {
	return &MemberItem{
		ID:             m.ID,
		Name:           m.Name,
		Email:          m.Email,
		Phone:          m.Phone,
		Status:         m.StatusEnum(),
		MembershipType: m.MembershipType,
		JoinDate:       m.JoinDate,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

type ListMembersResponse struct {
	Items []*MemberItem `json:"items"`
	Total int64         `json:"total"`
}

type TransactionItem struct {
	ID                 string                   `json:"id"`
	MemberID           string                   `json:"member_id"`
	Amount             int64                    `json:"amount"`
	Currency           string                   `json:"currency"`
	SubscriptionPeriod types.SubscriptionPeriod `json:"subscription_period"`
	StartDate          time.Time                `json:"start_date"`
	EndingDate         *time.Time               `json:"ending_date"`
	Status             types.TransactionStatus  `json:"status"`
	CreatedAt          time.Time                `json:"created_at"`
	UpdatedAt          time.Time                `json:"updated_at"`
}

func toTransactionItem(t *models.Transaction) *TransactionItem {
	return &TransactionItem{
		ID:                 t.ID,
		MemberID:           t.MemberID,
		Amount:             t.Amount,
		Currency:           t.Currency,
		SubscriptionPeriod: t.PeriodEnum(),
		StartDate:          t.StartDate,
		EndingDate:         t.EndingDate,
		Status:             t.StatusEnum(),
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}
}

type ListTransactionsResponse struct {
	Items []*TransactionItem `json:"items"`
	Total int64              `json:"total"`
}

// @Summary      List Members (Admin)
// @Description  Retrieves a paginated and filterable list of members.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body member.ScanRequest true "List request with filters, pagination, and sorting"
// @Success      200  {object}  RespListMembers
// @Router       /api/v1/admin/list_members [post]
func ApiListMembers(svc *membersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req membersvc.ScanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := svc.ScanMembers(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		items := lo.Map(res.Items, func(m *models.Member, _ int) *MemberItem { return toMemberItem(m) })
		c.JSON(http.StatusOK, response.OKT(&ListMembersResponse{Items: items, Total: res.Total}))
	}
}

// @Summary      List Transactions (Admin)
// @Description  Retrieves a paginated and filterable list of transactions.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body member.ScanRequest true "List request with filters, pagination, and sorting"
// @Success      200  {object}  RespListTransactions
// @Router       /api/v1/admin/list_transactions [post]
func ApiListTransactions(svc *membersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req membersvc.ScanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := svc.ScanTransactions(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		items := lo.Map(res.Items, func(t *models.Transaction, _ int) *TransactionItem { return toTransactionItem(t) })
		c.JSON(http.StatusOK, response.OKT(&ListTransactionsResponse{Items: items, Total: res.Total}))
	}
}

// @Summary      Get Dashboard Statistics (Admin)
// @Description  Retrieves daily dashboard statistics for the charts.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body statistics.DashboardStatisticRequest true "Statistic request parameters"
// @Success      200  {object}  RespDashboardStatistic
// @Router       /api/v1/admin/get_dashboard_statistic [post]
func ApiGetDashboardStatistic(svc *statistics.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statistics.DashboardStatisticRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := svc.GetDashboardStatistic(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

type RecordPaymentRequest struct {
	MemberID string `json:"member_id" binding:"required"`
	membersvc.PaymentRecord
}

// @Summary      Record Payment (Admin)
// @Description  Stores a staff-entered payment for a member, bypassing the payment processor.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body RecordPaymentRequest true "Manual payment record"
// @Success      200  {object}  RespTransaction
// @Router       /api/v1/admin/record_payment [post]
func ApiRecordPayment(svc *membersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RecordPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		item, err := svc.RecordPayment(c.Request.Context(), req.MemberID, &req.PaymentRecord)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(item))
	}
}

// @Summary      Save Daily Snapshot (Admin)
// @Description  Freezes today's lifecycle bucket counts for the member-growth chart. Intended to be hit once a day by a scheduler.
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  RespOK
// @Router       /api/v1/admin/save_daily_snapshot [post]
func ApiSaveDailySnapshot(cat *categorization.Service, stats *statistics.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		result, err := cat.CategorizeAt(c.Request.Context(), now)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		if err := stats.SaveMemberDailySnapshot(c.Request.Context(), result, now); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

func RegisterAdminRoutes(r gin.IRouter, svc *membersvc.Service, cat *categorization.Service, stats *statistics.Service) {
	r.POST("/list_members", ApiListMembers(svc))
	r.POST("/list_transactions", ApiListTransactions(svc))
	r.POST("/get_dashboard_statistic", ApiGetDashboardStatistic(stats))
	r.POST("/record_payment", ApiRecordPayment(svc))
	r.POST("/save_daily_snapshot", ApiSaveDailySnapshot(cat, stats))
}
