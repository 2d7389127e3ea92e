package handlers

import (
	"math"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/fitdesk/gymcrm/internal/app/service/categorization"
	"github.com/fitdesk/gymcrm/internal/app/service/streak"
	"github.com/fitdesk/gymcrm/pkg/response"
)

// DashboardSummary feeds the metric cards: deduplicated bucket counts so the
// numbers add up to the member total.
type DashboardSummary struct {
	TotalMembers  int `json:"total_members"`
	ActiveCount   int `json:"active_count"`
	DueSoonCount  int `json:"due_soon_count"`
	OverdueCount  int `json:"overdue_count"`
	InactiveCount int `json:"inactive_count"`
}

// RenewalItem is one row of the upcoming-renewals table.
type RenewalItem struct {
	MemberID       string    `json:"member_id"`
	Name           string    `json:"name"`
	MembershipType *string   `json:"membership_type,omitempty"`
	EndingDate     time.Time `json:"ending_date"`
	DaysLeft       int       `json:"days_left"`
}

// @Summary      Dashboard summary
// @Description  Returns deduplicated member lifecycle counts for the metric cards.
// @Tags         Dashboard
// @Produce      json
// @Success      200  {object}  RespDashboardSummary
// @Router       /api/v1/dashboard/summary [get]
func ApiDashboardSummary(svc *categorization.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := svc.CategorizeAt(c.Request.Context(), time.Now())
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		dedup := result.Deduplicated()
		summary := &DashboardSummary{
			TotalMembers:  len(dedup.Active) + len(dedup.DueSoon) + len(dedup.Overdue) + len(dedup.Inactive),
			ActiveCount:   len(dedup.Active),
			DueSoonCount:  len(dedup.DueSoon),
			OverdueCount:  len(dedup.Overdue),
			InactiveCount: len(dedup.Inactive),
		}
		c.JSON(http.StatusOK, response.OKT(summary))
	}
}

// @Summary      Member categorization lists
// @Description  Returns the full four-bucket partition backing the member list dialogs. Buckets may overlap (a member with an active status and an expiring transaction appears in both lists).
// @Tags         Dashboard
// @Produce      json
// @Success      200  {object}  RespCategorization
// @Router       /api/v1/dashboard/categorization [get]
func ApiDashboardCategorization(svc *categorization.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := svc.CategorizeAt(c.Request.Context(), time.Now())
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(result))
	}
}

// @Summary      Upcoming renewals
// @Description  Returns due-soon members ordered by ending date, soonest first.
// @Tags         Dashboard
// @Produce      json
// @Success      200  {object}  RespRenewals
// @Router       /api/v1/dashboard/renewals [get]
func ApiDashboardRenewals(svc *categorization.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		result, err := svc.CategorizeAt(c.Request.Context(), now)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}

		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		items := lo.FilterMap(result.DueSoon, func(e categorization.BucketEntry, _ int) (RenewalItem, bool) {
			if e.EndingDate == nil {
				return RenewalItem{}, false
			}
			daysLeft := int(math.Round(e.EndingDate.Sub(today).Hours() / 24))
			return RenewalItem{
				MemberID:       e.MemberID,
				Name:           e.Name,
				MembershipType: e.MembershipType,
				EndingDate:     *e.EndingDate,
				DaysLeft:       daysLeft,
			}, true
		})
		sort.SliceStable(items, func(i, j int) bool { return items[i].EndingDate.Before(items[j].EndingDate) })

		c.JSON(http.StatusOK, response.OKT(items))
	}
}

// @Summary      Streak leaderboard
// @Description  Returns the top members by engagement score.
// @Tags         Dashboard
// @Produce      json
// @Success      200  {object}  RespLeaderboard
// @Router       /api/v1/dashboard/leaderboard [get]
func ApiDashboardLeaderboard(svc *streak.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, err := svc.Leaderboard(c.Request.Context(), time.Now())
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(entries))
	}
}

func RegisterDashboardRoutes(r gin.IRouter, cat *categorization.Service, str *streak.Service) {
	r.GET("/summary", ApiDashboardSummary(cat))
	r.GET("/categorization", ApiDashboardCategorization(cat))
	r.GET("/renewals", ApiDashboardRenewals(cat))
	r.GET("/leaderboard", ApiDashboardLeaderboard(str))
}
