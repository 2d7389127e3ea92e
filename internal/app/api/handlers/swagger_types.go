package handlers

import (
	"github.com/fitdesk/gymcrm/internal/app/service/categorization"
	"github.com/fitdesk/gymcrm/internal/app/service/statistics"
	"github.com/fitdesk/gymcrm/internal/app/service/streak"
	models "github.com/fitdesk/gymcrm/internal/models"
	"github.com/fitdesk/gymcrm/pkg/response"
)

// Concrete response envelopes for the swagger generator, which cannot expand
// response.APIResponse[T] generics on its own.
type (
	RespOK                 = response.APIResponse[any]
	RespDashboardSummary   = response.APIResponse[*DashboardSummary]
	RespCategorization     = response.APIResponse[*categorization.Result]
	RespRenewals           = response.APIResponse[[]RenewalItem]
	RespLeaderboard        = response.APIResponse[[]streak.LeaderboardEntry]
	RespMember             = response.APIResponse[*models.Member]
	RespTransaction        = response.APIResponse[*models.Transaction]
	RespCheckIn            = response.APIResponse[*models.CheckIn]
	RespListMembers        = response.APIResponse[*ListMembersResponse]
	RespListTransactions   = response.APIResponse[*ListTransactionsResponse]
	RespDashboardStatistic = response.APIResponse[*statistics.DashboardStatisticResponse]
)
