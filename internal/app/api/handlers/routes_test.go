package handlers

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/fitdesk/gymcrm/pkg/config"
)

func routeSet(r *gin.Engine) map[string]bool {
	set := map[string]bool{}
	for _, rt := range r.Routes() {
		set[rt.Method+" "+rt.Path] = true
	}
	return set
}

func TestRegisterDashboardRoutes_RegistersEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterDashboardRoutes(r.Group("/api/v1/dashboard"), nil, nil)

	routes := routeSet(r)
	require.True(t, routes["GET /api/v1/dashboard/summary"])
	require.True(t, routes["GET /api/v1/dashboard/categorization"])
	require.True(t, routes["GET /api/v1/dashboard/renewals"])
	require.True(t, routes["GET /api/v1/dashboard/leaderboard"])
}

func TestRegisterMemberRoutes_RegistersEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterMemberRoutes(r.Group("/api/v1"), nil)

	routes := routeSet(r)
	require.True(t, routes["POST /api/v1/members"])
	require.True(t, routes["POST /api/v1/members/:id/check_in"])
}

func TestRegisterAdminRoutes_RegistersEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterAdminRoutes(r.Group("/api/v1/admin"), nil, nil, nil)

	routes := routeSet(r)
	require.True(t, routes["POST /api/v1/admin/list_members"])
	require.True(t, routes["POST /api/v1/admin/list_transactions"])
	require.True(t, routes["POST /api/v1/admin/get_dashboard_statistic"])
	require.True(t, routes["POST /api/v1/admin/record_payment"])
	require.True(t, routes["POST /api/v1/admin/save_daily_snapshot"])
}

func TestRegisterWebhookRoutes_RegistersEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterWebhookRoutes(r.Group("/api/v1/webhook"), &config.Config{}, nil)

	routes := routeSet(r)
	require.True(t, routes["POST /api/v1/webhook/payment"])
}

func TestRegisterHealthRoutes_RegistersEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterHealthRoutes(r)

	routes := routeSet(r)
	require.True(t, routes["GET /healthz"])
}
