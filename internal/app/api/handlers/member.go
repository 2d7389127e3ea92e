package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	membersvc "github.com/fitdesk/gymcrm/internal/app/service/member"
	"github.com/fitdesk/gymcrm/pkg/response"
)

// @Summary      Register member
// @Description  Creates a new member in active status.
// @Tags         Member
// @Accept       json
// @Produce      json
// @Param        request body member.RegisterMemberRequest true "Member registration form"
// @Success      200  {object}  RespMember
// @Router       /api/v1/members [post]
func ApiRegisterMember(svc *membersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req membersvc.RegisterMemberRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		m, err := svc.Register(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(m))
	}
}

type CheckInRequest struct {
	// CheckInTime defaults to now when omitted.
	CheckInTime *time.Time `json:"check_in_time"`
}

// @Summary      Record check-in
// @Description  Records a gym visit for the member.
// @Tags         Member
// @Accept       json
// @Produce      json
// @Param        id      path  string         true  "Member ID"
// @Param        request body  CheckInRequest false "Check-in time override"
// @Success      200  {object}  RespCheckIn
// @Router       /api/v1/members/{id}/check_in [post]
func ApiMemberCheckIn(svc *membersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		memberID := c.Param("id")

		var req CheckInRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
				return
			}
		}

		at := time.Time{}
		if req.CheckInTime != nil {
			at = *req.CheckInTime
		}

		ci, err := svc.CheckIn(c.Request.Context(), memberID, at)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(ci))
	}
}

func RegisterMemberRoutes(r gin.IRouter, svc *membersvc.Service) {
	r.POST("/members", ApiRegisterMember(svc))
	r.POST("/members/:id/check_in", ApiMemberCheckIn(svc))
}
