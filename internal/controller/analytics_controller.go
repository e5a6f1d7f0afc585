package controller

import (
	"strconv"

	"qryti_learn_backend/internal/service"
	"qryti_learn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	Service *service.AnalyticsService
}

func NewAnalyticsController(s *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{Service: s}
}

// MyActivity godoc
// @Summary List the authenticated user's recent learning events
// @Tags analytics
// @Security BearerAuth
// @Produce json
// @Param type query string false "event type filter"
// @Param limit query int false "max events"
// @Success 200 {object} util.Response
// @Router /api/v1/activity [get]
func (ctl *AnalyticsController) MyActivity(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	events, err := ctl.Service.ListByUser(claims.UserID, c.Query("type"), limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, events)
}
