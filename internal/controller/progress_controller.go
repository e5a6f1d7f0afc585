package controller

import (
	"qryti_learn_backend/internal/service"
	"qryti_learn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	Service *service.ProgressService
}

func NewProgressController(s *service.ProgressService) *ProgressController {
	return &ProgressController{Service: s}
}

func (ctl *ProgressController) StartModule(c *gin.Context) {
	moduleID, ok := paramUint(c, "moduleId")
	if !ok {
		return
	}
	claims := util.GetUserFromContext(c)
	progress, err := ctl.Service.StartModule(claims.UserID, moduleID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, progress)
}

type completeModuleInput struct {
	Score            *float64 `json:"score,omitempty" binding:"omitempty,min=0,max=100"`
	TimeSpentMinutes int      `json:"timeSpentMinutes" binding:"min=0"`
}

// CompleteModule godoc
// @Summary Mark a module completed; may complete the course and issue the certificate
// @Tags progress
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param moduleId path int true "module id"
// @Success 200 {object} util.Response
// @Router /api/v1/progress/modules/{moduleId}/complete [post]
func (ctl *ProgressController) CompleteModule(c *gin.Context) {
	moduleID, ok := paramUint(c, "moduleId")
	if !ok {
		return
	}
	var input completeModuleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	claims := util.GetUserFromContext(c)
	progress, err := ctl.Service.CompleteModule(claims.UserID, moduleID, input.Score, input.TimeSpentMinutes)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, progress)
}

func (ctl *ProgressController) CourseSummary(c *gin.Context) {
	courseID, ok := paramUint(c, "courseId")
	if !ok {
		return
	}
	claims := util.GetUserFromContext(c)
	summary, err := ctl.Service.GetCourseSummary(claims.UserID, courseID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, summary)
}

func (ctl *ProgressController) CourseProgress(c *gin.Context) {
	courseID, ok := paramUint(c, "courseId")
	if !ok {
		return
	}
	claims := util.GetUserFromContext(c)
	records, err := ctl.Service.ListCourseProgress(claims.UserID, courseID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, records)
}
