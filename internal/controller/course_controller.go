package controller

import (
	"qryti_learn_backend/internal/service"
	"qryti_learn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	Service *service.CourseService
}

func NewCourseController(s *service.CourseService) *CourseController {
	return &CourseController{Service: s}
}

// ListCourses godoc
// @Summary List the active course catalog
// @Tags courses
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/v1/courses [get]
func (ctl *CourseController) ListCourses(c *gin.Context) {
	rows, err := ctl.Service.ListCourses(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, rows)
}

func (ctl *CourseController) GetCourse(c *gin.Context) {
	courseID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	course, err := ctl.Service.GetCourse(courseID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, course)
}

// Enroll godoc
// @Summary Enroll the authenticated user in a course
// @Tags courses
// @Security BearerAuth
// @Produce json
// @Param id path int true "course id"
// @Success 201 {object} util.Response
// @Router /api/v1/courses/{id}/enroll [post]
func (ctl *CourseController) Enroll(c *gin.Context) {
	courseID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	claims := util.GetUserFromContext(c)
	enrollment, err := ctl.Service.Enroll(claims.UserID, courseID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Created(c, enrollment)
}

func (ctl *CourseController) MyEnrollments(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	enrollments, err := ctl.Service.ListEnrollments(claims.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, enrollments)
}
