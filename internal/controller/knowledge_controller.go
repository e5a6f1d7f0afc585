package controller

import (
	"strconv"

	"qryti_learn_backend/internal/repository"
	"qryti_learn_backend/internal/service"
	"qryti_learn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type KnowledgeController struct {
	Service *service.KnowledgeService
}

func NewKnowledgeController(s *service.KnowledgeService) *KnowledgeController {
	return &KnowledgeController{Service: s}
}

func (ctl *KnowledgeController) ListCategories(c *gin.Context) {
	categories, err := ctl.Service.ListCategories()
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, categories)
}

// ListResources godoc
// @Summary List knowledge-base resources with filters and pagination
// @Tags knowledge
// @Produce json
// @Param category query int false "category id"
// @Param course query int false "course id"
// @Param q query string false "search term"
// @Param featured query bool false "featured only"
// @Param page query int false "page"
// @Param limit query int false "page size"
// @Success 200 {object} util.Response
// @Router /api/v1/knowledge/resources [get]
func (ctl *KnowledgeController) ListResources(c *gin.Context) {
	filter := repository.ResourceFilter{
		Search:   c.Query("q"),
		Featured: c.Query("featured") == "true",
	}
	if v, err := strconv.ParseUint(c.Query("category"), 10, 32); err == nil {
		filter.CategoryID = uint(v)
	}
	if v, err := strconv.ParseUint(c.Query("course"), 10, 32); err == nil {
		filter.CourseID = uint(v)
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	resources, total, err := ctl.Service.ListResources(filter)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, util.PageResponse{
		List:  resources,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	})
}

func (ctl *KnowledgeController) GetResource(c *gin.Context) {
	resourceID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	resource, err := ctl.Service.GetResource(resourceID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, resource)
}

// Download godoc
// @Summary Resolve the download URL for a resource
// @Tags knowledge
// @Security BearerAuth
// @Produce json
// @Param id path int true "resource id"
// @Success 200 {object} util.Response
// @Router /api/v1/knowledge/resources/{id}/download [get]
func (ctl *KnowledgeController) Download(c *gin.Context) {
	resourceID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	claims := util.GetUserFromContext(c)
	url, err := ctl.Service.ResolveDownload(claims.UserID, resourceID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, gin.H{"url": url})
}
