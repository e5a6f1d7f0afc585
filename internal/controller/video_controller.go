package controller

import (
	"qryti_learn_backend/internal/model"
	"qryti_learn_backend/internal/service"
	"qryti_learn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type VideoController struct {
	Service *service.VideoService
}

func NewVideoController(s *service.VideoService) *VideoController {
	return &VideoController{Service: s}
}

func (ctl *VideoController) ListByModule(c *gin.Context) {
	moduleID, ok := paramUint(c, "moduleId")
	if !ok {
		return
	}
	videos, err := ctl.Service.ListByModule(moduleID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, videos)
}

func (ctl *VideoController) GetVideo(c *gin.Context) {
	videoID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	video, err := ctl.Service.GetVideo(videoID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, video)
}

// UpdateProgress godoc
// @Summary Record playback position and watch time for a video
// @Tags videos
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "video id"
// @Success 200 {object} util.Response
// @Router /api/v1/videos/{id}/progress [put]
func (ctl *VideoController) UpdateProgress(c *gin.Context) {
	videoID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	var input service.VideoProgressUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	claims := util.GetUserFromContext(c)
	progress, err := ctl.Service.UpdateProgress(claims.UserID, videoID, input)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, progress)
}

func (ctl *VideoController) MyProgress(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	records, err := ctl.Service.ListProgress(claims.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, records)
}

type registerVideoInput struct {
	ModuleID    uint   `json:"moduleId" binding:"required"`
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description"`
	YoutubeID   string `json:"youtubeId"`
	YoutubeURL  string `json:"youtubeUrl"`
	FilePath    string `json:"filePath"`
	VideoType   string `json:"videoType"`
	OrderIndex  int    `json:"orderIndex"`
	IsPreview   bool   `json:"isPreview"`
}

// RegisterVideo godoc
// @Summary Register a video for a module (admin)
// @Tags videos
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 201 {object} util.Response
// @Router /api/v1/admin/videos [post]
func (ctl *VideoController) RegisterVideo(c *gin.Context) {
	var input registerVideoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	video := &model.Video{
		ModuleID:    input.ModuleID,
		Title:       input.Title,
		Description: input.Description,
		YoutubeID:   input.YoutubeID,
		YoutubeURL:  input.YoutubeURL,
		FilePath:    input.FilePath,
		VideoType:   input.VideoType,
		OrderIndex:  input.OrderIndex,
		IsActive:    true,
		IsPreview:   input.IsPreview,
	}
	created, err := ctl.Service.RegisterVideo(video)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Created(c, created)
}
