package controller

import (
	"encoding/json"

	"qryti_learn_backend/internal/service"
	"qryti_learn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	Service *service.QuizService
}

func NewQuizController(s *service.QuizService) *QuizController {
	return &QuizController{Service: s}
}

// GetQuiz godoc
// @Summary Get a quiz with its questions (correct answers withheld)
// @Tags quizzes
// @Security BearerAuth
// @Produce json
// @Param id path int true "quiz id"
// @Success 200 {object} util.Response
// @Router /api/v1/quizzes/{id} [get]
func (ctl *QuizController) GetQuiz(c *gin.Context) {
	quizID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	quiz, err := ctl.Service.GetQuiz(quizID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, quiz)
}

func (ctl *QuizController) ListByModule(c *gin.Context) {
	moduleID, ok := paramUint(c, "moduleId")
	if !ok {
		return
	}
	quizzes, err := ctl.Service.ListByModule(moduleID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, quizzes)
}

func (ctl *QuizController) GetStats(c *gin.Context) {
	quizID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	stats, err := ctl.Service.GetStats(quizID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, stats)
}

// CanAttempt godoc
// @Summary Check how many attempts remain on a quiz
// @Tags quizzes
// @Security BearerAuth
// @Produce json
// @Param id path int true "quiz id"
// @Success 200 {object} util.Response
// @Router /api/v1/quizzes/{id}/can-attempt [get]
func (ctl *QuizController) CanAttempt(c *gin.Context) {
	quizID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	claims := util.GetUserFromContext(c)
	allowance, err := ctl.Service.CanAttempt(claims.UserID, quizID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, allowance)
}

// StartAttempt godoc
// @Summary Start a new attempt on a quiz
// @Tags quizzes
// @Security BearerAuth
// @Produce json
// @Param id path int true "quiz id"
// @Success 201 {object} util.Response
// @Router /api/v1/quizzes/{id}/attempts [post]
func (ctl *QuizController) StartAttempt(c *gin.Context) {
	quizID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	claims := util.GetUserFromContext(c)
	attempt, err := ctl.Service.StartAttempt(claims.UserID, quizID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Created(c, attempt)
}

type submitAttemptInput struct {
	// Answers maps question id (as a string) to the submitted answer: a
	// string for single-choice types, an array of strings for
	// multiple_select.
	Answers map[string]json.RawMessage `json:"answers" binding:"required"`
}

// SubmitAttempt godoc
// @Summary Submit answers for an in-progress attempt
// @Tags quizzes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "attempt id"
// @Success 200 {object} util.Response
// @Router /api/v1/attempts/{id}/submit [post]
func (ctl *QuizController) SubmitAttempt(c *gin.Context) {
	attemptID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	var input submitAttemptInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, util.ErrInvalidAnswerPayload.Error())
		return
	}
	claims := util.GetUserFromContext(c)
	result, err := ctl.Service.SubmitAttempt(claims.UserID, attemptID, input.Answers)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, result)
}

func (ctl *QuizController) GetAttempt(c *gin.Context) {
	attemptID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	claims := util.GetUserFromContext(c)
	attempt, err := ctl.Service.GetAttempt(claims.UserID, attemptID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, attempt)
}

func (ctl *QuizController) ListAttempts(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	attempts, err := ctl.Service.ListAttempts(claims.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, attempts)
}

func (ctl *QuizController) GetHistory(c *gin.Context) {
	quizID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	claims := util.GetUserFromContext(c)
	history, err := ctl.Service.GetHistory(claims.UserID, quizID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, history)
}
