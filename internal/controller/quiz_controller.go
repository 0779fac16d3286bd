package controller

import (
	"course_market_backend/internal/model"
	"course_market_backend/internal/service"
	"course_market_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// CreateQuizRequest 创建测验请求
// swagger:model CreateQuizRequest
type CreateQuizRequest struct {
	LessonID  string               `json:"lessonId" binding:"required"`
	Title     string               `json:"title"`
	Questions []model.QuizQuestion `json:"questions" binding:"required"`
}

// Create godoc
// @Summary 创建课时测验
// @Description 每道题至少两个选项，至少一个标记为正确答案
// @Tags 测验
// @Accept  json
// @Produce  json
// @Param   body body CreateQuizRequest true "测验内容"
// @Success 201 {object} util.Response{data=model.Quiz} "创建成功"
// @Failure 400 {object} util.Response "题目校验失败"
// @Security BearerAuth
// @Router /api/quiz [post]
func (qc *QuizController) Create(ctx *gin.Context) {
	var req CreateQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	quiz, err := qc.QuizService.Create(req.LessonID, req.Title, req.Questions, claims.UserID, claims.Role == "admin")
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuizTooFewAnswers), errors.Is(err, util.ErrQuizNoCorrectAnswer):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrLessonNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, quiz)
}

// Get godoc
// @Summary 查询测验（含题目和选项）
// @Tags 测验
// @Produce  json
// @Param   id path string true "测验ID"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Failure 404 {object} util.Response "测验不存在"
// @Security BearerAuth
// @Router /api/quiz/{id} [get]
func (qc *QuizController) Get(ctx *gin.Context) {
	quiz, err := qc.QuizService.Get(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, quiz)
}

// UpdateQuizRequest 更新测验题目请求
type UpdateQuizRequest struct {
	Questions []model.QuizQuestion `json:"questions" binding:"required"`
}

// Update godoc
// @Summary 更新测验题目（整体替换）
// @Tags 测验
// @Accept  json
// @Produce  json
// @Param   id path string true "测验ID"
// @Param   body body UpdateQuizRequest true "题目列表"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Failure 400 {object} util.Response "题目校验失败"
// @Security BearerAuth
// @Router /api/quiz/{id} [put]
func (qc *QuizController) Update(ctx *gin.Context) {
	var req UpdateQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	quiz, err := qc.QuizService.UpdateQuestions(ctx.Param("id"), req.Questions, claims.UserID, claims.Role == "admin")
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuizTooFewAnswers), errors.Is(err, util.ErrQuizNoCorrectAnswer):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrQuizNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, quiz)
}

// Delete godoc
// @Summary 删除测验
// @Tags 测验
// @Produce  json
// @Param   id path string true "测验ID"
// @Success 200 {object} util.Response "已删除"
// @Security BearerAuth
// @Router /api/quiz/{id} [delete]
func (qc *QuizController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := qc.QuizService.Delete(ctx.Param("id"), claims.UserID, claims.Role == "admin"); err != nil {
		switch {
		case errors.Is(err, util.ErrQuizNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}
