package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/menkyoquiz/menkyo-backend/internal/middleware"
	"github.com/menkyoquiz/menkyo-backend/internal/model"
	"github.com/menkyoquiz/menkyo-backend/internal/quiz"
	"github.com/menkyoquiz/menkyo-backend/internal/repository"
	"github.com/menkyoquiz/menkyo-backend/internal/response"
	"github.com/menkyoquiz/menkyo-backend/internal/service"
	"github.com/menkyoquiz/menkyo-backend/internal/validator"
)

// QuizHandler handles the quiz session endpoints.
type QuizHandler struct {
	quizService     *service.QuizService
	questionService *service.QuestionService
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(quizService *service.QuizService, questionService *service.QuestionService) *QuizHandler {
	return &QuizHandler{quizService: quizService, questionService: questionService}
}

// failQuiz maps engine and orchestration errors to API error codes.
func failQuiz(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrSessionNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
	case errors.Is(err, quiz.ErrAlreadyAnswered):
		response.Fail(c, http.StatusConflict, response.ErrAlreadyAnswered)
	case errors.Is(err, quiz.ErrNotYetAnswered):
		response.Fail(c, http.StatusConflict, response.ErrNotYetAnswered)
	case errors.Is(err, quiz.ErrSessionComplete):
		response.Fail(c, http.StatusConflict, response.ErrSessionComplete)
	case errors.Is(err, quiz.ErrPoolTooSmall), errors.Is(err, quiz.ErrEmptySession):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrPoolTooSmall)
	case errors.Is(err, service.ErrNoQuestions):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrNoQuestions)
	case errors.Is(err, service.ErrInvalidSet):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrInvalidSet)
	case errors.Is(err, service.ErrPremiumLocked):
		response.Fail(c, http.StatusForbidden, response.ErrPremiumLocked)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// Categories godoc
// GET /api/v1/quiz/categories
// Lists quiz categories with their question counts.
func (h *QuizHandler) Categories(c *gin.Context) {
	counts, err := h.questionService.CountByCategory(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"categories": counts})
}

// Sets godoc
// GET /api/v1/quiz/sets?category=Karimen
// Lists the practice sets of a category with their premium lock state.
func (h *QuizHandler) Sets(c *gin.Context) {
	claims := middleware.GetClaims(c)
	category := c.DefaultQuery("category", model.CategoryKarimen)

	sets, err := h.quizService.Sets(c.Request.Context(), claims.UserID, category)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"category": category, "sets": sets})
}

// StartSession godoc
// POST /api/v1/quiz/sessions
// Starts a new quiz session. Any previous live session is discarded.
func (h *QuizHandler) StartSession(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.StartSessionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	state, err := h.quizService.StartSession(c.Request.Context(), claims.UserID, req)
	if err != nil {
		failQuiz(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"session": state})
}

// GetSession godoc
// GET /api/v1/quiz/sessions/:session_id
// Returns the live state of a session, for resuming after a reload.
func (h *QuizHandler) GetSession(c *gin.Context) {
	claims := middleware.GetClaims(c)

	state, err := h.quizService.GetSession(c.Request.Context(), claims.UserID, c.Param("session_id"))
	if err != nil {
		failQuiz(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": state})
}

// ActiveSession godoc
// GET /api/v1/quiz/sessions/active
// Returns the user's current live session, if any.
func (h *QuizHandler) ActiveSession(c *gin.Context) {
	claims := middleware.GetClaims(c)

	state, err := h.quizService.ActiveSession(c.Request.Context(), claims.UserID)
	if err != nil {
		failQuiz(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": state})
}

// SubmitAnswer godoc
// POST /api/v1/quiz/sessions/:session_id/answer
// Answers the current question. Write-once: a duplicate submit fails with
// ALREADY_ANSWERED and changes nothing.
func (h *QuizHandler) SubmitAnswer(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.SubmitAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	verdict, state, err := h.quizService.SubmitAnswer(c.Request.Context(), claims.UserID, c.Param("session_id"), req)
	if err != nil {
		failQuiz(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"verdict": verdict, "session": state})
}

// Advance godoc
// POST /api/v1/quiz/sessions/:session_id/advance
// Moves to the next question. On the final advance the session completes
// and the response carries the summary.
func (h *QuizHandler) Advance(c *gin.Context) {
	claims := middleware.GetClaims(c)

	state, summary, err := h.quizService.Advance(c.Request.Context(), claims.UserID, c.Param("session_id"))
	if err != nil {
		failQuiz(c, err)
		return
	}

	payload := gin.H{"session": state}
	if summary != nil {
		payload["summary"] = summary
	}
	response.Success(c, http.StatusOK, payload)
}

// AbortSession godoc
// DELETE /api/v1/quiz/sessions/:session_id
// Discards a live session. Nothing is aggregated.
func (h *QuizHandler) AbortSession(c *gin.Context) {
	claims := middleware.GetClaims(c)

	if err := h.quizService.Abort(c.Request.Context(), claims.UserID, c.Param("session_id")); err != nil {
		failQuiz(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}
