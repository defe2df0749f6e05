package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/randomtoy/oracle-go/internal/app"
	"github.com/randomtoy/oracle-go/internal/domain"
)

// Messages returned to clients. Error details only go to the log.
const (
	MsgBadRequest         = "잘못된 요청 형식입니다"
	MsgAskFailed          = "질문 처리 중 오류가 발생했습니다"
	MsgDailyFortuneFailed = "오늘의 운세를 가져오는 중 오류가 발생했습니다"
	MsgListFailed         = "저장된 답변을 가져오는 중 오류가 발생했습니다"
	MsgAnswerNotFound     = "답변을 찾을 수 없습니다"
	MsgGetFailed          = "답변을 가져오는 중 오류가 발생했습니다"
)

type Handler struct {
	svc    *app.OracleService
	logger *slog.Logger
}

func NewHandler(svc *app.OracleService, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) Register(e *echo.Echo) {
	e.GET("/healthz", h.Healthz)

	api := e.Group("/api")
	api.POST("/ask", h.Ask)
	api.GET("/daily-fortune", h.DailyFortune)
	api.GET("/answers", h.ListAnswers)
	api.GET("/answers/:id", h.GetAnswer)
}

func (h *Handler) Healthz(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) Ask(c echo.Context) error {
	var req AskRequest
	if err := c.Bind(&req); err != nil {
		h.log(c, slog.LevelWarn, "bad ask body", err)
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: MsgBadRequest})
	}
	if req.Question == nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: domain.MsgQuestionRequired})
	}

	answer, err := h.svc.Ask(c.Request().Context(), *req.Question)
	if err != nil {
		return h.mapError(c, err, MsgAskFailed)
	}
	return c.JSON(http.StatusOK, toAskResponse(answer))
}

func (h *Handler) DailyFortune(c echo.Context) error {
	fortune, err := h.svc.DailyFortune(c.Request().Context())
	if err != nil {
		return h.mapError(c, err, MsgDailyFortuneFailed)
	}
	return c.JSON(http.StatusOK, FortuneResponse{Fortune: fortune})
}

func (h *Handler) ListAnswers(c echo.Context) error {
	answers, err := h.svc.ListAnswers(c.Request().Context(), c.QueryParam("userId"))
	if err != nil {
		return h.mapError(c, err, MsgListFailed)
	}

	out := make([]AnswerResponse, len(answers))
	for i, a := range answers {
		out[i] = toAnswerResponse(a)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) GetAnswer(c echo.Context) error {
	answer, err := h.svc.GetAnswer(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.mapError(c, err, MsgGetFailed)
	}
	return c.JSON(http.StatusOK, toAnswerResponse(answer))
}

// mapError turns a service error into a JSON error response. Unexpected
// errors are logged and answered with the endpoint's generic message.
func (h *Handler) mapError(c echo.Context, err error, generic string) error {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: verr.Message})
	case errors.Is(err, domain.ErrAnswerNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Message: MsgAnswerNotFound})
	case errors.Is(err, domain.ErrGenerator):
		h.log(c, slog.LevelError, "generator failure", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Message: generic})
	default:
		h.log(c, slog.LevelError, "internal error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Message: generic})
	}
}

func (h *Handler) log(c echo.Context, level slog.Level, msg string, err error) {
	requestID, _ := c.Get(ctxKeyRequestID).(string)
	h.logger.Log(c.Request().Context(), level, msg,
		"request_id", requestID,
		"path", c.Path(),
		"error", err,
	)
}
