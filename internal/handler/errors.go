package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"football-store/internal/usecase"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

var kindStatus = map[usecase.ErrorKind]int{
	usecase.KindNotFound:            http.StatusNotFound,
	usecase.KindInvalidState:        http.StatusBadRequest,
	usecase.KindValidation:          http.StatusBadRequest,
	usecase.KindOrderCreationFailed: http.StatusBadRequest,
	usecase.KindUnauthorized:        http.StatusUnauthorized,
	usecase.KindForbidden:           http.StatusForbidden,
	usecase.KindConflict:            http.StatusConflict,
	usecase.KindInternal:            http.StatusInternalServerError,
}

// ルートごとにステータスを変えたいとき
type statusOverride map[usecase.ErrorKind]int

func writeError(c echo.Context, err error, overrides ...statusOverride) error {
	if err == nil {
		return nil
	}

	ae, ok := usecase.AsAppError(err)
	if !ok {
		return internalError(err)
	}

	status, ok := kindStatus[ae.Kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	for _, o := range overrides {
		if s, ok := o[ae.Kind]; ok {
			status = s
		}
	}

	if status == http.StatusInternalServerError {
		return internalError(err)
	}
	return c.JSON(status, ErrorResponse{Error: ae.Message})
}

// 原因はRequestLoggerがログに出す。本文は固定
func internalError(err error) error {
	return echo.NewHTTPError(http.StatusInternalServerError, "internal error").SetInternal(err)
}

// echo全体のエラーハンドラ。本文は常に {"error": ...}
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	msg := "internal error"
	if he, ok := err.(*echo.HTTPError); ok {
		status = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(status)
		}
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, ErrorResponse{Error: msg})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func pathID(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
