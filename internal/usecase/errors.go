package usecase

import (
	"fmt"

	"github.com/go-faster/errors"

	repo "football-store/internal/repository"
)

type ErrorKind string

const (
	KindNotFound            ErrorKind = "NOT_FOUND"
	KindInvalidState        ErrorKind = "INVALID_STATE"
	KindValidation          ErrorKind = "VALIDATION_ERROR"
	KindOrderCreationFailed ErrorKind = "ORDER_CREATION_FAILED"
	KindUnauthorized        ErrorKind = "UNAUTHORIZED"
	KindForbidden           ErrorKind = "FORBIDDEN"
	KindConflict            ErrorKind = "CONFLICT"
	KindInternal            ErrorKind = "INTERNAL"
)

// usecaseが返すエラー。handlerはKindでステータスを決める
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil && e.Kind == KindInternal {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(kind ErrorKind, message string) error {
	return &AppError{Kind: kind, Message: message}
}

func notFound(what string) error {
	return &AppError{Kind: KindNotFound, Message: what + " not found"}
}

func invalidState(msg string) error {
	return &AppError{Kind: KindInvalidState, Message: msg}
}

func validation(msg string) error {
	return &AppError{Kind: KindValidation, Message: msg}
}

// DBエラーなど（メッセージは外に出さない）
func internal(err error, op string) error {
	return &AppError{Kind: KindInternal, Message: "internal error", Err: errors.Wrap(err, op)}
}

// ErrNotFoundならNotFound、それ以外はInternal
func fromRepo(err error, what string, op string) error {
	if errors.Is(err, repo.ErrNotFound) {
		return notFound(what)
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return err
	}
	return internal(err, op)
}

// 一番外側のAppError
func AsAppError(err error) (*AppError, bool) {
	var ae *AppError
	ok := errors.As(err, &ae)
	return ae, ok
}

// ラップの途中も含めてkindを持つAppErrorがあるか
func HasKind(err error, kind ErrorKind) bool {
	for err != nil {
		if ae, ok := err.(*AppError); ok && ae.Kind == kind {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}
