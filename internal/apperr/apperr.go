package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind - категория ошибки жизненного цикла. Вызывающая сторона различает
// по ней "нельзя", "не найдено", "уже произошло" и "повторите позже".
type Kind int

const (
	Internal        Kind = iota // Непредвиденная ошибка
	InvalidArgument             // Некорректные входные данные
	Forbidden                   // Нарушение прав, роли или владения
	NotFound                    // Работа, предложение или пользователь не найдены
	InvalidState                // Операция недопустима в текущем статусе
	Conflict                    // Конкурентное изменение выиграло гонку
	Transient                   // Хранилище недоступно, повтор безопасен
)

// Error - ошибка с категорией и сообщением для клиента.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New создает новую ошибку с категорией и сообщением.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf создает новую ошибку с форматированным сообщением.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap оборачивает исходную ошибку, сохраняя ее для errors.Is/As.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf возвращает категорию ошибки. Неизвестные ошибки считаются Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// HTTPStatus возвращает HTTP-код для категории ошибки.
func (k Kind) HTTPStatus() int {
	switch k {
	case InvalidArgument:
		return http.StatusBadRequest
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case InvalidState, Conflict:
		return http.StatusConflict
	case Transient:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
