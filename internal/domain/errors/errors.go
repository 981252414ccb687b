package errors

import (
	"fmt"
)

type ErrSubscriberNotFound struct {
	UserID int64
}

func (e *ErrSubscriberNotFound) Error() string {
	return fmt.Sprintf("подписчик не найден: %d", e.UserID)
}

func (e *ErrSubscriberNotFound) Is(target error) bool {
	_, ok := target.(*ErrSubscriberNotFound)
	return ok
}

type ErrInvalidTimeFormat struct {
	Value string
}

func (e *ErrInvalidTimeFormat) Error() string {
	return fmt.Sprintf("неверный формат времени '%s': ожидается ЧЧ:ММ", e.Value)
}

func (e *ErrInvalidTimeFormat) Is(target error) bool {
	_, ok := target.(*ErrInvalidTimeFormat)
	return ok
}

type ErrEmptyCity struct{}

func (e *ErrEmptyCity) Error() string {
	return "название города не может быть пустым"
}

func (e *ErrEmptyCity) Is(target error) bool {
	_, ok := target.(*ErrEmptyCity)
	return ok
}

type ErrUnknownCommand struct {
	Command string
}

func (e *ErrUnknownCommand) Error() string {
	return "неизвестная команда: " + e.Command
}

func (e *ErrUnknownCommand) Is(target error) bool {
	_, ok := target.(*ErrUnknownCommand)
	return ok
}

type ErrUnknownDBAccessType struct {
	AccessType string
}

func (e *ErrUnknownDBAccessType) Error() string {
	return fmt.Sprintf("неизвестный тип доступа к базе данных: %s", e.AccessType)
}

type ErrBuildSQLQuery struct {
	Operation string
	Cause     error
}

func (e *ErrBuildSQLQuery) Error() string {
	return fmt.Sprintf("ошибка при построении SQL запроса для %s: %v", e.Operation, e.Cause)
}

func (e *ErrBuildSQLQuery) Unwrap() error {
	return e.Cause
}

type ErrSQLExecution struct {
	Operation string
	Cause     error
}

func (e *ErrSQLExecution) Error() string {
	return fmt.Sprintf("ошибка при выполнении SQL запроса для %s: %v", e.Operation, e.Cause)
}

func (e *ErrSQLExecution) Unwrap() error {
	return e.Cause
}

type ErrSQLScan struct {
	Entity string
	Cause  error
}

func (e *ErrSQLScan) Error() string {
	return fmt.Sprintf("ошибка при сканировании %s: %v", e.Entity, e.Cause)
}

func (e *ErrSQLScan) Unwrap() error {
	return e.Cause
}

type HTTPError struct {
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error: %d", e.StatusCode)
}
