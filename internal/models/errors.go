package models

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCode     = errors.New("empty symbol code")
	ErrUnknownSymbol = errors.New("symbol has no market data")
)

// PersistenceError хранилище недоступно или отклонило операцию.
type PersistenceError struct {
	Op   string // list | add | remove
	Code string
	Err  error
}

func (e *PersistenceError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("symbol store %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("symbol store %s %s: %v", e.Op, e.Code, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// LookupError сбой провайдера по одному тикеру. Наружу из синхронизации не выходит.
type LookupError struct {
	Symbol string
	Err    error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup %s: %v", e.Symbol, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
