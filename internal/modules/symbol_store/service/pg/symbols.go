package pg

import (
	"context"
	"fmt"
	"stock_watch/internal/models"
	"stock_watch/internal/modules/symbol_store/service/pg/sql"
	"stock_watch/pkg/db"

	"github.com/jackc/pgx/v5"
)

// Symbols implement db store
type Symbols struct {
	db  db.TxManager
	sql *sql.Queries
}

// NewSymbols instance
func NewSymbols(tx db.TxManager) *Symbols {
	return &Symbols{
		db:  tx,
		sql: sql.New(),
	}
}

// List in db
func (s *Symbols) List(ctx context.Context) (symbols []models.TrackedSymbol, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.Symbols.List: %w", err)
		}
	}()
	err = s.db.RunReadOnly(ctx,
		func(ctxTx context.Context, tx pgx.Tx) error {
			rows, err := s.sql.ListSymbols(ctxTx, tx)
			if err != nil {
				return err
			}
			symbols = make([]models.TrackedSymbol, 0, len(rows))
			for _, r := range rows {
				symbols = append(symbols, models.TrackedSymbol{Code: r.Code})
			}
			return nil
		})
	if err != nil {
		return nil, err
	}
	return symbols, nil
}

// Add in db. Повторная вставка того же кода гасится ON CONFLICT.
func (s *Symbols) Add(ctx context.Context, code string) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.Symbols.Add: %w", err)
		}
	}()
	return s.db.RunMaster(ctx,
		func(ctxTx context.Context, tx pgx.Tx) error {
			_, err := s.sql.InsertSymbol(ctxTx, tx, code)
			return err
		})
}

// Remove in db
func (s *Symbols) Remove(ctx context.Context, code string) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.Symbols.Remove: %w", err)
		}
	}()
	return s.db.RunMaster(ctx,
		func(ctxTx context.Context, tx pgx.Tx) error {
			_, err := s.sql.DeleteSymbol(ctxTx, tx, code)
			return err
		})
}
