package repository

import (
	"context"
	"fmt"

	"promo-admin/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const promotionColumns = `id, name, date, sent_gifts, days_to_take_gift, days_to_receive_gift, description, card_numbers`

// sortColumns maps API sort keys to SQL columns.
var sortColumns = map[string]string{
	model.SortByName:      "lower(name)",
	model.SortByDate:      "date",
	model.SortBySentGifts: "sent_gifts",
	model.SortByID:        "id",
}

// orderBy builds the ORDER BY clause. Unknown keys sort by name. id is the
// tie-breaker so pages are stable.
func orderBy(sort string, desc bool) string {
	column, ok := sortColumns[sort]
	if !ok {
		column = "lower(name)"
	}
	direction := "ASC"
	if desc {
		direction = "DESC"
	}
	if column == "id" {
		return "id " + direction
	}
	return fmt.Sprintf("%s %s, id ASC", column, direction)
}

func scanPromotion(row pgx.Row) (model.Promotion, error) {
	var p model.Promotion
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Date.Time,
		&p.SentGifts,
		&p.DaysToTakeGift,
		&p.DaysToReceiveGift,
		&p.Description,
		&p.CardNumbers,
	)
	return p, err
}
