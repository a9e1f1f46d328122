package postgres

import (
	"fmt"
	"strings"

	"github.com/Robb753/farm-to-fork-sub000/internal/core/domain"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/port"
)

// coordinatePattern - строки, которые можно привести к double precision.
// Все остальное дает NULL и не проходит ни одно сравнение с границами.
const coordinatePattern = `^\s*[-+]?([0-9]+(\.[0-9]*)?|\.[0-9]+)([eE][-+]?[0-9]+)?\s*$`

func coordinateExpr(column string) string {
	return fmt.Sprintf("(CASE WHEN %[1]s ~ '%[2]s' THEN trim(%[1]s)::double precision END)", column, coordinatePattern)
}

type queryBuilder struct {
	conditions []string
	args       []interface{}
	argId      int
}

// newQueryBuilder - публичная выдача: только одобренные активные карточки
func newQueryBuilder() *queryBuilder {
	return &queryBuilder{
		argId:      1,
		conditions: []string{"l.active = true", "l.status = 'approved'"},
		args:       make([]interface{}, 0),
	}
}

func (qb *queryBuilder) addCondition(condition string, fieldName string, arg interface{}) {
	qb.conditions = append(qb.conditions, fmt.Sprintf(condition, fieldName, qb.argId))
	qb.args = append(qb.args, arg)
	qb.argId++
}

// addFilters - пересечение массивов (&&) внутри категории, И между категориями
func (qb *queryBuilder) addFilters(filters domain.FilterState) {
	for _, c := range domain.AllFilterCategories {
		selected := filters.Selected(c)
		if len(selected) == 0 {
			continue
		}
		qb.addCondition("%s && $%d", "l."+c.String(), selected)
	}
}

// addBounds - четыре сравнения, границы включительно
func (qb *queryBuilder) addBounds(bounds *domain.MapBounds) {
	if bounds == nil {
		return
	}
	lat := coordinateExpr("l.lat")
	lng := coordinateExpr("l.lng")
	qb.addCondition("%s >= $%d", lat, bounds.SouthWest.Lat)
	qb.addCondition("%s <= $%d", lat, bounds.NorthEast.Lat)
	qb.addCondition("%s >= $%d", lng, bounds.SouthWest.Lng)
	qb.addCondition("%s <= $%d", lng, bounds.NorthEast.Lng)
}

// build возвращает WHERE и аргументы, argId указывает на следующий свободный плейсхолдер
func (qb *queryBuilder) build() (string, []interface{}) {
	whereClause := ""
	if len(qb.conditions) > 0 {
		whereClause = "WHERE " + strings.Join(qb.conditions, " AND ")
	}
	return whereClause, qb.args
}

func applyListingQuery(query port.ListingQuery) (*queryBuilder, string, []interface{}) {
	qb := newQueryBuilder()
	qb.addFilters(query.Filters)
	qb.addBounds(query.Bounds)
	where, args := qb.build()
	return qb, where, args
}
