package repository

import (
	"fmt"
	"strings"

	"github.com/roach88/roster/internal/opt"
	"github.com/roach88/roster/internal/query"
)

// Page selects a window of an ordered result.
type Page struct {
	Sort   []query.Order
	Offset opt.Value[int]
	Limit  opt.Value[int]
}

func applyPage[T any](b *query.Builder[T], p Page) *query.Builder[T] {
	b = b.OrderBy(p.Sort...)
	if off, ok := p.Offset.Get(); ok {
		b = b.Offset(off)
	}
	if lim, ok := p.Limit.Get(); ok {
		b = b.Limit(lim)
	}
	return b
}

// ParseSort reads a "field[:asc|:desc]" sort key for members. Fields are
// id, name, age and team.
func ParseSort(spec string) (query.Order, error) {
	field, dir, _ := strings.Cut(spec, ":")
	m := query.Member

	var asc, desc query.Order
	switch strings.ToLower(field) {
	case "id":
		asc, desc = m.ID.Asc(), m.ID.Desc()
	case "name":
		asc, desc = m.UserName.Asc(), m.UserName.Desc()
	case "age":
		asc, desc = m.Age.Asc(), m.Age.Desc()
	case "team":
		asc, desc = m.TeamID.Asc(), m.TeamID.Desc()
	default:
		return query.Order{}, fmt.Errorf("unknown sort field %q (want id, name, age or team)", field)
	}

	switch strings.ToLower(dir) {
	case "", "asc":
		return asc, nil
	case "desc":
		return desc, nil
	default:
		return query.Order{}, fmt.Errorf("unknown sort direction %q (want asc or desc)", dir)
	}
}
