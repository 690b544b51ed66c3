package compiler

import (
	"strconv"
	"strings"

	"github.com/satishbabariya/querycatalog/internal/core/query/domain"
)

// mysqlMaxRows is the documented way to express "no limit" before an OFFSET in MySQL.
const mysqlMaxRows = "18446744073709551615"

// dialect renders the parts of a statement that differ between databases. Statements are
// written with "?" placeholders; rebind rewrites them for PostgreSQL.
type dialect struct {
	name  domain.SQLDialect
	quote byte
}

func newDialect(name domain.SQLDialect) dialect {
	switch name {
	case domain.MySQL:
		return dialect{name: name, quote: '`'}
	default:
		return dialect{name: name, quote: '"'}
	}
}

// ident quotes an identifier.
func (d dialect) ident(name string) string {
	q := string(d.quote)
	return q + strings.ReplaceAll(name, q, q+q) + q
}

// column renders alias.column.
func (d dialect) column(alias, name string) string {
	return d.ident(alias) + "." + d.ident(name)
}

// like renders a LIKE against one pattern argument. MySQL and PostgreSQL already treat
// backslash as the LIKE escape; SQLite has none unless one is declared.
func (d dialect) like() string {
	if d.name == domain.SQLite {
		return ` LIKE ? ESCAPE '\'`
	}
	return " LIKE ?"
}

// limit renders the pagination clause with a leading space.
func (d dialect) limit(p domain.Pagination) fragment {
	var f fragment
	switch {
	case p.Take != nil && p.Skip != nil:
		f.sql = " LIMIT ? OFFSET ?"
		f.args = []interface{}{*p.Take, *p.Skip}
	case p.Take != nil:
		f.sql = " LIMIT ?"
		f.args = []interface{}{*p.Take}
	case p.Skip != nil:
		switch d.name {
		case domain.SQLite:
			f.sql = " LIMIT -1 OFFSET ?"
		case domain.MySQL:
			f.sql = " LIMIT " + mysqlMaxRows + " OFFSET ?"
		default:
			f.sql = " OFFSET ?"
		}
		f.args = []interface{}{*p.Skip}
	}
	return f
}

// rebind replaces "?" placeholders outside quoted text with $1, $2, ... for PostgreSQL.
func (d dialect) rebind(query string) string {
	if d.name != domain.PostgreSQL {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	var quote byte
	for i := 0; i < len(query); i++ {
		ch := query[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '"' || ch == '\'':
			quote = ch
		case ch == '?':
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(ch)
	}
	return b.String()
}
