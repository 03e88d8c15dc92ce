package option

import "gorm.io/gorm"

// QueryOption customizes a gorm query built by the generic store.
type QueryOption interface {
	Apply(db *gorm.DB) *gorm.DB
}

type orderBy struct {
	clause string
}

func (o orderBy) Apply(db *gorm.DB) *gorm.DB { return db.Order(o.clause) }

// WithOrderBy orders results by the given clause, e.g. "created_at DESC".
func WithOrderBy(clause string) QueryOption { return orderBy{clause: clause} }

type limit struct {
	n int
}

func (o limit) Apply(db *gorm.DB) *gorm.DB { return db.Limit(o.n) }

// WithLimit caps the number of returned rows.
func WithLimit(n int) QueryOption { return limit{n: n} }
