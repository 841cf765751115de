package connection

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// BindTx returns a gorm handle whose statements run on tx. Services open the
// transaction on *sql.DB and hand it to repositories through WithTx.
func BindTx(ctx context.Context, db *gorm.DB, tx *sql.Tx) *gorm.DB {
	if tx == nil {
		return db.WithContext(ctx)
	}
	// Context forces gorm to clone the statement so the pool swap does not
	// leak into the parent handle.
	bound := db.Session(&gorm.Session{NewDB: true, Context: ctx, SkipDefaultTransaction: true})
	bound.Statement.ConnPool = tx
	return bound
}
