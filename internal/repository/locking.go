package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockForUpdate 追加行级写锁（sqlite 下为空操作，由单连接池串行化保证）。
func lockForUpdate(db *gorm.DB) *gorm.DB {
	if db == nil {
		return db
	}
	switch dbDialectName(db) {
	case "postgres", "postgresql":
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	default:
		return db
	}
}
