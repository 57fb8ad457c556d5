// Package repo is the gorm-backed persistence layer. Methods return
// gorm.ErrRecordNotFound untranslated; the service layer maps it onto the
// API error taxonomy.
package repo

import "gorm.io/gorm"

type GormRepo struct {
	DB *gorm.DB
}
