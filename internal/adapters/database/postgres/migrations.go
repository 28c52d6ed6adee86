package postgres

import "github.com/courierhub/labelqr/internal/domain/entity"

// Migrations is a list of all gorm migrations for the database.
var Migrations = []interface{}{
	&entity.QRCode{},
}
