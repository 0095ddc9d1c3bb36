package migrate

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// RequiredTables are the tables read or written by the services.
var RequiredTables = []string{
	"products",
	"networks",
	"stores",
	"network_products",
	"network_stores",
	"submitted_items",
	"allowed_users",
	"admin_users",
}

// VerifySchema fails when any required table is absent from conn.
func VerifySchema(ctx context.Context, conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db is required")
	}
	migrator := conn.WithContext(ctx).Migrator()

	var missing []string
	for _, table := range RequiredTables {
		if !migrator.HasTable(table) {
			missing = append(missing, table)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("schema incomplete, missing tables: %s (run cmd/migrate up)", strings.Join(missing, ", "))
	}
	return nil
}
