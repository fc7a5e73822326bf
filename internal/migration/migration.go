package migration

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/smallbiznis/clinicbill/internal/invoice/repository"
)

// RunMigrations creates or updates the document, line item and invoice sequence tables.
func RunMigrations(ctx context.Context, conn *gorm.DB) error {
	if conn == nil {
		return errors.New("migration database handle is required")
	}

	if err := conn.WithContext(ctx).AutoMigrate(repository.Models()...); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
