package catalog

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestViolatesConstraint(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "uq_products_barcode"}

	assert.True(t, violatesConstraint(dup, "uq_products_barcode"))
	assert.True(t, violatesConstraint(fmt.Errorf("insert product: %w", dup), "uq_products_barcode"))

	assert.False(t, violatesConstraint(dup, "uq_users_email"))
	assert.False(t, violatesConstraint(fmt.Errorf("no rows"), "uq_products_barcode"))
	assert.False(t, violatesConstraint(nil, "uq_products_barcode"))
}
