package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/retailops/arledger/pkg/migrate"
)

func TestOrdersMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_orders_tables.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS orders",
		"CREATE TABLE IF NOT EXISTS order_lines",
		"FOREIGN KEY (customer_id) REFERENCES customers(id) ON DELETE CASCADE",
		"FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE",
		"FOREIGN KEY (item_id) REFERENCES items(id) ON DELETE RESTRICT",
		"CHECK (quantity > 0)",
		"CHECK (total_cents >= 0)",
		"CREATE INDEX IF NOT EXISTS idx_orders_date",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestPaymentsMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_payments_table.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS payments",
		"FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE",
		"CHECK (amount_cents > 0)",
		"CREATE INDEX IF NOT EXISTS idx_payments_order_id",
		"CREATE INDEX IF NOT EXISTS idx_payments_date",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestCatalogMigrationsContainSchemas(t *testing.T) {
	customers := readMigration(t, "*_create_customers_table.sql")
	if !strings.Contains(customers, "CREATE TABLE IF NOT EXISTS customers") {
		t.Errorf("customers migration missing table statement")
	}

	items := readMigration(t, "*_create_items_table.sql")
	for _, sub := range []string{
		"CREATE TABLE IF NOT EXISTS items",
		"CHECK (unit_price_cents >= 0)",
	} {
		if !strings.Contains(items, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration file matching %q", pattern)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestMigrationsDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}
