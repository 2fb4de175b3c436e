package postgres

import (
	"strings"
	"testing"
	"testing/fstest"
)

func migrationFS(files map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, body := range files {
		fsys["sql/migrations/"+name] = &fstest.MapFile{Data: []byte(body)}
	}
	return fsys
}

func TestLoadMigrationsFromFS_SortedPairs(t *testing.T) {
	t.Parallel()

	fsys := migrationFS(map[string]string{
		"0002_add_sales.up.sql":   "CREATE TABLE test_sales (id INT);",
		"0002_add_sales.down.sql": "DROP TABLE IF EXISTS test_sales;",
		"0001_init.up.sql":        "CREATE TABLE test_orders (id INT);",
		"0001_init.down.sql":      "DROP TABLE IF EXISTS test_orders;",
	})

	migrations, err := loadMigrationsFromFS(fsys)
	if err != nil {
		t.Fatalf("loadMigrationsFromFS failed: %v", err)
	}
	if len(migrations) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(migrations))
	}

	// Порядок по версии независимо от порядка файлов.
	if migrations[0].Version != 1 || migrations[0].Name != "init" {
		t.Fatalf("unexpected first migration: %+v", migrations[0])
	}
	if migrations[1].Version != 2 || migrations[1].Name != "add_sales" {
		t.Fatalf("unexpected second migration: %+v", migrations[1])
	}
	if !strings.Contains(migrations[0].Up, "CREATE TABLE") || !strings.Contains(migrations[0].Down, "DROP TABLE") {
		t.Fatalf("migration bodies mixed up: %+v", migrations[0])
	}
}

func TestLoadMigrationsFromFS_Invalid(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		files   map[string]string
		wantErr string
	}{
		"missing down": {
			files: map[string]string{
				"0001_init.up.sql": "CREATE TABLE test_a (id INT);",
			},
			wantErr: "both up and down",
		},
		"bad filename": {
			files: map[string]string{
				"not_a_migration.sql": "SELECT 1;",
			},
			wantErr: "invalid migration file name",
		},
		"empty body": {
			files: map[string]string{
				"0001_init.up.sql":   "   \n",
				"0001_init.down.sql": "DROP TABLE IF EXISTS test;",
			},
			wantErr: "migration file is empty",
		},
		"name mismatch": {
			files: map[string]string{
				"0001_init.up.sql":    "CREATE TABLE test_a (id INT);",
				"0001_other.down.sql": "DROP TABLE IF EXISTS test_a;",
			},
			wantErr: "name mismatch",
		},
	}

	for label, tc := range cases {
		tc := tc
		t.Run(label, func(t *testing.T) {
			t.Parallel()

			_, err := loadMigrationsFromFS(migrationFS(tc.files))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected %q in error, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestParseMigrationFile(t *testing.T) {
	t.Parallel()

	version, name, direction, err := parseMigrationFile("0002_create_order_items.down.sql")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if version != 2 || name != "create_order_items" || direction != "down" {
		t.Fatalf("unexpected parse result: %d %s %s", version, name, direction)
	}

	for _, bad := range []string{
		"0001_init.sql",
		"init.up.sql",
		"0001.up.sql",
		"x001_init.up.sql",
		"0001_init.up.txt",
	} {
		if _, _, _, err := parseMigrationFile(bad); err == nil {
			t.Errorf("expected parse error for %s", bad)
		}
	}
}
