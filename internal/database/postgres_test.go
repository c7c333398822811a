package database

import "testing"

func TestMigrationVersion(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		version int
		ok      bool
	}{
		{"initial schema", "001_initial_schema.sql", 1, true},
		{"double digits", "012_add_voice_notes.sql", 12, true},
		{"not sql", "001_initial_schema.sql.bak", 0, false},
		{"no numeric prefix", "schema.sql", 0, false},
		{"no underscore", "001.sql", 0, false},
		{"zero version", "000_bootstrap.sql", 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			version, ok := migrationVersion(tc.file)
			if ok != tc.ok || version != tc.version {
				t.Errorf("migrationVersion(%q) = (%d, %v), want (%d, %v)", tc.file, version, ok, tc.version, tc.ok)
			}
		})
	}
}
