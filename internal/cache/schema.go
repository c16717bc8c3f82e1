package cache

import "fmt"

// Provider cache tables. All tables share one layout keyed by "cache_key".
const (
	OpenLibraryTable = "openlibrary_cache"
	GoogleBooksTable = "googlebooks_cache"
	MusicBrainzTable = "musicbrainz_cache"
	UPCitemdbTable   = "upcitemdb_cache"
)

// ProviderTables lists every table Open creates.
var ProviderTables = []string{
	OpenLibraryTable,
	GoogleBooksTable,
	MusicBrainzTable,
	UPCitemdbTable,
}

// ValidCacheTableNames is the whitelist of allowed cache table names.
// Used to prevent SQL injection when interpolating table names.
var ValidCacheTableNames = map[string]bool{
	OpenLibraryTable: true,
	GoogleBooksTable: true,
	MusicBrainzTable: true,
	UPCitemdbTable:   true,
}

// TableSchema returns the CREATE statements for a cache table.
func TableSchema(tableName string) string {
	return fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %[1]s (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	expires_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_%[1]s_expires_at ON %[1]s(expires_at);
`, tableName)
}

// TableForSource maps a CLI source name (e.g. "musicbrainz") to its table.
func TableForSource(source string) (string, error) {
	table := source + "_cache"
	if !ValidCacheTableNames[table] {
		return "", fmt.Errorf("invalid cache source '%s'; valid sources are: openlibrary, googlebooks, musicbrainz, upcitemdb", source)
	}
	return table, nil
}
