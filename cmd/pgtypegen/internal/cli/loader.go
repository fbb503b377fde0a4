package cli

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/pgtypegen/pgtypegen/annotate"
	"github.com/pgtypegen/pgtypegen/internal/dsn"
	"github.com/pgtypegen/pgtypegen/introspect"
	"github.com/pgtypegen/pgtypegen/query"
	"github.com/pgtypegen/pgtypegen/wire"
)

// loadQueries parses every *.sql file under dir into UntypedQuery
// records, sorted by file path then name for deterministic output.
func loadQueries(dir string) ([]query.UntypedQuery, error) {
	entries, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return nil, err
	}
	sort.Strings(entries)

	var out []query.UntypedQuery
	for _, path := range entries {
		contents, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		parsed, err := annotate.Parse(path, string(contents))
		if err != nil {
			return nil, err
		}
		out = append(out, parsed...)
	}
	return out, nil
}

// dialIntrospector parses rawURL, opens an authenticated connection, and
// wraps it as an Introspector ready to describe queries.
func dialIntrospector(rawURL string) (*introspect.Introspector, *wire.Connection, error) {
	info, err := dsn.Parse(rawURL)
	if err != nil {
		return nil, nil, err
	}

	conn, err := wire.Open("tcp", info.Address(), info.User, info.Password, info.Database, logger)
	if err != nil {
		return nil, nil, err
	}

	in := introspect.New(introspect.NewConn(conn), logger)
	return in, conn, nil
}
