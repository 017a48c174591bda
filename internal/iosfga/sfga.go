package iosfga

import (
	"database/sql"
	"errors"
	"os"

	"github.com/sfborg/sflib"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGo)
)

// fetchSFGA fetches and extracts an SFGA archive to the cache directory.
// The archive can be a local file or URL, in SQL or SQLite form,
// optionally zipped. Returns the path to the extracted SQLite file.
func fetchSFGA(sfgaPath, cacheDir string) (string, error) {
	arc := sflib.NewSfga()

	err := arc.Fetch(sfgaPath, cacheDir)
	if err != nil {
		return "", FetchError(sfgaPath, err)
	}

	sqlitePath := arc.DbPath()
	if sqlitePath == "" {
		err = errors.New("database path is empty after fetching")
		return "", FetchError(sfgaPath, err)
	}

	return sqlitePath, nil
}

// openSFGA opens a SQLite database and returns a database handle.
func openSFGA(sqlitePath string) (*sql.DB, error) {
	if _, err := os.Stat(sqlitePath); err != nil {
		return nil, ReadError(sqlitePath, err)
	}

	db, err := sql.Open("sqlite", sqlitePath)
	if err != nil {
		return nil, ReadError(sqlitePath, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, ReadError(sqlitePath, err)
	}

	return db, nil
}
