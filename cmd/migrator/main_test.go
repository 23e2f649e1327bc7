package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPgxURL(t *testing.T) {
	assert.Equal(t, "pgx5://shop@db:5432/shop", pgxURL("postgres://shop@db:5432/shop"))
	assert.Equal(t, "pgx5://db/shop", pgxURL("postgresql://db/shop"))
	assert.Equal(t, "pgx5://db/shop", pgxURL("pgx5://db/shop"))
}

func TestFlagsValidate(t *testing.T) {
	assert.NoError(t, flags{dsn: "postgres://db/shop", migrationsPath: "migrations"}.validate())

	err := flags{}.validate()
	assert.ErrorContains(t, err, "--dsn")
	assert.ErrorContains(t, err, "--migrations-path")
}
