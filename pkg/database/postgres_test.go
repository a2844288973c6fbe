package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/sis-api/pkg/config"
)

func TestDSN(t *testing.T) {
	assert.Equal(t, "postgres://u:p@db/sis", DSN(config.DatabaseConfig{URL: "postgres://u:p@db/sis", Host: "ignored"}))

	dsn := DSN(config.DatabaseConfig{Host: "localhost", Port: 5432, User: "postgres", Password: "secret", Name: "sis", SSLMode: "disable"})
	assert.Equal(t, "host=localhost port=5432 user=postgres password=secret dbname=sis sslmode=disable", dsn)
}
