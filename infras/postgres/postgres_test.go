package postgres_test

import (
	"net/url"
	"testing"

	"suave/config"
	"suave/infras/postgres"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	endpoint := config.PostgresEndpoint{
		Host:     "db.internal",
		Port:     "5432",
		Username: "suave",
		Password: "p@ss/word?",
		Name:     "reservations",
		Timezone: "Africa/Lagos",
		SSLMode:  "disable",
	}

	parsed, err := url.Parse(postgres.DSN(endpoint, "staging_"))
	require.NoError(t, err)

	password, _ := parsed.User.Password()

	assert.Equal(t, "postgres", parsed.Scheme)
	assert.Equal(t, "db.internal:5432", parsed.Host)
	assert.Equal(t, "suave", parsed.User.Username())
	assert.Equal(t, "p@ss/word?", password)
	assert.Equal(t, "/staging_reservations", parsed.Path)
	assert.Equal(t, "disable", parsed.Query().Get("sslmode"))
	assert.Equal(t, "Africa/Lagos", parsed.Query().Get("timezone"))
}

func TestDSN_OmitsEmptyOptions(t *testing.T) {
	dsn := postgres.DSN(config.PostgresEndpoint{Host: "localhost", Port: "5432", Name: "suave"}, "")

	parsed, err := url.Parse(dsn)
	require.NoError(t, err)

	assert.Empty(t, parsed.RawQuery)
	assert.Equal(t, "/suave", parsed.Path)
}
