package helper

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDatabaseConfiguration(t *testing.T) {
	t.Run("Reads configuration from environment", func(t *testing.T) {
		SetTestDatabaseConfigEnvs(t, "15432")

		config, err := NewDatabaseConfiguration()

		require.NoError(t, err)
		assert.Equal(t, "localhost", config.Host)
		assert.Equal(t, "15432", config.Port)
		assert.Equal(t, "database", config.Database)
		assert.Equal(t, "user", config.Username)
		assert.Equal(t, "password", config.Password)
		assert.Equal(t, 10, config.MaxOpenConns, "Expected default max open connections")
	})

	t.Run("Fails without credentials", func(t *testing.T) {
		t.Setenv("MEDGRAPH_DB_USERNAME", "")
		t.Setenv("MEDGRAPH_DB_PASSWORD", "")

		config, err := NewDatabaseConfiguration()

		require.Error(t, err)
		assert.Nil(t, config)
		assert.Contains(t, err.Error(), "parse database configuration")
	})

	t.Run("Connection string contains all settings", func(t *testing.T) {
		config := &DatabaseConfiguration{
			Host:     "db",
			Port:     "5432",
			Database: "medgraph",
			Username: "u",
			Password: "p",
			Schema:   "public",
			SSLMode:  "disable",
		}

		assert.Equal(t, "host=db port=5432 user=u password=p dbname=medgraph sslmode=disable search_path=public", config.ConnectionString())
	})
}

func TestNewDatabase(t *testing.T) {
	t.Run("Nil configuration returns an error", func(t *testing.T) {
		db, err := NewDatabase("test", nil, nil)

		require.Error(t, err)
		assert.Nil(t, db)
		assert.Contains(t, err.Error(), "database configuration is nil")
	})
}

func TestNewError(t *testing.T) {
	t.Run("Wraps the operation and keeps the cause", func(t *testing.T) {
		cause := errors.New("connection refused")

		err := NewError("select node", cause)

		require.Error(t, err)
		assert.Equal(t, "error in select node: connection refused", err.Error())
		assert.ErrorIs(t, err, cause)

		var wrapped *Error
		require.ErrorAs(t, err, &wrapped)
		assert.Equal(t, "select node", wrapped.Operation)
	})

	t.Run("Nil error stays nil", func(t *testing.T) {
		assert.NoError(t, NewError("noop", nil))
	})
}
