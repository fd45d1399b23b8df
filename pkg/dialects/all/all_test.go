package all

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seaquel-labs/sqlkit/pkg/dialect"
)

func TestAllDialectsRegistered(t *testing.T) {
	assert.Equal(t,
		[]string{"duckdb", "mariadb", "mssql", "mysql", "postgres", "sqlite"},
		dialect.List())
}

func TestEachAdapterResolvable(t *testing.T) {
	for _, name := range dialect.List() {
		a, err := dialect.Get(name)
		assert.NoError(t, err, name)
		assert.Equal(t, name, a.Name())
	}
}
