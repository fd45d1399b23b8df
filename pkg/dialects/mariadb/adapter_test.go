package mariadb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seaquel-labs/sqlkit/pkg/dialect"
)

func TestRegisteredUnderOwnName(t *testing.T) {
	a, err := dialect.Get("mariadb")
	require.NoError(t, err)
	assert.Equal(t, "mariadb", a.Name())
}

func TestSharesMySQLSemantics(t *testing.T) {
	a := New(nil)
	assert.Equal(t, "mariadb", a.Name())
	assert.True(t, a.Options().BacktickQuotes)
	assert.True(t, a.Options().BackslashEscapes)
	assert.Equal(t, "EXPLAIN FORMAT=JSON SELECT 1", a.ExplainQuery("SELECT 1", false))
}
