package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommands(t *testing.T) {
	nearby, ok := Commands["NEARBY"]
	require.True(t, ok)
	assert.Equal(t, "NEARBY", nearby.Name)
	assert.Equal(t,
		"NEARBY key [LIMIT count] [METRIC euclidean|haversine|cosines|equirectangular] [WITHOBJECTS] POINT lat lon",
		nearby.String())

	set := Commands["SET"]
	assert.Equal(t,
		"SET key id (OBJECT geojson)|(POINT lat lon)|(BOUNDS minlat minlon maxlat maxlon)",
		set.String())

	assert.Equal(t, []string{"CONFIG GET", "CONFIG REWRITE", "CONFIG SET", "SERVER"}, Groups("server"))
	for name, command := range Commands {
		assert.NotEmpty(t, command.Summary, name)
	}
}
