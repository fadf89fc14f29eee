package optparse

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLegacyCollectsDefines(t *testing.T) {
	appArgs, err := ParseLegacy("-D replicas=3 -D name=web")
	require.NoError(t, err)
	assert.Equal(t, "3", appArgs["replicas"])
	assert.Equal(t, "web", appArgs["name"])
}

func TestParseLegacyExpandsEnvInDefineValue(t *testing.T) {
	os.Setenv("OPTPARSE_TEST_TAG", "v1.2.3")
	defer os.Unsetenv("OPTPARSE_TEST_TAG")

	appArgs, err := ParseLegacy("-D tag=${OPTPARSE_TEST_TAG}")
	require.NoError(t, err)
	assert.Equal(t, "v1.2.3", appArgs["tag"])
}
