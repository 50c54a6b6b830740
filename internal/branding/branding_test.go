package branding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmbeddedValues(t *testing.T) {
	assert.Equal(t, "ormstarter", CLIName())
	assert.Equal(t, ".ormstarter", HomeDir())
	assert.Equal(t, "ORMSTARTER", EnvPrefix())
	assert.NotEmpty(t, DisplayName())
	assert.NotEmpty(t, Description())
}

func TestEnvVar(t *testing.T) {
	assert.Equal(t, "ORMSTARTER_TEMPLATES_ROOT", EnvVar("templates_root"))
}
