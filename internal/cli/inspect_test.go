package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspect_Richer(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "inspect", "--catalog", shopCatalog)
	require.NoError(t, err)

	assert.Contains(t, out, "- GET /api/Order [OrderController_GetOrder]")
	assert.Contains(t, out, "params: query:id, query:includeLines")
	assert.Contains(t, out, "body: multipart/form-data")
	assert.Contains(t, out, "oneOf(2)")
	assert.Contains(t, out, "- Unisys.Message plain discriminator=MessageType")
	assert.Contains(t, out, "- Shop.Client.Order allOf")
	assert.NotContains(t, out, "- Unisys.Common.EISConnectors.ConnectorState plain")
}

func TestInspect_Legacy(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "inspect", "--catalog", shopCatalog, "--legacy")
	require.NoError(t, err)

	assert.NotContains(t, out, "oneOf(")
	assert.Contains(t, out, "- Shop.Client.Order plain")
	assert.NotContains(t, out, "discriminator=")
}
