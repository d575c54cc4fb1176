package document

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	t.Parallel()
	doc, err := Parse(context.Background(), []byte(orderDoc), "inline")
	require.NoError(t, err)

	s := Summarize(doc)
	assert.Equal(t, "Orders", s.Title)
	require.Len(t, s.Operations, 1)
	op := s.Operations[0]
	assert.Equal(t, "POST", op.Method)
	assert.Equal(t, "OrderController_CreateOrder", op.ID)
	assert.Equal(t, []string{"application/json"}, op.BodyMedia)
	assert.Equal(t, map[string]int{"200": 2}, op.Unions)

	require.Len(t, s.Schemas, 2)
	assert.Equal(t, "Shop.Client.NotFound", s.Schemas[0].ID)
	assert.Equal(t, "plain", s.Schemas[1].Composition)
	assert.Equal(t, []string{"id"}, s.Schemas[1].Properties)

	var buf bytes.Buffer
	s.Print(&buf)
	assert.Contains(t, buf.String(), "- POST /api/Order [OrderController_CreateOrder]")
	assert.Contains(t, buf.String(), "200: oneOf(2)")
	assert.Contains(t, buf.String(), "- Shop.Client.Order plain {id}")
}
