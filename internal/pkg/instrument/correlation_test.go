package instrument

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCorrelationID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetCorrelationID(ctx))

	ctx = SetCorrelationID(ctx, "cid-123")
	assert.Equal(t, "cid-123", GetCorrelationID(ctx))

	//nolint:staticcheck // nil context is handled explicitly
	assert.Empty(t, GetCorrelationID(nil))
}
