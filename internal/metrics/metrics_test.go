package metrics

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type empty struct{}

func TestInterceptor(t *testing.T) {
	m := New()

	ok := connect.UnaryFunc(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return connect.NewResponse(&empty{}), nil
	})
	denied := connect.UnaryFunc(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, connect.NewError(connect.CodePermissionDenied, assert.AnError)
	})

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		_, err := m.Interceptor()(ok)(ctx, connect.NewRequest(&empty{}))
		require.NoError(t, err)
	}
	_, err := m.Interceptor()(denied)(ctx, connect.NewRequest(&empty{}))
	require.Error(t, err)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `splitpal_rpc_requests_total{code="ok",procedure=""} 2`), body)
	assert.True(t, strings.Contains(body, `splitpal_rpc_requests_total{code="permission_denied",procedure=""} 1`), body)
	assert.True(t, strings.Contains(body, `splitpal_rpc_duration_seconds_count{procedure=""} 3`), body)
}
