package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJsonRpcRequest(t *testing.T) {
	req, err := ParseJsonRpcRequest([]byte(`{"jsonrpc":"2.0","id":3,"method":"tools/list","params":{}}`))
	require.NoError(t, err)
	assert.Equal(t, string(MethodToolsList), req.Method)
	assert.Equal(t, 3.0, req.ID)
	assert.False(t, req.IsNotification())

	req, err = ParseJsonRpcRequest([]byte(`{"jsonrpc":"2.0","method":"notifications/initialized"}`))
	require.NoError(t, err)
	assert.True(t, req.IsNotification())

	_, err = ParseJsonRpcRequest([]byte(`{"jsonrpc":"1.0","id":1,"method":"ping"}`))
	assert.ErrorContains(t, err, "version")
	_, err = ParseJsonRpcRequest([]byte(`{"jsonrpc":"2.0","id":1}`))
	assert.Error(t, err)
	_, err = ParseJsonRpcRequest([]byte(`{`))
	assert.Error(t, err)
}

func TestResponsesKeepID(t *testing.T) {
	resp, err := NewJsonRpcResponse(map[string]any{"ok": true}, "abc")
	require.NoError(t, err)
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":"abc","result":{"ok":true}}`, string(data))

	errResp := NewJsonRpcErrorResponse(ErrMethodNotFound, "Method not found: nope", nil, 7)
	data, err = json.Marshal(errResp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":7,"error":{"code":-32601,"message":"Method not found: nope"}}`, string(data))
}

func TestToolErrorShape(t *testing.T) {
	data, err := json.Marshal(NewToolError("The radius must be greater than 0."))
	require.NoError(t, err)
	assert.JSONEq(t, `{"content":[{"type":"text","text":"The radius must be greater than 0."}],"isError":true}`, string(data))
}
