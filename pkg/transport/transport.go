package transport

import (
	"fmt"

	"github.com/richard-senior/arcmcp/pkg/protocol"
)

// Transport defines the interface for communication methods
type Transport interface {
	// ReadRequest blocks until the next request arrives. A *ParseError means
	// the message was unreadable but the stream is still usable.
	ReadRequest() (*protocol.JsonRpcRequest, error)
	WriteResponse(*protocol.JsonRpcResponse) error
}

// RequestHandler answers a single request. A nil response means nothing is
// sent back, as for notifications.
type RequestHandler func(*protocol.JsonRpcRequest) *protocol.JsonRpcResponse

// ParseError wraps a message that could not be decoded as a JSON-RPC request
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse JSON-RPC request: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseErrorResponse is the reply to a request that could not be parsed
func ParseErrorResponse(err error) *protocol.JsonRpcResponse {
	return protocol.NewJsonRpcErrorResponse(protocol.ErrParse, err.Error(), nil, nil)
}
