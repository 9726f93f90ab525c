package transport

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/richard-senior/arcmcp/internal/logger"
	"github.com/richard-senior/arcmcp/pkg/protocol"
)

// StdioTransport reads one JSON object per message and writes one line of
// JSON per response
type StdioTransport struct {
	reader *bufio.Reader
	writer *bufio.Writer
	mu     sync.Mutex
}

// NewStdioTransport creates a new transport that uses stdin/stdout
func NewStdioTransport() *StdioTransport {
	return NewStreamTransport(os.Stdin, os.Stdout)
}

// NewStreamTransport creates a stdio-style transport over any reader and writer
func NewStreamTransport(r io.Reader, w io.Writer) *StdioTransport {
	return &StdioTransport{
		reader: bufio.NewReader(r),
		writer: bufio.NewWriter(w),
	}
}

// ReadRequest reads a JSON-RPC request from the input stream
func (t *StdioTransport) ReadRequest() (*protocol.JsonRpcRequest, error) {
	logger.Debug("Waiting for request on stdin...")

	data, err := t.readMessage()
	if err != nil {
		if errors.Is(err, io.EOF) {
			logger.Info("Received EOF on stdin, client disconnected")
		}
		return nil, err
	}
	logger.Debug("Received raw request:", string(data))

	request, err := protocol.ParseJsonRpcRequest(data)
	if err != nil {
		logger.Error("Failed to parse JSON-RPC request:", err)
		return nil, &ParseError{Err: err}
	}
	return request, nil
}

// readMessage returns the bytes of the next top level JSON object.
// Braces inside string literals are not counted.
func (t *StdioTransport) readMessage() ([]byte, error) {
	var data []byte
	depth := 0
	inString, escaped := false, false

	for {
		b, err := t.reader.ReadByte()
		if err != nil {
			if err == io.EOF && len(data) > 0 {
				return nil, &ParseError{Err: io.ErrUnexpectedEOF}
			}
			return nil, err
		}

		if depth == 0 {
			switch b {
			case ' ', '\t', '\r', '\n':
				continue
			case '{', '[':
			default:
				// discard the rest of the line so the stream can recover
				rest, _ := t.reader.ReadString('\n')
				return nil, &ParseError{Err: fmt.Errorf("unexpected input %q", string(b)+rest)}
			}
		}

		data = append(data, b)
		switch {
		case escaped:
			escaped = false
		case inString && b == '\\':
			escaped = true
		case b == '"':
			inString = !inString
		case inString:
		case b == '{' || b == '[':
			depth++
		case b == '}' || b == ']':
			depth--
			if depth == 0 {
				return data, nil
			}
		}
	}
}

// WriteResponse writes a JSON-RPC response followed by a newline
func (t *StdioTransport) WriteResponse(response *protocol.JsonRpcResponse) error {
	responseBytes, err := json.Marshal(response)
	if err != nil {
		logger.Error("Failed to marshal response:", err)
		return err
	}
	responseBytes = append(responseBytes, '\n')

	t.mu.Lock()
	defer t.mu.Unlock()

	logger.Debug("Sending response:", string(responseBytes))
	if _, err := t.writer.Write(responseBytes); err != nil {
		logger.Error("Failed to write response:", err)
		return err
	}
	if err := t.writer.Flush(); err != nil {
		logger.Error("Failed to flush response:", err)
		return err
	}
	return nil
}
