package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync"
	"syscall"

	"github.com/richard-senior/arcmcp/internal/config"
	"github.com/richard-senior/arcmcp/internal/logger"
	"github.com/richard-senior/arcmcp/pkg/prompts"
	"github.com/richard-senior/arcmcp/pkg/protocol"
	"github.com/richard-senior/arcmcp/pkg/resources"
	"github.com/richard-senior/arcmcp/pkg/tools"
	"github.com/richard-senior/arcmcp/pkg/transport"
	"github.com/richard-senior/arcmcp/pkg/util"
)

// ServerName and ServerVersion are reported to clients on initialize
const (
	ServerName    = "arcmcp"
	ServerVersion = "1.0.0"
)

// DefaultProtocolVersion is used when the client does not ask for one
const DefaultProtocolVersion = "2024-11-05"

// Server represents an MCP server
type Server struct {
	transport    transport.Transport
	toolPrefix   string
	mu           sync.RWMutex
	handlers     map[string]HandlerFunc
	toolHandlers map[string]HandlerFunc
	tools        []protocol.Tool
	resources    []protocol.Resource
	prompts      *prompts.PromptRegistry
}

// HandlerFunc is a function that handles an MCP request
type HandlerFunc func(params any) (any, error)

// Singleton instance
var (
	instance *Server
	once     sync.Once
)

// GetInstance returns the singleton instance of the Server
func GetInstance() *Server {
	if instance == nil {
		logger.Warn("Server instance requested but not initialized. Using stdio transport.")
		return InitInstance(transport.NewStdioTransport())
	}
	return instance
}

// InitInstance initializes the singleton instance of the Server with the specified transport
func InitInstance(t transport.Transport) *Server {
	once.Do(func() {
		instance = New(t, config.Current().ToolPrefix)
	})
	return instance
}

// New creates a server with the arc tools, resources and prompts registered.
// t may be nil when requests only arrive over HTTP.
func New(t transport.Transport, toolPrefix string) *Server {
	s := &Server{
		transport:    t,
		toolPrefix:   toolPrefix,
		handlers:     make(map[string]HandlerFunc),
		toolHandlers: make(map[string]HandlerFunc),
		prompts:      prompts.GetGlobalRegistry(),
	}
	s.registerMethods()
	s.RegisterDefaultTools()
	s.RegisterDefaultResources()
	return s
}

func (s *Server) registerMethods() {
	s.handlers[string(protocol.MethodInitialize)] = s.handleInitialize
	s.handlers[string(protocol.MethodPing)] = s.handlePing
	s.handlers[string(protocol.MethodToolsList)] = s.handleToolsList
	s.handlers[string(protocol.MethodToolsCall)] = s.handleToolsCall
	s.handlers[string(protocol.MethodInvokeTool)] = s.handleInvokeTool
	s.handlers[string(protocol.MethodResourcesList)] = s.handleResourcesList
	s.handlers[string(protocol.MethodResourcesRead)] = s.handleResourcesRead
	s.handlers[string(protocol.MethodPromptsList)] = s.handlePromptsList
	s.handlers[string(protocol.MethodPromptsGet)] = s.handlePromptsGet
}

// RegisterTool registers a tool under the configured prefix
func (s *Server) RegisterTool(tool protocol.Tool, handler HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tool.Name = s.toolPrefix + tool.Name
	s.tools = append(s.tools, tool)
	s.toolHandlers[tool.Name] = handler
	logger.Info("Registered tool:", tool.Name)
}

// RegisterResource registers a resource with the server
func (s *Server) RegisterResource(resource protocol.Resource) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resources = append(s.resources, resource)
	logger.Info("Registered resource:", resource.URI)
}

// GetTools returns the list of registered tools
func (s *Server) GetTools() []protocol.Tool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]protocol.Tool(nil), s.tools...)
}

// RegisterDefaultTools registers the arc tools with the server
func (s *Server) RegisterDefaultTools() {
	logger.Info("Registering default tools...")
	s.RegisterTool(tools.ArcCalculateTool(), tools.HandleArcCalculate)
	s.RegisterTool(tools.ArcDrawTool(), tools.HandleArcDraw)
}

// RegisterDefaultResources registers the arc resources with the server
func (s *Server) RegisterDefaultResources() {
	logger.Info("Registering default resources...")
	for _, r := range resources.GetResources() {
		s.RegisterResource(r)
	}
}

// Start processes requests from the transport until the client disconnects
// or the process is told to stop
func (s *Server) Start() error {
	if s.transport == nil {
		return fmt.Errorf("server has no transport")
	}
	logger.Info("Starting MCP server")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.ProcessRequests()
	}()

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		logger.Info("Received signal:", sig.String())
		return nil
	}
}

// ProcessRequests continuously processes incoming requests. It returns nil
// when the input stream ends.
func (s *Server) ProcessRequests() error {
	for {
		req, err := s.transport.ReadRequest()
		if err != nil {
			var parseErr *transport.ParseError
			switch {
			case errors.As(err, &parseErr):
				if err := s.transport.WriteResponse(transport.ParseErrorResponse(err)); err != nil {
					return err
				}
				continue
			case errors.Is(err, io.EOF):
				return nil
			default:
				return err
			}
		}

		// nil means no response is required
		resp := s.HandleRequest(req)
		if resp == nil {
			continue
		}
		if err := s.transport.WriteResponse(resp); err != nil {
			return err
		}
	}
}

// HandleRequest processes a request and returns a response, or nil for
// notifications. A panicking handler is answered with ErrInternal.
func (s *Server) HandleRequest(req *protocol.JsonRpcRequest) (resp *protocol.JsonRpcResponse) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Recovered from panic in", req.Method, fmt.Sprint(r))
			resp = nil
			if !req.IsNotification() {
				resp = protocol.NewJsonRpcErrorResponse(protocol.ErrInternal,
					fmt.Sprintf("internal error handling %s: %v", req.Method, r), nil, req.ID)
			}
		}
	}()

	logger.Info(">> ", req.Method)
	logger.Debug("Full request:", req.String())

	if strings.HasPrefix(req.Method, protocol.NotificationPrefix) ||
		req.Method == string(protocol.MethodInitialized) {
		logger.Info("Received notification:", req.Method)
		return nil
	}

	s.mu.RLock()
	handler := s.handlers[req.Method]
	s.mu.RUnlock()

	if handler == nil {
		if req.IsNotification() {
			return nil
		}
		return protocol.NewJsonRpcErrorResponse(protocol.ErrMethodNotFound,
			fmt.Sprintf("Method not found: %s", req.Method), nil, req.ID)
	}

	result, err := handler(req.Params)
	if req.IsNotification() {
		return nil
	}
	if err != nil {
		var rpcErr *protocol.JsonRpcError
		if errors.As(err, &rpcErr) {
			return protocol.NewJsonRpcErrorResponse(rpcErr.Code, rpcErr.Message, rpcErr.Data, req.ID)
		}
		return protocol.NewJsonRpcErrorResponse(protocol.ErrInternal, err.Error(), nil, req.ID)
	}

	resp, err = protocol.NewJsonRpcResponse(result, req.ID)
	if err != nil {
		logger.Error("Failed to marshal result:", err)
		return protocol.NewJsonRpcErrorResponse(protocol.ErrInternal,
			"Failed to marshal result: "+err.Error(), nil, req.ID)
	}
	logger.Debug("Full response:", resp.String())
	return resp
}

// decodeParams converts raw or already decoded params into v
func decodeParams(params any, v any) error {
	var data []byte
	switch p := params.(type) {
	case nil:
		return nil
	case json.RawMessage:
		if len(p) == 0 {
			return nil
		}
		data = p
	default:
		var err error
		if data, err = json.Marshal(params); err != nil {
			return err
		}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &protocol.JsonRpcError{Code: protocol.ErrInvalidParams, Message: "Invalid parameters: " + err.Error()}
	}
	return nil
}

func (s *Server) handleInitialize(params any) (any, error) {
	var p struct {
		ProtocolVersion string `json:"protocolVersion"`
		ClientInfo      struct {
			Name    string `json:"name"`
			Version string `json:"version"`
		} `json:"clientInfo"`
	}
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	version := p.ProtocolVersion
	if version == "" {
		version = DefaultProtocolVersion
	}
	logger.Info("Initialize from client", p.ClientInfo.Name, "protocol", version)

	s.mu.RLock()
	defer s.mu.RUnlock()
	capabilities := map[string]any{}
	if len(s.tools) > 0 {
		capabilities["tools"] = map[string]any{"listChanged": false}
	}
	if len(s.resources) > 0 {
		capabilities["resources"] = map[string]any{"listChanged": false}
	}
	if len(s.prompts.ListPrompts()) > 0 {
		capabilities["prompts"] = map[string]any{"listChanged": false}
	}

	return map[string]any{
		"protocolVersion": version,
		"capabilities":    capabilities,
		"serverInfo": map[string]string{
			"name":    ServerName,
			"version": ServerVersion,
		},
	}, nil
}

func (s *Server) handlePing(params any) (any, error) {
	return map[string]any{}, nil
}

func (s *Server) handleToolsList(params any) (any, error) {
	return protocol.ToolsResponse{Tools: s.GetTools()}, nil
}

// lookupTool finds a tool handler by its registered name, or by its name
// without the prefix
func (s *Server) lookupTool(name string) HandlerFunc {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if h := s.toolHandlers[name]; h != nil {
		return h
	}
	if h := s.toolHandlers[s.toolPrefix+name]; h != nil {
		return h
	}
	if s.toolPrefix != "mcp___" && strings.HasPrefix(name, "mcp___") {
		return s.toolHandlers[s.toolPrefix+strings.TrimPrefix(name, "mcp___")]
	}
	return nil
}

// toolNames lists registered tools without the prefix
func (s *Server) toolNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.tools))
	for _, t := range s.tools {
		names = append(names, strings.TrimPrefix(t.Name, s.toolPrefix))
	}
	sort.Strings(names)
	return names
}

func (s *Server) callTool(name string, args map[string]any) (any, error) {
	logger.Info("Tool call requested for:", name)
	handler := s.lookupTool(name)
	if handler == nil {
		msg := "Tool not found: " + name
		if guess, ok := util.ClosestMatch(strings.TrimPrefix(name, s.toolPrefix), s.toolNames(), 3); ok {
			msg += fmt.Sprintf(" (did you mean %s?)", guess)
		}
		return nil, &protocol.JsonRpcError{Code: protocol.ErrInvalidParams, Message: msg}
	}

	result, err := handler(args)
	if err != nil {
		logger.Warn("Tool", name, "rejected the call:", err)
		return tools.ErrorResult(err), nil
	}
	if tr, ok := result.(*protocol.ToolResult); ok {
		return tr, nil
	}
	text, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, &protocol.JsonRpcError{Code: protocol.ErrToolExecutionFailed, Message: "Failed to marshal tool result: " + err.Error()}
	}
	return &protocol.ToolResult{
		Content:           []protocol.Content{protocol.NewTextContent(string(text))},
		StructuredContent: result,
	}, nil
}

func (s *Server) handleToolsCall(params any) (any, error) {
	var p struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	}
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	return s.callTool(p.Name, p.Arguments)
}

func (s *Server) handleInvokeTool(params any) (any, error) {
	var p struct {
		Name       string         `json:"name"`
		Parameters map[string]any `json:"parameters"`
	}
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if p.Name == "" {
		return nil, &protocol.JsonRpcError{Code: protocol.ErrInvalidParams, Message: "Missing tool name in invoke_tool parameters"}
	}
	return s.callTool(p.Name, p.Parameters)
}

func (s *Server) handleResourcesList(params any) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return protocol.ResourcesResponse{Resources: append([]protocol.Resource{}, s.resources...)}, nil
}

func (s *Server) handleResourcesRead(params any) (any, error) {
	var p struct {
		URI string `json:"uri"`
	}
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	resp, err := resources.ReadResource(p.URI)
	if err != nil {
		return nil, &protocol.JsonRpcError{Code: protocol.ErrInvalidParams, Message: err.Error()}
	}
	return resp, nil
}

func (s *Server) handlePromptsList(params any) (any, error) {
	type promptArgument struct {
		Name        string `json:"name"`
		Description string `json:"description,omitempty"`
		Required    bool   `json:"required"`
	}
	type promptListEntry struct {
		Name        string           `json:"name"`
		Description string           `json:"description,omitempty"`
		Arguments   []promptArgument `json:"arguments,omitempty"`
	}

	list := []promptListEntry{}
	for _, p := range s.prompts.ListPrompts() {
		entry := promptListEntry{Name: p.ID, Description: p.Description}
		for name, arg := range p.Variables {
			entry.Arguments = append(entry.Arguments, promptArgument{Name: name, Description: arg.Description, Required: arg.Required})
		}
		sort.Slice(entry.Arguments, func(i, j int) bool { return entry.Arguments[i].Name < entry.Arguments[j].Name })
		list = append(list, entry)
	}
	return map[string]any{"prompts": list}, nil
}

func (s *Server) handlePromptsGet(params any) (any, error) {
	var p struct {
		Name      string            `json:"name"`
		Arguments map[string]string `json:"arguments,omitempty"`
	}
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	logger.Info("Prompt get requested for:", p.Name)

	prompt, err := s.prompts.GetPrompt(p.Name)
	if err != nil {
		return nil, &protocol.JsonRpcError{Code: protocol.ErrInvalidParams, Message: err.Error()}
	}
	content, err := s.prompts.Render(p.Name, p.Arguments)
	if err != nil {
		return nil, &protocol.JsonRpcError{Code: protocol.ErrInvalidParams, Message: err.Error()}
	}

	return map[string]any{
		"description": prompt.Description,
		"messages": []protocol.PromptMessage{{
			Role:    "user",
			Content: protocol.PromptContent{Type: "text", Text: content},
		}},
	}, nil
}
