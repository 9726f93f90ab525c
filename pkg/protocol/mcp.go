package protocol

// ToolProperty describes one argument of a tool
type ToolProperty struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
	Default     any      `json:"default,omitempty"`
}

type InputSchema struct {
	Type                 string                  `json:"type"`
	Properties           map[string]ToolProperty `json:"properties,omitempty"`
	Required             []string                `json:"required"`
	AdditionalProperties bool                    `json:"additionalProperties"`
}

// Tool represents a tool that can be invoked by the client
type Tool struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema InputSchema `json:"inputSchema"`
}

// ToolsResponse is the result of tools/list
type ToolsResponse struct {
	Tools []Tool `json:"tools"`
}

// Content is one item of a tool result. Text items set Text; image items set
// Data (base64) and MimeType.
type Content struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	Data     string `json:"data,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
}

// ToolResult is the result of tools/call. A tool that rejects its input
// answers with IsError set rather than a JSON-RPC error.
type ToolResult struct {
	Content           []Content `json:"content"`
	StructuredContent any       `json:"structuredContent,omitempty"`
	IsError           bool      `json:"isError,omitempty"`
}

// NewTextContent creates a text content item
func NewTextContent(text string) Content {
	return Content{Type: "text", Text: text}
}

// NewImageContent creates an image content item from base64 data
func NewImageContent(data, mimeType string) Content {
	return Content{Type: "image", Data: data, MimeType: mimeType}
}

// NewToolError creates a tool result reporting message as a user-facing error
func NewToolError(message string) *ToolResult {
	return &ToolResult{Content: []Content{NewTextContent(message)}, IsError: true}
}

// Resource is a read-only document published by the server
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// ResourcesResponse is the result of resources/list
type ResourcesResponse struct {
	Resources []Resource `json:"resources"`
}

// ResourceContents is the body of a resource returned by resources/read
type ResourceContents struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
	Blob     string `json:"blob,omitempty"`
}

// ReadResourceResponse is the result of resources/read
type ReadResourceResponse struct {
	Contents []ResourceContents `json:"contents"`
}

// PromptArgument describes a placeholder in a prompt template
type PromptArgument struct {
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
}

// Prompt is a stored prompt template. Placeholders are written {{name}}.
type Prompt struct {
	ID          string                    `json:"id"`
	Name        string                    `json:"name"`
	Description string                    `json:"description,omitempty"`
	Content     string                    `json:"content"`
	Tags        []string                  `json:"tags,omitempty"`
	Variables   map[string]PromptArgument `json:"variables,omitempty"`
	Metadata    map[string]any            `json:"metadata,omitempty"`
}

type PromptContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type PromptMessage struct {
	Role    string        `json:"role"`
	Content PromptContent `json:"content"`
}
