package prompts

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/richard-senior/arcmcp/internal/logger"
	"github.com/richard-senior/arcmcp/pkg/protocol"
)

// PromptRegistry manages the storage and retrieval of prompts for MCP
type PromptRegistry struct {
	mu      sync.RWMutex
	prompts map[string]protocol.Prompt
}

// NewPromptRegistry creates a registry holding the built-in arc prompts
func NewPromptRegistry() *PromptRegistry {
	pr := &PromptRegistry{prompts: map[string]protocol.Prompt{}}
	for _, p := range samplePrompts() {
		if err := pr.SavePrompt(p); err != nil {
			logger.Warn("Failed to register sample prompt", p.ID, err)
		}
	}
	return pr
}

// GetPrompt retrieves a prompt by ID
func (pr *PromptRegistry) GetPrompt(id string) (*protocol.Prompt, error) {
	pr.mu.RLock()
	defer pr.mu.RUnlock()
	p, ok := pr.prompts[id]
	if !ok {
		return nil, fmt.Errorf("prompt not found: %s", id)
	}
	return &p, nil
}

// ListPrompts returns all prompts ordered by ID
func (pr *PromptRegistry) ListPrompts() []protocol.Prompt {
	pr.mu.RLock()
	defer pr.mu.RUnlock()
	list := make([]protocol.Prompt, 0, len(pr.prompts))
	for _, p := range pr.prompts {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// SavePrompt adds or replaces a prompt
func (pr *PromptRegistry) SavePrompt(prompt protocol.Prompt) error {
	if prompt.ID == "" {
		return fmt.Errorf("prompt ID cannot be empty")
	}
	if strings.ContainsAny(prompt.ID, " /\\") {
		return fmt.Errorf("invalid prompt ID format: %s", prompt.ID)
	}
	pr.mu.Lock()
	defer pr.mu.Unlock()
	pr.prompts[prompt.ID] = prompt
	return nil
}

// DeletePrompt removes a prompt from the registry
func (pr *PromptRegistry) DeletePrompt(id string) error {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	if _, ok := pr.prompts[id]; !ok {
		return fmt.Errorf("prompt not found: %s", id)
	}
	delete(pr.prompts, id)
	return nil
}

// Render fills the {{name}} placeholders of a prompt. Every required
// variable must be supplied; optional ones left out are replaced with "".
func (pr *PromptRegistry) Render(id string, args map[string]string) (string, error) {
	p, err := pr.GetPrompt(id)
	if err != nil {
		return "", err
	}
	content := p.Content
	for name, v := range p.Variables {
		value, ok := args[name]
		if !ok && v.Required {
			return "", fmt.Errorf("prompt %s requires argument %q", id, name)
		}
		content = strings.ReplaceAll(content, "{{"+name+"}}", value)
	}
	return content, nil
}

func samplePrompts() []protocol.Prompt {
	return []protocol.Prompt{
		{
			ID:          "explain_arc",
			Name:        "Explain Arc",
			Description: "Measure an arc and explain each value in plain terms",
			Content: "Use the arc_calculate tool with angle {{angle}}, unit {{unit}} and radius {{radius}}.\n" +
				"Then explain:\n- the arc length and why it keeps growing past a full turn\n" +
				"- the chord length and why it only depends on where the arc ends\n" +
				"- the sector area\n- how many whole revolutions the angle contains",
			Tags: []string{"geometry", "education"},
			Variables: map[string]protocol.PromptArgument{
				"angle":  {Description: "The central angle", Required: true},
				"unit":   {Description: "deg or rad", Required: false},
				"radius": {Description: "The radius of the circle", Required: true},
			},
			Metadata: map[string]any{"version": "1.0.0"},
		},
		{
			ID:          "draw_arc",
			Name:        "Draw Arc",
			Description: "Draw an arc schematic and describe what it shows",
			Content: "Use the arc_draw tool with angle {{angle}}, unit {{unit}}, radius {{radius}} and format {{format}}.\n" +
				"Describe the reference circle, any full revolution highlight and the residual arc.",
			Tags: []string{"geometry", "drawing"},
			Variables: map[string]protocol.PromptArgument{
				"angle":  {Description: "The central angle", Required: true},
				"unit":   {Description: "deg or rad", Required: false},
				"radius": {Description: "The radius of the circle", Required: true},
				"format": {Description: "svg, png or primitives", Required: false},
			},
			Metadata: map[string]any{"version": "1.0.0"},
		},
	}
}

// Global registry instance
var (
	globalRegistry *PromptRegistry
	globalOnce     sync.Once
)

// GetGlobalRegistry returns the global prompt registry instance
func GetGlobalRegistry() *PromptRegistry {
	globalOnce.Do(func() {
		globalRegistry = NewPromptRegistry()
	})
	return globalRegistry
}
