// Package index holds the in-memory tool collection and implements
// search, filtering and sorting over it.
package index

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"go.uber.org/zap"

	"biocat/internal/domain"
)

// Index is an immutable snapshot of the tool collection, built once
// from the combined summary artifact. Rebuild on change and swap.
type Index struct {
	tools  []domain.ToolSummary
	byName map[string]domain.ToolSummary
}

// New builds an index from summaries. Duplicate tool names keep the
// first occurrence.
func New(tools []domain.ToolSummary) *Index {
	byName := make(map[string]domain.ToolSummary, len(tools))
	kept := make([]domain.ToolSummary, 0, len(tools))
	for _, tool := range tools {
		if _, dup := byName[tool.ToolName]; dup {
			continue
		}
		byName[tool.ToolName] = tool
		kept = append(kept, tool)
	}
	return &Index{tools: kept, byName: byName}
}

// LoadFile reads a combined summary artifact and builds an index.
func LoadFile(path string, logger *zap.Logger) (*Index, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read combined metadata: %w", err)
	}
	var tools []domain.ToolSummary
	if err := json.Unmarshal(data, &tools); err != nil {
		return nil, fmt.Errorf("decode combined metadata: %w", err)
	}
	logger.Info("catalog index loaded", zap.String("path", path), zap.Int("tools", len(tools)))
	return New(tools), nil
}

// Len returns the number of tools in the collection.
func (ix *Index) Len() int {
	return len(ix.tools)
}

// Tools returns the full collection in load order.
func (ix *Index) Tools() []domain.ToolSummary {
	return ix.tools
}

// Lookup returns the summary for a tool name.
func (ix *Index) Lookup(name string) (domain.ToolSummary, bool) {
	tool, ok := ix.byName[name]
	return tool, ok
}

// Licenses returns the distinct license values present in the
// collection, sorted, for populating the license filter.
func (ix *Index) Licenses() []string {
	seen := make(map[string]struct{})
	var licenses []string
	for _, tool := range ix.tools {
		license := tool.License()
		if license == "" {
			continue
		}
		if _, dup := seen[license]; dup {
			continue
		}
		seen[license] = struct{}{}
		licenses = append(licenses, license)
	}
	sort.Strings(licenses)
	return licenses
}
