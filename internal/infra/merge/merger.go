package merge

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"biocat/internal/domain"
)

// Merger walks a content root of per-tool metadata folders and emits
// the combined summary artifact plus one page document per tool. A run
// is total and idempotent: the output directory is rebuilt wholesale.
type Merger struct {
	logger *zap.Logger
}

func NewMerger(logger *zap.Logger) *Merger {
	if logger == nil {
		return &Merger{logger: zap.NewNop()}
	}
	return &Merger{logger: logger.Named("merge")}
}

// Report summarizes a merge run for the operator. Skipped counts tool
// folders with no matching source file; ParseFailures counts source
// files that could not be decoded.
type Report struct {
	Merged        int
	Skipped       int
	ParseFailures int
}

// Run merges everything under contentDir into outDir. An unreadable
// content root is the only fatal condition; per-tool and per-file
// problems are logged and skipped.
func (m *Merger) Run(ctx context.Context, contentDir, outDir string) (Report, error) {
	entries, err := os.ReadDir(contentDir)
	if err != nil {
		return Report{}, fmt.Errorf("read content root: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var (
		report    Report
		summaries []domain.ToolSummary
		pages     []domain.ToolPage
	)
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		summary, page, matched, failures := m.processTool(filepath.Join(contentDir, name), name)
		report.ParseFailures += failures
		if !matched {
			report.Skipped++
			continue
		}
		report.Merged++
		summaries = append(summaries, summary)
		pages = append(pages, page)
	}

	if err := m.writeArtifacts(outDir, summaries, pages); err != nil {
		return report, err
	}

	m.logger.Info("merge complete",
		zap.Int("merged", report.Merged),
		zap.Int("skipped", report.Skipped),
		zap.Int("parse_failures", report.ParseFailures),
	)
	return report, nil
}

// processTool applies both mapping tables to every matching source file
// in one tool folder. matched is false when no pattern matched at all,
// which excludes the tool from both outputs.
func (m *Merger) processTool(folder, tool string) (domain.ToolSummary, domain.ToolPage, bool, int) {
	var (
		contents     = []domain.SourceKind{}
		summaryMeta  = domain.Metadata{}
		pageMeta     = domain.Metadata{}
		parseFailed  int
		matchedFiles int
	)

	for _, candidate := range sourceFiles(tool) {
		path := filepath.Join(folder, candidate.name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		matchedFiles++

		doc, err := parseDocument(path)
		if err != nil {
			parseFailed++
			m.logger.Warn("skipping unparseable source file",
				zap.String("tool", tool),
				zap.String("source", string(candidate.kind)),
				zap.Error(err),
			)
			continue
		}

		if candidate.kind == domain.SourceBioschemas {
			app, ok := softwareApplication(doc)
			if !ok {
				m.logger.Debug("bioschemas graph without software application entry",
					zap.String("tool", tool))
				continue
			}
			doc = app
		}

		contents = append(contents, candidate.kind)
		mergeFields(summaryMeta, candidate.kind, extract(doc, summaryMappings[candidate.kind]))
		mergeFields(pageMeta, candidate.kind, extract(doc, pageMappings[candidate.kind]))
	}

	if matchedFiles == 0 {
		return domain.ToolSummary{}, domain.ToolPage{}, false, parseFailed
	}

	summary := domain.ToolSummary{
		ToolName:        tool,
		Contents:        contents,
		FetchedMetadata: summaryMeta,
	}
	page := domain.ToolPage{
		ToolName:     tool,
		Contents:     contents,
		PageMetadata: pageMeta,
	}
	return summary, page, true, parseFailed
}

// mergeFields namespaces extracted fields as "<source>__<field>" into dst.
func mergeFields(dst domain.Metadata, kind domain.SourceKind, fields map[string]any) {
	for field, value := range fields {
		dst[string(kind)+"__"+field] = value
	}
}

func (m *Merger) writeArtifacts(outDir string, summaries []domain.ToolSummary, pages []domain.ToolPage) error {
	if err := os.RemoveAll(outDir); err != nil {
		return fmt.Errorf("clear output dir: %w", err)
	}
	toolsDir := filepath.Join(outDir, domain.ToolPagesDir)
	if err := os.MkdirAll(toolsDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	if summaries == nil {
		summaries = []domain.ToolSummary{}
	}
	if err := writeJSON(filepath.Join(outDir, domain.CombinedMetadataFile), summaries); err != nil {
		return err
	}
	for _, page := range pages {
		if err := writeJSON(filepath.Join(toolsDir, page.ToolName+".json"), page); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(path string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
