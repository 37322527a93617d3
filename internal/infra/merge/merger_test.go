package merge

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"biocat/internal/domain"
)

func writeToolFile(t *testing.T, contentDir, tool, name, body string) {
	t.Helper()
	folder := filepath.Join(contentDir, tool)
	require.NoError(t, os.MkdirAll(folder, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(folder, name), []byte(body), 0o644))
}

func readSummaries(t *testing.T, outDir string) []domain.ToolSummary {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(outDir, domain.CombinedMetadataFile))
	require.NoError(t, err)
	var summaries []domain.ToolSummary
	require.NoError(t, json.Unmarshal(data, &summaries))
	return summaries
}

func TestMerger_SingleBiotoolsFile(t *testing.T) {
	contentDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "metadata")
	writeToolFile(t, contentDir, "fooTool", "fooTool.biotools.json", `{"description": "does foo"}`)

	report, err := NewMerger(zap.NewNop()).Run(context.Background(), contentDir, outDir)
	require.NoError(t, err)
	require.Equal(t, Report{Merged: 1}, report)

	summaries := readSummaries(t, outDir)
	require.Len(t, summaries, 1)
	require.Equal(t, "fooTool", summaries[0].ToolName)
	require.Equal(t, []domain.SourceKind{domain.SourceBiotools}, summaries[0].Contents)
	require.Equal(t, "does foo", summaries[0].FetchedMetadata["biotools__summary"])
	_, present := summaries[0].FetchedMetadata["biotools__license"]
	require.False(t, present, "unresolved fields must be omitted, not null")
}

func TestMerger_ToolWithoutMatchingFilesIsSkipped(t *testing.T) {
	contentDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "metadata")
	writeToolFile(t, contentDir, "quiet", "README.md", "nothing here")
	writeToolFile(t, contentDir, "loud", "loud.biotools.json", `{"name": "loud"}`)

	report, err := NewMerger(zap.NewNop()).Run(context.Background(), contentDir, outDir)
	require.NoError(t, err)
	require.Equal(t, 1, report.Merged)
	require.Equal(t, 1, report.Skipped)

	summaries := readSummaries(t, outDir)
	require.Len(t, summaries, 1)
	require.Equal(t, "loud", summaries[0].ToolName)

	_, err = os.Stat(filepath.Join(outDir, domain.ToolPagesDir, "quiet.json"))
	require.True(t, os.IsNotExist(err))
}

func TestMerger_MalformedFileDoesNotAbortRun(t *testing.T) {
	contentDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "metadata")
	writeToolFile(t, contentDir, "mixed", "mixed.biotools.json", `{not json`)
	writeToolFile(t, contentDir, "mixed", "mixed.galaxy.json", `{"Description": "still here"}`)

	report, err := NewMerger(zap.NewNop()).Run(context.Background(), contentDir, outDir)
	require.NoError(t, err)
	require.Equal(t, 1, report.Merged)
	require.Equal(t, 1, report.ParseFailures)

	summaries := readSummaries(t, outDir)
	require.Len(t, summaries, 1)
	require.Equal(t, []domain.SourceKind{domain.SourceGalaxy}, summaries[0].Contents)
	require.Equal(t, "still here", summaries[0].FetchedMetadata["galaxy__summary"])
}

func TestMerger_BiocondaYAMLAndPageArtifact(t *testing.T) {
	contentDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "metadata")
	writeToolFile(t, contentDir, "samtools", "bioconda_samtools.yaml", `
package:
  name: samtools
  version: "1.19"
about:
  home: https://www.htslib.org
  license: MIT
  summary: Tools for SAM/BAM files
`)

	_, err := NewMerger(zap.NewNop()).Run(context.Background(), contentDir, outDir)
	require.NoError(t, err)

	summaries := readSummaries(t, outDir)
	require.Len(t, summaries, 1)
	require.Equal(t, "samtools", summaries[0].FetchedMetadata["bioconda__name"])
	require.Equal(t, "MIT", summaries[0].FetchedMetadata["bioconda__license"])
	_, present := summaries[0].FetchedMetadata["bioconda__home"]
	require.False(t, present, "home is a page field, not a summary field")

	data, err := os.ReadFile(filepath.Join(outDir, domain.ToolPagesDir, "samtools.json"))
	require.NoError(t, err)
	var page domain.ToolPage
	require.NoError(t, json.Unmarshal(data, &page))
	require.Equal(t, "samtools", page.ToolName)
	require.Equal(t, "https://www.htslib.org", page.PageMetadata["bioconda__home"])
}

func TestMerger_BioschemasGraphSelection(t *testing.T) {
	contentDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "metadata")
	writeToolFile(t, contentDir, "bwa", "bwa.bioschemas.jsonld", `{
		"@graph": [
			{"@type": "sc:Person", "sc:name": "author"},
			{"@type": "sc:SoftwareApplication", "sc:name": "bwa", "sc:license": "GPL-3.0"}
		]
	}`)
	writeToolFile(t, contentDir, "noapp", "noapp.bioschemas.jsonld", `{
		"@graph": [{"@type": "sc:Person", "sc:name": "author"}]
	}`)

	report, err := NewMerger(zap.NewNop()).Run(context.Background(), contentDir, outDir)
	require.NoError(t, err)
	require.Equal(t, 2, report.Merged)

	summaries := readSummaries(t, outDir)
	require.Len(t, summaries, 2)

	byName := map[string]domain.ToolSummary{}
	for _, summary := range summaries {
		byName[summary.ToolName] = summary
	}
	require.Equal(t, "bwa", byName["bwa"].FetchedMetadata["bioschemas__name"])
	require.Equal(t, "GPL-3.0", byName["bwa"].FetchedMetadata["bioschemas__license"])
	require.Empty(t, byName["noapp"].Contents, "graph without software application contributes nothing")
}

func TestMerger_Idempotence(t *testing.T) {
	contentDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "metadata")
	writeToolFile(t, contentDir, "alpha", "alpha.biotools.json", `{"description": "a", "license": "MIT"}`)
	writeToolFile(t, contentDir, "beta", "beta.galaxy.json", `{"Description": "b", "EDAM_topics": ["Genomics"]}`)

	merger := NewMerger(zap.NewNop())
	_, err := merger.Run(context.Background(), contentDir, outDir)
	require.NoError(t, err)
	firstRun, err := os.ReadFile(filepath.Join(outDir, domain.CombinedMetadataFile))
	require.NoError(t, err)

	_, err = merger.Run(context.Background(), contentDir, outDir)
	require.NoError(t, err)
	secondRun, err := os.ReadFile(filepath.Join(outDir, domain.CombinedMetadataFile))
	require.NoError(t, err)

	if diff := cmp.Diff(string(firstRun), string(secondRun)); diff != "" {
		t.Fatalf("merge output not idempotent (-first +second):\n%s", diff)
	}
}

func TestMerger_UnreadableRootIsFatal(t *testing.T) {
	_, err := NewMerger(zap.NewNop()).Run(context.Background(), filepath.Join(t.TempDir(), "missing"), t.TempDir())
	require.Error(t, err)
	require.Contains(t, err.Error(), "read content root")
}

func TestMerger_StaleOutputRemoved(t *testing.T) {
	contentDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "metadata")
	writeToolFile(t, contentDir, "keep", "keep.biotools.json", `{"name": "keep"}`)
	writeToolFile(t, contentDir, "gone", "gone.biotools.json", `{"name": "gone"}`)

	merger := NewMerger(zap.NewNop())
	_, err := merger.Run(context.Background(), contentDir, outDir)
	require.NoError(t, err)

	require.NoError(t, os.RemoveAll(filepath.Join(contentDir, "gone")))
	_, err = merger.Run(context.Background(), contentDir, outDir)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(outDir, domain.ToolPagesDir, "gone.json"))
	require.True(t, os.IsNotExist(err), "output dir must be rebuilt wholesale")
}
