package pipeline

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"invodex/internal/domain"
)

// macOS resource-fork folder; zip entries always use forward slashes.
const macosMetaPrefix = "__MACOSX/"

// ExpandArchive processes every member of a zip archive through Process,
// isolating per-entry failures. Only a malformed archive fails the whole
// call; everything else degrades to a skip or a failure marker.
func (p *Processor) ExpandArchive(ctx context.Context, data []byte) (*domain.BatchResult, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedArchive, err)
	}

	result := &domain.BatchResult{SkippedEntries: []string{}, Items: []domain.BatchItem{}}
	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		name := path.Base(entry.Name)
		if strings.HasPrefix(entry.Name, macosMetaPrefix) || strings.HasPrefix(name, ".") {
			continue
		}

		cat := domain.ClassifyFilename(name)
		if cat == domain.CategoryUnsupported || cat == domain.CategoryArchive {
			// Nested archives are not expanded; like any unsupported suffix
			// they are recorded as skipped, not failed.
			result.SkippedEntries = append(result.SkippedEntries, name)
			continue
		}

		entryData, err := readEntry(entry)
		if err != nil {
			result.Items = append(result.Items, failureItem(name, err))
			continue
		}

		records, err := p.Process(ctx, entryData, name)
		if err != nil {
			result.Items = append(result.Items, failureItem(name, err))
			continue
		}
		for i := range records {
			result.Items = append(result.Items, domain.BatchItem{Record: &records[i]})
		}
	}

	result.Recount()
	return result, nil
}

func readEntry(entry *zip.File) ([]byte, error) {
	rc, err := entry.Open()
	if err != nil {
		return nil, fmt.Errorf("opening archive entry: %w", err)
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading archive entry: %w", err)
	}
	return data, nil
}

func failureItem(entry string, err error) domain.BatchItem {
	return domain.BatchItem{Failure: &domain.FailureMarker{Entry: entry, Reason: err.Error()}}
}
