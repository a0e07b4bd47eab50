package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// fileSource serves sheet values from a JSON fixture on disk, in the same
// {"valueRanges": [...]} shape the batch endpoint returns. Used for local
// development together with cmd/mockgen.
type fileSource struct {
	path string
}

// NewFileSource creates a Client backed by a values fixture file.
func NewFileSource(path string) Client {
	return &fileSource{path: path}
}

func (f *fileSource) load() ([]ValueRange, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	var doc struct {
		ValueRanges []ValueRange `json:"valueRanges"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode values fixture %s: %w", f.path, err)
	}
	return doc.ValueRanges, nil
}

func (f *fileSource) Values(ctx context.Context, spreadsheetID, readRange string) (*ValueRange, error) {
	ranges, err := f.load()
	if err != nil {
		return nil, err
	}
	want := tabOf(readRange)
	for _, vr := range ranges {
		if vr.Tab() == want {
			return &vr, nil
		}
	}
	return nil, fmt.Errorf("%w: range %s not present in fixture", ErrUnavailable, readRange)
}

func (f *fileSource) BatchValues(ctx context.Context, spreadsheetID string, wanted []string) ([]ValueRange, error) {
	ranges, err := f.load()
	if err != nil {
		return nil, err
	}
	out := make([]ValueRange, 0, len(wanted))
	for _, w := range wanted {
		want := tabOf(w)
		for _, vr := range ranges {
			if vr.Tab() == want {
				out = append(out, vr)
				break
			}
		}
	}
	return out, nil
}

func tabOf(readRange string) string {
	if i := strings.IndexByte(readRange, '!'); i >= 0 {
		return readRange[:i]
	}
	return readRange
}
