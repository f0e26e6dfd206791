package ideas

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// SheetSource reads ideas from a published Google Sheet. The sheet is
// fetched as CSV; common share URLs are rewritten to their CSV export form.
type SheetSource struct {
	httpClient *http.Client
}

func NewSheetSource() *SheetSource {
	return &SheetSource{httpClient: &http.Client{Timeout: 30 * time.Second}}
}

// Fetch downloads and parses the sheet. An empty locator returns an empty
// idea list so the pipeline can degrade to its built-in script.
func (s *SheetSource) Fetch(ctx context.Context, locator string) ([]Idea, error) {
	if locator == "" {
		return nil, nil
	}

	normalized := NormalizeSheetURL(locator)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, normalized, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch sheet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to load sheet: %d", resp.StatusCode)
	}

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse sheet csv: %w", err)
	}
	if len(records) < 2 {
		return nil, nil
	}

	header := records[0]
	out := make([]Idea, 0, len(records)-1)
	for _, record := range records[1:] {
		if isBlankRow(record) {
			continue
		}
		row := zipRow(header, record)
		out = append(out, ideaFromRow(row, record))
	}

	log.Debug().Int("ideas", len(out)).Str("sheet", normalized).Msg("sheet parsed")
	return out, nil
}

var (
	gvizPattern   = regexp.MustCompile(`gviz/tq.*$`)
	exportPattern = regexp.MustCompile(`export\?.*$`)
	editPattern   = regexp.MustCompile(`/edit.*$`)
)

// NormalizeSheetURL rewrites the common Google Sheets share URL shapes into
// the CSV export endpoint. Anything unrecognized passes through untouched.
func NormalizeSheetURL(input string) string {
	switch {
	case strings.Contains(input, "gviz/tq"):
		return gvizPattern.ReplaceAllString(input, "gviz/tq?tqx=out:csv")
	case strings.Contains(input, "/export?"):
		return exportPattern.ReplaceAllString(input, "export?format=csv")
	case strings.HasSuffix(input, "/edit") || strings.Contains(input, "/edit#"):
		return editPattern.ReplaceAllString(input, "/export?format=csv")
	}
	return input
}

func zipRow(header, record []string) map[string]string {
	row := make(map[string]string, len(header))
	for i, key := range header {
		if i >= len(record) {
			break
		}
		row[strings.TrimSpace(key)] = strings.TrimSpace(record[i])
	}
	return row
}

// ideaFromRow maps loosely-named sheet columns onto an Idea. Operators name
// their columns all sorts of things, so each field has a fallback chain.
func ideaFromRow(row map[string]string, record []string) Idea {
	title := firstNonEmpty(row, "title", "idea", "Topic")
	if title == "" && len(record) > 0 {
		title = strings.TrimSpace(record[0])
	}
	if title == "" {
		title = "Untitled Idea"
	}

	description := firstNonEmpty(row, "description", "Details", "Story", "Body", "Content", "Synopsis")
	if description == "" {
		description = title
	}

	return Idea{
		Title:       title,
		Description: description,
		Tags:        SplitTags(firstNonEmpty(row, "tags", "keywords")),
	}
}

// SplitTags splits a free-form tag cell on commas and hashes.
func SplitTags(raw string) []string {
	var tags []string
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == '#' }) {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func firstNonEmpty(row map[string]string, keys ...string) string {
	for _, key := range keys {
		if v := row[key]; v != "" {
			return v
		}
	}
	return ""
}

func isBlankRow(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
