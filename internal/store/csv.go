// Package store persists campaign leads as CSV files and writes the
// markdown report artifact.
package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"leadpilot/internal/campaign"
	"leadpilot/internal/gateway"
)

// Sentinel I/O errors. Both abort a campaign run.
var (
	ErrUnreadable = errors.New("store unreadable")
	ErrUnwritable = errors.New("store unwritable")
)

// Header is the canonical lead CSV column order. Output files always
// carry every column; input files may omit the derived ones.
var Header = []string{
	"first_name", "last_name", "email", "company", "title",
	"industry", "location", "persona", "persona_desc", "priority",
	"priority_reason", "email_subject", "email_body", "status",
	"response_text", "response_category",
}

// inputColumns is the prefix of Header present in raw ingestion files.
const inputColumns = 7

// CSVStore reads leads from InputPath and writes processed leads to
// OutputPath. The two may be the same file.
type CSVStore struct {
	InputPath  string
	OutputPath string
}

// NewCSVStore creates a store over the given file pair.
func NewCSVStore(inputPath, outputPath string) *CSVStore {
	return &CSVStore{InputPath: inputPath, OutputPath: outputPath}
}

// Load reads the entire lead file before any processing starts. Rows
// may omit derived columns; unknown columns are ignored. Any read or
// parse failure wraps ErrUnreadable.
func (s *CSVStore) Load(ctx context.Context) ([]*campaign.Lead, error) {
	f, err := os.Open(s.InputPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s has no header row", ErrUnreadable, s.InputPath)
	}

	index := headerIndex(records[0])
	if _, ok := index["email"]; !ok {
		return nil, fmt.Errorf("%w: %s has no email column", ErrUnreadable, s.InputPath)
	}

	leads := make([]*campaign.Lead, 0, len(records)-1)
	for _, record := range records[1:] {
		lead := &campaign.Lead{
			FirstName:        field(record, index, "first_name"),
			LastName:         field(record, index, "last_name"),
			Email:            field(record, index, "email"),
			Company:          field(record, index, "company"),
			Title:            field(record, index, "title"),
			Industry:         field(record, index, "industry"),
			Location:         field(record, index, "location"),
			Persona:          field(record, index, "persona"),
			PersonaDesc:      field(record, index, "persona_desc"),
			PriorityReason:   field(record, index, "priority_reason"),
			EmailSubject:     field(record, index, "email_subject"),
			EmailBody:        field(record, index, "email_body"),
			Status:           campaign.Status(field(record, index, "status")),
			ResponseText:     field(record, index, "response_text"),
			ResponseCategory: gateway.Category(field(record, index, "response_category")),
		}
		if p, err := strconv.Atoi(field(record, index, "priority")); err == nil {
			lead.Priority = p
		}
		leads = append(leads, lead)
	}
	return leads, nil
}

// Save writes every lead with the full header. The write goes to a temp
// file in the target directory and is renamed into place, so a failed
// run never leaves a half-written output visible. Failures wrap
// ErrUnwritable.
func (s *CSVStore) Save(ctx context.Context, leads []*campaign.Lead) error {
	dir := filepath.Dir(s.OutputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrUnwritable, err)
	}

	tmp, err := os.CreateTemp(dir, ".leads-*.csv")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnwritable, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	writer := csv.NewWriter(tmp)
	if err := writer.Write(Header); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", ErrUnwritable, err)
	}
	for _, lead := range leads {
		if err := writer.Write(record(lead)); err != nil {
			tmp.Close()
			return fmt.Errorf("%w: %v", ErrUnwritable, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", ErrUnwritable, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnwritable, err)
	}
	if err := os.Rename(tmpPath, s.OutputPath); err != nil {
		return fmt.Errorf("%w: %v", ErrUnwritable, err)
	}
	return nil
}

func record(l *campaign.Lead) []string {
	priority := ""
	if l.Priority != 0 {
		priority = strconv.Itoa(l.Priority)
	}
	return []string{
		l.FirstName, l.LastName, l.Email, l.Company, l.Title,
		l.Industry, l.Location, l.Persona, l.PersonaDesc, priority,
		l.PriorityReason, l.EmailSubject, l.EmailBody, string(l.Status),
		l.ResponseText, string(l.ResponseCategory),
	}
}

func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return index
}

func field(record []string, index map[string]int, name string) string {
	i, ok := index[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
