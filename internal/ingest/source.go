package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"
)

// ErrSheetNotFound is returned by a Source when the workbook has no sheet of
// the requested name.
var ErrSheetNotFound = errors.New("sheet not found")

// Row is one data line of a sheet. Line is the 1-based line number in the
// sheet (the header is line 1), Cells holds "" for empty cells.
type Row struct {
	Line  int
	Cells []string
}

func (r Row) Cell(i int) string {
	if i < 0 || i >= len(r.Cells) {
		return ""
	}
	return r.Cells[i]
}

func (r Row) blank() bool {
	for _, c := range r.Cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Source yields the data rows of a named sheet, header excluded.
type Source interface {
	Fetch(ctx context.Context, sheet string) ([]Row, error)
}

// MemorySource serves fixed rows, keyed by sheet name.
type MemorySource map[string][]Row

func (m MemorySource) Fetch(_ context.Context, sheet string) ([]Row, error) {
	rows, ok := m[sheet]
	if !ok {
		return nil, fmt.Errorf("sheet %q: %w", sheet, ErrSheetNotFound)
	}
	return rows, nil
}

// NewRows numbers cell tuples the way a sheet would: the first tuple is
// line 2, right below the header.
func NewRows(cells ...[]string) []Row {
	out := make([]Row, len(cells))
	for i, c := range cells {
		out[i] = Row{Line: i + 2, Cells: c}
	}
	return out
}

// WorkbookSource reads sheets from an .xlsx workbook at an http(s) URL or a
// local path. The workbook is downloaded once per source.
type WorkbookSource struct {
	Location string
	Client   *http.Client

	once sync.Once
	file *excelize.File
	err  error
}

func NewWorkbookSource(location string, client *http.Client) *WorkbookSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &WorkbookSource{Location: location, Client: client}
}

func (s *WorkbookSource) Fetch(ctx context.Context, sheet string) ([]Row, error) {
	s.once.Do(func() {
		s.file, s.err = s.open(ctx)
	})
	if s.err != nil {
		return nil, s.err
	}

	raw, err := s.file.GetRows(sheet, excelize.Options{RawCellValue: true})
	var missing excelize.ErrSheetNotExist
	if errors.As(err, &missing) {
		return nil, fmt.Errorf("sheet %q: %w", sheet, ErrSheetNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	var out []Row
	for i, cells := range raw {
		if i == 0 {
			continue
		}
		row := Row{Line: i + 1, Cells: cells}
		if row.blank() {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *WorkbookSource) Close() error {
	if s.file == nil {
		return nil
	}
	return s.file.Close()
}

// Reset drops the loaded workbook so the next Fetch reads it again.
// It must not run concurrently with Fetch.
func (s *WorkbookSource) Reset() error {
	err := s.Close()
	s.once = sync.Once{}
	s.file, s.err = nil, nil
	return err
}

func (s *WorkbookSource) open(ctx context.Context) (*excelize.File, error) {
	data, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	return f, nil
}

func (s *WorkbookSource) read(ctx context.Context) ([]byte, error) {
	if !IsRemote(s.Location) {
		data, err := os.ReadFile(s.Location)
		if err != nil {
			return nil, fmt.Errorf("read workbook: %w", err)
		}
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.Location, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download workbook: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download workbook: unexpected status %s", resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("download workbook: %w", err)
	}
	return data, nil
}

// IsRemote reports whether location is fetched over HTTP.
func IsRemote(location string) bool {
	l := strings.ToLower(location)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}
