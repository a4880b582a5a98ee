package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/serrano-advisors/careplan/canonical"
	"github.com/serrano-advisors/careplan/util"
)

// ExcelProvider reads the case-management workbook export. The workbook
// is re-read on every request; there is no cross-request snapshot. The
// first sheet is scanned in full and filtered in memory, since the export
// carries no index. Path may also be an http(s) URL to a hosted export.
type ExcelProvider struct {
	path   string
	client *http.Client
	log    zerolog.Logger
}

func NewExcelProvider(path string, log zerolog.Logger) *ExcelProvider {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.Logger = nil
	retryClient.HTTPClient = &http.Client{Timeout: 60 * time.Second}

	return &ExcelProvider{
		path:   path,
		client: retryClient.StandardClient(),
		log:    log,
	}
}

func (p *ExcelProvider) Name() string {
	return SourceExcel
}

func (p *ExcelProvider) FetchRecords(ctx context.Context, name, medicalID string) ([]Record, error) {
	f, err := p.openWorkbook(ctx)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	header := rows[0]
	var results []Record
	for _, row := range rows[1:] {
		rec := make(Record, len(header))
		for i, col := range header {
			if col == "" || i >= len(row) || row[i] == "" {
				continue
			}
			rec[col] = row[i]
		}
		if len(rec) == 0 {
			continue
		}
		if p.matches(rec, name, medicalID) {
			results = append(results, rec)
		}
	}

	p.log.Debug().
		Str("source", SourceExcel).
		Int("rows", len(rows)-1).
		Int("matched", len(results)).
		Msg("Scanned workbook")

	return results, nil
}

func (p *ExcelProvider) openWorkbook(ctx context.Context) (*excelize.File, error) {
	if strings.HasPrefix(p.path, "http://") || strings.HasPrefix(p.path, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.path, nil)
		if err != nil {
			return nil, fmt.Errorf("fetch workbook: %w", err)
		}
		resp, err := p.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch workbook: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch workbook %s: %s", p.path, resp.Status)
		}
		return excelize.OpenReader(resp.Body)
	}

	f, err := excelize.OpenFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", p.path, err)
	}
	return f, nil
}

// matches filters a raw row by stable ID when one is known, else by name.
// Raw spellings are normalized first so the filter works no matter which
// column variant the export uses.
func (p *ExcelProvider) matches(rec Record, name, medicalID string) bool {
	norm := canonical.NormalizeRecord(rec)
	if medicalID != "" {
		return strings.TrimSpace(util.ValueString(norm[canonical.FieldMedicalID])) == medicalID
	}
	rowName := strings.TrimSpace(util.ValueString(norm[canonical.FieldName]))
	return rowName != "" && strings.EqualFold(rowName, strings.TrimSpace(name))
}
