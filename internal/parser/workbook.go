package parser

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"
)

// maxParallelReads bounds concurrent workbook loads.
const maxParallelReads = 4

// OpenWorkbook loads every sheet of the file at path. Legacy .xls files are
// read with extrame/xls, everything else with excelize. displayName picks
// the reader when path has no meaningful extension (temp upload names).
func OpenWorkbook(path, displayName string) (*Workbook, error) {
	ext := strings.ToLower(filepath.Ext(displayName))
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(path))
	}
	if displayName == "" {
		displayName = filepath.Base(path)
	}

	if ext == ".xls" {
		return openXLS(path, displayName)
	}
	return openXLSX(path, displayName)
}

func openXLSX(path, name string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer func() { _ = f.Close() }()

	wb := &Workbook{Name: name}
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s of %s: %w", sheet, name, err)
		}
		wb.Sheets = append(wb.Sheets, Sheet{Name: sheet, Rows: rows})
	}
	return wb, nil
}

func openXLS(path, name string) (*Workbook, error) {
	f, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}

	wb := &Workbook{Name: name}
	for i := 0; i < f.NumSheets(); i++ {
		ws := f.GetSheet(i)
		if ws == nil {
			continue
		}
		sheet := Sheet{Name: ws.Name}
		for r := 0; r <= int(ws.MaxRow); r++ {
			row := ws.Row(r)
			if row == nil {
				sheet.Rows = append(sheet.Rows, nil)
				continue
			}
			cells := make([]string, 0, row.LastCol())
			for c := 0; c < row.LastCol(); c++ {
				cells = append(cells, row.Col(c))
			}
			sheet.Rows = append(sheet.Rows, cells)
		}
		wb.Sheets = append(wb.Sheets, sheet)
	}
	return wb, nil
}

// ReadWorkbooks loads sources concurrently and returns them in input order.
// The first failure cancels the rest.
func ReadWorkbooks(ctx context.Context, sources []Source) ([]*Workbook, error) {
	out := make([]*Workbook, len(sources))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelReads)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			wb, err := OpenWorkbook(src.Path, src.Name)
			if err != nil {
				return err
			}
			out[i] = wb
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
