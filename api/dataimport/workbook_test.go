package dataimport_test

import (
	"errors"
	"fmt"
	"testing"

	"AqsatiSaaS/api/dataimport"

	"github.com/xuri/excelize/v2"
)

// buildWorkbook renders rows into an xlsx byte slice, one sheet.
func buildWorkbook(t *testing.T, sheet string, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			t.Fatalf("SetSheetName: %v", err)
		}
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return buf.Bytes()
}

func TestReadWorkbookPreview(t *testing.T) {
	t.Parallel()

	rows := [][]interface{}{{"الاسم", "الهاتف"}}
	for i := 1; i <= 10; i++ {
		rows = append(rows, []interface{}{fmt.Sprintf("عميل %d", i), fmt.Sprintf("9900%04d", i)})
	}
	data := buildWorkbook(t, "العملاء", rows)

	summary, err := dataimport.ReadWorkbook(data)
	if err != nil {
		t.Fatalf("ReadWorkbook: %v", err)
	}
	if len(summary.SheetNames) != 1 || summary.SheetNames[0] != "العملاء" {
		t.Fatalf("unexpected sheet names: %v", summary.SheetNames)
	}
	preview := summary.Preview["العملاء"]
	if len(preview) != 5 {
		t.Fatalf("preview should be capped at 5 rows, got %d", len(preview))
	}
	if preview[0]["الاسم"] != "عميل 1" {
		t.Fatalf("unexpected first preview row: %v", preview[0])
	}
}

func TestReadSheetFullSkipsBlankRowsAndPads(t *testing.T) {
	t.Parallel()

	data := buildWorkbook(t, "Sheet1", [][]interface{}{
		{"الاسم", "الهاتف", "ملاحظات"},
		{"  أحمد  ", "123"}, // short row, padded
		{"", "", ""},        // blank row, dropped
		{"سارة", "456", "vip"},
	})

	rows, err := dataimport.ReadSheetFull(data, "Sheet1")
	if err != nil {
		t.Fatalf("ReadSheetFull: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("blank rows should be dropped, got %d rows", len(rows))
	}
	if rows[0]["الاسم"] != "أحمد" {
		t.Fatalf("cell values should be trimmed, got %q", rows[0]["الاسم"])
	}
	if rows[0]["ملاحظات"] != "" {
		t.Fatalf("short rows should pad with empty strings, got %q", rows[0]["ملاحظات"])
	}
	if rows[1]["ملاحظات"] != "vip" {
		t.Fatalf("unexpected second row: %v", rows[1])
	}
}

func TestReadSheetFullUnknownSheet(t *testing.T) {
	t.Parallel()

	data := buildWorkbook(t, "Sheet1", [][]interface{}{{"a"}, {"1"}})
	_, err := dataimport.ReadSheetFull(data, "لا وجود")
	if !errors.Is(err, dataimport.ErrSheetNotFound) {
		t.Fatalf("expected ErrSheetNotFound, got %v", err)
	}
}

func TestReadWorkbookRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := dataimport.ReadWorkbook([]byte("not a spreadsheet at all"))
	if !errors.Is(err, dataimport.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestReadWorkbookIsReadOnlyAndRepeatable(t *testing.T) {
	t.Parallel()

	data := buildWorkbook(t, "Sheet1", [][]interface{}{
		{"a", "b"},
		{"1", "2"},
	})

	first, err := dataimport.ReadWorkbook(data)
	if err != nil {
		t.Fatalf("first read: %v", err)
	}
	second, err := dataimport.ReadWorkbook(data)
	if err != nil {
		t.Fatalf("second read: %v", err)
	}
	if len(first.Preview["Sheet1"]) != len(second.Preview["Sheet1"]) {
		t.Fatal("repeated reads of the same bytes must agree")
	}
}
