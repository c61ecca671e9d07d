package xlsexport

import "github.com/xuri/excelize/v2"

const fontFamily = "Times New Roman"

// sheetWriter построчная запись таблицы на один лист
type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
}

func (w *sheetWriter) cell(col int, value interface{}) error {
	name, err := excelize.CoordinatesToCellName(col, w.row)
	if err != nil {
		return err
	}
	return w.f.SetCellValue(w.sheet, name, value)
}

func (w *sheetWriter) writeRow(values ...interface{}) error {
	w.row++
	for idx, value := range values {
		if value == nil {
			continue
		}
		if err := w.cell(idx+1, value); err != nil {
			return err
		}
	}
	return nil
}

func (w *sheetWriter) writeHeader(headers []string) error {
	values := make([]interface{}, 0, len(headers))
	for _, h := range headers {
		values = append(values, h)
	}
	if err := w.writeRow(values...); err != nil {
		return err
	}
	style, err := w.f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Font:      &excelize.Font{Bold: true, Family: fontFamily, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return err
	}
	if err = w.styleRange(style, 1, w.row, len(headers), w.row); err != nil {
		return err
	}
	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	if err = w.f.SetColWidth(w.sheet, "A", lastCol, 24); err != nil {
		return err
	}
	return w.f.SetPanes(w.sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func (w *sheetWriter) styleData(cols, rowFrom, rowTo int) error {
	if rowTo < rowFrom {
		return nil
	}
	style, err := w.f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center", WrapText: true},
		Font:      &excelize.Font{Family: fontFamily, Size: 11},
	})
	if err != nil {
		return err
	}
	return w.styleRange(style, 1, rowFrom, cols, rowTo)
}

func (w *sheetWriter) styleRange(style, colFrom, rowFrom, colTo, rowTo int) error {
	first, err := excelize.CoordinatesToCellName(colFrom, rowFrom)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(colTo, rowTo)
	if err != nil {
		return err
	}
	return w.f.SetCellStyle(w.sheet, first, last, style)
}
