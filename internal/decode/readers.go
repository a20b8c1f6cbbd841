package decode

import (
	"bytes"
	"encoding/csv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/fernwehlabs/mailscrub/pkg/cleaner"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Text interprets the payload as UTF-8 text, dropping a leading byte
// order mark and any bytes that do not form valid UTF-8.
func Text(data []byte) cleaner.Input {
	return cleaner.Text(strings.ToValidUTF8(string(stripBOM(data)), ""))
}

// CSV decodes a comma or semicolon separated payload into rows. The
// separator is sniffed from the first line. Ragged records and stray
// quotes are tolerated; if parsing still fails and the payload carries
// no quoting structure it is handed to the text decoder instead.
func CSV(data []byte) (cleaner.Input, error) {
	data = stripBOM(data)
	rows, err := readDelimited(data, sniffDelimiter(data))
	if err != nil {
		if !bytes.ContainsRune(data, '"') {
			return Text(data), nil
		}
		return cleaner.Input{}, &Error{Format: FormatCSV, Err: err}
	}
	return cleaner.CSVRows(rows), nil
}

// TSV decodes a tab separated payload into rows.
func TSV(data []byte) (cleaner.Input, error) {
	rows, err := readDelimited(stripBOM(data), '\t')
	if err != nil {
		return cleaner.Input{}, &Error{Format: FormatTSV, Err: err}
	}
	return cleaner.CSVRows(rows), nil
}

// XLSX decodes a workbook, concatenating the rows of every sheet in
// workbook order.
func XLSX(data []byte) (cleaner.Input, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return cleaner.Input{}, &Error{Format: FormatXLSX, Err: err}
	}
	defer f.Close()

	var rows [][]string
	for _, sheet := range f.GetSheetList() {
		sheetRows, err := f.GetRows(sheet)
		if err != nil {
			return cleaner.Input{}, &Error{Format: FormatXLSX, Err: err}
		}
		rows = append(rows, sheetRows...)
	}
	return cleaner.SheetRows(rows), nil
}

func readDelimited(data []byte, comma rune) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.ReadAll()
}

// sniffDelimiter picks the separator from the first line. Semicolon
// outnumbering comma means a semicolon export, common from German
// spreadsheet locales.
func sniffDelimiter(data []byte) rune {
	line, _, _ := bytes.Cut(data, []byte("\n"))
	if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
		return ';'
	}
	return ','
}

func stripBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, utf8BOM)
}
