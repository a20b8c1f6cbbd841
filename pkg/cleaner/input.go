package cleaner

// Kind tags the origin of an Input.
type Kind int

const (
	// KindText is free-form pasted text, scanned as a single string.
	KindText Kind = iota
	// KindCSVRows is a decoded delimited table, scanned cell by cell.
	KindCSVRows
	// KindSheetRows is a decoded spreadsheet, scanned cell by cell.
	KindSheetRows
)

// String returns the wire label for the kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindCSVRows:
		return "csv_rows"
	case KindSheetRows:
		return "spreadsheet_rows"
	default:
		return "unknown"
	}
}

// Input is the decoded content of one request, tagged by origin.
// It is built once at the boundary (see internal/decode) and consumed
// by Clean; rows are scanned in row-major order.
type Input struct {
	kind Kind
	text string
	rows [][]string
}

// Text wraps pasted message text.
func Text(s string) Input {
	return Input{kind: KindText, text: s}
}

// CSVRows wraps rows decoded from a delimited file.
func CSVRows(rows [][]string) Input {
	return Input{kind: KindCSVRows, rows: rows}
}

// SheetRows wraps rows decoded from a spreadsheet.
func SheetRows(rows [][]string) Input {
	return Input{kind: KindSheetRows, rows: rows}
}

// Kind returns the input's origin tag.
func (in Input) Kind() Kind {
	return in.kind
}

// strings flattens the input into the sequence of strings to scan:
// the whole text for KindText, every cell in row-major order otherwise.
func (in Input) strings() []string {
	if in.kind == KindText {
		return []string{in.text}
	}
	var n int
	for _, row := range in.rows {
		n += len(row)
	}
	out := make([]string, 0, n)
	for _, row := range in.rows {
		out = append(out, row...)
	}
	return out
}
