// Package decode turns uploaded payloads into cleaner inputs. The file
// format is resolved once here, by extension and then by content sniffing,
// so the rest of the pipeline only ever sees the tagged Input variant.
package decode

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/fernwehlabs/mailscrub/pkg/cleaner"
)

// Format identifies a supported payload format.
type Format int

const (
	FormatUnknown Format = iota
	FormatText
	FormatCSV
	FormatTSV
	FormatXLSX
)

// String returns the label used in logs and metrics.
func (f Format) String() string {
	switch f {
	case FormatText:
		return "txt"
	case FormatCSV:
		return "csv"
	case FormatTSV:
		return "tsv"
	case FormatXLSX:
		return "xlsx"
	default:
		return "unknown"
	}
}

// ErrUnsupportedFormat reports a payload that is neither a recognized
// extension nor a sniffable supported content type.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Error reports a payload that matched a supported format but could not
// be decoded as one.
type Error struct {
	Format Format
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("decoding %s: %v", e.Format, e.Err)
}

// Unwrap allows errors.Is and errors.As to reach the cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Detect resolves the payload format. A known extension wins; otherwise
// the content is sniffed. Anything that is not spreadsheet, delimited, or
// text yields ErrUnsupportedFormat.
func Detect(filename string, data []byte) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		return FormatText, nil
	case ".csv":
		return FormatCSV, nil
	case ".tsv":
		return FormatTSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	}

	if len(data) == 0 {
		return FormatUnknown, fmt.Errorf("%w: empty payload", ErrUnsupportedFormat)
	}

	mtype := mimetype.Detect(data)
	switch {
	case mtype.Is("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"):
		return FormatXLSX, nil
	case mtype.Is("text/csv"):
		return FormatCSV, nil
	case mtype.Is("text/tab-separated-values"):
		return FormatTSV, nil
	}
	if strings.HasPrefix(mtype.String(), "text/") {
		return FormatText, nil
	}
	return FormatUnknown, fmt.Errorf("%w: detected %s", ErrUnsupportedFormat, mtype)
}

// File decodes an uploaded file into a cleaner input. It is the single
// entry point used by the bot and the CLI.
func File(filename string, data []byte) (cleaner.Input, error) {
	format, err := Detect(filename, data)
	if err != nil {
		return cleaner.Input{}, err
	}
	switch format {
	case FormatCSV:
		return CSV(data)
	case FormatTSV:
		return TSV(data)
	case FormatXLSX:
		return XLSX(data)
	default:
		return Text(data), nil
	}
}
