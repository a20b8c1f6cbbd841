package cleaner

import (
	"reflect"
	"strings"
	"testing"
)

func TestClean_Text(t *testing.T) {
	tests := []struct {
		name           string
		input          string
		wantEmails     []string
		wantFound      int
		wantDuplicates int
		wantInvalid    int
	}{
		{
			name:           "mixed separators and case",
			input:          "contact: A@x.com, a@x.com; b@y.org",
			wantEmails:     []string{"a@x.com", "b@y.org"},
			wantFound:      3,
			wantDuplicates: 1,
			wantInvalid:    0,
		},
		{
			name:       "empty input",
			input:      "",
			wantEmails: nil,
		},
		{
			name:       "no email shaped substrings",
			input:      "not-an-email and a@b and some prose",
			wantEmails: nil,
		},
		{
			name:       "surrounding punctuation stripped by the pattern",
			input:      "<john@test.com>, (jane@test.com), mailto:joe@test.com.",
			wantEmails: []string{"john@test.com", "jane@test.com", "joe@test.com"},
			wantFound:  3,
		},
		{
			name:        "consecutive dots rejected",
			input:       "a..b@x.com",
			wantEmails:  nil,
			wantFound:   1,
			wantInvalid: 1,
		},
		{
			name:        "leading dot in local part rejected",
			input:       "send to .alice@x.com please",
			wantEmails:  nil,
			wantFound:   1,
			wantInvalid: 1,
		},
		{
			name:        "domain label starting with hyphen rejected",
			input:       "bad@-host.com",
			wantEmails:  nil,
			wantFound:   1,
			wantInvalid: 1,
		},
		{
			name:           "case collapses to one entry",
			input:          "Foo@Bar.COM foo@bar.com FOO@BAR.com",
			wantEmails:     []string{"foo@bar.com"},
			wantFound:      3,
			wantDuplicates: 2,
		},
		{
			name:       "first seen order preserved",
			input:      "c@z.net b@y.org a@x.com b@y.org",
			wantEmails: []string{"c@z.net", "b@y.org", "a@x.com"},
			wantFound:  4, wantDuplicates: 1,
		},
		{
			name:       "plus addressing and underscores kept",
			input:      "dev+test@x.com first_last@sub.domain.co",
			wantEmails: []string{"dev+test@x.com", "first_last@sub.domain.co"},
			wantFound:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Clean(Text(tt.input), Options{})

			if !reflect.DeepEqual(res.Emails, tt.wantEmails) {
				t.Errorf("Emails = %v, want %v", res.Emails, tt.wantEmails)
			}
			if res.Found != tt.wantFound {
				t.Errorf("Found = %d, want %d", res.Found, tt.wantFound)
			}
			if res.Duplicates != tt.wantDuplicates {
				t.Errorf("Duplicates = %d, want %d", res.Duplicates, tt.wantDuplicates)
			}
			if res.Invalid != tt.wantInvalid {
				t.Errorf("Invalid = %d, want %d", res.Invalid, tt.wantInvalid)
			}
		})
	}
}

func TestClean_SheetRows(t *testing.T) {
	rows := [][]string{
		{"email"},
		{"John@Test.com"},
		{"bad-entry"},
		{"john@test.com"},
	}

	res := Clean(SheetRows(rows), Options{})

	if want := []string{"john@test.com"}; !reflect.DeepEqual(res.Emails, want) {
		t.Errorf("Emails = %v, want %v", res.Emails, want)
	}
	// Header and non-matching cells produce no candidate, not an invalid one.
	if res.Found != 2 {
		t.Errorf("Found = %d, want 2", res.Found)
	}
	if res.Duplicates != 1 {
		t.Errorf("Duplicates = %d, want 1", res.Duplicates)
	}
	if res.Invalid != 0 {
		t.Errorf("Invalid = %d, want 0", res.Invalid)
	}
}

func TestClean_CSVRows_RowMajorOrder(t *testing.T) {
	rows := [][]string{
		{"b@y.org", "a@x.com"},
		{"c@z.net"},
	}

	res := Clean(CSVRows(rows), Options{})

	want := []string{"b@y.org", "a@x.com", "c@z.net"}
	if !reflect.DeepEqual(res.Emails, want) {
		t.Errorf("Emails = %v, want %v", res.Emails, want)
	}
}

// Cleaning the routine's own output is a fixed point: same set, nothing
// removed.
func TestClean_Idempotent(t *testing.T) {
	first := Clean(Text("A@x.com, a@x.com; b@y.org, junk, c..d@x.com"), Options{})

	second := Clean(Text(string(first.File())), Options{})

	if !reflect.DeepEqual(second.Emails, first.Emails) {
		t.Errorf("second pass Emails = %v, want %v", second.Emails, first.Emails)
	}
	if second.Duplicates != 0 {
		t.Errorf("second pass Duplicates = %d, want 0", second.Duplicates)
	}
	if second.Invalid != 0 {
		t.Errorf("second pass Invalid = %d, want 0", second.Invalid)
	}
	if second.Found != first.Unique() {
		t.Errorf("second pass Found = %d, want %d", second.Found, first.Unique())
	}
}

func TestClean_CountInvariant(t *testing.T) {
	inputs := []Input{
		Text(""),
		Text("a@x.com a@x.com a@x.com"),
		Text("a..b@x.com good@x.com .bad@x.com good@x.com"),
		CSVRows([][]string{{"a@x.com", "junk"}, {"A@X.COM", "b@y.org"}}),
		SheetRows([][]string{{"email", "name"}, {"p@q.co", "Pat"}}),
	}

	for _, in := range inputs {
		res := Clean(in, Options{})
		if got := res.Unique() + res.Duplicates + res.Invalid; got != res.Found {
			t.Errorf("unique(%d) + duplicates(%d) + invalid(%d) = %d, want Found = %d",
				res.Unique(), res.Duplicates, res.Invalid, got, res.Found)
		}
	}
}

func TestClean_SortByDomain(t *testing.T) {
	res := Clean(Text("z@b.com a@c.org b@b.com"), Options{SortByDomain: true})

	want := []string{"b@b.com", "z@b.com", "a@c.org"}
	if !reflect.DeepEqual(res.Emails, want) {
		t.Errorf("Emails = %v, want %v", res.Emails, want)
	}
}

func TestClean_DeobfuscateOption(t *testing.T) {
	in := Text("bob[at]yahoo[dot]com and carol (at) example (dot) com")

	// Off by default: nothing extractable.
	if res := Clean(in, Options{}); !res.Empty() {
		t.Fatalf("without deobfuscation got %v, want none", res.Emails)
	}

	res := Clean(in, Options{Deobfuscate: true})
	want := []string{"bob@yahoo.com", "carol@example.com"}
	if !reflect.DeepEqual(res.Emails, want) {
		t.Errorf("Emails = %v, want %v", res.Emails, want)
	}
}

func TestClean_RepairDomainsOption(t *testing.T) {
	in := Text("frank@gnail.con, frank@gmail.com")

	// Off by default: the typoed address dedupes separately.
	res := Clean(in, Options{})
	if len(res.Emails) != 2 {
		t.Fatalf("without repair got %v, want two entries", res.Emails)
	}

	res = Clean(in, Options{RepairDomains: true})
	if want := []string{"frank@gmail.com"}; !reflect.DeepEqual(res.Emails, want) {
		t.Errorf("Emails = %v, want %v", res.Emails, want)
	}
	if res.Duplicates != 1 {
		t.Errorf("Duplicates = %d, want 1", res.Duplicates)
	}
}

func TestResult_File(t *testing.T) {
	res := Clean(Text("a@x.com b@y.org"), Options{})

	if got, want := string(res.File()), "a@x.com\nb@y.org\n"; got != want {
		t.Errorf("File() = %q, want %q", got, want)
	}

	var empty Result
	if empty.File() != nil {
		t.Errorf("empty File() = %q, want nil", empty.File())
	}
}

func TestResult_Summary(t *testing.T) {
	res := Clean(Text("A@x.com a@x.com a..b@x.com b@y.org"), Options{})

	s := res.Summary()
	for _, part := range []string{"2 unique", "4 found", "1 duplicates", "1 invalid"} {
		if !strings.Contains(s, part) {
			t.Errorf("Summary() = %q, missing %q", s, part)
		}
	}
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindText, "text"},
		{KindCSVRows, "csv_rows"},
		{KindSheetRows, "spreadsheet_rows"},
		{Kind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
