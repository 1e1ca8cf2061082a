package sheet

import "strings"

// CleanCellString removes characters that are illegal in workbook cell text:
// U+0000-U+0008, U+000B-U+000C, U+000E-U+001F and U+007F-U+009F. Tab, LF and
// CR are kept. The function is pure and idempotent.
func CleanCellString(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r <= 0x08:
			return -1
		case r == 0x0B || r == 0x0C:
			return -1
		case r >= 0x0E && r <= 0x1F:
			return -1
		case r >= 0x7F && r <= 0x9F:
			return -1
		}
		return r
	}, s)
}
