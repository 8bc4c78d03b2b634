// Package tooltip builds hover tooltip markup and expands its @column
// placeholders against a data row.
package tooltip

import (
	"fmt"
	"html"
	"strconv"
	"strings"
)

// Unknown is substituted for placeholders naming a missing column.
const Unknown = "???"

// Placeholder returns the @-reference for a column, braced when the name
// contains anything other than letters, digits and underscores.
func Placeholder(column string) string {
	if column != "" && isIdent(column) {
		return "@" + column
	}
	return "@{" + column + "}"
}

// Build returns tooltip markup showing the image column at the given
// display width, followed by one centered "label: value" line per field in
// order. The displayed height reuses the width.
func Build(imageColumn string, fields []string, width int) string {
	var b strings.Builder
	b.WriteString("<div>\n")
	fmt.Fprintf(&b, "    <img src=\"%s\" alt=\"Imagem\" style=\"width: %dpx; height: %dpx;\">\n",
		Placeholder(imageColumn), width, width)
	for _, f := range fields {
		fmt.Fprintf(&b, "    <p style=\"text-align: center;\"><strong>%s:</strong> %s</p>\n",
			html.EscapeString(f), Placeholder(f))
	}
	b.WriteString("</div>\n")
	return b.String()
}

// Expand substitutes @column, @{column} and $index placeholders with the
// row's values. Values are always HTML-escaped; base64 data URIs pass
// through escaping unchanged.
func Expand(template string, row map[string]any, index int) string {
	var b strings.Builder
	for i := 0; i < len(template); {
		c := template[i]
		switch {
		case c == '@' && i+1 < len(template) && template[i+1] == '{':
			end := strings.IndexByte(template[i+2:], '}')
			if end < 0 {
				b.WriteString(template[i:])
				return b.String()
			}
			name := template[i+2 : i+2+end]
			b.WriteString(formatValue(row, name))
			i += end + 3
		case c == '@':
			j := i + 1
			for j < len(template) && isIdentByte(template[j]) {
				j++
			}
			if j == i+1 {
				b.WriteByte(c)
				i++
				continue
			}
			b.WriteString(formatValue(row, template[i+1:j]))
			i = j
		case strings.HasPrefix(template[i:], "$index"):
			b.WriteString(strconv.Itoa(index))
			i += len("$index")
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

func formatValue(row map[string]any, name string) string {
	v, ok := row[name]
	if !ok {
		return Unknown
	}
	return html.EscapeString(fmt.Sprint(v))
}

func isIdent(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isIdentByte(s[i]) {
			return false
		}
	}
	return true
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
