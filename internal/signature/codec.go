// Package signature signs outbound notifier requests and verifies inbound
// webhook deliveries with Ed25519.
package signature

import (
	"fmt"
	"strconv"
	"strings"
)

// Param is a single key/value pair. Order of a []Param is the signing order
// and must match the order of fields in the serialized request.
type Param struct {
	Key   string
	Value any
}

const safeChars = "-_.!~*'()"

// EncodeParams joins params as key=value pairs separated by '&'. Keys and
// values are percent-encoded with everything outside [A-Za-z0-9] and
// safeChars escaped, '/' included.
func EncodeParams(params []Param) string {
	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(escape(p.Key))
		b.WriteByte('=')
		b.WriteString(escape(stringify(p.Value)))
	}
	return b.String()
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []string:
		return strings.Join(t, ",")
	case []any:
		parts := make([]string, len(t))
		for i, x := range t {
			parts[i] = stringify(x)
		}
		return strings.Join(parts, ",")
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		if t {
			return "True"
		}
		return "False"
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

const upperhex = "0123456789ABCDEF"

func escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte(safeChars, c) >= 0
}

func hasKey(params []Param, key string) bool {
	for _, p := range params {
		if p.Key == key {
			return true
		}
	}
	return false
}
