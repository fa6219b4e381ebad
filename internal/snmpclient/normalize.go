package snmpclient

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gosnmp/gosnmp"
)

// Normalize renders a decoded SNMP value the way the agent's handlers
// expect to see it: plain text, with the net-snmp-style type prefixes
// and surrounding quotes stripped, and byte strings lossily decoded as
// UTF-8 rather than rejected.
func Normalize(t gosnmp.Asn1BER, value interface{}) string {
	switch t {
	case gosnmp.OctetString:
		b, ok := value.([]byte)
		if !ok {
			return stripPrefixes(fmt.Sprintf("%v", value))
		}
		return stripPrefixes(strings.ToValidUTF8(string(b), "�"))
	case gosnmp.ObjectIdentifier:
		s, _ := value.(string)
		return strings.TrimPrefix(s, ".")
	case gosnmp.IPAddress:
		s, ok := value.(string)
		if ok {
			return s
		}
		return fmt.Sprintf("%v", value)
	case gosnmp.Counter32, gosnmp.Counter64, gosnmp.Gauge32, gosnmp.TimeTicks, gosnmp.Uinteger32:
		return fmt.Sprintf("%v", gosnmp.ToBigInt(value))
	case gosnmp.Integer:
		n, ok := value.(int)
		if ok {
			return strconv.Itoa(n)
		}
		return fmt.Sprintf("%v", value)
	default:
		return stripPrefixes(fmt.Sprintf("%v", value))
	}
}

// stripPrefixes removes the "Hex-STRING: " / "INTEGER: " style prefixes
// some SNMP stacks embed in their string rendering, plus any wrapping
// quotes and trailing whitespace left over from the textual encoding.
func stripPrefixes(s string) string {
	s = strings.TrimSpace(s)
	for _, prefix := range []string{"Hex-STRING:", "STRING:", "INTEGER:", "Gauge32:", "Counter32:", "Timeticks:"} {
		if strings.HasPrefix(s, prefix) {
			s = strings.TrimSpace(strings.TrimPrefix(s, prefix))
			break
		}
	}
	s = strings.Trim(s, "\"")
	return strings.TrimSpace(s)
}
