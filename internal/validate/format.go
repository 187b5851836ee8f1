package validate

import (
	"encoding/base64"
	"net"
	"regexp"
	"time"
)

var (
	uuidRe  = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// formatCheckers covers the formats Swagger 2.0 commonly declares on string
// parameters. Unknown formats are accepted, per JSON Schema semantics.
var formatCheckers = map[string]func(string) bool{
	"date": func(s string) bool {
		_, err := time.Parse("2006-01-02", s)
		return err == nil
	},
	"date-time": func(s string) bool {
		_, err := time.Parse(time.RFC3339, s)
		return err == nil
	},
	"byte": func(s string) bool {
		_, err := base64.StdEncoding.DecodeString(s)
		return err == nil
	},
	"uuid":  uuidRe.MatchString,
	"email": emailRe.MatchString,
	"ipv4": func(s string) bool {
		ip := net.ParseIP(s)
		return ip != nil && ip.To4() != nil
	},
	"ipv6": func(s string) bool {
		ip := net.ParseIP(s)
		return ip != nil && ip.To4() == nil
	},
}
