package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

var (
	// bearerPattern matches Authorization header values.
	bearerPattern = regexp.MustCompile(`(?i)^(bearer|basic)\s+\S+$`)

	// credentialURLPattern matches URLs that carry credentials, either as
	// userinfo or as a key/token query parameter. Quote endpoints and OTLP
	// collectors are configured by URL, so both can end up in logs.
	credentialURLPattern = regexp.MustCompile(`(?i)^[a-z][a-z0-9+.-]*://([^/@\s]+@|[^?\s]*\?(.*&)?(api_?key|key|token|access_token)=)`)
)

// redactOptions lists what is masked in every log line: header and config
// field names that hold credentials, and values that look like credentials.
func redactOptions() []masq.Option {
	return []masq.Option{
		masq.WithFieldName("authorization"),
		masq.WithFieldName("Authorization"),
		masq.WithFieldName("cookie"),
		masq.WithFieldName("password"),
		masq.WithFieldName("token"),
		masq.WithFieldName("api_key"),
		masq.WithFieldName("apiKey"),
		masq.WithFieldName("headers"),
		masq.WithFieldPrefix("secret"),
		masq.WithFieldPrefix("private"),

		masq.WithRegex(bearerPattern),
		masq.WithRegex(credentialURLPattern),
	}
}

// NewReplaceAttr returns a slog ReplaceAttr func that masks credentials.
// extra extends the built-in rules.
func NewReplaceAttr(extra ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(append(redactOptions(), extra...)...)
}
