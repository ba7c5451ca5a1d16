package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

// secretFields are attribute and struct field names whose values are never
// logged. Remote credentials end up in client headers, so header-shaped
// names are included.
var secretFields = []string{
	"password",
	"secret",
	"token",
	"apiKey",
	"api_key",
	"X-Api-Key",
	"authorization",
	"Authorization",
	"cookie",
	"Cookie",
	"dsn",
}

// credentialValue matches bearer, basic, and JWT-shaped values regardless of
// the attribute name they travel under.
var credentialValue = regexp.MustCompile(`(?i)^(bearer|basic)\s+\S+$|^eyJ[\w-]*\.eyJ[\w-]*\.[\w-]*$`)

// redactor returns a ReplaceAttr function that masks secretFields, anything
// prefixed "secret", and credential-shaped values. extra options are
// appended.
func redactor(extra ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	opts := make([]masq.Option, 0, len(secretFields)+len(extra)+2)

	for _, name := range secretFields {
		opts = append(opts, masq.WithFieldName(name))
	}

	opts = append(opts,
		masq.WithFieldPrefix("secret"),
		masq.WithRegex(credentialValue),
	)

	return masq.New(append(opts, extra...)...)
}
