package errors

import "strings"

// permanentFragments are error-message substrings that identify conditions a
// retry cannot fix: broken TLS between us and an upstream, or permission
// problems reported by the datastore. Structured kinds (ValidationError,
// SchemaError) cover the cases we raise ourselves; the fragments catch what
// upstream SDKs surface only as message text.
var permanentFragments = []string{
	"Hostname/IP does not match",
	"certificate",
	"SSL",
	"CERT",
	"Unknown field name",
	"Insufficient permissions",
	"Maximum execution time",
	"does not have a field",
	"Invalid permissions",
}

// Permanent reports whether err describes a condition that will not
// self-resolve, so the retry ledger should stop retrying immediately.
func Permanent(err error) bool {
	if err == nil {
		return false
	}
	if IsValidation(err) || IsSchema(err) {
		return true
	}
	msg := err.Error()
	for _, frag := range permanentFragments {
		if strings.Contains(msg, frag) {
			return true
		}
	}
	return false
}
