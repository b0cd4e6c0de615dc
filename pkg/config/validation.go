package config

import (
	"fmt"
	"strings"
)

// ValidationError describes one bad or missing configuration value.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation error for %s: %s", e.Field, e.Message)
}

// Validate checks that the configuration can actually drive a job run.
// It collects every problem rather than stopping at the first, so one boot
// log shows the full list.
func (c *Config) Validate() error {
	var errs []ValidationError

	require := func(field, value string) {
		if strings.TrimSpace(value) == "" {
			errs = append(errs, ValidationError{Field: field, Message: "required value is missing"})
		}
	}

	require("AIRTABLE_ACCESS_TOKEN", c.AirtableAPIKey)
	require("AIRTABLE_BASE_ID", c.AirtableBaseID)
	require("AIRTABLE_TABLE", c.AirtableTable)
	require("AIRTABLE_VIEW", c.AirtableView)
	require("PUBLIC_API_KEY", c.PublicAPIKey)
	require("VWORLD_APIKEY", c.VWorldAPIKey)
	require("CODE_LOOKUP_URL", c.CodeLookupURL)

	if c.HTTPTimeout <= 0 {
		errs = append(errs, ValidationError{Field: "HTTP_TIMEOUT", Message: "must be a positive duration"})
	}
	if c.RecordDelay < 0 {
		errs = append(errs, ValidationError{Field: "RECORD_DELAY", Message: "must not be negative"})
	}
	if c.RetryResetDays <= 0 {
		errs = append(errs, ValidationError{Field: "RETRY_RESET_DAYS", Message: "must be positive"})
	}
	if c.SMTPHost != "" && (c.SMTPPort <= 0 || c.SMTPPort > 65535) {
		errs = append(errs, ValidationError{Field: "SMTP_PORT", Message: "must be a valid port"})
	}

	if len(errs) == 0 {
		return nil
	}

	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("invalid configuration:\n  %s", strings.Join(msgs, "\n  "))
}
