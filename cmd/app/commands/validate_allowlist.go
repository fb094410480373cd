package commands

import (
	"fmt"
	"io"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/allowlist"
)

// RunValidateAllowlist dry-runs allow-list validation on the given entries
// without touching the settings store. Errors make the configuration invalid;
// warnings flag entries that are probably mistakes.
func RunValidateAllowlist(out io.Writer, entries []string, format string) error {
	result := allowlist.ValidateAllowlist(entries)

	if format == "json" {
		return writeJSON(out, map[string]interface{}{
			"valid":    result.Valid,
			"errors":   result.Errors,
			"warnings": result.Warnings,
		})
	}

	if result.Valid {
		fmt.Fprintf(out, "Allow-list is valid (%d entries)\n", len(entries))
	} else {
		fmt.Fprintln(out, "Allow-list is invalid:")
		for _, msg := range result.Errors {
			fmt.Fprintf(out, "  error: %s\n", msg)
		}
	}

	for _, msg := range result.Warnings {
		fmt.Fprintf(out, "  warning: %s\n", msg)
	}

	if !result.Valid {
		return fmt.Errorf("allow-list validation failed with %d error(s)", len(result.Errors))
	}
	return nil
}
