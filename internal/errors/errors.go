// Package errors reports command failures on the terminal.
package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/fieldplan/internal/cli"
	"github.com/julianstephens/fieldplan/internal/constants"
	"github.com/julianstephens/fieldplan/internal/instance"
	"github.com/julianstephens/fieldplan/internal/keyring"
	"github.com/julianstephens/fieldplan/internal/logger"
	"github.com/julianstephens/fieldplan/internal/migration"
	"github.com/julianstephens/fieldplan/internal/models"
	"github.com/julianstephens/fieldplan/internal/storage/postgres"
)

// hints suggest a next step for failures the user can act on. The first
// match wins, so more specific errors go first.
var hints = []struct {
	target error
	text   string
}{
	{models.ErrActivityNotFound, "run '" + constants.AppName + " activity list' to see activity IDs"},
	{cli.ErrAmbiguousActivity, "use a longer ID prefix"},
	{models.ErrStaleEndDate, "run '" + constants.AppName + " validate --fix' to recompute end dates"},
	{models.ErrUnknownSetting, "run '" + constants.AppName + " settings --list' to see setting names"},
	{postgres.ErrEmbeddedCredentials, "store the connection string with '" + constants.AppName + " keyring set' or FIELDPLAN_DB_CONNECTION"},
	{keyring.ErrNotFound, "run '" + constants.AppName + " keyring set' first"},
	{keyring.ErrKeyringUnavailable, "set FIELDPLAN_DB_CONNECTION instead"},
	{migration.ErrSchemaTooNew, "upgrade " + constants.AppName + " to open this database"},
	{instance.ErrAlreadyRunning, "close the other session first"},
}

// Format returns err with the "Error: " prefix used on the terminal.
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Hint returns the suggested next step for err, or "".
func Hint(err error) string {
	for _, h := range hints {
		if stderrors.Is(err, h.target) {
			return h.text
		}
	}
	return ""
}

// Report writes err and its hint, if any, to w.
func Report(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(w, Format(err))
	if hint := Hint(err); hint != "" {
		fmt.Fprintf(w, "Hint: %s\n", hint)
	}
}

// Fatal logs err, reports it on stderr and exits with status 1. A nil err is
// ignored.
func Fatal(err error) {
	if err == nil {
		return
	}
	logger.Error("Command execution failed", "error", err)
	Report(os.Stderr, err)
	os.Exit(1)
}
