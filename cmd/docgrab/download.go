package main

import (
	"fmt"
	"io"

	"github.com/fwojciec/docgrab"
	"github.com/fwojciec/docgrab/retrieve"
)

// download runs refs through the batch, announces the result and returns
// an error when any reference failed.
func download(deps *Dependencies, refs []docgrab.Reference) error {
	result, err := deps.Batch.Run(deps.Ctx, refs)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docgrab.ErrorMessage(err))
		return err
	}

	if err := retrieve.Announce(deps.Ctx, deps.Notifier, result, deps.Preferences.Extension); err != nil {
		fmt.Fprintf(deps.Stderr, "warning: notification failed: %v\n", err)
	}

	if failed := len(result.Failed()); failed > 0 {
		return fmt.Errorf("%d of %d downloads failed", failed, len(refs))
	}
	return nil
}

// progressPrinter reports each outcome on its own line as the batch runs.
func progressPrinter(w io.Writer) docgrab.OutcomeFunc {
	return func(o docgrab.Outcome) {
		if o.Succeeded {
			if o.Transfer != nil {
				fmt.Fprintf(w, "saved   %s  (%s)\n", o.Transfer.Path, o.Strategy)
				return
			}
			fmt.Fprintf(w, "saved   %s  (%s)\n", o.Reference.Filename, o.Strategy)
			return
		}
		fmt.Fprintf(w, "failed  %s: %s\n", o.Reference.Filename, describe(o.Err))
	}
}

// describe returns the application message of err, or its text for
// errors raised outside docgrab.
func describe(err error) string {
	if err == nil {
		return "unknown error"
	}
	if docgrab.ErrorCode(err) == docgrab.EINTERNAL {
		return err.Error()
	}
	return docgrab.ErrorMessage(err)
}
