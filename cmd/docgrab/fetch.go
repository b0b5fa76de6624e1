package main

import (
	"fmt"

	"github.com/fwojciec/docgrab"
)

// Run executes the fetch command. Each URL is downloaded as if it had been
// picked from a page, without scanning anything first.
func (c *FetchCmd) Run(deps *Dependencies) error {
	refs := make([]docgrab.Reference, 0, len(c.URLs))
	for _, u := range c.URLs {
		ref, err := docgrab.ReferenceFromURL(u, deps.Preferences.Extension)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docgrab.ErrorMessage(err))
			return err
		}
		refs = append(refs, ref)
	}

	return download(deps, refs)
}
