package main

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/fwojciec/docgrab"
)

// Run executes the get command.
func (c *GetCmd) Run(deps *Dependencies) error {
	pages, err := scanPages(deps, []string{c.URL}, 1)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docgrab.ErrorMessage(err))
		return err
	}
	refs := pages[0]

	refs, err = selectReferences(refs, c.Select, c.Match)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docgrab.ErrorMessage(err))
		return err
	}
	if len(refs) == 0 {
		printReferences(deps.Stdout, refs, deps.Preferences.Extension, c.URL)
		return nil
	}

	return download(deps, refs)
}

// selectReferences narrows refs to the 1-based indexes in selection and
// then to those whose filename or URL matches pattern. Empty arguments
// keep everything.
func selectReferences(refs []docgrab.Reference, selection, pattern string) ([]docgrab.Reference, error) {
	if strings.TrimSpace(selection) != "" {
		var picked []docgrab.Reference
		seen := make(map[int]bool)
		for _, field := range strings.Split(selection, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			n, err := strconv.Atoi(field)
			if err != nil {
				return nil, docgrab.Errorf(docgrab.EINVALID, "invalid selection %q", field)
			}
			if n < 1 || n > len(refs) {
				return nil, docgrab.Errorf(docgrab.EINVALID, "selection %d out of range 1-%d", n, len(refs))
			}
			if seen[n] {
				continue
			}
			seen[n] = true
			picked = append(picked, refs[n-1])
		}
		refs = picked
	}

	if pattern != "" {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, docgrab.Errorf(docgrab.EINVALID, "invalid match pattern: %v", err)
		}
		var matched []docgrab.Reference
		for _, ref := range refs {
			if re.MatchString(ref.Filename) || re.MatchString(ref.URL) {
				matched = append(matched, ref)
			}
		}
		refs = matched
	}

	return refs, nil
}
