package main

import (
	"fmt"

	"github.com/fwojciec/docgrab"
)

// Run executes the config get command.
func (c *ConfigGetCmd) Run(deps *Dependencies) error {
	prefs, err := deps.PreferenceService.FindPreferences(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docgrab.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "%s = %t\n", docgrab.PrefShowNotifications, prefs.ShowNotifications)
	fmt.Fprintf(deps.Stdout, "%s = %s\n", docgrab.PrefExtension, prefs.Extension)
	return nil
}

// Run executes the config set command.
func (c *ConfigSetCmd) Run(deps *Dependencies) error {
	if err := deps.PreferenceService.SetPreference(deps.Ctx, c.Key, c.Value); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docgrab.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Set %s = %s\n", c.Key, c.Value)
	return nil
}
