package main_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/docgrab"
	main "github.com/fwojciec/docgrab/cmd/docgrab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminalNotifier_Notify(t *testing.T) {
	t.Parallel()

	t.Run("prints title and message", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n := main.NewTerminalNotifier(&buf, true)

		err := n.Notify(context.Background(), docgrab.Notification{Title: "Download Complete", Message: "Successfully downloaded 2 PDF(s)"})

		require.NoError(t, err)
		assert.Equal(t, "Download Complete: Successfully downloaded 2 PDF(s)\n", buf.String())
	})

	t.Run("stays silent when disabled", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n := main.NewTerminalNotifier(&buf, false)

		err := n.Notify(context.Background(), docgrab.FailureNotification(docgrab.Outcome{
			Reference: docgrab.Reference{Filename: "a.pdf"},
			Err:       errors.New("x"),
		}))

		require.NoError(t, err)
		assert.Empty(t, buf.String())
	})
}
