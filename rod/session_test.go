package rod_test

import (
	"context"
	"testing"

	"github.com/fwojciec/docgrab"
	"github.com/fwojciec/docgrab/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_ActivePage_NothingLoaded(t *testing.T) {
	t.Parallel()

	var s rod.Session

	page, err := s.ActivePage(context.Background())

	assert.Nil(t, page)
	assert.Equal(t, docgrab.ENOCONTEXT, docgrab.ErrorCode(err))
}

func TestSession_Load_Closed(t *testing.T) {
	t.Parallel()

	var s rod.Session
	require.NoError(t, s.Close())

	_, err := s.Load(context.Background(), "https://example.com", 0)

	assert.Equal(t, docgrab.EINVALID, docgrab.ErrorCode(err))
	assert.Contains(t, docgrab.ErrorMessage(err), "closed")
}

func TestTab_Send_UnknownAction(t *testing.T) {
	t.Parallel()

	var tab rod.Tab

	ack, err := tab.Send(context.Background(), docgrab.Instruction{Action: "open-popup"})

	require.NoError(t, err)
	assert.False(t, ack.Success)
	assert.Equal(t, "unknown action open-popup", ack.Error)
}

func TestTab_Send_NoPage(t *testing.T) {
	t.Parallel()

	var tab rod.Tab

	_, err := tab.Send(context.Background(), docgrab.Instruction{Action: docgrab.ActionSaveFile})

	assert.Equal(t, docgrab.ENOCONTEXT, docgrab.ErrorCode(err))
}
