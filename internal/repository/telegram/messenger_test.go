package telegram

import (
	"context"
	"errors"
	"testing"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	got []*tgbot.SendMessageParams
	err error
}

func (r *recordingSender) SendMessage(_ context.Context, p *tgbot.SendMessageParams) (*models.Message, error) {
	r.got = append(r.got, p)
	if r.err != nil {
		return nil, r.err
	}
	return &models.Message{ID: 1}, nil
}

func TestMessenger_SendText(t *testing.T) {
	s := &recordingSender{}
	m := NewMessenger(s, "")

	require.NoError(t, m.SendText(context.Background(), 42, "Received <b>1</b> XLM"))
	require.Len(t, s.got, 1)
	assert.Equal(t, int64(42), s.got[0].ChatID)
	assert.Equal(t, "Received <b>1</b> XLM", s.got[0].Text)
	assert.Equal(t, models.ParseModeHTML, s.got[0].ParseMode)
	require.NotNil(t, s.got[0].LinkPreviewOptions)
	assert.True(t, *s.got[0].LinkPreviewOptions.IsDisabled)
}

func TestMessenger_SendError(t *testing.T) {
	s := &recordingSender{err: errors.New("Forbidden: bot was blocked by the user")}
	m := NewMessenger(s, "MarkdownV2")

	err := m.SendText(context.Background(), 7, "x")
	assert.ErrorContains(t, err, "blocked")
	assert.Equal(t, models.ParseMode("MarkdownV2"), s.got[0].ParseMode)
}

func TestNewBot_RequiresToken(t *testing.T) {
	_, err := NewBot(Config{})
	assert.ErrorIs(t, err, ErrNoToken)
}
