package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jmales/channelvault/internal/kodi"
	"github.com/jmales/channelvault/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fakeStore) ListChannelSyncInfo(_ context.Context) ([]models.ChannelSync, error) {
	return f.syncRows, nil
}

func (f *fakeStore) SetChannelContentID(_ context.Context, id string, contentID int) error {
	f.contentIDs[id] = contentID
	return nil
}

type fakeKodi struct {
	channels []kodi.Channel
	err      error
}

func (k *fakeKodi) GetChannels(context.Context) ([]kodi.Channel, error) {
	return k.channels, k.err
}

func TestSyncKodiChannelIDs(t *testing.T) {
	f := newFakeStore()
	current := 12
	f.syncRows = []models.ChannelSync{
		{ID: "ch-1", TvgName: "CNN"},
		{ID: "ch-2", TvgName: "BBC One", ContentID: &current},
		{ID: "ch-3", TvgName: "Nowhere TV"},
	}
	client := &fakeKodi{channels: []kodi.Channel{
		{ChannelID: 41, Label: "cnn"},
		{ChannelID: 12, Label: "BBC ONE"},
	}}
	svc := New(f)

	res, err := svc.SyncKodiChannelIDs(context.Background(), client)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 2, res.KodiChannels)
	assert.Equal(t, 2, res.Matched)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 1, res.Skipped)

	// Only the differing channel was written; the up-to-date one was left alone.
	assert.Equal(t, map[string]int{"ch-1": 41}, f.contentIDs)
}

func TestSyncDuplicateLabelsLastWins(t *testing.T) {
	f := newFakeStore()
	f.syncRows = []models.ChannelSync{{ID: "ch-1", TvgName: "CNN"}}
	client := &fakeKodi{channels: []kodi.Channel{
		{ChannelID: 10, Label: "CNN"},
		{ChannelID: 20, Label: "cnn"},
	}}
	svc := New(f)

	res, err := svc.SyncKodiChannelIDs(context.Background(), client)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 20, f.contentIDs["ch-1"])
}

func TestSyncAbortsOnFetchError(t *testing.T) {
	f := newFakeStore()
	f.syncRows = []models.ChannelSync{{ID: "ch-1", TvgName: "CNN"}}
	client := &fakeKodi{err: errors.New("connection refused")}
	svc := New(f)

	_, err := svc.SyncKodiChannelIDs(context.Background(), client)
	require.Error(t, err)
	assert.Empty(t, f.contentIDs)
}
