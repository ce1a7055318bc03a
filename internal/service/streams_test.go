package service

import (
	"context"
	"testing"

	"github.com/jmales/channelvault/internal/models"
	"github.com/jmales/channelvault/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore implements the slices of store.Store the service tests
// exercise; embedding the interface leaves everything else panicking on
// an unexpected call.
type fakeStore struct {
	store.Store

	groups    map[string]*models.GroupTitle
	nextGroup int64

	aliasSets map[int64]*string

	channels   map[string]*models.Channel
	lastUpdate *store.ChannelUpdate

	series       map[string]*models.Series
	episodeIDs   map[string][]string
	replacedDel  []string
	replacedUpd  []store.EpisodePatch
	replacedIns  []models.Media
	cascadeCalls []bool

	syncRows   []models.ChannelSync
	contentIDs map[string]int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		groups:     map[string]*models.GroupTitle{},
		aliasSets:  map[int64]*string{},
		channels:   map[string]*models.Channel{},
		series:     map[string]*models.Series{},
		episodeIDs: map[string][]string{},
		contentIDs: map[string]int{},
	}
}

func (f *fakeStore) InsertGroupTitle(_ context.Context, name string) (int64, bool, error) {
	if _, ok := f.groups[name]; ok {
		return 0, false, nil
	}
	f.nextGroup++
	f.groups[name] = &models.GroupTitle{ID: f.nextGroup, Name: name}
	return f.nextGroup, true, nil
}

func (f *fakeStore) GetGroupTitleByName(_ context.Context, name string) (*models.GroupTitle, error) {
	gt, ok := f.groups[name]
	if !ok {
		return nil, store.ErrNotFound
	}
	return gt, nil
}

func (f *fakeStore) GetGroupTitleByID(_ context.Context, id int64) (*models.GroupTitle, error) {
	for _, gt := range f.groups {
		if gt.ID == id {
			return gt, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) SetGroupTitleAlias(_ context.Context, id int64, alias *string) error {
	f.aliasSets[id] = alias
	for _, gt := range f.groups {
		if gt.ID == id {
			gt.Alias = alias
		}
	}
	return nil
}

func (f *fakeStore) GetChannel(_ context.Context, id string) (*models.Channel, error) {
	ch, ok := f.channels[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return ch, nil
}

func (f *fakeStore) CreateChannel(_ context.Context, ch *models.Channel) error {
	ch.ID = "ch-new"
	f.channels[ch.ID] = ch
	return nil
}

func (f *fakeStore) UpdateChannel(_ context.Context, id string, u store.ChannelUpdate) (*models.Channel, error) {
	ch, ok := f.channels[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	f.lastUpdate = &u
	ch.TvgName = u.TvgName
	ch.TvgLogo = u.TvgLogo
	ch.StreamURL = u.StreamURL
	ch.Name = u.Name
	if u.SetGroupTitle {
		ch.GroupTitleID = u.GroupTitleID
	}
	out := *ch
	return &out, nil
}

func seedChannel(f *fakeStore, id string) {
	f.channels[id] = &models.Channel{ID: id, TvgName: "CNN"}
}

func TestUpdateChannelResolvesGroupText(t *testing.T) {
	f := newFakeStore()
	seedChannel(f, "ch-1")
	svc := New(f)

	title := "US| NEWS"
	ch, err := svc.UpdateChannel(context.Background(), "ch-1", ChannelInput{
		TvgName:    "CNN",
		GroupTitle: &title,
	})
	require.NoError(t, err)

	require.NotNil(t, f.lastUpdate)
	assert.True(t, f.lastUpdate.SetGroupTitle)
	require.NotNil(t, f.lastUpdate.GroupTitleID)
	assert.Equal(t, int64(1), *f.lastUpdate.GroupTitleID)

	require.NotNil(t, ch.GroupTitle)
	assert.Equal(t, "US| NEWS", *ch.GroupTitle)
	assert.Nil(t, ch.GroupTitleAlias)
}

func TestUpdateChannelReusesExistingGroup(t *testing.T) {
	f := newFakeStore()
	seedChannel(f, "ch-1")
	f.groups["US| NEWS"] = &models.GroupTitle{ID: 7, Name: "US| NEWS"}
	svc := New(f)

	title := "US| NEWS"
	_, err := svc.UpdateChannel(context.Background(), "ch-1", ChannelInput{
		TvgName:    "CNN",
		GroupTitle: &title,
	})
	require.NoError(t, err)

	require.NotNil(t, f.lastUpdate.GroupTitleID)
	assert.Equal(t, int64(7), *f.lastUpdate.GroupTitleID)
	assert.Len(t, f.groups, 1)
}

func TestUpdateChannelExplicitIDWins(t *testing.T) {
	f := newFakeStore()
	seedChannel(f, "ch-1")
	f.groups["EXISTING"] = &models.GroupTitle{ID: 9, Name: "EXISTING"}
	svc := New(f)

	id := int64(9)
	title := "SOMETHING ELSE"
	_, err := svc.UpdateChannel(context.Background(), "ch-1", ChannelInput{
		TvgName:      "CNN",
		GroupTitle:   &title,
		GroupTitleID: &id,
	})
	require.NoError(t, err)

	require.NotNil(t, f.lastUpdate.GroupTitleID)
	assert.Equal(t, int64(9), *f.lastUpdate.GroupTitleID)
	// The text must not have created a second lookup row.
	assert.Len(t, f.groups, 1)
}

func TestUpdateChannelEmptyTextClearsGroup(t *testing.T) {
	f := newFakeStore()
	seedChannel(f, "ch-1")
	gid := int64(3)
	f.channels["ch-1"].GroupTitleID = &gid
	svc := New(f)

	empty := ""
	ch, err := svc.UpdateChannel(context.Background(), "ch-1", ChannelInput{
		TvgName:    "CNN",
		GroupTitle: &empty,
	})
	require.NoError(t, err)

	assert.True(t, f.lastUpdate.SetGroupTitle)
	assert.Nil(t, f.lastUpdate.GroupTitleID)
	assert.Nil(t, ch.GroupTitle)
}

func TestUpdateChannelGroupUntouchedWhenAbsent(t *testing.T) {
	f := newFakeStore()
	seedChannel(f, "ch-1")
	gid := int64(3)
	f.channels["ch-1"].GroupTitleID = &gid
	f.groups["KEPT"] = &models.GroupTitle{ID: 3, Name: "KEPT"}
	svc := New(f)

	ch, err := svc.UpdateChannel(context.Background(), "ch-1", ChannelInput{TvgName: "CNN"})
	require.NoError(t, err)

	assert.False(t, f.lastUpdate.SetGroupTitle)
	require.NotNil(t, ch.GroupTitle)
	assert.Equal(t, "KEPT", *ch.GroupTitle)
}

func TestUpdateChannelAliasAppliedWithGroup(t *testing.T) {
	f := newFakeStore()
	seedChannel(f, "ch-1")
	svc := New(f)

	title := "US| NEWS"
	alias := "News"
	ch, err := svc.UpdateChannel(context.Background(), "ch-1", ChannelInput{
		TvgName:         "CNN",
		GroupTitle:      &title,
		GroupTitleAlias: &alias,
	})
	require.NoError(t, err)

	set, ok := f.aliasSets[1]
	require.True(t, ok)
	require.NotNil(t, set)
	assert.Equal(t, "News", *set)

	require.NotNil(t, ch.GroupTitleAlias)
	assert.Equal(t, "News", *ch.GroupTitleAlias)
}

func TestUpdateChannelAliasSkippedWithoutGroup(t *testing.T) {
	f := newFakeStore()
	seedChannel(f, "ch-1")
	svc := New(f)

	alias := "Orphan"
	_, err := svc.UpdateChannel(context.Background(), "ch-1", ChannelInput{
		TvgName:         "CNN",
		GroupTitleAlias: &alias,
	})
	require.NoError(t, err)
	assert.Empty(t, f.aliasSets)
}

func TestUpdateChannelEmptyAliasClears(t *testing.T) {
	f := newFakeStore()
	seedChannel(f, "ch-1")
	alias := "Old"
	f.groups["US| NEWS"] = &models.GroupTitle{ID: 4, Name: "US| NEWS", Alias: &alias}
	svc := New(f)

	title := "US| NEWS"
	empty := ""
	_, err := svc.UpdateChannel(context.Background(), "ch-1", ChannelInput{
		TvgName:         "CNN",
		GroupTitle:      &title,
		GroupTitleAlias: &empty,
	})
	require.NoError(t, err)

	set, ok := f.aliasSets[4]
	require.True(t, ok)
	assert.Nil(t, set)
}

func TestUpdateChannelNormalizesEmptyURLs(t *testing.T) {
	f := newFakeStore()
	seedChannel(f, "ch-1")
	svc := New(f)

	empty := ""
	_, err := svc.UpdateChannel(context.Background(), "ch-1", ChannelInput{
		TvgName:   "CNN",
		TvgLogo:   &empty,
		StreamURL: &empty,
	})
	require.NoError(t, err)

	assert.Nil(t, f.lastUpdate.TvgLogo)
	assert.Nil(t, f.lastUpdate.StreamURL)
}

func TestUpdateChannelNotFound(t *testing.T) {
	f := newFakeStore()
	svc := New(f)

	_, err := svc.UpdateChannel(context.Background(), "missing", ChannelInput{TvgName: "CNN"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateChannelResolvesAndAttachesGroup(t *testing.T) {
	f := newFakeStore()
	svc := New(f)

	title := "UK| SPORTS"
	alias := "Sports"
	ch, err := svc.CreateChannel(context.Background(), ChannelInput{
		TvgName:         "Sky Sports",
		GroupTitle:      &title,
		GroupTitleAlias: &alias,
	})
	require.NoError(t, err)

	assert.Equal(t, "ch-new", ch.ID)
	require.NotNil(t, ch.GroupTitleID)
	require.NotNil(t, ch.GroupTitle)
	assert.Equal(t, "UK| SPORTS", *ch.GroupTitle)
	require.NotNil(t, ch.GroupTitleAlias)
	assert.Equal(t, "Sports", *ch.GroupTitleAlias)
}
