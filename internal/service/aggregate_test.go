package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vidtube/backend/internal/apperr"
	"github.com/vidtube/backend/internal/model"
)

func seedSubscribers(t *testing.T, store *fakeAssociationStore, channelID int64, subscribers ...int64) {
	t.Helper()
	for _, id := range subscribers {
		store.addObject(model.KindSubscription, id)
		require.NoError(t, store.InsertAssociation(context.Background(), model.Association{
			SubjectID: id,
			Kind:      model.KindSubscription,
			ObjectID:  channelID,
		}))
	}
}

func TestSubscribers_PageBeyondDataIsEmpty(t *testing.T) {
	store := newFakeAssociationStore()
	store.addObject(model.KindSubscription, 100)
	seedSubscribers(t, store, 100, 1, 2, 3, 4, 5)
	svc := NewAggregationService(store, store)

	resp, err := svc.Subscribers(context.Background(), 100, model.NewPage(3, 10, 50))
	require.NoError(t, err)
	require.Empty(t, resp.Subscribers)
	require.Equal(t, int64(5), resp.TotalCount)
}

func TestSubscribers_NewestFirst(t *testing.T) {
	store := newFakeAssociationStore()
	store.addObject(model.KindSubscription, 100)
	seedSubscribers(t, store, 100, 3, 1, 2)
	svc := NewAggregationService(store, store)

	resp, err := svc.Subscribers(context.Background(), 100, model.NewPage(1, 2, 50))
	require.NoError(t, err)
	require.Len(t, resp.Subscribers, 2)
	require.Equal(t, int64(2), resp.Subscribers[0].Subscriber.ID)
	require.Equal(t, int64(1), resp.Subscribers[1].Subscriber.ID)

	resp, err = svc.Subscribers(context.Background(), 100, model.NewPage(2, 2, 50))
	require.NoError(t, err)
	require.Len(t, resp.Subscribers, 1)
	require.Equal(t, int64(3), resp.Subscribers[0].Subscriber.ID)
}

func TestSubscribers_UnknownChannel(t *testing.T) {
	store := newFakeAssociationStore()
	svc := NewAggregationService(store, store)

	_, err := svc.Subscribers(context.Background(), 77, model.NewPage(1, 10, 50))
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSubscribedChannels_ReflectToggleState(t *testing.T) {
	store := newFakeAssociationStore()
	store.addObject(model.KindSubscription, 1)
	store.addObject(model.KindSubscription, 2)
	store.addObject(model.KindSubscription, 3)
	toggles := NewToggleService(store, store)
	svc := NewAggregationService(store, store)
	ctx := context.Background()

	_, err := toggles.ToggleSubscription(ctx, 1, 2)
	require.NoError(t, err)
	_, err = toggles.ToggleSubscription(ctx, 1, 3)
	require.NoError(t, err)

	resp, err := svc.SubscribedChannels(ctx, 1, model.NewPage(1, 10, 50))
	require.NoError(t, err)
	require.Equal(t, int64(2), resp.TotalCount)
	require.Len(t, resp.Channels, 2)

	_, err = toggles.ToggleSubscription(ctx, 1, 2)
	require.NoError(t, err)

	resp, err = svc.SubscribedChannels(ctx, 1, model.NewPage(1, 10, 50))
	require.NoError(t, err)
	require.Equal(t, int64(1), resp.TotalCount)
	require.Equal(t, int64(3), resp.Channels[0].Channel.ID)
}

func TestLikedVideos_Paginated(t *testing.T) {
	store := newFakeAssociationStore()
	toggles := NewToggleService(store, store)
	svc := NewAggregationService(store, store)
	ctx := context.Background()
	for _, id := range []int64{10, 11, 12} {
		store.addObject(model.KindVideoLike, id)
		_, err := toggles.ToggleVideoLike(ctx, 1, id)
		require.NoError(t, err)
	}

	videos, err := svc.LikedVideos(ctx, 1, model.NewPage(1, 2, 50))
	require.NoError(t, err)
	require.Len(t, videos, 2)
	require.Equal(t, int64(12), videos[0].Video.ID)

	videos, err = svc.LikedVideos(ctx, 1, model.NewPage(9, 2, 50))
	require.NoError(t, err)
	require.NotNil(t, videos)
	require.Empty(t, videos)
}

func TestChannelStats(t *testing.T) {
	store := newFakeAssociationStore()
	store.addObject(model.KindSubscription, 100)
	seedSubscribers(t, store, 100, 1, 2)
	svc := NewAggregationService(store, store)

	stats, err := svc.ChannelStats(context.Background(), 100)
	require.NoError(t, err)
	require.Equal(t, model.ChannelStats{TotalVideos: 3, TotalViews: 120, TotalSubscribers: 2}, stats)
}

func TestChannelStats_FailureIsNotSwallowed(t *testing.T) {
	store := newFakeAssociationStore()
	store.countErr = errors.New("replica lag")
	svc := NewAggregationService(store, store)

	stats, err := svc.ChannelStats(context.Background(), 100)
	require.ErrorIs(t, err, apperr.ErrInternal)
	require.Equal(t, model.ChannelStats{}, stats)
}

func TestChannelProfile(t *testing.T) {
	store := newFakeAssociationStore()
	svc := NewAggregationService(store, store)

	_, err := svc.ChannelProfile(context.Background(), "  ", 1)
	require.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = svc.ChannelProfile(context.Background(), "ghost", 1)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}
