package viewstate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finadmin/internal/aggregate"
	"finadmin/internal/api"
	"finadmin/internal/credentials"
	"finadmin/pkg/models"
)

type item struct {
	ID     string
	Status string
}

var itemFields = aggregate.Fields[item]{
	Text:   func(i item) []string { return []string{i.ID} },
	Status: func(i item) string { return i.Status },
}

func staticFetch(items []item, err error) FetchFunc[item] {
	return func(context.Context, aggregate.Query) ([]item, error) {
		return items, err
	}
}

func TestLoadSuccess(t *testing.T) {
	want := []item{{ID: "a"}, {ID: "b"}}
	s := New("items", staticFetch(want, nil))
	assert.Equal(t, Idle, s.Status())

	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, Loaded, s.Status())
	assert.Equal(t, want, s.Collection())
	assert.Empty(t, s.ErrorMessage())
}

func TestLoadFailureKeepsStaleCollection(t *testing.T) {
	var fail atomic.Bool
	s := New("items", func(context.Context, aggregate.Query) ([]item, error) {
		if fail.Load() {
			return nil, errors.New("boom")
		}
		return []item{{ID: "a"}}, nil
	})

	require.NoError(t, s.Load(context.Background()))
	fail.Store(true)

	err := s.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, Error, s.Status())
	assert.Equal(t, "boom", s.ErrorMessage())
	assert.Equal(t, []item{{ID: "a"}}, s.Collection())
}

func TestLoadNotModifiedKeepsCollection(t *testing.T) {
	var calls int32
	s := New("items", func(context.Context, aggregate.Query) ([]item, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return []item{{ID: "a"}}, nil
		}
		return nil, api.ErrNotModified
	})

	require.NoError(t, s.Load(context.Background()))
	before := s.Collection()

	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, Loaded, s.Status())
	assert.Equal(t, before, s.Collection())
	assert.Same(t, &before[0], &s.Collection()[0])
}

func TestLoadWithRemoteClient(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch atomic.AddInt32(&calls, 1) {
		case 1:
			w.Header().Set("ETag", `"v1"`)
			_ = json.NewEncoder(w).Encode(map[string]any{"data": []map[string]any{
				{"id": "1", "amount": "10", "status": "sent"},
			}})
		case 2:
			w.WriteHeader(http.StatusNotModified)
		default:
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "token expired"})
		}
	}))
	defer srv.Close()

	client, err := api.NewClient(api.Config{BaseURL: srv.URL}, credentials.Static{credentials.TokenKey: "t"})
	require.NoError(t, err)

	s := New("invoices", func(ctx context.Context, _ aggregate.Query) ([]models.Invoice, error) {
		return client.Invoices().List(ctx, nil)
	})
	ctx := context.Background()

	require.NoError(t, s.Load(ctx))
	first := s.Collection()
	require.Len(t, first, 1)

	// 304: unchanged collection, no error state
	require.NoError(t, s.Load(ctx))
	assert.Equal(t, Loaded, s.Status())
	assert.Equal(t, first, s.Collection())

	// 401 with a server message
	require.Error(t, s.Load(ctx))
	snap := s.Snapshot()
	assert.Equal(t, Error, snap.Status)
	assert.Equal(t, "token expired", snap.ErrorMessage)
	assert.Equal(t, first, snap.Collection)
}

func TestSupersededLoadIsDiscarded(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var calls int32

	s := New("items", func(ctx context.Context, _ aggregate.Query) ([]item, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
			<-release
			return []item{{ID: "stale"}}, nil
		}
		return []item{{ID: "fresh"}}, nil
	})

	var wg sync.WaitGroup
	var slowErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		slowErr = s.Load(context.Background())
	}()

	<-started
	require.NoError(t, s.Load(context.Background()))
	close(release)
	wg.Wait()

	assert.ErrorIs(t, slowErr, context.Canceled)
	assert.Equal(t, []item{{ID: "fresh"}}, s.Collection())
	assert.Equal(t, Loaded, s.Status())
}

func TestSupersededLoadIsCancelled(t *testing.T) {
	started := make(chan struct{})
	var calls int32
	var sawCancel atomic.Bool

	s := New("items", func(ctx context.Context, _ aggregate.Query) ([]item, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
			<-ctx.Done()
			sawCancel.Store(true)
			return nil, ctx.Err()
		}
		return nil, nil
	})

	done := make(chan struct{})
	go func() {
		_ = s.Load(context.Background())
		close(done)
	}()

	<-started
	require.NoError(t, s.Load(context.Background()))
	<-done
	assert.True(t, sawCancel.Load())
	assert.Equal(t, Loaded, s.Status())
}

func TestSetFiltersRefetchesOnSearchChange(t *testing.T) {
	var seen []aggregate.Query
	s := New("items", func(_ context.Context, q aggregate.Query) ([]item, error) {
		seen = append(seen, q)
		return []item{{ID: "a", Status: "open"}, {ID: "b", Status: "closed"}}, nil
	})
	ctx := context.Background()

	require.NoError(t, s.SetFilters(ctx, aggregate.Query{Status: "closed"}))
	assert.Empty(t, seen)

	require.NoError(t, s.SetFilters(ctx, aggregate.Query{Search: "b", Status: "closed"}))
	require.Len(t, seen, 1)
	assert.Equal(t, "b", seen[0].Search)

	visible := s.Visible(itemFields)
	assert.Equal(t, []item{{ID: "b", Status: "closed"}}, visible)
	assert.Len(t, s.Collection(), 2)
}

func TestVisibleLeavesServerSearchAlone(t *testing.T) {
	s := New("items", func(context.Context, aggregate.Query) ([]item, error) {
		// the server matches "b" on a field the local filter does not see
		return []item{{ID: "x1", Status: "open"}, {ID: "x2", Status: "closed"}}, nil
	}).SearchOnServer()

	require.NoError(t, s.SetFilters(context.Background(), aggregate.Query{Search: "b", Status: "open"}))
	assert.Equal(t, []item{{ID: "x1", Status: "open"}}, s.Visible(itemFields))
	assert.Equal(t, "b", s.Filters().Search)
}

func TestModalLifecycle(t *testing.T) {
	s := New("items", staticFetch(nil, nil))

	s.OpenModal("create", map[string]string{"amount": "1"})
	s.SetModalError("bad amount")
	snap := s.Snapshot()
	assert.Equal(t, "create", snap.ActiveModal)
	assert.Equal(t, "bad amount", snap.ModalError)

	s.CloseModal()
	assert.Empty(t, s.ActiveModal())
	assert.NotNil(t, s.Form())

	s.ClearForm()
	assert.Nil(t, s.Form())
	assert.Empty(t, s.Snapshot().ModalError)

	s.Select("a")
	assert.Equal(t, "a", s.Selection())
}
