package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/existflow/folio/internal/apperr"
	"github.com/existflow/folio/internal/model"
)

func assertSortedNewestFirst(t *testing.T, projects []model.Project) {
	t.Helper()
	for i := 0; i+1 < len(projects); i++ {
		assert.False(t, projects[i].SortTime().Before(projects[i+1].SortTime()),
			"projects[%d] (%s) is older than projects[%d] (%s)", i, projects[i].ID, i+1, projects[i+1].ID)
	}
}

func TestProjects_DemoScenario(t *testing.T) {
	ctx := context.Background()
	s := NewProjects(newFakeBackend())

	p, err := s.Add(ctx, demoInput())
	require.NoError(t, err)

	st := s.State()
	require.Len(t, st.Projects, 1)
	assert.Equal(t, "Demo", st.Projects[0].Title)
	assert.Equal(t, PhaseReady, st.Phase)

	in := demoInput()
	in.Featured = true
	_, err = s.Update(ctx, p.ID, in)
	require.NoError(t, err)

	featured := s.Featured()
	require.Len(t, featured, 1)
	assert.Equal(t, p.ID, featured[0].ID)

	require.NoError(t, s.Remove(ctx, p.ID))
	assert.Empty(t, s.State().Projects)
}

func TestProjects_AddThenLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewProjects(newFakeBackend())

	in := demoInput()
	in.Technologies = []string{"React", "Go"}
	_, err := s.Add(ctx, in)
	require.NoError(t, err)

	s.Load(ctx)
	st := s.State()
	require.Equal(t, PhaseReady, st.Phase)
	require.Len(t, st.Projects, 1)
	assert.Equal(t, in.Title, st.Projects[0].Title)
	assert.Equal(t, in.Description, st.Projects[0].Description)
	assert.Equal(t, in.Technologies, st.Projects[0].Technologies)
}

func TestProjects_SortedAfterEveryMutation(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	backend.projects = []model.Project{
		{ID: "old", Title: "Old", CreatedAt: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "new", Title: "New", CreatedAt: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "mid", Title: "Mid", CreatedAt: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	s := NewProjects(backend)

	s.Load(ctx)
	assertSortedNewestFirst(t, s.State().Projects)
	assert.Equal(t, "new", s.State().Projects[0].ID)

	added, err := s.Add(ctx, demoInput())
	require.NoError(t, err)
	assertSortedNewestFirst(t, s.State().Projects)
	assert.Equal(t, added.ID, s.State().Projects[0].ID)

	in := demoInput()
	in.Title = "Middle renamed"
	_, err = s.Update(ctx, "mid", in)
	require.NoError(t, err)
	assertSortedNewestFirst(t, s.State().Projects)

	require.NoError(t, s.Remove(ctx, "new"))
	assertSortedNewestFirst(t, s.State().Projects)
	assert.Len(t, s.State().Projects, 3)
}

func TestProjects_StableSortForEqualTimestamps(t *testing.T) {
	ts := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	backend := newFakeBackend()
	backend.projects = []model.Project{
		{ID: "a", CreatedAt: ts},
		{ID: "b", CreatedAt: ts},
		{ID: "c", UpdatedAt: ts},
	}
	s := NewProjects(backend)
	s.Load(context.Background())

	var ids []string
	for _, p := range s.State().Projects {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestProjects_RemoveGuards(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	s := NewProjects(backend)

	p, err := s.Add(ctx, demoInput())
	require.NoError(t, err)
	before := s.State().Projects

	for _, id := range []string{"", "  ", "missing"} {
		err := s.Remove(ctx, id)
		assert.ErrorIs(t, err, apperr.ErrValidation, "id %q", id)
	}
	assert.Zero(t, backend.deleteCalls)
	assert.Equal(t, before, s.State().Projects)
	assert.Equal(t, PhaseReady, s.State().Phase)

	require.NoError(t, s.Remove(ctx, p.ID))
	assert.Equal(t, 1, backend.deleteCalls)
}

func TestProjects_LoadFailureEmptiesCollection(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	s := NewProjects(backend)

	_, err := s.Add(ctx, demoInput())
	require.NoError(t, err)

	backend.listErr = errUnreachable
	assert.NotPanics(t, func() { s.Load(ctx) })

	st := s.State()
	assert.Equal(t, PhaseError, st.Phase)
	assert.Empty(t, st.Projects)
	assert.NotNil(t, st.Projects)
	assert.ErrorIs(t, st.Err, apperr.ErrNetwork)

	backend.listErr = nil
	s.Refresh(ctx)
	assert.Equal(t, PhaseReady, s.State().Phase)
	assert.Len(t, s.State().Projects, 1)
}

func TestProjects_MutationFailureKeepsCollection(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	s := NewProjects(backend)

	_, err := s.Add(ctx, demoInput())
	require.NoError(t, err)

	backend.createErr = &apperr.HTTPError{Status: 500, Message: "boom"}
	_, err = s.Add(ctx, demoInput())
	assert.ErrorIs(t, err, apperr.ErrServer)

	st := s.State()
	assert.Equal(t, PhaseError, st.Phase)
	assert.Len(t, st.Projects, 1)
	assert.Equal(t, "boom", apperr.UserMessage(st.Err))
}

func TestProjects_ValidationNeverReachesBackend(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	s := NewProjects(backend)

	in := demoInput()
	in.Title = "x"
	_, err := s.Add(ctx, in)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Empty(t, backend.projects)
	assert.Equal(t, PhaseIdle, s.State().Phase)

	_, err = s.Update(ctx, "", demoInput())
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestProjects_UpdateEditKeepsImageOptional(t *testing.T) {
	ctx := context.Background()
	s := NewProjects(newFakeBackend())

	p, err := s.Add(ctx, demoInput())
	require.NoError(t, err)

	in := p.Input()
	in.Image = ""
	in.Title = "Renamed"
	_, err = s.Update(ctx, p.ID, in)
	require.NoError(t, err)

	got, ok := s.Get(p.ID)
	require.True(t, ok)
	assert.Equal(t, "Renamed", got.Title)
}

func TestProjects_UpdateUnmatchedIsLocalNoop(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	s := NewProjects(backend)

	p, err := s.Add(ctx, demoInput())
	require.NoError(t, err)

	// another client created this one; the local cache has never seen it
	other := model.Project{ID: "remote", Title: "Remote", CreatedAt: time.Now()}
	backend.projects = append(backend.projects, other)

	in := demoInput()
	in.Title = "Remote renamed"
	_, err = s.Update(ctx, "remote", in)
	require.NoError(t, err)

	st := s.State()
	require.Len(t, st.Projects, 1)
	assert.Equal(t, p.ID, st.Projects[0].ID)
	assert.Equal(t, PhaseReady, st.Phase)
}

func TestProjects_FeaturedPreservesOrder(t *testing.T) {
	backend := newFakeBackend()
	backend.projects = []model.Project{
		{ID: "a", Featured: true, CreatedAt: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "b", Featured: false, CreatedAt: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "c", Featured: true, CreatedAt: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	s := NewProjects(backend)
	s.Load(context.Background())

	featured := s.Featured()
	require.Len(t, featured, 2)
	assert.Equal(t, "c", featured[0].ID)
	assert.Equal(t, "a", featured[1].ID)
}

func TestProjects_DerivedViews(t *testing.T) {
	backend := newFakeBackend()
	backend.projects = []model.Project{
		{ID: "a", Title: "Shop front", Description: "An e-commerce site", Technologies: []string{"React", "Node.js"}, Status: model.StatusPublished},
		{ID: "b", Title: "CLI", Description: "Terminal task manager", Technologies: []string{"Go"}, Status: model.StatusDraft, Featured: true},
	}
	s := NewProjects(backend)
	s.Load(context.Background())

	assert.Len(t, s.ByTechnology("REACT"), 1)
	assert.Len(t, s.ByTechnology("node"), 1)
	assert.Empty(t, s.ByTechnology("rust"))

	assert.Empty(t, s.Search("sh"))
	require.Len(t, s.Search("terminal"), 1)
	assert.Equal(t, "b", s.Search("terminal")[0].ID)

	assert.Equal(t, Stats{Total: 2, Featured: 1, Completed: 1, InProgress: 1, Technologies: 3}, s.Stats())
}

func TestProjects_ConcurrentLoadsShareOneRequest(t *testing.T) {
	backend := newFakeBackend()
	backend.listGate = make(chan struct{})
	s := NewProjects(backend)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Load(context.Background())
		}()
	}

	require.Eventually(t, func() bool { return s.State().Loading() }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(backend.listGate)
	wg.Wait()

	assert.Equal(t, 1, backend.listCalls)
	assert.Equal(t, PhaseReady, s.State().Phase)
}

func TestProjects_SubscribeAndClose(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	s := NewProjects(backend)

	var phases []Phase
	unsubscribe := s.Subscribe(func(st ProjectState) { phases = append(phases, st.Phase) })

	s.Load(ctx)
	assert.Equal(t, []Phase{PhaseLoading, PhaseReady}, phases)

	unsubscribe()
	s.Load(ctx)
	assert.Len(t, phases, 2)

	s.Close()
	_, err := s.Add(ctx, demoInput())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestProjects_ResultsAfterCloseAreDropped(t *testing.T) {
	backend := newFakeBackend()
	backend.projects = []model.Project{{ID: "a"}}
	backend.listGate = make(chan struct{})
	s := NewProjects(backend)

	done := make(chan struct{})
	go func() {
		s.Load(context.Background())
		close(done)
	}()

	require.Eventually(t, func() bool { return s.State().Loading() }, time.Second, time.Millisecond)
	s.Close()
	close(backend.listGate)
	<-done

	st := s.State()
	assert.Equal(t, PhaseLoading, st.Phase)
	assert.Empty(t, st.Projects)
}

func TestProjects_UnauthorizedHook(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	s := NewProjects(backend)

	var fired int
	s.OnUnauthorized(func() { fired++ })

	backend.createErr = &apperr.HTTPError{Status: 401, Message: "Token expired"}
	_, err := s.Add(ctx, demoInput())
	assert.ErrorIs(t, err, apperr.ErrAuth)
	assert.Equal(t, 1, fired)

	backend.createErr = &apperr.HTTPError{Status: 500}
	_, _ = s.Add(ctx, demoInput())
	assert.Equal(t, 1, fired)
}
