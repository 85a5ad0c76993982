package collection

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type item struct {
	ID    int64
	Owner string
	Label string
}

type patch struct {
	Label string
}

var errRemote = errors.New("remote down")

// fakeRemote is an in-memory Remote that can be told to fail.
type fakeRemote struct {
	mu     sync.Mutex
	items  []item
	nextID int64
	fail   bool
	calls  []string
}

func (f *fakeRemote) record(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, op)
	if f.fail {
		return errRemote
	}
	return nil
}

func (f *fakeRemote) GetAll(context.Context) ([]item, error) {
	if err := f.record("getAll"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]item(nil), f.items...), nil
}

func (f *fakeRemote) Create(_ context.Context, v item) (item, error) {
	if err := f.record("create"); err != nil {
		return item{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	v.ID = 100 + f.nextID
	f.items = append(f.items, v)
	return v, nil
}

func (f *fakeRemote) Update(_ context.Context, id int64, p patch) (item, error) {
	if err := f.record("update"); err != nil {
		return item{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Label = p.Label
			return f.items[i], nil
		}
	}
	return item{}, errors.New("not found")
}

func (f *fakeRemote) Delete(_ context.Context, id int64) error {
	if err := f.record("delete"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

var msgs = Messages{
	LoadFailed:   "load failed",
	Created:      "created",
	CreateFailed: "create failed",
	Updated:      "updated",
	UpdateFailed: "update failed",
	Deleted:      "deleted",
	DeleteFailed: "delete failed",
}

func seeded(n int) *fakeRemote {
	f := &fakeRemote{}
	for i := 1; i <= n; i++ {
		owner := "alice"
		if i%2 == 0 {
			owner = "bob"
		}
		f.items = append(f.items, item{ID: int64(i), Owner: owner})
	}
	return f
}

func newColl(f *fakeRemote, size int) *Paginated[item, patch] {
	return New[item, patch](f, Options[item]{
		Key:      func(v item) int64 { return v.ID },
		PageSize: size,
		Messages: msgs,
	})
}

func TestTotalPages(t *testing.T) {
	cases := []struct{ n, size, want int }{
		{0, 10, 0}, {1, 10, 1}, {10, 10, 1}, {11, 10, 2}, {25, 7, 4}, {5, 0, 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, TotalPages(c.n, c.size), "n=%d size=%d", c.n, c.size)
	}
}

func TestPaginate_LastPageAndBounds(t *testing.T) {
	for n := 0; n <= 23; n++ {
		for _, size := range []int{1, 3, 5, 10} {
			c := newColl(seeded(n), size)
			require.NoError(t, c.Load(context.Background()))

			total := (n + size - 1) / size
			assert.Equal(t, total, c.TotalPages())

			c.Paginate(total, size)
			if n == 0 {
				assert.Empty(t, c.Visible())
				continue
			}
			want := n % size
			if want == 0 {
				want = size
			}
			assert.Len(t, c.Visible(), want, "n=%d size=%d", n, size)

			// never leaves [1, total]
			for c.Next() {
			}
			assert.Equal(t, total, c.Page())
			assert.False(t, c.Next())
			for c.Prev() {
			}
			assert.Equal(t, 1, c.Page())
			assert.False(t, c.Prev())
		}
	}
}

func TestPaginate_Clamps(t *testing.T) {
	c := newColl(seeded(12), 5)
	require.NoError(t, c.Load(context.Background()))

	c.Paginate(99, 0)
	assert.Equal(t, 3, c.Page())
	assert.Equal(t, 5, c.PageSize(), "non-positive size keeps the current one")

	c.Paginate(-4, 4)
	assert.Equal(t, 1, c.Page())
	assert.Equal(t, 3, c.TotalPages())

	empty := newColl(seeded(0), 5)
	require.NoError(t, empty.Load(context.Background()))
	assert.Equal(t, 1, empty.Page())
	assert.False(t, empty.Next())
	assert.False(t, empty.Prev())
}

func TestLoadFiltered_KeepsOrder(t *testing.T) {
	c := newColl(seeded(7), 10)
	require.NoError(t, c.LoadFiltered(context.Background(), func(v item) bool { return v.Owner == "alice" }))

	want := []item{{ID: 1, Owner: "alice"}, {ID: 3, Owner: "alice"}, {ID: 5, Owner: "alice"}, {ID: 7, Owner: "alice"}}
	if diff := cmp.Diff(want, c.Items()); diff != "" {
		t.Fatalf("filtered items mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_FailureKeepsPreviousList(t *testing.T) {
	f := seeded(3)
	c := newColl(f, 10)
	require.NoError(t, c.Load(context.Background()))

	f.fail = true
	err := c.Load(context.Background())
	assert.ErrorIs(t, err, errRemote)
	assert.Equal(t, "load failed", c.Message())
	assert.Equal(t, 3, c.Len())
}

func TestMap_AppliedOnLoadCreateUpdate(t *testing.T) {
	f := seeded(1)
	c := New[item, patch](f, Options[item]{
		Key:      func(v item) int64 { return v.ID },
		Map:      func(v item) item { v.Label = "[" + v.Label + "]"; return v },
		Messages: msgs,
	})
	ctx := context.Background()
	require.NoError(t, c.Load(ctx))
	assert.Equal(t, "[]", c.Items()[0].Label)

	created, err := c.Create(ctx, item{Label: "x"})
	require.NoError(t, err)
	assert.Equal(t, "[x]", created.Label)

	updated, err := c.Update(ctx, 1, patch{Label: "y"})
	require.NoError(t, err)
	assert.Equal(t, "[y]", updated.Label)
	assert.Equal(t, DefaultPageSize, c.PageSize())
}

func TestMutations_OnlyAfterConfirmation(t *testing.T) {
	f := seeded(2)
	c := newColl(f, 10)
	ctx := context.Background()
	require.NoError(t, c.Load(ctx))

	created, err := c.Create(ctx, item{Owner: "carol"})
	require.NoError(t, err)
	assert.Equal(t, "created", c.Message())
	assert.Equal(t, 3, c.Len())
	got, ok := c.Find(created.ID)
	assert.True(t, ok)
	assert.Equal(t, "carol", got.Owner)

	_, err = c.Update(ctx, 2, patch{Label: "edited"})
	require.NoError(t, err)
	assert.Equal(t, "updated", c.Message())
	got, _ = c.Find(2)
	assert.Equal(t, "edited", got.Label)

	require.NoError(t, c.Delete(ctx, 1))
	assert.Equal(t, "deleted", c.Message())
	_, ok = c.Find(1)
	assert.False(t, ok)

	before := c.Items()
	f.fail = true

	_, err = c.Create(ctx, item{Owner: "dave"})
	assert.Error(t, err)
	assert.Equal(t, "create failed", c.Message())

	_, err = c.Update(ctx, 2, patch{Label: "nope"})
	assert.Error(t, err)
	assert.Equal(t, "update failed", c.Message())

	err = c.Delete(ctx, 2)
	assert.Error(t, err)
	assert.Equal(t, "delete failed", c.Message())

	if diff := cmp.Diff(before, c.Items()); diff != "" {
		t.Fatalf("failed mutations changed the list (-before +after):\n%s", diff)
	}

	c.ClearMessage()
	assert.Empty(t, c.Message())
}

func TestConcurrentUse(t *testing.T) {
	c := newColl(seeded(30), 5)
	ctx := context.Background()
	require.NoError(t, c.Load(ctx))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = c.Load(ctx)
			c.Paginate(i%6+1, 0)
			_ = c.Visible()
			c.Next()
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 30, c.Len())
}
