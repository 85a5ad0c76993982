package workorder

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maintenanceManagement/internal/session"
	"maintenanceManagement/models"
)

var errDown = errors.New("service unavailable")

type patchCall struct {
	id    int64
	patch models.WorkOrderPatch
}

// stubRemote is an in-memory work-order service.
type stubRemote struct {
	mu      sync.Mutex
	orders  []models.WorkOrder
	fail    bool
	getAlls int
	creates []models.WorkOrder
	patches []patchCall
	deletes []int64
}

func (s *stubRemote) GetAll(context.Context) ([]models.WorkOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getAlls++
	if s.fail {
		return nil, errDown
	}
	return append([]models.WorkOrder(nil), s.orders...), nil
}

func (s *stubRemote) Create(_ context.Context, o models.WorkOrder) (models.WorkOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates = append(s.creates, o)
	if s.fail {
		return models.WorkOrder{}, errDown
	}
	o.ID = int64(len(s.orders) + 1)
	s.orders = append(s.orders, o)
	return o, nil
}

func (s *stubRemote) Update(_ context.Context, id int64, p models.WorkOrderPatch) (models.WorkOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patches = append(s.patches, patchCall{id: id, patch: p})
	if s.fail {
		return models.WorkOrder{}, errDown
	}
	for i := range s.orders {
		if s.orders[i].ID == id {
			p.Apply(&s.orders[i])
			return s.orders[i], nil
		}
	}
	return models.WorkOrder{}, errors.New("not found")
}

func (s *stubRemote) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes = append(s.deletes, id)
	if s.fail {
		return errDown
	}
	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders = append(s.orders[:i], s.orders[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func date(y int, m time.Month, d int) *models.Date {
	v := models.NewDate(y, m, d)
	return &v
}

func order(id int64, number, user string) models.WorkOrder {
	return models.WorkOrder{
		ID:          id,
		OrderNumber: number,
		RequestDate: date(2024, time.March, 5),
		IDUser:      1, IDTaskList: 1, IDPriority: 1, IDOTState: 1, IDTag: 1,
		Username: user,
	}
}

func validForm() Form {
	return Form{
		OrderNumber: "OT-900",
		RequestDate: "2024-06-01",
		IDUser:      1, IDTaskList: 2, IDPriority: 3, IDOTState: 1, IDTag: 4,
	}
}

var fixedNow = time.Date(2024, time.July, 9, 15, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func TestDisplayDate(t *testing.T) {
	assert.Equal(t, "05-03-2024", DisplayDate(date(2024, time.March, 5)))
	assert.Equal(t, "31-12-1999", DisplayDate(date(1999, time.December, 31)))
	assert.Equal(t, NoDate, DisplayDate(nil))
	assert.Equal(t, "Sin fecha", DisplayDate(&models.Date{}))
}

func TestServerDate(t *testing.T) {
	assert.Equal(t, "2024-07-09", ServerDate(fixedNow))
	assert.NotEqual(t, ServerDate(fixedNow), DisplayDate(date(2024, time.July, 9)))
}

func TestToRow(t *testing.T) {
	o := order(3, "OT-3", "alice")
	o.IDOTState = models.OTStateInProgress
	o.InitialDate = date(2024, time.March, 6)
	r := ToRow(o)
	assert.Equal(t, "05-03-2024", r.RequestDate)
	assert.Equal(t, "06-03-2024", r.InitialDate)
	assert.Equal(t, "Sin fecha", r.CompletionDate)
	assert.Equal(t, "En Progreso", r.State)
}

func TestAdminList_LoadAndPaginate(t *testing.T) {
	remote := &stubRemote{}
	for i := 1; i <= 23; i++ {
		remote.orders = append(remote.orders, order(int64(i), "OT-"+string(rune('A'+i)), "alice"))
	}
	l := NewAdminList(remote, Config{})
	require.NoError(t, l.LoadAll(context.Background()))

	assert.Equal(t, 3, l.TotalPages())
	assert.Len(t, l.Rows(), 10)
	assert.True(t, l.Next())
	assert.True(t, l.Next())
	assert.Len(t, l.Rows(), 3)
	assert.False(t, l.Next())
	assert.Equal(t, 3, l.Page())
	assert.Equal(t, "05-03-2024", l.Rows()[0].RequestDate)

	l.Paginate(1, 5)
	assert.Equal(t, 5, l.TotalPages())
	assert.False(t, l.Prev())
}

func TestAdminList_LoadFailure(t *testing.T) {
	remote := &stubRemote{orders: []models.WorkOrder{order(1, "OT-1", "bob")}}
	l := NewAdminList(remote, Config{})
	require.NoError(t, l.LoadAll(context.Background()))

	remote.fail = true
	assert.Error(t, l.LoadAll(context.Background()))
	assert.Equal(t, MsgAdminLoadFailed, l.Message())
	assert.Equal(t, 1, l.Len())
}

func TestAdminList_InvalidFormSendsNothing(t *testing.T) {
	remote := &stubRemote{}
	l := NewAdminList(remote, Config{})

	f := validForm()
	f.OrderNumber = "  "
	_, err := l.Create(context.Background(), f)
	assert.ErrorIs(t, err, ErrInvalidForm)
	assert.Equal(t, MsgInvalidForm, l.Message())

	f = validForm()
	f.IDTag = 0
	_, err = l.Update(context.Background(), 1, f)
	assert.ErrorIs(t, err, ErrInvalidForm)

	f = validForm()
	f.RequestDate = "mañana"
	_, err = l.Create(context.Background(), f)
	assert.ErrorIs(t, err, ErrInvalidForm)

	assert.Empty(t, remote.creates)
	assert.Empty(t, remote.patches)
}

func TestAdminList_CRUD(t *testing.T) {
	remote := &stubRemote{orders: []models.WorkOrder{order(1, "OT-1", "alice")}}
	l := NewAdminList(remote, Config{})
	ctx := context.Background()
	require.NoError(t, l.LoadAll(ctx))

	row, err := l.Create(ctx, validForm())
	require.NoError(t, err)
	assert.Equal(t, MsgCreated, l.Message())
	assert.Equal(t, "01-06-2024", row.RequestDate)
	assert.Equal(t, 2, l.Len())

	f := validForm()
	f.OrderNumber = "OT-901"
	f.Observations = "cambio de filtro"
	row, err = l.Update(ctx, row.ID, f)
	require.NoError(t, err)
	assert.Equal(t, MsgUpdated, l.Message())
	assert.Equal(t, "OT-901", row.OrderNumber)
	got, ok := l.Find(row.ID)
	require.True(t, ok)
	assert.Equal(t, "cambio de filtro", got.Observations)

	require.NoError(t, l.Delete(ctx, 1))
	assert.Equal(t, MsgDeleted, l.Message())
	assert.Equal(t, 1, l.Len())

	remote.fail = true
	_, err = l.Create(ctx, validForm())
	assert.Error(t, err)
	assert.Equal(t, MsgCreateFailed, l.Message())
	_, err = l.Update(ctx, row.ID, validForm())
	assert.Error(t, err)
	assert.Equal(t, MsgUpdateFailed, l.Message())
	assert.Error(t, l.Delete(ctx, row.ID))
	assert.Equal(t, MsgDeleteFailed, l.Message())
	assert.Equal(t, 1, l.Len())
}

func TestFormOf_RoundTrip(t *testing.T) {
	o := order(5, "OT-5", "alice")
	o.InitialDate = date(2024, time.March, 7)
	back, err := FormOf(o).WorkOrder()
	require.NoError(t, err)
	o.ID, o.Username = 0, ""
	if diff := cmp.Diff(o, back); diff != "" {
		t.Fatalf("form round trip mismatch (-want +got):\n%s", diff)
	}
}

func operatorFixture(user string) (*stubRemote, *OperatorList) {
	remote := &stubRemote{orders: []models.WorkOrder{
		order(1, "OT-1", "alice"),
		order(2, "OT-2", "bob"),
		order(3, "OT-3", "alice"),
		order(4, "OT-4", "bob"),
		order(5, "OT-123", "alice"),
	}}
	store := session.NewStore()
	if user != "" {
		_ = store.Login(session.Session{Name: user, Role: models.RoleOperario})
	}
	return remote, NewOperatorList(remote, store, Config{Clock: fixedClock})
}

func TestOperatorList_OnlyOwnOrdersInOrder(t *testing.T) {
	_, l := operatorFixture("alice")
	require.NoError(t, l.LoadMine(context.Background()))

	var numbers []string
	for _, r := range l.Rows() {
		numbers = append(numbers, r.OrderNumber)
	}
	if diff := cmp.Diff([]string{"OT-1", "OT-3", "OT-123"}, numbers); diff != "" {
		t.Fatalf("operator rows mismatch (-want +got):\n%s", diff)
	}
}

func TestOperatorList_NoSessionNoFetch(t *testing.T) {
	remote, l := operatorFixture("")
	err := l.LoadMine(context.Background())
	assert.ErrorIs(t, err, ErrNoUser)
	assert.Equal(t, MsgNoUser, l.Message())
	assert.Zero(t, remote.getAlls)

	l = NewOperatorList(remote, nil, Config{})
	assert.ErrorIs(t, l.LoadMine(context.Background()), ErrNoUser)
	assert.Zero(t, remote.getAlls)
}

func TestOperatorList_LoadFailure(t *testing.T) {
	remote, l := operatorFixture("alice")
	remote.fail = true
	assert.Error(t, l.LoadMine(context.Background()))
	assert.Equal(t, MsgOperatorLoadFailed, l.Message())
}

func TestStartTask(t *testing.T) {
	remote, l := operatorFixture("alice")
	ctx := context.Background()
	require.NoError(t, l.LoadMine(ctx))
	fetches := remote.getAlls

	ot, ok := l.Find(5)
	require.True(t, ok)
	require.NoError(t, l.StartTask(ctx, ot))

	require.Len(t, remote.patches, 1)
	p := remote.patches[0].patch
	require.NotNil(t, p.IDOTState)
	assert.Equal(t, models.OTStateInProgress, *p.IDOTState)
	require.NotNil(t, p.InitialDate)
	assert.Equal(t, ServerDate(fixedNow), p.InitialDate.String())
	assert.Nil(t, p.CompletionDate)

	assert.Contains(t, l.Message(), "OT-123")
	assert.Contains(t, l.Message(), "En Progreso")
	assert.Equal(t, fetches+1, remote.getAlls, "re-fetch after start")

	remote.fail = true
	assert.Error(t, l.StartTask(ctx, ot))
	assert.Equal(t, MsgStartFailed, l.Message())
}

func TestFinishTask(t *testing.T) {
	remote, l := operatorFixture("alice")
	ctx := context.Background()
	require.NoError(t, l.LoadMine(ctx))
	ot, _ := l.Find(3)

	// cancelled prompt: nothing is sent
	err := l.FinishTask(ctx, ot, "")
	assert.ErrorIs(t, err, ErrNoCompletionTime)
	assert.Equal(t, MsgNoCompletionTime, l.Message())
	assert.Contains(t, l.Message(), "no se ingresó el tiempo")

	err = l.FinishTask(ctx, ot, "cuarenta")
	assert.ErrorIs(t, err, ErrInvalidCompletionTime)
	assert.Equal(t, MsgBadCompletionTime, l.Message())
	assert.Empty(t, remote.patches)

	require.NoError(t, l.FinishTask(ctx, ot, " 45 "))
	require.Len(t, remote.patches, 1)
	p := remote.patches[0].patch
	require.NotNil(t, p.CompletionTime)
	assert.Equal(t, 45, *p.CompletionTime)
	assert.Equal(t, models.OTStateFinished, *p.IDOTState)
	assert.Equal(t, "2024-07-09", p.CompletionDate.String())
	assert.Equal(t, "La OT OT-3 ha sido marcada como Finalizada.", l.Message())

	got, _ := l.Find(3)
	assert.Equal(t, models.OTStateFinished, got.IDOTState, "list re-fetched")

	remote.fail = true
	assert.Error(t, l.FinishTask(ctx, ot, "10"))
	assert.Equal(t, MsgFinishFailed, l.Message())
}

func TestFinishWithPrompt(t *testing.T) {
	remote, l := operatorFixture("alice")
	ctx := context.Background()
	require.NoError(t, l.LoadMine(ctx))
	ot, _ := l.Find(1)

	var out strings.Builder
	err := l.FinishWithPrompt(ctx, ot, LinePrompter{In: strings.NewReader(""), Out: &out})
	assert.ErrorIs(t, err, ErrNoCompletionTime)
	assert.Equal(t, MsgNoCompletionTime, l.Message())
	assert.Contains(t, out.String(), "OT-1")
	assert.Empty(t, remote.patches)

	err = l.FinishWithPrompt(ctx, ot, LinePrompter{In: strings.NewReader("\n")})
	assert.ErrorIs(t, err, ErrNoCompletionTime)
	assert.Empty(t, remote.patches)

	require.NoError(t, l.FinishWithPrompt(ctx, ot, LinePrompter{In: strings.NewReader("30\n")}))
	require.Len(t, remote.patches, 1)
	assert.Equal(t, 30, *remote.patches[0].patch.CompletionTime)

	require.NoError(t, l.FinishWithPrompt(ctx, ot, StaticPrompter("12")))
	assert.Len(t, remote.patches, 2)
}

func TestByID_OnlyOwnOrders(t *testing.T) {
	remote, l := operatorFixture("alice")
	ctx := context.Background()
	require.NoError(t, l.LoadMine(ctx))

	assert.ErrorIs(t, l.StartByID(ctx, 2), ErrNotFound, "bob's order")
	assert.ErrorIs(t, l.FinishByID(ctx, 4, "5"), ErrNotFound)
	assert.Empty(t, remote.patches)

	require.NoError(t, l.StartByID(ctx, 1))
	require.NoError(t, l.FinishByID(ctx, 1, "5"))
	assert.Len(t, remote.patches, 2)
}
