package client

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"maintenanceManagement/internal/api"
	"maintenanceManagement/internal/auth"
	grpcserver "maintenanceManagement/internal/grpc"
	"maintenanceManagement/internal/session"
	"maintenanceManagement/internal/testutil"
	"maintenanceManagement/internal/workorder"
	"maintenanceManagement/models"
	"maintenanceManagement/repository"
)

const secret = "client-test-secret"

type backend struct {
	users   *repository.UserRepository
	orders  *repository.WorkOrderRepository
	catalog *repository.CatalogRepository
	alice   *models.User
	bob     *models.User
}

func newBackend(t *testing.T, name string) *backend {
	t.Helper()
	d := testutil.OpenInMemoryDB(t, name)
	users := repository.NewUserRepository(d)
	orders := repository.NewWorkOrderRepository(d)
	ctx := context.Background()

	hash, err := auth.HashPassword("secret1")
	require.NoError(t, err)
	_, err = users.Create(ctx, "admin", models.RoleAdmin, hash)
	require.NoError(t, err)
	alice, err := users.Create(ctx, "alice", models.RoleOperario, hash)
	require.NoError(t, err)
	bob, err := users.Create(ctx, "bob", models.RoleOperario, hash)
	require.NoError(t, err)

	for i, u := range []*models.User{alice, bob, alice} {
		_, err := orders.Create(ctx, models.WorkOrder{
			OrderNumber: []string{"OT-1", "OT-2", "OT-3"}[i],
			IDUser:      u.ID, IDTaskList: 1, IDPriority: 1, IDOTState: 1, IDTag: 1,
		})
		require.NoError(t, err)
	}
	return &backend{users: users, orders: orders, catalog: repository.NewCatalogRepository(d), alice: alice, bob: bob}
}

func (b *backend) httpServer(t *testing.T) *httptest.Server {
	t.Helper()
	r := api.NewEngine(gin.TestMode, nil)
	(&api.Handler{
		Users:    b.users,
		Orders:   b.orders,
		Catalog:  b.catalog,
		Secret:   secret,
		TokenTTL: time.Hour,
	}).Register(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPClient_LoginAndOperatorFlow(t *testing.T) {
	b := newBackend(t, "clienthttp")
	srv := b.httpServer(t)
	ctx := context.Background()

	c := NewHTTPClient(srv.URL+"/", "")
	_, err := c.GetAll(ctx)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	_, err = c.Login(ctx, "alice", "nope")
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	res, err := c.Login(ctx, "alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleOperario, res.Role)

	store := session.NewStore()
	require.NoError(t, store.Login(session.Session{Name: res.Username, Role: res.Role}))

	list := workorder.NewOperatorList(c, store, workorder.Config{})
	require.NoError(t, list.LoadMine(ctx))
	rows := list.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "OT-1", rows[0].OrderNumber)
	assert.Equal(t, "OT-3", rows[1].OrderNumber)

	require.NoError(t, list.StartByID(ctx, rows[0].ID))
	assert.Equal(t, "La OT OT-1 ha sido marcada como En Progreso.", list.Message())
	require.NoError(t, list.FinishByID(ctx, rows[0].ID, "45"))

	stored, err := b.orders.GetByID(ctx, rows[0].ID)
	require.NoError(t, err)
	require.NotNil(t, stored.CompletionTime)
	assert.Equal(t, 45, *stored.CompletionTime)
	assert.Equal(t, models.OTStateFinished, stored.IDOTState)

	// operators cannot delete; the admin list reports the fixed message
	admin := workorder.NewAdminList(c, workorder.Config{})
	require.NoError(t, admin.LoadAll(ctx))
	assert.Error(t, admin.Delete(ctx, rows[0].ID))
	assert.Equal(t, workorder.MsgDeleteFailed, admin.Message())
	assert.Equal(t, 2, admin.Len(), "the server only lists alice's orders to her")
}

func TestHTTPClient_AdminCRUD(t *testing.T) {
	b := newBackend(t, "clienthttpadmin")
	srv := b.httpServer(t)
	ctx := context.Background()

	c := NewHTTPClient(srv.URL, "")
	_, err := c.Login(ctx, "admin", "secret1")
	require.NoError(t, err)

	l := workorder.NewAdminList(c, workorder.Config{PageSize: 2})
	require.NoError(t, l.LoadAll(ctx))
	assert.Equal(t, 2, l.TotalPages())

	row, err := l.Create(ctx, workorder.Form{
		OrderNumber: "OT-9", RequestDate: "2024-03-05",
		IDUser: b.bob.ID, IDTaskList: 1, IDPriority: 1, IDOTState: 1, IDTag: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "05-03-2024", row.RequestDate)
	assert.Equal(t, "bob", row.Username)

	require.NoError(t, l.Delete(ctx, row.ID))
	assert.Equal(t, workorder.MsgDeleted, l.Message())

	users, err := c.Users(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 3)
}

func bufDialer(t *testing.T, b *backend) grpc.DialOption {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := grpcserver.NewServer(secret, b.users, b.orders, b.catalog, nil)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)
	return grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	})
}

func TestGRPCClient_RoundTrip(t *testing.T) {
	b := newBackend(t, "clientgrpc")
	dial := bufDialer(t, b)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tok, err := auth.IssueToken(secret, "admin", models.RoleAdmin, time.Hour)
	require.NoError(t, err)
	c, err := DialGRPC("passthrough:///bufnet", tok, dial)
	require.NoError(t, err)
	defer c.Close()

	all, err := c.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "bob", all[1].Username)

	created, err := c.Create(ctx, models.WorkOrder{
		OrderNumber: "OT-G", IDUser: b.alice.ID, IDTaskList: 1, IDPriority: 1, IDOTState: 1, IDTag: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", created.Username)

	n := 30
	state := models.OTStateFinished
	today := models.NewDate(2024, time.July, 9)
	updated, err := c.Update(ctx, created.ID, models.WorkOrderPatch{CompletionTime: &n, IDOTState: &state, CompletionDate: &today})
	require.NoError(t, err)
	require.NotNil(t, updated.CompletionTime)
	assert.Equal(t, 30, *updated.CompletionTime)
	assert.Equal(t, "2024-07-09", updated.CompletionDate.String())

	require.NoError(t, c.Delete(ctx, created.ID))
	err = c.Delete(ctx, created.ID)
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestGRPCClient_Unauthenticated(t *testing.T) {
	b := newBackend(t, "clientgrpcnoauth")
	dial := bufDialer(t, b)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, err := DialGRPC("passthrough:///bufnet", "", dial)
	require.NoError(t, err)
	defer c.Close()
	_, err = c.GetAll(ctx)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	// operator token: listing works, deleting does not
	tok, err := auth.IssueToken(secret, "alice", models.RoleOperario, time.Hour)
	require.NoError(t, err)
	op, err := DialGRPC("passthrough:///bufnet", tok, dial)
	require.NoError(t, err)
	defer op.Close()
	_, err = op.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, codes.PermissionDenied, status.Code(op.Delete(ctx, 1)))
}
