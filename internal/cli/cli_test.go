package cli

import (
	"bytes"
	"context"
	"net"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maintenanceManagement/internal/api"
	"maintenanceManagement/internal/auth"
	"maintenanceManagement/internal/config"
	grpcserver "maintenanceManagement/internal/grpc"
	"maintenanceManagement/internal/testutil"
	"maintenanceManagement/internal/workorder"
	"maintenanceManagement/models"
	"maintenanceManagement/repository"
)

const secret = "cli-test-secret"

type harness struct {
	cfg      *config.Config
	orders   *repository.WorkOrderRepository
	grpcAddr string
}

func newHarness(t *testing.T, name string) *harness {
	t.Helper()
	color.NoColor = true

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
	for i, u := range []*models.User{alice, bob} {
		_, err := orders.Create(ctx, models.WorkOrder{
			OrderNumber: []string{"OT-1", "OT-2"}[i],
			IDUser:      u.ID, IDTaskList: 1, IDPriority: 1, IDOTState: 1, IDTag: 1,
		})
		require.NoError(t, err)
	}

	engine := api.NewEngine(gin.TestMode, nil)
	(&api.Handler{Users: users, Orders: orders, Catalog: repository.NewCatalogRepository(d), Secret: secret, TokenTTL: time.Hour}).Register(engine)
	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	gs := grpcserver.NewServer(secret, users, orders, repository.NewCatalogRepository(d), nil)
	go func() { _ = gs.Serve(lis) }()
	t.Cleanup(gs.Stop)

	cfg := &config.Config{Client: config.ClientConfig{
		BaseURL:     srv.URL,
		GRPCAddress: lis.Addr().String(),
		Transport:   "http",
		PageSize:    10,
		SessionFile: filepath.Join(t.TempDir(), "session.yaml"),
	}}
	return &harness{cfg: cfg, orders: orders, grpcAddr: lis.Addr().String()}
}

type result struct {
	code     int
	out, err string
}

func (h *harness) run(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	app := &App{Config: h.cfg, In: strings.NewReader(stdin), Out: &out, Err: &errOut}
	code := Run(app, args)
	return result{code: code, out: out.String(), err: errOut.String()}
}

func TestLoginWhoamiLogout(t *testing.T) {
	h := newHarness(t, "cliauth")

	r := h.run(t, "", "whoami")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.err, "No hay sesión iniciada.")

	r = h.run(t, "", "login", "-u", "admin", "-p", "wrong")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.err, "Usuario o contraseña incorrectos.")

	r = h.run(t, "admin\nsecret1\n", "login")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "Sesión iniciada como admin (admin).")

	r = h.run(t, "", "whoami")
	assert.Equal(t, 0, r.code)
	assert.Equal(t, "admin (admin)\n", r.out)

	r = h.run(t, "", "logout")
	assert.Equal(t, 0, r.code)
	r = h.run(t, "", "whoami")
	assert.Equal(t, 1, r.code)
}

func TestAdminCommands(t *testing.T) {
	h := newHarness(t, "cliadmin")
	require.Equal(t, 0, h.run(t, "", "login", "-u", "admin", "-p", "secret1").code)

	r := h.run(t, "", "ots", "list")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "OT-1")
	assert.Contains(t, r.out, "OT-2")
	assert.Contains(t, r.out, "Sin fecha")
	assert.Contains(t, r.out, "Página 1 de 1")

	r = h.run(t, "", "ots", "create", "--order-number", "OT-9", "--request-date", "2024-03-05",
		"--user", "2", "--task-list", "1", "--priority", "1", "--state", "1", "--tag", "1")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, workorder.MsgCreated)

	r = h.run(t, "", "ots", "create", "--order-number", "OT-10")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.err, workorder.MsgInvalidForm)

	r = h.run(t, "", "ots", "update", "1", "--observations", "revisar bomba", "--priority", "3")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, workorder.MsgUpdated)
	stored, err := h.orders.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "revisar bomba", stored.Observations)
	assert.EqualValues(t, 3, stored.IDPriority)
	assert.Equal(t, "OT-1", stored.OrderNumber)

	r = h.run(t, "", "ots", "delete", "2")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, workorder.MsgDeleted)

	r = h.run(t, "", "ots", "delete", "2")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.err, workorder.MsgDeleteFailed)

	r = h.run(t, "", "ots", "mine")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.err, "login required")
}

func TestConfigFile(t *testing.T) {
	h := newHarness(t, "cliconfig")
	require.Equal(t, 0, h.run(t, "", "login", "-u", "admin", "-p", "secret1").code)

	path := filepath.Join(t.TempDir(), "otctl.yaml")
	yaml := "client:\n" +
		"  base_url: " + h.cfg.Client.BaseURL + "\n" +
		"  grpc_address: " + h.grpcAddr + "\n" +
		"  page_size: 1\n" +
		"  session_file: " + h.cfg.Client.SessionFile + "\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	r := h.run(t, "", "--config", path, "ots", "list")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "OT-1")
	assert.NotContains(t, r.out, "OT-2")
	assert.Contains(t, r.out, "Página 1 de 2")

	r = h.run(t, "", "--config", path, "--session", filepath.Join(t.TempDir(), "none.yaml"), "ots", "list")
	assert.Equal(t, 1, r.code, "the --session flag wins over the file")
	assert.Contains(t, r.err, "login required")

	r = h.run(t, "", "--config", filepath.Join(t.TempDir(), "missing.yaml"), "whoami")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.err, "read config")
}

func TestOperatorCommands(t *testing.T) {
	h := newHarness(t, "clioperator")

	r := h.run(t, "", "ots", "mine")
	assert.Equal(t, 1, r.code, "no session")
	assert.Contains(t, r.err, "login required")

	require.Equal(t, 0, h.run(t, "", "login", "-u", "alice", "-p", "secret1").code)

	r = h.run(t, "", "ots", "list")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.err, "admin role")

	r = h.run(t, "", "ots", "mine")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "OT-1")
	assert.NotContains(t, r.out, "OT-2")

	r = h.run(t, "", "ots", "start", "1")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "La OT OT-1 ha sido marcada como En Progreso.")

	r = h.run(t, "", "ots", "finish", "1")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.err, workorder.MsgNoCompletionTime)

	r = h.run(t, "", "ots", "finish", "1", "--minutes", "media hora")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.err, workorder.MsgBadCompletionTime)

	r = h.run(t, "30\n", "ots", "finish", "1")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "La OT OT-1 ha sido marcada como Finalizada.")

	stored, err := h.orders.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.OTStateFinished, stored.IDOTState)
	require.NotNil(t, stored.CompletionTime)
	assert.Equal(t, 30, *stored.CompletionTime)

	r = h.run(t, "", "ots", "finish", "2", "-m", "5")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.err, "not assigned to you")
}

func TestGRPCTransport(t *testing.T) {
	h := newHarness(t, "cligrpc")
	require.Equal(t, 0, h.run(t, "", "login", "-u", "alice", "-p", "secret1").code)

	r := h.run(t, "", "--transport", "grpc", "ots", "mine")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "OT-1")

	r = h.run(t, "", "--transport", "grpc", "ots", "start", "1")
	require.Equal(t, 0, r.code, r.err)
	stored, err := h.orders.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.OTStateInProgress, stored.IDOTState)

	r = h.run(t, "", "--transport", "carrier-pigeon", "ots", "mine")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.err, "unknown transport")
}
