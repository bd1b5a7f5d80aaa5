package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/menu-cart/internal/cart-service/core/service"
	"github.com/jcmexdev/menu-cart/internal/cart-service/core/summary"
	"github.com/jcmexdev/menu-cart/internal/cart-service/infra/adapters/sessionstore"
	"github.com/jcmexdev/menu-cart/internal/cart-service/infra/catalog"
	"github.com/jcmexdev/menu-cart/internal/cart-service/infra/httpx/middlewares"
	"github.com/jcmexdev/menu-cart/internal/dispatchlog"
	"github.com/jcmexdev/menu-cart/internal/dispatchlog/sqlite"
	"github.com/jcmexdev/menu-cart/internal/pkg/money"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return newServer(t, nil)
}

// newTestServerWithLog backs the server with a SQLite dispatch log in a temp dir.
func newTestServerWithLog(t *testing.T) *httptest.Server {
	t.Helper()

	repo, err := sqlite.Open(filepath.Join(t.TempDir(), "dispatch.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return newServer(t, repo)
}

func newServer(t *testing.T, repo *sqlite.Repository) *httptest.Server {
	t.Helper()

	f := money.Default()
	menu, err := catalog.Default()
	require.NoError(t, err)

	var (
		writer dispatchlog.Repository
		reader dispatchlog.Reader
	)
	if repo != nil {
		writer, reader = repo, repo
	}
	svc, err := service.NewCartService(
		sessionstore.NewMemory(),
		f,
		summary.NewBuilder(summary.ModeMessage, "", "573122477439", f),
		writer,
		0,
	)
	require.NoError(t, err)

	srv := httptest.NewServer(NewRouter(NewHandler(svc, menu, f).WithDispatchLog(reader)))
	t.Cleanup(srv.Close)
	return srv
}

func postRaw(t *testing.T, url, body string, out any) *http.Response {
	t.Helper()

	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func do(t *testing.T, method, url string, body any, out any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func createSession(t *testing.T, srv *httptest.Server) string {
	t.Helper()

	var cart CartResponse
	resp := do(t, http.MethodPost, srv.URL+"/sessions", nil, &cart)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, cart.SessionID)
	require.True(t, cart.IsEmpty)
	require.Equal(t, "$ 0", cart.TotalLabel)
	return cart.SessionID
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get(middlewares.HeaderXRequestID))
}

func TestMenuFilter(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	var all MenuResponse
	do(t, http.MethodGet, srv.URL+"/menu", nil, &all)
	require.Len(t, all.Sections, 3)

	var drinks MenuResponse
	do(t, http.MethodGet, srv.URL+"/menu?category=bebidas", nil, &drinks)
	require.Len(t, drinks.Sections, 1)
	require.Equal(t, "bebidas", drinks.Sections[0].Category)
	require.False(t, drinks.Sections[0].Dishes[0].Customizable)
	require.Equal(t, []string{"pescados", "tipicos", "bebidas"}, drinks.Categories)
}

func TestUnknownSession(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	var errResp ErrorResponse
	resp := do(t, http.MethodGet, srv.URL+"/sessions/nope/cart", nil, &errResp)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "session_not_found", errResp.Error)
}

func TestInvalidJSON(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	id := createSession(t, srv)

	resp, err := http.Post(srv.URL+"/sessions/"+id+"/items", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAddSimpleDishAndQuantity(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	id := createSession(t, srv)
	base := srv.URL + "/sessions/" + id

	var cart CartResponse
	do(t, http.MethodPost, base+"/items", AddItemRequest{DishID: "jugo-natural"}, &cart)
	require.True(t, cart.Applied)
	require.Equal(t, []string{"Jugo natural agregado al carrito"}, cart.Toasts)
	require.Len(t, cart.Lines, 1)
	require.Equal(t, "$ 7.000", cart.Lines[0].LineTotalLabel)
	require.Equal(t, "1 plato", cart.CountLabel)

	key := cart.Lines[0].Key
	do(t, http.MethodPost, base+"/quantity", QuantityRequest{Key: key, Direction: "increment"}, &cart)
	require.Equal(t, 2, cart.Lines[0].Quantity)
	require.Equal(t, "$ 14.000", cart.TotalLabel)

	do(t, http.MethodPost, base+"/quantity", QuantityRequest{Key: key, Direction: "sideways"}, &cart)
	require.False(t, cart.Applied)
	require.Equal(t, 2, cart.Lines[0].Quantity)

	do(t, http.MethodPost, base+"/quantity", QuantityRequest{Key: key, Direction: "decrement"}, &cart)
	do(t, http.MethodPost, base+"/quantity", QuantityRequest{Key: key, Direction: "decrement"}, &cart)
	require.True(t, cart.IsEmpty)

	do(t, http.MethodPost, base+"/quantity", QuantityRequest{Key: key, Direction: "decrement"}, &cart)
	require.False(t, cart.Applied)
	require.True(t, cart.IsEmpty)
}

func TestMalformedAddIsSilentNoop(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	id := createSession(t, srv)
	base := srv.URL + "/sessions/" + id

	for _, req := range []AddItemRequest{
		{DishID: "pizza"},
		{Name: "Bandeja"},
		{},
	} {
		var cart CartResponse
		resp := do(t, http.MethodPost, base+"/items", req, &cart)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.False(t, cart.Applied)
		require.True(t, cart.IsEmpty)
		require.Empty(t, cart.Toasts)
	}
}

func TestCustomizeCheckoutAndConfirm(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	id := createSession(t, srv)
	base := srv.URL + "/sessions/" + id

	var cart CartResponse
	do(t, http.MethodPost, base+"/checkout", nil, &cart)
	require.False(t, cart.Applied)
	require.Nil(t, cart.Summary)

	do(t, http.MethodPost, base+"/items", AddItemRequest{DishID: "bocachico"}, &cart)
	require.True(t, cart.Applied)
	require.True(t, cart.IsEmpty)
	require.NotNil(t, cart.Pending)
	require.True(t, cart.Pending.CutApplicable)
	require.Equal(t, "(+ $ 2.000)", cart.Pending.SurchargeNote)

	do(t, http.MethodPost, base+"/customization", CustomizationRequest{
		Style: "sudado",
		Rice:  "coco",
		Cut:   "cabeza",
		Notes: " sin cebolla ",
	}, &cart)
	require.True(t, cart.Applied)
	require.Nil(t, cart.Pending)
	require.Len(t, cart.Lines, 1)
	require.Equal(t, int64(30000), cart.Lines[0].UnitPrice)
	require.Equal(t,
		"Preparación: Sudado • Arroz con coco (+ $ 2.000) • Nota: sin cebolla • Parte preferida: Cabeza",
		cart.Lines[0].Options)

	do(t, http.MethodPost, base+"/checkout", nil, &cart)
	require.True(t, cart.Applied)
	require.NotNil(t, cart.Summary)
	require.Equal(t, "message", cart.Summary.Mode)
	require.False(t, cart.IsEmpty)

	do(t, http.MethodPost, base+"/confirm", nil, &cart)
	require.True(t, cart.Applied)
	require.True(t, cart.IsEmpty)
	require.Equal(t, "$ 30.000", cart.Summary.TotalLabel)

	link, err := url.Parse(cart.Summary.Link)
	require.NoError(t, err)
	require.Equal(t, "wa.me", link.Host)
	require.Equal(t, "/573122477439", link.Path)
	require.Equal(t, strings.Join([]string{
		"Hola, quiero hacer un pedido:",
		"• 1 × Bocachico (Preparación: Sudado | Arroz con coco (+ $ 2.000) | Nota: sin cebolla | Parte preferida: Cabeza) - $ 30.000",
		"Total: $ 30.000",
	}, "\n"), link.Query().Get("text"))

	do(t, http.MethodPost, base+"/confirm", nil, &cart)
	require.False(t, cart.Applied)
}

func TestCancelCustomization(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	id := createSession(t, srv)
	base := srv.URL + "/sessions/" + id

	var cart CartResponse
	do(t, http.MethodPost, base+"/items", AddItemRequest{DishID: "mojarra"}, &cart)
	require.NotNil(t, cart.Pending)

	do(t, http.MethodDelete, base+"/customization", nil, &cart)
	require.True(t, cart.Applied)
	require.Nil(t, cart.Pending)
	require.True(t, cart.IsEmpty)

	do(t, http.MethodPost, base+"/customization", CustomizationRequest{Rice: "coco"}, &cart)
	require.False(t, cart.Applied)
	require.True(t, cart.IsEmpty)
}

func TestAddWithNonIntegerPriceIsSilentNoop(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	id := createSession(t, srv)
	base := srv.URL + "/sessions/" + id

	for _, body := range []string{
		`{"name":"Bandeja","price":"abc"}`,
		`{"name":"Bandeja","price":25000.5}`,
		`{"name":"Bandeja","price":null}`,
		`{"name":"Bandeja","price":{"amount":25000}}`,
		`{"name":"Bandeja","price":-1}`,
	} {
		var cart CartResponse
		resp := postRaw(t, base+"/items", body, &cart)
		require.Equal(t, http.StatusOK, resp.StatusCode, body)
		require.False(t, cart.Applied, body)
		require.True(t, cart.IsEmpty, body)
		require.Empty(t, cart.Toasts, body)
	}

	var cart CartResponse
	resp := postRaw(t, base+"/items", `{"name":"Bandeja","price":25000}`, &cart)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, cart.Applied)
	require.Equal(t, "$ 25.000", cart.TotalLabel)
}

func TestEndSession(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	id := createSession(t, srv)

	resp := do(t, http.MethodDelete, srv.URL+"/sessions/"+id, nil, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	var errResp ErrorResponse
	resp = do(t, http.MethodGet, srv.URL+"/sessions/"+id+"/cart", nil, &errResp)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "session_not_found", errResp.Error)

	resp = do(t, http.MethodDelete, srv.URL+"/sessions/"+id, nil, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestLatestDispatch(t *testing.T) {
	t.Parallel()

	srv := newTestServerWithLog(t)
	id := createSession(t, srv)
	base := srv.URL + "/sessions/" + id

	var errResp ErrorResponse
	resp := do(t, http.MethodGet, base+"/dispatches/latest", nil, &errResp)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "dispatch_not_found", errResp.Error)

	var cart CartResponse
	do(t, http.MethodPost, base+"/items", AddItemRequest{DishID: "jugo-natural"}, &cart)
	do(t, http.MethodPost, base+"/confirm", nil, &cart)
	require.True(t, cart.Applied)
	do(t, http.MethodPost, base+"/items", AddItemRequest{DishID: "jugo-natural"}, &cart)
	do(t, http.MethodPost, base+"/items", AddItemRequest{DishID: "jugo-natural"}, &cart)
	do(t, http.MethodPost, base+"/confirm", nil, &cart)
	require.True(t, cart.Applied)

	var latest DispatchResponse
	resp = do(t, http.MethodGet, base+"/dispatches/latest", nil, &latest)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, id, latest.SessionID)
	require.Equal(t, "MESSAGE", latest.Channel)
	require.Equal(t, 2, latest.TotalQuantity)
	require.Equal(t, "$ 14.000", latest.TotalLabel)
	require.Equal(t, cart.Summary.Link, latest.Link)
	require.Equal(t, 2, latest.Count)
}

func TestLatestDispatchWithoutLog(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	id := createSession(t, srv)

	var errResp ErrorResponse
	resp := do(t, http.MethodGet, srv.URL+"/sessions/"+id+"/dispatches/latest", nil, &errResp)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "dispatch_log_disabled", errResp.Error)
}
