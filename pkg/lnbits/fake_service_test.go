package lnbits

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/massmux/lnbitskit/pkg/network"
	cmap "github.com/orcaman/concurrent-map"
	uuid "github.com/satori/go.uuid"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

const (
	testAdminKey   = "admin0123456789abcdef"
	testInvoiceKey = "invoice0123456789abcdef"
	testWalletID   = "wallet-1"
)

// fakeTransport records requests and answers them from a script.
type fakeTransport struct {
	mu        sync.Mutex
	requests  []*network.Request
	responses []fakeResponse
}

type fakeResponse struct {
	body   string
	status int
	err    error
}

func (f *fakeTransport) reply(body string, status int) *fakeTransport {
	f.responses = append(f.responses, fakeResponse{body: body, status: status})
	return f
}

func (f *fakeTransport) fail(err error) *fakeTransport {
	f.responses = append(f.responses, fakeResponse{err: err})
	return f
}

func (f *fakeTransport) Send(_ context.Context, r *network.Request) ([]byte, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r)
	if len(f.responses) == 0 {
		return nil, 0, fmt.Errorf("no response scripted for %s %s", r.Method, r.URL)
	}
	res := f.responses[0]
	f.responses = f.responses[1:]
	if res.err != nil {
		return nil, 0, res.err
	}
	return []byte(res.body), res.status, nil
}

func (f *fakeTransport) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func testCredentials(server string) Credentials {
	return Credentials{
		Version:    CredentialsV1,
		Server:     server,
		AdminKey:   testAdminKey,
		InvoiceKey: testInvoiceKey,
		WalletID:   testWalletID,
	}
}

// newScriptedClient returns a client whose transport answers from a script.
func newScriptedClient(opts ...Option) (*Client, *fakeTransport, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(log.DebugLevel)
	ft := &fakeTransport{}
	opts = append([]Option{WithTransport(ft), WithLogger(logger)}, opts...)
	return NewClient(testCredentials("https://legend.lnbits.com/"), opts...), ft, hook
}

// fakeService is an in-memory lnbits instance.
type fakeService struct {
	server    *httptest.Server
	invoices  cmap.ConcurrentMap
	payLinks  cmap.ConcurrentMap
	balance   int64
	lastLogin string
}

func newFakeService(t *testing.T) *fakeService {
	s := &fakeService{
		invoices: cmap.New(),
		payLinks: cmap.New(),
		balance:  1999000,
	}
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/wallet", s.wallet).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/payments", s.createPayment).Methods(http.MethodPost)
	router.HandleFunc("/api/v1/payments", s.listPayments).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/payments/{hash}", s.checkPayment).Methods(http.MethodGet)
	router.HandleFunc("/lnurlp/api/v1/links", s.createPayLink).Methods(http.MethodPost)
	router.HandleFunc("/lnurlp/api/v1/links", s.listPayLinks).Methods(http.MethodGet)
	router.HandleFunc("/lnurlp/api/v1/links/{id}", s.getPayLink).Methods(http.MethodGet)
	router.HandleFunc("/lnurlp/api/v1/links/{id}", s.updatePayLink).Methods(http.MethodPut)
	router.HandleFunc("/lnurlp/api/v1/links/{id}", s.deletePayLink).Methods(http.MethodDelete)
	router.HandleFunc("/api/v1/auth", s.login).Methods(http.MethodPost)
	router.HandleFunc("/api/v1/auth", s.account).Methods(http.MethodGet)
	s.server = httptest.NewServer(router)
	t.Cleanup(s.server.Close)
	return s
}

func (s *fakeService) client(opts ...Option) *Client {
	opts = append([]Option{WithTransport(network.NewDirect(network.WithTimeout(5 * time.Second)))}, opts...)
	return NewClient(testCredentials(s.server.URL), opts...)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func detail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"detail": message})
}

// authorized checks the api key against the tier the route needs.
func authorized(w http.ResponseWriter, r *http.Request, admin bool) bool {
	key := r.Header.Get("X-Api-Key")
	if key == testAdminKey || (!admin && key == testInvoiceKey) {
		return true
	}
	detail(w, http.StatusUnauthorized, "Invalid key")
	return false
}

func (s *fakeService) wallet(w http.ResponseWriter, r *http.Request) {
	if !authorized(w, r, false) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"id": testWalletID, "name": "Test Wallet", "balance": s.balance})
}

type fakeInvoice struct {
	PaymentHash    string `json:"payment_hash"`
	PaymentRequest string `json:"payment_request"`
	CheckingID     string `json:"checking_id"`
	Amount         int64  `json:"amount"`
	Memo           string `json:"memo"`
	Time           int64  `json:"time"`
	Paid           bool   `json:"-"`
}

func (s *fakeService) createPayment(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Out    bool   `json:"out"`
		Amount int64  `json:"amount"`
		Memo   string `json:"memo"`
		Bolt11 string `json:"bolt11"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		detail(w, http.StatusBadRequest, err.Error())
		return
	}
	if !authorized(w, r, body.Out) {
		return
	}
	if body.Out {
		detail(w, http.StatusPaymentRequired, "Insufficient balance.")
		return
	}
	sum := sha256.Sum256(uuid.NewV4().Bytes())
	hash := hex.EncodeToString(sum[:])
	inv := fakeInvoice{
		PaymentHash:    hash,
		PaymentRequest: fmt.Sprintf("lnbc%dn1p%s", body.Amount*10, hash[:40]),
		CheckingID:     hash,
		Amount:         body.Amount * 1000,
		Memo:           body.Memo,
		Time:           int64(s.invoices.Count()),
	}
	s.invoices.Set(hash, inv)
	writeJSON(w, http.StatusCreated, inv)
}

func (s *fakeService) listPayments(w http.ResponseWriter, r *http.Request) {
	if !authorized(w, r, false) {
		return
	}
	payments := []fakeInvoice{}
	for _, v := range s.invoices.Items() {
		payments = append(payments, v.(fakeInvoice))
	}
	writeJSON(w, http.StatusOK, payments)
}

func (s *fakeService) checkPayment(w http.ResponseWriter, r *http.Request) {
	if !authorized(w, r, false) {
		return
	}
	v, ok := s.invoices.Get(mux.Vars(r)["hash"])
	if !ok {
		detail(w, http.StatusNotFound, "Payment does not exist.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"paid": v.(fakeInvoice).Paid})
}

func (s *fakeService) createPayLink(w http.ResponseWriter, r *http.Request) {
	if !authorized(w, r, true) {
		return
	}
	var l PayLink
	if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
		detail(w, http.StatusBadRequest, err.Error())
		return
	}
	l.ID = uuid.NewV4().String()[:8]
	l.Wallet = testWalletID
	l.LNURL = "LNURL1DP68GURN8GHJ7" + l.ID
	s.payLinks.Set(l.ID, l)
	writeJSON(w, http.StatusCreated, l)
}

func (s *fakeService) listPayLinks(w http.ResponseWriter, r *http.Request) {
	if !authorized(w, r, true) {
		return
	}
	links := []PayLink{}
	for _, v := range s.payLinks.Items() {
		links = append(links, v.(PayLink))
	}
	writeJSON(w, http.StatusOK, links)
}

func (s *fakeService) getPayLink(w http.ResponseWriter, r *http.Request) {
	if !authorized(w, r, true) {
		return
	}
	v, ok := s.payLinks.Get(mux.Vars(r)["id"])
	if !ok {
		detail(w, http.StatusNotFound, "Pay link does not exist.")
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *fakeService) updatePayLink(w http.ResponseWriter, r *http.Request) {
	if !authorized(w, r, true) {
		return
	}
	id := mux.Vars(r)["id"]
	v, ok := s.payLinks.Get(id)
	if !ok {
		detail(w, http.StatusNotFound, "Pay link does not exist.")
		return
	}
	l := v.(PayLink)
	if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
		detail(w, http.StatusBadRequest, err.Error())
		return
	}
	l.ID = id
	s.payLinks.Set(id, l)
	writeJSON(w, http.StatusOK, l)
}

func (s *fakeService) deletePayLink(w http.ResponseWriter, r *http.Request) {
	if !authorized(w, r, true) {
		return
	}
	id := mux.Vars(r)["id"]
	if !s.payLinks.Has(id) {
		detail(w, http.StatusNotFound, "Pay link does not exist.")
		return
	}
	s.payLinks.Remove(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *fakeService) login(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("X-Api-Key") != "" {
		detail(w, http.StatusBadRequest, "unexpected api key")
		return
	}
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	data, _ := io.ReadAll(r.Body)
	if err := json.Unmarshal(data, &body); err != nil || body.Password != "secret" {
		detail(w, http.StatusUnauthorized, "Invalid credentials.")
		return
	}
	s.lastLogin = uuid.NewV4().String()
	writeJSON(w, http.StatusOK, map[string]string{"access_token": s.lastLogin, "token_type": "bearer"})
}

func (s *fakeService) account(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie("cookie_access_token")
	if err != nil || c.Value != s.lastLogin {
		detail(w, http.StatusUnauthorized, "Missing user ID or access token.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":       "user-1",
		"username": "alice",
		"email":    "alice@example.com",
		"wallets": []map[string]interface{}{
			{"id": testWalletID, "name": "Test Wallet", "adminkey": testAdminKey, "inkey": testInvoiceKey, "balance_msat": s.balance},
		},
	})
}
