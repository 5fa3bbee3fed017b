package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/massmux/lnbitskit/pkg/lnbits"
	log "github.com/sirupsen/logrus"
)

// Webhook is the body the service posts when an invoice with a webhook url is paid.
// Amount and Fee are in msat.
type Webhook struct {
	CheckingID    string          `json:"checking_id"`
	Pending       bool            `json:"pending"`
	Amount        lnbits.MilliSat `json:"amount"`
	Fee           lnbits.MilliSat `json:"fee"`
	Memo          string          `json:"memo"`
	Time          int64           `json:"time"`
	Bolt11        string          `json:"bolt11"`
	Preimage      string          `json:"preimage"`
	PaymentHash   string          `json:"payment_hash"`
	Expiry        int64           `json:"expiry"`
	WalletID      string          `json:"wallet_id"`
	Webhook       string          `json:"webhook"`
	WebhookStatus interface{}     `json:"webhook_status"`
}

func (w Webhook) Transaction() lnbits.Transaction {
	return lnbits.Transaction{
		CheckingID:  w.CheckingID,
		Pending:     w.Pending,
		Amount:      w.Amount.Sats(),
		Fee:         w.Fee,
		Memo:        w.Memo,
		Time:        w.Time,
		Bolt11:      w.Bolt11,
		Preimage:    w.Preimage,
		PaymentHash: w.PaymentHash,
		Expiry:      w.Expiry,
		WalletID:    w.WalletID,
	}
}

type options struct {
	logger log.FieldLogger
}

type Option func(*options)

// WithLogger sets the logger for received webhooks. Defaults to the standard logger.
func WithLogger(l log.FieldLogger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func newOptions(opts []Option) options {
	o := options{logger: log.StandardLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewHandler returns a handler accepting webhook posts on "/". fn runs
// synchronously before the response is written.
func NewHandler(fn func(lnbits.Transaction), opts ...Option) http.Handler {
	o := newOptions(opts)
	router := mux.NewRouter()
	router.HandleFunc("/", receive(fn, o.logger)).Methods(http.MethodPost)
	return router
}

func receive(fn func(lnbits.Transaction), logger log.FieldLogger) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		depositEvent := Webhook{}
		err := json.NewDecoder(request.Body).Decode(&depositEvent)
		if err != nil || depositEvent.PaymentHash == "" {
			logger.Warnf("[Webhook] invalid body: %v", err)
			writer.WriteHeader(http.StatusBadRequest)
			return
		}
		tx := depositEvent.Transaction()
		logger.Infof("[⚡️ WebHook] wallet %s received invoice of %s.", tx.WalletID, tx.Amount)
		fn(tx)
		writer.WriteHeader(http.StatusOK)
	}
}

type Server struct {
	httpServer *http.Server
}

// NewServer listens on addr in the background and passes paid invoices to fn.
func NewServer(addr string, fn func(lnbits.Transaction), opts ...Option) *Server {
	o := newOptions(opts)
	srv := &http.Server{
		Addr:         addr,
		Handler:      NewHandler(fn, opts...),
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			o.logger.Errorf("[Webhook] server stopped: %v", err)
		}
	}()
	o.logger.Infof("[Webhook] Server started at %s", addr)
	return &Server{httpServer: srv}
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
