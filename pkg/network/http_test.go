package network

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestIsOnion(t *testing.T) {
	assert.True(t, IsOnion("lnbitsabcdefghijklmnop.onion"))
	assert.True(t, IsOnion("LNBITS.ONION"))
	assert.False(t, IsOnion("legend.lnbits.com"))
	assert.False(t, IsOnion("onion.example.com"))
}

func TestForServer(t *testing.T) {
	t.Run("Direct", func(t *testing.T) {
		c, ok := ForServer("https://legend.lnbits.com", nil, nil).(*Client)
		require.True(t, ok)
		assert.False(t, c.IsOverlay())
	})

	t.Run("Onion", func(t *testing.T) {
		c, ok := ForServer("http://lnbitsabcdefghijklmnop.onion", nil, nil).(*Client)
		require.True(t, ok)
		assert.True(t, c.IsOverlay())
	})

	t.Run("Socks", func(t *testing.T) {
		c, ok := ForServer("https://legend.lnbits.com", nil, &SocksConfiguration{Host: "socks5://127.0.0.1:1080", Username: "u", Password: "p"}).(*Client)
		require.True(t, ok)
		assert.True(t, c.IsOverlay())
	})

	t.Run("EmptySocksIsDirect", func(t *testing.T) {
		c, ok := ForServer("https://legend.lnbits.com", nil, &SocksConfiguration{}).(*Client)
		require.True(t, ok)
		assert.False(t, c.IsOverlay())
	})

	t.Run("Logger", func(t *testing.T) {
		logger, _ := test.NewNullLogger()
		c := ForServer("https://legend.lnbits.com", nil, nil, WithLogger(logger)).(*Client)
		assert.Same(t, logger, c.logger)
		assert.Same(t, log.StandardLogger(), NewDirect().logger)
	})

	t.Run("Timeout", func(t *testing.T) {
		c := ForServer("https://legend.lnbits.com", nil, nil, WithTimeout(3*time.Second)).(*Client)
		assert.Equal(t, 3*time.Second, c.HTTPClient().Timeout)
	})
}

func TestSend(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/payments", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Seen-Key", r.Header.Get("X-Api-Key"))
		w.WriteHeader(http.StatusCreated)
		w.Write(body)
	}).Methods(http.MethodPost)
	router.HandleFunc("/api/v1/wallet", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "key" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"Invalid key"}`))
			return
		}
		w.Write([]byte(`{"name":"w","balance":1000}`))
	}).Methods(http.MethodGet)
	srv := httptest.NewServer(router)
	defer srv.Close()

	c := NewDirect(WithTimeout(5 * time.Second))

	body, status, err := c.Send(context.Background(), &Request{
		Method: http.MethodPost,
		URL:    srv.URL + "/api/v1/payments",
		Header: map[string]string{"Content-Type": "application/json", "X-Api-Key": "key"},
		Body:   []byte(`{"out":false,"amount":21}`),
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, status)
	assert.JSONEq(t, `{"out":false,"amount":21}`, string(body))

	body, status, err = c.Send(context.Background(), &Request{
		Method: http.MethodGet,
		URL:    srv.URL + "/api/v1/wallet",
		Header: map[string]string{"X-Api-Key": "wrong"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.JSONEq(t, `{"detail":"Invalid key"}`, string(body))
}

func TestSendCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, _, err := NewDirect().Send(ctx, &Request{Method: http.MethodGet, URL: srv.URL})
	assert.Error(t, err)
}

func TestSendConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, _, err := NewDirect().Send(context.Background(), &Request{Method: http.MethodGet, URL: url})
	assert.Error(t, err)
}

func TestLimiter(t *testing.T) {
	l := NewLimiter(rate.Every(time.Hour), 1)
	assert.Same(t, l.GetLimiter("a"), l.GetLimiter("a"))
	assert.NotSame(t, l.GetLimiter("a"), l.GetLimiter("b"))

	require.NoError(t, l.Wait(context.Background(), "a"))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, l.Wait(ctx, "a"))
	require.NoError(t, l.Wait(context.Background(), "b"))
}

func TestSendRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewDirect(WithRateLimit(NewLimiter(rate.Every(time.Hour), 1)))
	_, _, err := c.Send(context.Background(), &Request{Method: http.MethodGet, URL: srv.URL})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, _, err = c.Send(ctx, &Request{Method: http.MethodGet, URL: srv.URL})
	assert.Error(t, err)
}
