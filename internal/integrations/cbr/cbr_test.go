package cbr

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Dan9191/bank-credit-engine/internal/apperrors"
	"github.com/Dan9191/bank-credit-engine/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const keyRateResponse = `<?xml version="1.0" encoding="utf-8"?>
<soap:Envelope xmlns:soap="http://www.w3.org/2003/05/soap-envelope">
  <soap:Body>
    <KeyRateResponse xmlns="http://web.cbr.ru/">
      <KeyRateResult>
        <diffgr:diffgram xmlns:diffgr="urn:schemas-microsoft-com:xml-diffgram-v1">
          <KeyRate xmlns="">
            <KR><DT>2025-05-30T00:00:00+03:00</DT><Rate>21.00</Rate></KR>
            <KR><DT>2025-05-29T00:00:00+03:00</DT><Rate>20.50</Rate></KR>
          </KeyRate>
        </diffgr:diffgram>
      </KeyRateResult>
    </KeyRateResponse>
  </soap:Body>
</soap:Envelope>`

func newTestClient(t *testing.T, handler http.HandlerFunc) *CBRClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	log := logrus.New()
	log.SetOutput(io.Discard)
	c := NewCBRClient(&config.Config{CBRURL: srv.URL, BankMargin: 5}, log)
	c.now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }
	return c
}

func TestFetchAnnualRate(t *testing.T) {
	var body string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "http://web.cbr.ru/KeyRate", r.Header.Get("SOAPAction"))
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
		_, _ = w.Write([]byte(keyRateResponse))
	})

	rate, err := c.FetchAnnualRate(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 26.0, rate, 1e-9)
	assert.Contains(t, body, "<fromDate>2025-05-02</fromDate>")
	assert.Contains(t, body, "<ToDate>2025-06-01</ToDate>")
}

func TestFetchAnnualRate_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"not xml", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("maintenance"))
		}},
		{"no records", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<Envelope><diffgram><KeyRate></KeyRate></diffgram></Envelope>`))
		}},
		{"bad number", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<Envelope><diffgram><KeyRate><KR><Rate>n/a</Rate></KR></KeyRate></diffgram></Envelope>`))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)
			_, err := c.FetchAnnualRate(context.Background())
			assert.True(t, errors.Is(err, apperrors.ErrRateUnavailable))
		})
	}
}

func TestFetchAnnualRate_ContextCanceled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(keyRateResponse))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.FetchAnnualRate(ctx)
	assert.True(t, errors.Is(err, apperrors.ErrRateUnavailable))
}
