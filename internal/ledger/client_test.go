package ledger

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svtemple/ledgerdesk/internal/common"
)

func fastRetry() common.RetryOptions {
	return common.RetryOptions{
		MaxAttempts:  4,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := New(Config{
		BaseURL:       baseURL,
		SessionCookie: "session=abc123",
		Retry:         fastRetry(),
	})
	require.NoError(t, err)
	return client
}

func TestFetchHappyPath(t *testing.T) {
	var payloadHits atomic.Int32

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/payload", func(w http.ResponseWriter, _ *http.Request) {
		payloadHits.Add(1)
		fmt.Fprint(w, `{
			"last_updated_michigan": "2024-06-01 09:00 AM",
			"transactions": {
				"k1": {"TransactionId": "t1", "DevoteeName": "Asha", "Amount": 100, "BookedDate": "2024-01-02", "YearMonth": "202401"},
				"k2": {"TransactionId": "t2", "DevoteeName": "Bala", "Amount": 30, "BookedDate": "2024-03-15", "YearMonth": "202403", "IsReversal": true}
			}
		}`)
	})
	mux.HandleFunc("/transactions/transactions", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transactions/transactions", r.URL.Query().Get("uri"))
		assert.Equal(t, "session=abc123", r.Header.Get("Cookie"))
		fmt.Fprintf(w, `{"presignedUrl": %q}`, server.URL+"/payload")
	})

	snap, err := newTestClient(t, server.URL).Fetch(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, "2024-06-01 09:00 AM", snap.LastUpdated)
	require.Len(t, snap.Transactions, 2)
	// Sorted most recent first.
	assert.Equal(t, "t2", snap.Transactions[0].TransactionID)
	assert.Equal(t, "t1", snap.Transactions[1].TransactionID)
	assert.Equal(t, int32(1), payloadHits.Load())
}

func TestFetchRetriesThenSucceeds(t *testing.T) {
	var indexHits atomic.Int32

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/payload", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"transactions": {"k": {"TransactionId": "t1", "Amount": 1, "BookedDate": "2024-01-01"}}}`)
	})
	mux.HandleFunc("/transactions/transactions", func(w http.ResponseWriter, _ *http.Request) {
		if indexHits.Add(1) < 3 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprintf(w, `{"presignedUrl": %q}`, server.URL+"/payload")
	})

	snap, err := newTestClient(t, server.URL).Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Transactions, 1)
	assert.Equal(t, int32(3), indexHits.Load())
}

func TestFetchUnauthorizedAfterExhaustedRetries(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL).Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	assert.Equal(t, "Unauthorized - login expired. Please log in again.", common.UserMessage(err))
	assert.Equal(t, int32(4), hits.Load(), "one initial attempt plus three retries")
}

func TestFetchGenericFailureAfterExhaustedRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL).Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrFetchFailed)
	assert.NotErrorIs(t, err, common.ErrUnauthorized)
	assert.Equal(t, "An error occurred while fetching data", common.UserMessage(err))
}

func TestFetchMissingPresignedURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL).Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidPayload)
	assert.Equal(t, "No presigned URL received from server", common.UserMessage(err))
}

func TestFetchMalformedPayloadIsTerminal(t *testing.T) {
	var payloadHits atomic.Int32

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/payload", func(w http.ResponseWriter, _ *http.Request) {
		payloadHits.Add(1)
		fmt.Fprint(w, `{"last_updated_michigan": "noon"}`)
	})
	mux.HandleFunc("/transactions/transactions", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `{"presignedUrl": %q}`, server.URL+"/payload")
	})

	_, err := newTestClient(t, server.URL).Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidPayload)
	// A parse failure after a 200 must not trigger the retry chain.
	assert.Equal(t, int32(1), payloadHits.Load())
}

func TestFetchEmptyTransactionList(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/payload", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"transactions": {}}`)
	})
	mux.HandleFunc("/transactions/transactions", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `{"presignedUrl": %q}`, server.URL+"/payload")
	})

	_, err := newTestClient(t, server.URL).Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNoData)
	assert.Equal(t, "No transaction data received", common.UserMessage(err))
}

func TestNewRequiresBaseURL(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}
