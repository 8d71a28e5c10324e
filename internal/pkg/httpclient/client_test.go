package httpclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	apperror "github.com/HiQuang210/GFashion-Frontend-sub000/internal/errors"
	"github.com/HiQuang210/GFashion-Frontend-sub000/internal/pkg/httpclient"
	"github.com/HiQuang210/GFashion-Frontend-sub000/internal/pkg/logger"
	"github.com/HiQuang210/GFashion-Frontend-sub000/internal/pkg/session"
)

func newClient(t *testing.T, server *httptest.Server, sess session.Store, onLogout func()) *httpclient.Client {
	t.Helper()
	return httpclient.New(server.URL, 5*time.Second, sess, logger.Nop{}, onLogout)
}

func activeSession(access, refresh string) *session.MemoryStore {
	store := session.NewMemoryStore()
	_ = store.SetTokens(session.Tokens{Access: access, Refresh: refresh})
	return store
}

func writeJSON(w http.ResponseWriter, status int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestDo_AttachesHeaders(t *testing.T) {
	var gotAuth, gotRequestID, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		gotAccept = r.Header.Get("Accept")
		writeJSON(w, http.StatusOK, map[string]interface{}{"status": "OK"})
	}))
	defer server.Close()

	client := newClient(t, server, activeSession("acc-token", "ref-token"), nil)
	resp, err := client.Do(context.Background(), http.MethodGet, "/user/get-user-cart", nil)

	assert.NoError(t, err)
	assert.True(t, resp.IsOK())
	assert.Equal(t, "Bearer acc-token", gotAuth)
	assert.NotEmpty(t, gotRequestID)
	assert.Equal(t, "application/json", gotAccept)
}

func TestDo_NoAuthorizationWithoutSession(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, map[string]interface{}{"status": "OK"})
	}))
	defer server.Close()

	client := newClient(t, server, session.NewMemoryStore(), nil)
	_, err := client.Do(context.Background(), http.MethodGet, "/product/all", nil)

	assert.NoError(t, err)
	assert.Empty(t, gotAuth)
}

// TestDo_SoftFailurePassesThrough: 2xx com status != "OK" não é erro na
// camada HTTP; o envelope volta intacto para o chamador decidir.
func TestDo_SoftFailurePassesThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":  "ERROR",
			"message": "Out of stock",
		})
	}))
	defer server.Close()

	client := newClient(t, server, activeSession("acc", "ref"), nil)
	resp, err := client.Do(context.Background(), http.MethodPost, "/user/handle-cart", map[string]string{"action": "add"})

	assert.NoError(t, err)
	assert.False(t, resp.IsOK())
	assert.Equal(t, "Out of stock", resp.Message)
}

func TestDo_TransportErrorMapsUserMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"status":  "ERROR",
			"message": "no such product",
		})
	}))
	defer server.Close()

	client := newClient(t, server, activeSession("acc", "ref"), nil)
	resp, err := client.Do(context.Background(), http.MethodGet, "/product/nope", nil)

	assert.Nil(t, resp)
	var transport *apperror.TransportError
	if !assert.ErrorAs(t, err, &transport) {
		return
	}
	assert.Equal(t, http.StatusNotFound, transport.HTTPStatus())
	assert.Equal(t, apperror.MsgNotFound, transport.UserMessage())
}

// TestDo_RefreshAndRetryOn401: o primeiro 401 dispara exatamente um
// refresh; o retry sai com o token novo e a sessão fica atualizada.
func TestDo_RefreshAndRetryOn401(t *testing.T) {
	var refreshCalls, dataCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/user/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "ref-old", body["refreshToken"])
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":        "OK",
			"access_token":  "acc-new",
			"refresh_token": "ref-new",
		})
	})
	mux.HandleFunc("/user/get-user-cart", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&dataCalls, 1)
		if r.Header.Get("Authorization") != "Bearer acc-new" {
			writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"status": "ERROR"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"status": "OK"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	store := activeSession("acc-stale", "ref-old")
	client := newClient(t, server, store, nil)

	resp, err := client.Do(context.Background(), http.MethodGet, "/user/get-user-cart", nil)
	assert.NoError(t, err)
	assert.True(t, resp.IsOK())

	assert.Equal(t, int32(1), atomic.LoadInt32(&refreshCalls))
	assert.Equal(t, int32(2), atomic.LoadInt32(&dataCalls))

	tokens, active := store.Tokens()
	assert.True(t, active)
	assert.Equal(t, "acc-new", tokens.Access)
	assert.Equal(t, "ref-new", tokens.Refresh)
}

// TestDo_RefreshFailureClearsSession: renovação rejeitada descarta as
// credenciais e aciona o hook de logout uma única vez.
func TestDo_RefreshFailureClearsSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/user/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"status": "ERROR"})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"status": "ERROR"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	var logouts int
	store := activeSession("acc-stale", "ref-dead")
	client := newClient(t, server, store, func() { logouts++ })

	resp, err := client.Do(context.Background(), http.MethodGet, "/user/get-user-cart", nil)
	assert.Nil(t, resp)

	var unauthorized *apperror.UnauthorizedError
	if !assert.ErrorAs(t, err, &unauthorized) {
		return
	}
	assert.Equal(t, apperror.MsgUnauthorized, unauthorized.UserMessage())
	assert.Equal(t, 1, logouts)

	_, active := store.Tokens()
	assert.False(t, active)
}

// TestDo_NoSecondRefreshAfterRetry401: se o retry também volta 401, não há
// segunda renovação; a sessão é descartada.
func TestDo_NoSecondRefreshAfterRetry401(t *testing.T) {
	var refreshCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/user/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":       "OK",
			"access_token": "acc-new",
		})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"status": "ERROR"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	var logouts int
	store := activeSession("acc-stale", "ref-old")
	client := newClient(t, server, store, func() { logouts++ })

	_, err := client.Do(context.Background(), http.MethodGet, "/user/get-user-cart", nil)

	var unauthorized *apperror.UnauthorizedError
	if !assert.ErrorAs(t, err, &unauthorized) {
		return
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&refreshCalls))
	assert.Equal(t, 1, logouts)

	_, active := store.Tokens()
	assert.False(t, active)
}

func TestDo_401WithoutSessionDoesNotRefresh(t *testing.T) {
	var refreshCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/user/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"status": "ERROR"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newClient(t, server, session.NewMemoryStore(), nil)
	_, err := client.Do(context.Background(), http.MethodGet, "/user/get-user-cart", nil)

	var unauthorized *apperror.UnauthorizedError
	if !assert.ErrorAs(t, err, &unauthorized) {
		return
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(&refreshCalls))
}

// TestDo_RefreshKeepsOldRefreshToken: backend que não rotaciona o refresh
// token no refresh mantém o antigo na sessão.
func TestDo_RefreshKeepsOldRefreshToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/user/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":       "OK",
			"access_token": "acc-new",
		})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer acc-new" {
			writeJSON(w, http.StatusOK, map[string]interface{}{"status": "OK"})
			return
		}
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"status": "ERROR"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	store := activeSession("acc-stale", "ref-keep")
	client := newClient(t, server, store, nil)

	_, err := client.Do(context.Background(), http.MethodGet, "/user/get-user-cart", nil)
	assert.NoError(t, err)

	tokens, _ := store.Tokens()
	assert.Equal(t, "ref-keep", tokens.Refresh)
}

func TestDo_NetworkErrorWrapped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // porta fechada força falha de conexão

	client := httpclient.New(server.URL, time.Second, session.NewMemoryStore(), logger.Nop{}, nil)
	_, err := client.Do(context.Background(), http.MethodGet, "/product/all", nil)

	var transport *apperror.TransportError
	if !assert.ErrorAs(t, err, &transport) {
		return
	}
	assert.Equal(t, 0, transport.HTTPStatus())
}

// TestDo_2xxNonJSONBodyIsTransportError: um 200 cujo corpo não é o
// envelope JSON (e.g. portal cativo devolvendo HTML) vira erro de
// transporte; Do nunca devolve resposta nula sem erro.
func TestDo_2xxNonJSONBodyIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html>captive portal</html>"))
	}))
	defer server.Close()

	client := newClient(t, server, activeSession("acc", "ref"), nil)
	resp, err := client.Do(context.Background(), http.MethodGet, "/user/get-user-cart", nil)

	assert.Nil(t, resp)
	var transport *apperror.TransportError
	if !assert.ErrorAs(t, err, &transport) {
		return
	}
	assert.Equal(t, http.StatusOK, transport.HTTPStatus())
	assert.Equal(t, apperror.MsgGeneric, transport.UserMessage())
}

func TestDo_NonJSONBodyUsesHTTPStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer server.Close()

	client := newClient(t, server, session.NewMemoryStore(), nil)
	_, err := client.Do(context.Background(), http.MethodGet, "/product/all", nil)

	var transport *apperror.TransportError
	if !assert.ErrorAs(t, err, &transport) {
		return
	}
	assert.Equal(t, http.StatusBadGateway, transport.HTTPStatus())
}
