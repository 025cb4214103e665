package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkdir/internal/domain/config"
)

func testTwitterConfig(endpoint string) config.TwitterConfig {
	return config.TwitterConfig{
		ConsumerKey:       "ck",
		ConsumerSecret:    "cs",
		AccessToken:       "at",
		AccessTokenSecret: "as",
		Endpoint:          endpoint,
	}
}

func TestTwitter_PostsSignedJSON(t *testing.T) {
	var (
		gotAuth string
		gotBody tweetRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		gotAuth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"1"}}`))
	}))
	defer srv.Close()

	tw := NewTwitter(context.Background(), testTwitterConfig(srv.URL+"/2/tweets"))
	require.NoError(t, tw.Publish(context.Background(), "Günün linki: https://links.example.com/a/x.html"))

	assert.Equal(t, "Günün linki: https://links.example.com/a/x.html", gotBody.Text)
	assert.True(t, strings.HasPrefix(gotAuth, "OAuth "), gotAuth)
	assert.Contains(t, gotAuth, `oauth_consumer_key="ck"`)
	assert.Contains(t, gotAuth, `oauth_token="at"`)
}

func TestTwitter_ReportsRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"detail":"duplicate content"}`))
	}))
	defer srv.Close()

	err := NewTwitter(context.Background(), testTwitterConfig(srv.URL)).Publish(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "duplicate content")
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	p := LogPublisher{Logger: slog.New(slog.NewTextHandler(&buf, nil))}

	require.NoError(t, p.Publish(context.Background(), "hello"))
	assert.Contains(t, buf.String(), "message=hello")
}
