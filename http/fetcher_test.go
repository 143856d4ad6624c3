package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	secondbrain "github.com/rizkyilhampra/second-brain"
	sbhttp "github.com/rizkyilhampra/second-brain/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns_body_and_content_type", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte("<html><body>hi</body></html>"))
		}))
		defer srv.Close()

		f := sbhttp.NewFetcher()
		defer f.Close()

		res, err := f.Fetch(context.Background(), srv.URL+"/page")

		require.NoError(t, err)
		assert.Equal(t, srv.URL+"/page", res.URL)
		assert.Equal(t, "text/html; charset=utf-8", res.ContentType)
		assert.Contains(t, string(res.Body), "hi")
		assert.Equal(t, secondbrain.KindHTML, res.Kind())
	})

	t.Run("non_success_status_is_unavailable", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer srv.Close()

		f := sbhttp.NewFetcher()
		defer f.Close()

		_, err := f.Fetch(context.Background(), srv.URL)

		require.Error(t, err)
		assert.Equal(t, secondbrain.EUNAVAILABLE, secondbrain.ErrorCode(err))
		assert.Contains(t, secondbrain.ErrorMessage(err), "404")
	})

	t.Run("context_cancellation_aborts", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer srv.Close()

		f := sbhttp.NewFetcher()
		defer f.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := f.Fetch(ctx, srv.URL)

		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "context canceled"))
	})

	t.Run("image_content_type_dispatches_image_kind", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write([]byte{0x89, 'P', 'N', 'G'})
		}))
		defer srv.Close()

		f := sbhttp.NewFetcher()
		defer f.Close()

		res, err := f.Fetch(context.Background(), srv.URL+"/graph.png")

		require.NoError(t, err)
		assert.Equal(t, secondbrain.KindImage, res.Kind())
	})
}
