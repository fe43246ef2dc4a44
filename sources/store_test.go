package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stewi1014/glbackdrop/programs"
)

func TestEmbedStore(t *testing.T) {
	s := EmbedStore{Catalogue: programs.DefaultCatalogue()}

	src, err := s.Source(context.Background(), programs.DefaultCatalogue().At(0).Name)
	require.NoError(t, err)
	assert.Contains(t, src, "void main()")

	_, err = s.Source(context.Background(), "no-such-thing")
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "no-such-thing", fe.Name)
}

func TestDirStore(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "waves.frag"), []byte("void main() {}"), 0o644))

	s := DirStore{Dir: dir}

	src, err := s.Source(context.Background(), "waves")
	require.NoError(t, err)
	assert.Equal(t, "void main() {}", src)

	_, err = s.Source(context.Background(), "missing")
	var fe *FetchError
	assert.ErrorAs(t, err, &fe)

	// names never escape the directory
	_, err = s.Source(context.Background(), "../waves")
	assert.ErrorAs(t, err, &fe)
}

func TestHTTPStore(t *testing.T) {
	var gotPath, gotBuster string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotBuster = r.URL.Query().Get("v")
		if r.URL.Path != "/shaders/pulse.frag" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("// pulse"))
	}))
	defer srv.Close()

	s := HTTPStore{Base: srv.URL, Client: srv.Client()}

	src, err := s.Source(context.Background(), "pulse")
	require.NoError(t, err)
	assert.Equal(t, "// pulse", src)
	assert.Equal(t, "/shaders/pulse.frag", gotPath)
	assert.NotEmpty(t, gotBuster, "request must carry a cache buster")

	_, err = s.Source(context.Background(), "absent")
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "absent", fe.Name)
}

func TestCheckName(t *testing.T) {
	assert.NoError(t, checkName("drift"))
	assert.NoError(t, checkName("wave_form-2"))
	assert.Error(t, checkName(""))
	assert.Error(t, checkName("Drift"))
	assert.Error(t, checkName("a/b"))
	assert.Error(t, checkName("a..b"))
}
