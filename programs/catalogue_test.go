package programs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogue(t *testing.T) {
	c := DefaultCatalogue()
	require.NotZero(t, c.Len())

	seen := make(map[string]bool)
	for i := 0; i < c.Len(); i++ {
		v := c.At(i)
		assert.NotEmpty(t, v.Name)
		assert.False(t, seen[v.Name], "duplicate name %q", v.Name)
		seen[v.Name] = true

		assert.Contains(t, v.Fragment, "void main()", "%q has no entry point", v.Name)
		assert.Contains(t, v.Fragment, "outputColor", "%q writes nothing", v.Name)
	}
}

func TestWrap(t *testing.T) {
	c := DefaultCatalogue()
	n := c.Len()

	for i := -3*n - 1; i <= 3*n+1; i++ {
		w := c.Wrap(i)
		assert.GreaterOrEqual(t, w, 0)
		assert.Less(t, w, n)
		assert.Equal(t, w, c.Wrap(i+n), "wrap must be periodic in n")
	}

	assert.Equal(t, 0, c.Wrap(0))
	assert.Equal(t, 0, c.Wrap(n))
	assert.Equal(t, n-1, c.Wrap(-1))
	assert.Equal(t, 1, c.Wrap(n+1))
}

func TestNewCatalogueRejectsBadInput(t *testing.T) {
	_, err := NewCatalogue(nil)
	assert.Error(t, err)

	_, err = NewCatalogue([]Visualization{{Name: ""}})
	assert.Error(t, err)

	_, err = NewCatalogue([]Visualization{{Name: "a"}, {Name: "a"}})
	assert.ErrorContains(t, err, "duplicate")
}

func TestFromNames(t *testing.T) {
	c, err := FromNames([]string{"pulse", "aurora", "drift"})
	require.NoError(t, err)
	require.Equal(t, 3, c.Len())

	// stock names carry their embedded source, unknown names don't
	frag, ok := c.Fragment("pulse")
	assert.True(t, ok)
	assert.NotEmpty(t, frag)

	_, ok = c.Fragment("aurora")
	assert.False(t, ok)

	assert.Equal(t, "aurora", c.At(1).Name)
}

func TestVertexSource(t *testing.T) {
	src := VertexSource()
	assert.True(t, strings.HasPrefix(src, "#version"))
	assert.Contains(t, src, "in vec2 vert;")
}
