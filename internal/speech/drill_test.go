package speech

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecognizer struct {
	transcript string
	err        error
}

func (f *fakeRecognizer) Listen(ctx context.Context) (string, error) {
	return f.transcript, f.err
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Apple.", "apple"},
		{"  BANANA  ", "banana"},
		{"mango!?", "mango"},
		{"kiwi", "kiwi"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Normalize(tc.in))
	}
}

func TestIntentar_Correct(t *testing.T) {
	rec := &fakeRecognizer{}
	d := NewDrill(rec, []string{"apple"}, 1)
	rec.transcript = "Apple."

	res, err := d.Intentar(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Correcto)
	assert.Equal(t, "apple", res.Texto)
}

func TestIntentar_Incorrect(t *testing.T) {
	rec := &fakeRecognizer{transcript: "pear"}
	d := NewDrill(rec, []string{"apple"}, 1)

	res, err := d.Intentar(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Correcto)
}

func TestIntentar_RecognizerError(t *testing.T) {
	rec := &fakeRecognizer{err: errors.New("no mic")}
	d := NewDrill(rec, nil, 1)

	_, err := d.Intentar(context.Background())
	require.Error(t, err)
}

func TestNuevaPalabra_DrawsFromList(t *testing.T) {
	d := NewDrill(&fakeRecognizer{}, []string{"a", "b", "c"}, 42)
	for i := 0; i < 10; i++ {
		w := d.NuevaPalabra()
		assert.Contains(t, []string{"a", "b", "c"}, w)
	}
}
