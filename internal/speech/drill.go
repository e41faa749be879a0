// Package speech implements the pronunciation exercise: pick a target word,
// obtain a single-shot transcript from a recognition engine, and score it.
// The recognition engine itself is an external collaborator behind the
// Recognizer seam.
package speech

import (
	"context"
	"math/rand"
	"strings"
)

// Words drilled by the exercise.
var DefaultPalabras = []string{
	"apple", "banana", "orange", "grape", "watermelon",
	"kiwi", "strawberry", "blueberry", "pineapple", "mango",
}

// Recognizer yields one transcript per invocation.
type Recognizer interface {
	Listen(ctx context.Context) (transcript string, err error)
}

// Resultado is the verdict for one attempt.
type Resultado struct {
	Correcto bool
	Texto    string
}

// Drill holds the exercise state: the current target word and the sources
// it draws from.
type Drill struct {
	palabras   []string
	recognizer Recognizer
	rand       *rand.Rand
	actual     string
}

func NewDrill(recognizer Recognizer, palabras []string, seed int64) *Drill {
	if len(palabras) == 0 {
		palabras = DefaultPalabras
	}
	d := &Drill{
		palabras:   palabras,
		recognizer: recognizer,
		rand:       rand.New(rand.NewSource(seed)),
	}
	d.NuevaPalabra()
	return d
}

// Palabra returns the current target word.
func (d *Drill) Palabra() string { return d.actual }

// NuevaPalabra picks a new random target.
func (d *Drill) NuevaPalabra() string {
	d.actual = d.palabras[d.rand.Intn(len(d.palabras))]
	return d.actual
}

// Intentar listens once and scores the transcript against the target.
func (d *Drill) Intentar(ctx context.Context) (*Resultado, error) {
	transcript, err := d.recognizer.Listen(ctx)
	if err != nil {
		return nil, err
	}

	texto := Normalize(transcript)
	objetivo := Normalize(d.actual)
	return &Resultado{Correcto: texto == objetivo, Texto: texto}, nil
}

// Normalize lowercases, trims and strips trailing punctuation, so
// "Apple." matches the target "apple".
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.TrimRight(s, ".,!?¿¡;:")
}
