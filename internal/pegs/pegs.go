// internal/pegs/pegs.go
//
// Provides the peg vocabulary new games are started with.
//
// Responsibilities:
//   - Load the vocabulary from an environment-provided file or fall back to the
//     embedded default colours.
//   - Supply lookups (All, Set, IsKnown) and RandomSecret for new games.
//
// Initialization behavior (Init):
//   1. If PEGS_FILE is set, read one peg name per line from it.
//   2. Otherwise use the embedded `default_pegs.txt`.
//
// Blank lines and lines starting with '#' are skipped; duplicates keep their
// first position. Initialization is run once (sync.Once).

package pegs

import (
	"bufio"
	"crypto/rand"
	_ "embed"
	"errors"
	"io"
	"math/big"
	"os"
	"strings"
	"sync"

	"github.com/robalobadob/mastermind/internal/game"
)

//go:embed default_pegs.txt
var embeddedPegs string

var (
	initOnce   sync.Once
	vocabulary []game.Peg
	initialErr error
)

// Init loads the vocabulary exactly once.
// Returns an error if the vocabulary ends up empty.
func Init() error {
	initOnce.Do(func() {
		var list []game.Peg
		if path := os.Getenv("PEGS_FILE"); path != "" {
			f, err := os.Open(path)
			if err != nil {
				initialErr = err
				return
			}
			defer f.Close()
			list, initialErr = Parse(f)
			if initialErr != nil {
				return
			}
		} else {
			list, _ = Parse(strings.NewReader(embeddedPegs))
		}
		vocabulary = list
		if len(vocabulary) == 0 {
			initialErr = errors.New("pegs: vocabulary is empty")
		}
	})
	return initialErr
}

// Parse reads peg names, one per line.
func Parse(r io.Reader) ([]game.Peg, error) {
	seen := make(map[game.Peg]struct{})
	var out []game.Peg
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		p := game.Peg(s)
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out, sc.Err()
}

// All returns the vocabulary in file order.
func All() []game.Peg {
	_ = Init()
	return append([]game.Peg(nil), vocabulary...)
}

// Set returns the vocabulary as a fresh set.
func Set() game.PegSet {
	return game.NewPegSet(All()...)
}

// IsKnown reports whether name is part of the vocabulary.
func IsKnown(name string) bool {
	return Set().Contains(game.Peg(name))
}

// RandomSecret draws a code of the given length, repetitions allowed,
// using crypto/rand.
func RandomSecret(length int) (game.Code, error) {
	return RandomCode(All(), length)
}

// RandomCode draws a code of the given length from vocab.
func RandomCode(vocab []game.Peg, length int) (game.Code, error) {
	if len(vocab) == 0 {
		return nil, errors.New("pegs: empty vocabulary")
	}
	out := make(game.Code, length)
	limit := big.NewInt(int64(len(vocab)))
	for i := range out {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return nil, err
		}
		out[i] = vocab[n.Int64()]
	}
	return out, nil
}
