// words/words.go
package words

import (
	"errors"
	"math/rand"
	"strings"
)

// DefaultWords is the built-in shape list.
var DefaultWords = []string{
	"Triangle", "Square", "Circle", "Rectangle", "Star",
	"Heart", "Diamond", "Pentagon", "Hexagon", "Oval",
}

var ErrEmptyBank = errors.New("word bank is empty")

// Bank is a fixed list of candidate words. It is safe for concurrent use.
type Bank struct {
	words []string
}

// NewBank trims the given words and drops blanks and case-insensitive duplicates.
func NewBank(list []string) (*Bank, error) {
	seen := make(map[string]bool, len(list))
	words := make([]string, 0, len(list))
	for _, w := range list {
		w = strings.TrimSpace(w)
		key := strings.ToLower(w)
		if w == "" || seen[key] {
			continue
		}
		seen[key] = true
		words = append(words, w)
	}
	if len(words) == 0 {
		return nil, ErrEmptyBank
	}
	return &Bank{words: words}, nil
}

// Len returns the number of distinct words.
func (b *Bank) Len() int {
	return len(b.words)
}

// Pick returns one word uniformly at random.
func (b *Bank) Pick() string {
	return b.words[rand.Intn(len(b.words))]
}

// SampleDistinct returns n distinct words. n is capped at Len.
func (b *Bank) SampleDistinct(n int) []string {
	if n > len(b.words) {
		n = len(b.words)
	}
	if n <= 0 {
		return nil
	}
	options := make([]string, 0, n)
	for len(options) < n {
		w := b.Pick()
		if !contains(options, w) {
			options = append(options, w)
		}
	}
	return options
}

func contains(list []string, w string) bool {
	for _, v := range list {
		if v == w {
			return true
		}
	}
	return false
}
