package moderation

import (
	"hash/fnv"
	"strings"
)

// Features maps a text to a fixed-size binary bag of hashed tokens.
// Tokenization is lowercase whitespace splitting; each token lights up one
// slot through fnv32a modulo the vector size. Collisions are accepted, the
// same trick the training side uses.
func Features(text string, size int) []float64 {
	vec := make([]float64, size)
	for _, token := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(token))
		vec[int(h.Sum32())%size] = 1.0
	}
	return vec
}
