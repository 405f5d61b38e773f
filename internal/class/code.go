package class

import "math/rand"

const (
	codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength  = 6
)

// GenerateCode produces a fresh 6-character join code, retrying until exists
// rejects it. With 36^6 possible codes a collision is vanishingly rare, so
// the loop all but always finishes on the first pass.
func GenerateCode(exists func(string) bool) string {
	for {
		code := make([]byte, codeLength)
		for i := range code {
			code[i] = codeCharset[rand.Intn(len(codeCharset))]
		}
		if !exists(string(code)) {
			return string(code)
		}
	}
}
