package aarray

import "bytes"

// KeysMatch reports whether a and b are the same key: equal length and equal
// bytes. Keys are never treated as NUL-terminated.
func KeysMatch(a, b []byte) bool {
	return len(a) == len(b) && bytes.Equal(a, b)
}

const hexDigits = "0123456789abcdef"

// PrintableKey renders key for diagnostics.
//
// If every byte is printable ASCII the key is rendered literally as
// "char key:[...]", otherwise each byte becomes two hex digits in
// "hex key:[0x...]". The result never exceeds maxLen bytes: body bytes that
// don't fit are dropped and the closing bracket is kept when room allows.
// maxLen <= 0 yields "".
func PrintableKey(key []byte, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}

	printable := true

	for _, b := range key {
		if b < 0x20 || b > 0x7e {
			printable = false

			break
		}
	}

	var out []byte

	if printable {
		out = make([]byte, 0, min(maxLen, len("char key:[]")+len(key)))
		out = append(out, "char key:["...)

		for _, b := range key {
			if len(out)+2 > maxLen {
				break
			}

			out = append(out, b)
		}
	} else {
		out = make([]byte, 0, min(maxLen, len("hex key:[0x]")+2*len(key)))
		out = append(out, "hex key:[0x"...)

		for _, b := range key {
			if len(out)+3 > maxLen {
				break
			}

			out = append(out, hexDigits[b>>4], hexDigits[b&0x0f])
		}
	}

	if len(out) < maxLen {
		out = append(out, ']')
	}

	if len(out) > maxLen {
		out = out[:maxLen]
	}

	return string(out)
}
