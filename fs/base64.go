package fs

import "github.com/bdimitrov/chipsfs/store"

const base64Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// base64Decode decodes src into dst and returns the decoded length. Bytes
// outside the alphabet (whitespace, line breaks) are skipped, not rejected.
// The output length is computed up front, so nothing is written to dst when
// it wouldn't fit. Inlined payloads are how images reach builds without a
// real file source.
func base64Decode(dst []byte, src string) (int, error) {
	var dtable [256]byte
	for i := range dtable {
		dtable[i] = 0x80
	}
	for i := 0; i < len(base64Alphabet); i++ {
		dtable[base64Alphabet[i]] = byte(i)
	}
	dtable['='] = 0

	count := 0
	for i := 0; i < len(src); i++ {
		if dtable[src[i]] != 0x80 {
			count++
		}
	}
	if count == 0 || count%4 != 0 {
		return 0, store.ErrMalformedInput
	}
	olen := count / 4 * 3
	if olen > len(dst) {
		return 0, store.ErrBufferOverflow
	}

	var block [4]byte
	n, pad, size := 0, 0, 0
	for i := 0; i < len(src); i++ {
		tmp := dtable[src[i]]
		if tmp == 0x80 {
			continue
		}
		if src[i] == '=' {
			pad++
		}
		block[n] = tmp
		n++
		if n == 4 {
			n = 0
			dst[size] = block[0]<<2 | block[1]>>4
			dst[size+1] = block[1]<<4 | block[2]>>2
			dst[size+2] = block[2]<<6 | block[3]
			size += 3
			if pad > 0 {
				if pad > 2 {
					return 0, store.ErrMalformedInput
				}
				// the pad count truncates the final group
				size -= pad
				break
			}
		}
	}
	return size, nil
}
