package store

import "github.com/minio/highwayhash"

// The key is fixed: checksums guard snapshot blobs against corruption, not
// tampering.
var checksumKey = []byte("chipsfs.snapshot.checksum.key.v1")

// Checksum returns the 64-bit content hash stored next to snapshot blobs in
// the host store and verified on every get.
func Checksum(data []byte) uint64 {
	return highwayhash.Sum64(data, checksumKey)
}
