package driver

import (
	"crypto/sha256"
	"encoding/binary"

	"cminus/internal/source"
)

// Digest - 256-битный ключ записи в дисковом кэше.
type Digest [32]byte

// cacheKey: H(schema || content hash || stage || max diagnostics).
// Options that change the output must be part of the key.
func cacheKey(file *source.File, stage DiagnoseStage, maxDiagnostics int) Digest {
	h := sha256.New()
	var buf [8]byte
	binary.LittleEndian.PutUint16(buf[:2], diskCacheSchemaVersion)
	_, _ = h.Write(buf[:2])
	_, _ = h.Write(file.Hash[:])
	_, _ = h.Write([]byte(stage))
	binary.LittleEndian.PutUint64(buf[:], uint64(int64(maxDiagnostics))) // #nosec G115 -- bit pattern only
	_, _ = h.Write(buf[:])
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// IsZero reports whether d was never computed.
func (d Digest) IsZero() bool { return d == Digest{} }
