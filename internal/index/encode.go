package index

import (
	"encoding/binary"
	"errors"
)

// key = invTime(8) + invSeq(8); a forward cursor walks newest first
func makeTimeSeqKey(unixNano int64, seq uint64) []byte {
	buf := make([]byte, 16)
	binary.BigEndian.PutUint64(buf[:8], ^uint64(unixNano))
	binary.BigEndian.PutUint64(buf[8:], ^seq)
	return buf
}

func timeFromKey(k []byte) (int64, bool) {
	if len(k) != 16 {
		return 0, false
	}
	return int64(^binary.BigEndian.Uint64(k[:8])), true
}

func encodeIndex(i int) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(i))
	return buf
}

func decodeIndex(v []byte) (int, error) {
	if len(v) != 8 {
		return 0, errors.New("index: corrupt cursor value")
	}
	return int(binary.BigEndian.Uint64(v)), nil
}
