package entrycodec

import (
	"encoding/binary"
	"fmt"

	"github.com/Norgate-AV/clcache/internal/digest"
)

// writer accumulates the little-endian, length-prefixed wire format used
// by the cache entry codec.
type writer struct {
	buf []byte
}

func (w *writer) putInt32(v int32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	w.buf = append(w.buf, b[:]...)
}

func (w *writer) putString(s string) {
	w.putInt32(int32(len(s)))
	w.buf = append(w.buf, s...)
}

func (w *writer) putHash(h digest.Hash) {
	w.buf = append(w.buf, h[:]...)
}

func (w *writer) putStringVector(v []string) {
	w.putInt32(int32(len(v)))
	for _, s := range v {
		w.putString(s)
	}
}

func (w *writer) putDependencyMap(m DependencyRecord) {
	w.putInt32(int32(len(m)))
	for k, v := range m {
		w.putString(k)
		w.putHash(v)
	}
}

// reader consumes the wire format sequentially, tracking position and the
// first error encountered so callers can chain calls.
type reader struct {
	data []byte
	pos  int
	err  error
}

func newReader(data []byte) *reader {
	return &reader{data: data}
}

func (r *reader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *reader) getInt32() int32 {
	if r.err != nil {
		return 0
	}
	if r.pos+4 > len(r.data) {
		r.fail(fmt.Errorf("entrycodec: premature end of data reading int32"))
		return 0
	}
	v := int32(binary.LittleEndian.Uint32(r.data[r.pos:]))
	r.pos += 4
	return v
}

func (r *reader) getString() string {
	if r.err != nil {
		return ""
	}
	n := int(r.getInt32())
	if r.err != nil {
		return ""
	}
	if n < 0 || r.pos+n > len(r.data) {
		r.fail(fmt.Errorf("entrycodec: premature end of data reading string"))
		return ""
	}
	s := string(r.data[r.pos : r.pos+n])
	r.pos += n
	return s
}

func (r *reader) getHash() digest.Hash {
	var h digest.Hash
	if r.err != nil {
		return h
	}
	if r.pos+digest.Size > len(r.data) {
		r.fail(fmt.Errorf("entrycodec: premature end of data reading hash"))
		return h
	}
	copy(h[:], r.data[r.pos:r.pos+digest.Size])
	r.pos += digest.Size
	return h
}

func (r *reader) getStringVector() []string {
	n := int(r.getInt32())
	if r.err != nil || n == 0 {
		return nil
	}
	out := make([]string, n)
	for i := range out {
		out[i] = r.getString()
	}
	return out
}

// getStringMapAsVector reads the v2 string->string map (insertion order is
// whatever the stream wrote) and returns its keys as a vector, matching
// the v3 file_ids representation.
func (r *reader) getStringMapAsVector() []string {
	n := int(r.getInt32())
	if r.err != nil || n == 0 {
		return nil
	}
	out := make([]string, n)
	for i := range out {
		out[i] = r.getString()
		r.getString() // discard the v2 value; only keys survive as file_ids.
	}
	return out
}

func (r *reader) getDependencyMap() DependencyRecord {
	n := int(r.getInt32())
	if r.err != nil {
		return nil
	}
	m := make(DependencyRecord, n)
	for i := 0; i < n; i++ {
		k := r.getString()
		v := r.getHash()
		if r.err != nil {
			return nil
		}
		m[k] = v
	}
	return m
}
