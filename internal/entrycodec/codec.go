package entrycodec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// WriterFormatVersion is the format version this codec writes. Readers
// additionally accept older, backwards-compatible versions.
const WriterFormatVersion int32 = 4

// Encode serializes e using the current writer format version.
func Encode(e Entry) ([]byte, error) {
	stdOut, stdErr := e.StdOut, e.StdErr
	if e.Compression == CompressionAll {
		var err error
		stdOut, err = compress(stdOut)
		if err != nil {
			return nil, fmt.Errorf("entrycodec: compressing stdout: %w", err)
		}
		stdErr, err = compress(stdErr)
		if err != nil {
			return nil, fmt.Errorf("entrycodec: compressing stderr: %w", err)
		}
	}

	w := &writer{}
	w.putInt32(WriterFormatVersion)
	w.putInt32(int32(e.Compression))
	w.putStringVector(e.FileIDs)
	w.putString(stdOut)
	w.putString(stdErr)
	w.putInt32(e.ReturnCode)
	w.putDependencyMap(e.Dependencies)
	return w.buf, nil
}

// Decode deserializes data written by Encode, or by any writer using
// format version 2 or 3.
func Decode(data []byte) (Entry, error) {
	r := newReader(data)

	formatVersion := r.getInt32()
	if r.err != nil {
		return Entry{}, r.err
	}
	if formatVersion > WriterFormatVersion {
		return Entry{}, fmt.Errorf("entrycodec: unsupported format version %d (max %d)", formatVersion, WriterFormatVersion)
	}

	var e Entry
	if formatVersion >= 2 {
		e.Compression = CompressionMode(r.getInt32())
	}

	if formatVersion >= 3 {
		e.FileIDs = r.getStringVector()
	} else {
		e.FileIDs = r.getStringMapAsVector()
	}

	stdOut := r.getString()
	stdErr := r.getString()
	e.ReturnCode = r.getInt32()

	if formatVersion >= 4 {
		e.Dependencies = r.getDependencyMap()
	}
	if r.err != nil {
		return Entry{}, r.err
	}

	if e.Compression == CompressionAll {
		var err error
		stdOut, err = decompress(stdOut)
		if err != nil {
			return Entry{}, fmt.Errorf("entrycodec: decompressing stdout: %w", err)
		}
		stdErr, err = decompress(stdErr)
		if err != nil {
			return Entry{}, fmt.Errorf("entrycodec: decompressing stderr: %w", err)
		}
	}
	e.StdOut, e.StdErr = stdOut, stdErr

	return e, nil
}

func compress(s string) (string, error) {
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		return "", err
	}
	if _, err := enc.Write([]byte(s)); err != nil {
		enc.Close()
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func decompress(s string) (string, error) {
	dec, err := zstd.NewReader(bytes.NewReader([]byte(s)))
	if err != nil {
		return "", err
	}
	defer dec.Close()
	out, err := io.ReadAll(dec)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
