package queue

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
)

// Header is the fixed 8-byte ASCII command or status code that begins
// every message on the queue-server socket.
type Header [8]byte

func newHeader(s string) Header {
	var h Header
	copy(h[:], s)
	for i := len(s); i < len(h); i++ {
		h[i] = ' '
	}
	return h
}

func (h Header) String() string { return string(h[:]) }

var (
	HeadNewTask   = newHeader("NEW TASK")
	HeadJobStatus = newHeader("JOB STAT")
	HeadJobResult = newHeader("JOB RES ")
	HeadPing      = newHeader("PING    ")

	StatusOK    = newHeader("OK      ")
	StatusError = newHeader("ERROR   ")
)

var requestHeaders = map[Header]struct{}{
	HeadNewTask:   {},
	HeadJobStatus: {},
	HeadJobResult: {},
	HeadPing:      {},
}

// Valid reports whether h is one of the recognized request headers
// (NEW TASK, JOB STAT, JOB RES , PING    ). A client sending any other
// 8-byte header gets an ERROR    reply rather than a panic or hang.
func (h Header) Valid() bool {
	_, ok := requestHeaders[h]
	return ok
}

// WriteFrame writes header, followed by an 8-byte big-endian content
// length and the JSON encoding of payload, unless payload is nil, in
// which case no length or body is written (used for PING and for
// ERROR    replies).
func WriteFrame(w io.Writer, header Header, payload interface{}) error {
	if payload == nil {
		_, err := w.Write(header[:])
		return err
	}
	content, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}
	buf := make([]byte, 8+8+len(content))
	copy(buf, header[:])
	binary.BigEndian.PutUint64(buf[8:16], uint64(len(content)))
	copy(buf[16:], content)
	_, err = w.Write(buf)
	return err
}

// ReadHeader reads the fixed 8-byte header that begins every message.
func ReadHeader(r io.Reader) (Header, error) {
	var h Header
	_, err := io.ReadFull(r, h[:])
	return h, err
}

// ReadLength reads the 8-byte big-endian content length that follows a
// request header.
func ReadLength(r io.Reader) (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b[:]), nil
}

// ReadJSON reads exactly length bytes and decodes them as JSON into v.
// A short read is an io error. An empty payload is treated like JSON
// null rather than an empty object, matching the original
// implementation: nothing is decoded and v is left unchanged, so
// downstream handlers see their zero-valued request.
func ReadJSON(r io.Reader, length uint64, v interface{}) error {
	if length == 0 {
		return nil
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return fmt.Errorf("short read: %w", err)
	}
	return json.Unmarshal(buf, v)
}
