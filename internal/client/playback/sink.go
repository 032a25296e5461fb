package playback

import "io"

// WriterSink streams the plaintext into an io.Writer, typically a pipe into a
// local media player. Writing to durable storage would put plaintext at rest
// next to the encrypted cache, so file targets should be short-lived.
type WriterSink struct {
	W io.Writer
}

// Play copies the plaintext stream into the writer.
func (s WriterSink) Play(r io.Reader) error {
	_, err := io.Copy(s.W, r)
	return err
}
