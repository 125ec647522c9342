package agui

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"iter"

	"github.com/spetersoncode/uistream/event"
)

// MaxLineBytes bounds a single line of an event stream.
const MaxLineBytes = 1 << 20

// ReadEvents decodes an event stream body. Both Server-Sent Events framing
// (data: lines separated by blank lines) and JSON lines are accepted, and may
// be mixed. A line that fails to decode yields an error and reading
// continues; stop ranging to abort. A read failure ends the sequence.
func ReadEvents(r io.Reader) iter.Seq2[event.Raw, error] {
	return func(yield func(event.Raw, error) bool) {
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), MaxLineBytes)

		var data [][]byte
		line, start := 0, 0
		flush := func() bool {
			if len(data) == 0 {
				return true
			}
			payload := bytes.Join(data, []byte("\n"))
			data = data[:0]
			raw, err := event.Decode(payload)
			if err != nil {
				return yield(event.Raw{}, fmt.Errorf("agui: line %d: %w", start, err))
			}
			return yield(raw, nil)
		}

		for sc.Scan() {
			line++
			b := bytes.TrimRight(sc.Bytes(), "\r")
			switch {
			case len(bytes.TrimSpace(b)) == 0:
				if !flush() {
					return
				}
			case b[0] == ':':
				// SSE comment, often a keep-alive.
			case bytes.HasPrefix(b, []byte("data:")):
				v := bytes.TrimPrefix(b, []byte("data:"))
				v = bytes.TrimPrefix(v, []byte(" "))
				if len(data) == 0 {
					start = line
				}
				data = append(data, bytes.Clone(v))
			case bytes.HasPrefix(b, []byte("event:")),
				bytes.HasPrefix(b, []byte("id:")),
				bytes.HasPrefix(b, []byte("retry:")):
				// The event type is carried in the payload.
			default:
				if !flush() {
					return
				}
				start = line
				data = append(data, bytes.Clone(b))
				if !flush() {
					return
				}
			}
		}
		if err := sc.Err(); err != nil {
			yield(event.Raw{}, fmt.Errorf("agui: read events: %w", err))
			return
		}
		flush()
	}
}
