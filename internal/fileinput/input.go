package fileinput

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Location names a line in an Input file.
type Location struct {
	Name string
	Line int
}

// Line combines a Location along with a bytes.Buffer for handling it.
type Line struct {
	Location
	bytes.Buffer
}

func (loc Location) String() string { return fmt.Sprintf("%v:%v", loc.Name, loc.Line) }
func (il Line) String() string      { return fmt.Sprintf("%v %q", il.Location, il.Buffer.String()) }

// Decode wraps r to strip any UTF-8 byte order mark, or to decode UTF-16
// content introduced by a UTF-16 byte order mark; other content passes
// through as UTF-8. It may hold back up to 3 bytes until more input or EOF
// arrives, so it suits whole stream reads.
func Decode(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}

// Input implements sequential rune reading through a Queue of one or more
// input streams. Both the current and last scanned lines are tracked to
// facilitate user feedback.
type Input struct {
	cur   io.Reader
	rr    io.RuneReader
	Queue []io.Reader
	Last  Line
	Scan  Line
}

// ReadRune reads one rune from the current input stream, appending it into the
// current Scan line, and rolling Scan over to Last after line feed.
// A stream that ends without a final line feed reads as if it had one.
func (in *Input) ReadRune() (rune, int, error) {
	for {
		if in.rr == nil && !in.nextIn() {
			return 0, 0, io.EOF
		}

		r, n, err := in.rr.ReadRune()
		if err == io.EOF {
			partial := in.Scan.Len() > 0
			in.closeIn()
			if partial {
				return '\n', 0, nil
			}
			continue
		} else if err != nil {
			return 0, 0, err
		}

		if r == '\n' {
			in.nextLine()
		} else {
			in.Scan.WriteRune(r)
		}
		return r, n, nil
	}
}

// ReadLine reads runes through the next line feed, returning the line content
// without its line feed, and where it came from.
// Returns io.EOF once every queued stream is exhausted.
func (in *Input) ReadLine() (string, Location, error) {
	for {
		r, _, err := in.ReadRune()
		if err != nil {
			return "", in.Last.Location, err
		}
		if r == '\n' {
			return in.Last.Buffer.String(), in.Last.Location, nil
		}
	}
}

func (in *Input) nextLine() {
	in.Last.Reset()
	in.Last.Name = in.Scan.Name
	in.Last.Line = in.Scan.Line
	in.Last.Write(in.Scan.Bytes())
	in.Scan.Reset()
	in.Scan.Line++
}

func (in *Input) closeIn() {
	if in.Scan.Len() > 0 {
		in.nextLine()
	}
	if cl, ok := in.cur.(io.Closer); ok {
		cl.Close()
	}
	in.cur, in.rr = nil, nil
}

func (in *Input) nextIn() bool {
	if len(in.Queue) == 0 {
		return false
	}
	r := in.Queue[0]
	in.Queue = in.Queue[1:]
	in.cur = r
	in.rr = newRuneReader(r)
	in.Scan.Reset()
	in.Scan.Name = NameOf(r)
	in.Scan.Line = 1
	return true
}

// newRuneReader reads r as UTF-8, dropping a leading UTF-8 byte order mark or
// decoding UTF-16 after a UTF-16 one. Only the first byte is peeked before
// deciding, so a short first line on an interactive stream never waits on
// more input. A *bufio.Reader, even under NamedReader, is used directly.
func newRuneReader(r io.Reader) io.RuneReader {
	if nr, ok := r.(namedReader); ok {
		r = nr.Reader
	}
	br := bufio.NewReader(r)
	if b, err := br.Peek(1); err == nil {
		switch b[0] {
		case 0xef, 0xfe, 0xff:
			return bufio.NewReader(Decode(br))
		}
	}
	return br
}

// Close closes the current stream and any still queued.
func (in *Input) Close() (err error) {
	if cl, ok := in.cur.(io.Closer); ok {
		err = cl.Close()
	}
	in.cur, in.rr = nil, nil
	for _, r := range in.Queue {
		if cl, ok := r.(io.Closer); ok {
			if cerr := cl.Close(); err == nil {
				err = cerr
			}
		}
	}
	in.Queue = nil
	return err
}

// Source is the whole decoded text of one named program.
type Source struct {
	Name string
	Text string
}

// ReadSource reads and decodes all of r.
func ReadSource(r io.Reader) (Source, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(Decode(r)); err != nil {
		return Source{}, fmt.Errorf("reading %v: %w", NameOf(r), err)
	}
	return Source{Name: NameOf(r), Text: buf.String()}, nil
}

// LoadFile opens, reads, and decodes the named file.
func LoadFile(name string) (Source, error) {
	f, err := os.Open(name)
	if err != nil {
		return Source{}, err
	}
	defer f.Close()
	return ReadSource(f)
}

// NamedReader attaches a Name() to r, as used to label its lines.
func NamedReader(name string, r io.Reader) io.Reader {
	return namedReader{r, name}
}

type namedReader struct {
	io.Reader
	name string
}

func (nr namedReader) Name() string { return nr.name }

// NameOf returns the Name() of obj, or a placeholder naming its type.
func NameOf(obj interface{}) string {
	if nom, ok := obj.(interface{ Name() string }); ok {
		return nom.Name()
	}
	return fmt.Sprintf("<unnamed %T>", obj)
}
