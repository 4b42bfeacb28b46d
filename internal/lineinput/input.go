package lineinput

import (
	"bufio"
	"fmt"
	"io"
)

// Location names a line in an Input stream.
type Location struct {
	Name string
	Line int
}

// Line is one line of text read from an Input, along with where it came from.
type Line struct {
	Location
	Text string
}

func (loc Location) String() string { return fmt.Sprintf("%v:%v", loc.Name, loc.Line) }
func (il Line) String() string      { return fmt.Sprintf("%v %q", il.Location, il.Text) }

// DefaultMaxLineSize bounds the length of a line when Input.MaxLineSize is 0.
const DefaultMaxLineSize = 16 << 20

// Input implements sequential line reading through a Queue of one or more
// input streams. Streams that implement io.Closer are closed once drained.
type Input struct {
	Queue []io.Reader

	// MaxLineSize bounds line length; a longer line fails the stream it is
	// in, and reading carries on with the next queued stream.
	MaxLineSize int

	sc   *bufio.Scanner
	cur  io.Reader
	Last Line
}

// ReadLine returns the next line from the current input stream, moving on to
// the next queued stream as each is exhausted. Returns io.EOF once every
// stream has been drained. A read error abandons only the current stream;
// calling ReadLine again continues with the next one.
func (in *Input) ReadLine() (Line, error) {
	for {
		if in.sc == nil && !in.nextIn() {
			return Line{}, io.EOF
		}
		if in.sc.Scan() {
			in.Last.Line++
			in.Last.Text = in.sc.Text()
			return in.Last, nil
		}
		err := in.sc.Err()
		in.closeCur()
		if err != nil {
			at := in.Last.Location
			at.Line++
			return Line{}, fmt.Errorf("%v: %w", at, err)
		}
	}
}

func (in *Input) nextIn() bool {
	if len(in.Queue) == 0 {
		return false
	}
	in.cur = in.Queue[0]
	in.Queue = in.Queue[1:]
	in.sc = bufio.NewScanner(in.cur)
	limit := in.MaxLineSize
	if limit <= 0 {
		limit = DefaultMaxLineSize
	}
	size := 4096
	if size > limit {
		size = limit
	}
	in.sc.Buffer(make([]byte, 0, size), limit)
	in.Last = Line{Location: Location{Name: nameOf(in.cur)}}
	return true
}

func (in *Input) closeCur() {
	if cl, ok := in.cur.(io.Closer); ok {
		cl.Close()
	}
	in.cur = nil
	in.sc = nil
}

func nameOf(obj interface{}) string {
	if nom, ok := obj.(interface{ Name() string }); ok {
		return nom.Name()
	}
	return fmt.Sprintf("<unnamed %T>", obj)
}

// Named wraps r so that Input reports name in its locations. The wrapper
// hides any Close method, so Input leaves r open once drained.
func Named(name string, r io.Reader) io.Reader {
	return namedReader{r, name}
}

type namedReader struct {
	io.Reader
	name string
}

func (nr namedReader) Name() string { return nr.name }
