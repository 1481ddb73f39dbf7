package slicer

import (
	"bytes"
	"io"
	"os"
)

// ReverseScanner yields the lines of a file from the bottom up, reading the
// file in fixed-size chunks from the end. Slicers append their settings block
// as a gcode footer, so the block is reachable without reading the whole file.
type ReverseScanner struct {
	file      *os.File
	bufSize   int64
	fileSize  int64
	remaining int64
	offset    int64
	pending   [][]byte
	segment   []byte
	haveSeg   bool
	line      string
	err       error
}

// NewReverseScanner creates a scanner over an open file. bufSize is the chunk
// size in bytes; anything below 256 is raised to 256.
func NewReverseScanner(file *os.File, bufSize int) (*ReverseScanner, error) {
	if bufSize < 256 {
		bufSize = 256
	}

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}

	return &ReverseScanner{
		file:      file,
		bufSize:   int64(bufSize),
		fileSize:  info.Size(),
		remaining: info.Size(),
	}, nil
}

// Scan advances to the previous line in the file. It returns false when the
// top of the file has been passed or an error occurred.
func (s *ReverseScanner) Scan() bool {
	for {
		if len(s.pending) > 0 {
			s.line = string(s.pending[0])
			s.pending = s.pending[1:]
			return true
		}

		if s.remaining <= 0 {
			if s.haveSeg {
				s.line = string(s.segment)
				s.haveSeg = false
				return true
			}
			return false
		}

		if !s.readChunk() {
			return false
		}
	}
}

func (s *ReverseScanner) readChunk() bool {
	s.offset += s.bufSize
	if s.offset > s.fileSize {
		s.offset = s.fileSize
	}

	if _, err := s.file.Seek(s.fileSize-s.offset, io.SeekStart); err != nil {
		s.err = err
		return false
	}

	size := s.remaining
	if size > s.bufSize {
		size = s.bufSize
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(s.file, buf); err != nil {
		s.err = err
		return false
	}

	// Drop the file's trailing newline, only for the first chunk read.
	if s.remaining == s.fileSize && len(buf) > 0 && buf[len(buf)-1] == '\n' {
		buf = buf[:len(buf)-1]
	}
	s.remaining -= s.bufSize

	lines := bytes.Split(buf, []byte{'\n'})

	// The previous chunk's partial first line continues this chunk's last line.
	if s.haveSeg {
		lines[len(lines)-1] = append(append([]byte(nil), lines[len(lines)-1]...), s.segment...)
	}

	s.segment = append([]byte(nil), lines[0]...)
	s.haveSeg = true

	rest := lines[1:]
	s.pending = s.pending[:0]
	for idx := len(rest) - 1; idx >= 0; idx-- {
		s.pending = append(s.pending, rest[idx])
	}
	return true
}

// Text returns the current line without its newline.
func (s *ReverseScanner) Text() string {
	return s.line
}

// Err returns the first error encountered while scanning.
func (s *ReverseScanner) Err() error {
	return s.err
}
