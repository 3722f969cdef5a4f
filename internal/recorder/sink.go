package recorder

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"
)

const (
	FormatJSONL   = "jsonl"
	FormatParquet = "parquet"
)

// sink encodes records onto an underlying writer. Close finishes the
// encoding but does not close the writer.
type sink interface {
	Write(r Record) error
	Flush() error
	Close() error
}

func newSink(format string, w io.Writer) (sink, error) {
	switch format {
	case FormatJSONL, "":
		return newJSONLSink(w), nil
	case FormatParquet:
		return &parquetSink{writer: parquet.NewGenericWriter[Record](w)}, nil
	}
	return nil, fmt.Errorf("unsupported format: %s", format)
}

type jsonlSink struct {
	buf *bufio.Writer
	enc *json.Encoder
}

func newJSONLSink(w io.Writer) *jsonlSink {
	buf := bufio.NewWriter(w)
	return &jsonlSink{buf: buf, enc: json.NewEncoder(buf)}
}

func (s *jsonlSink) Write(r Record) error {
	return s.enc.Encode(r)
}

func (s *jsonlSink) Flush() error {
	return s.buf.Flush()
}

func (s *jsonlSink) Close() error {
	return s.buf.Flush()
}

type parquetSink struct {
	writer *parquet.GenericWriter[Record]
}

func (s *parquetSink) Write(r Record) error {
	_, err := s.writer.Write([]Record{r})
	return err
}

// Flush ends the current row group.
func (s *parquetSink) Flush() error {
	return s.writer.Flush()
}

func (s *parquetSink) Close() error {
	return s.writer.Close()
}
