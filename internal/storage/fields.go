package storage

import (
	"bufio"
	"io"
	"os"
	"strconv"
)

// FieldDump writes the latest solved field to a text file: Ex on the first
// line, Ey on the second, values separated by single spaces. Every call
// truncates the file.
type FieldDump struct {
	Path string
}

func NewFieldDump(path string) *FieldDump {
	return &FieldDump{Path: path}
}

// Write has the signature of spectral.FieldHook.
func (d *FieldDump) Write(ex, ey []float64) error {
	file, err := os.Create(d.Path)
	if err != nil {
		return err
	}
	if err := WriteField(file, ex, ey); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// WriteField writes ex then ey, one component per line.
func WriteField(w io.Writer, ex, ey []float64) error {
	bw := bufio.NewWriter(w)
	writeLine(bw, ex)
	writeLine(bw, ey)
	return bw.Flush()
}

func writeLine(w *bufio.Writer, vals []float64) {
	for i, v := range vals {
		if i > 0 {
			w.WriteByte(' ')
		}
		w.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	w.WriteByte('\n')
}
