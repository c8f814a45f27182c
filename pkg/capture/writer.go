package capture

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/aretw0/iqcapture/pkg/domain"
)

// FileName builds the output file name for a capture:
// {Personality}_{Signal}_IQ_{Rate}.txt, with the rate in plain decimal hertz.
func FileName(personality domain.Personality, signal string, rate float64) string {
	return fmt.Sprintf("%s_%s_IQ_%s.txt", personality, signal, strconv.FormatFloat(rate, 'f', -1, 64))
}

// OutputPath joins dir and name and makes the result absolute.
// An empty dir means the current working directory.
func OutputPath(dir, name string) (string, error) {
	path := name
	if dir != "" {
		path = filepath.Join(dir, name)
	}
	return filepath.Abs(path)
}

// WriteIQ serializes data as one number per line: the real part then the imaginary
// part of each sample, samples in order within a record, records in order.
// It returns the number of lines written.
func WriteIQ(w io.Writer, data domain.IQRecords) (int, error) {
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 32)
	lines := 0
	for _, record := range data {
		for _, sample := range record {
			for _, v := range [2]float64{real(sample), imag(sample)} {
				buf = strconv.AppendFloat(buf[:0], v, 'g', -1, 64)
				buf = append(buf, '\n')
				if _, err := bw.Write(buf); err != nil {
					return lines, err
				}
				lines++
			}
		}
	}
	return lines, bw.Flush()
}

// WriteFile creates (or truncates) path and writes data to it with WriteIQ.
// The parent directory must exist.
func WriteFile(path string, data domain.IQRecords) (lines int, err error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrIO, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w", domain.ErrIO, cerr)
		}
	}()

	lines, err = WriteIQ(f, data)
	if err != nil {
		return lines, fmt.Errorf("%w: writing %s: %w", domain.ErrIO, path, err)
	}
	return lines, nil
}
