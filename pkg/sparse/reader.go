package sparse

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ReadFile decodes a LIBSVM-style text file into a Batch.
//
// Each line is "<label> <idx>:<val> <idx>:<val> ...". The label token is
// discarded. skip lines are skipped before numLines are read, mirroring
// original_source/src/reader.rs's read_file(filename, num_lines, avg_dim,
// skip) signature — skip lets a driver carve disjoint training/query
// windows out of one file (see cmd/flash).
func ReadFile(path string, numLines, avgDim, skip int) (*Batch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sparse: open %s: %w", path, err)
	}
	defer f.Close()

	markers := make([]int, 1, numLines+1)
	indices := make([]uint32, 0, numLines*avgDim)
	values := make([]float32, 0, numLines*avgDim)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	lineNo := 0
	read := 0
	for scanner.Scan() {
		lineNo++
		if lineNo <= skip {
			continue
		}
		if read >= numLines {
			break
		}
		read++

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			markers = append(markers, len(indices))
			continue
		}

		fields := strings.Fields(line)
		for _, tok := range fields[1:] { // fields[0] is the discarded label
			idx, val, err := parsePair(tok)
			if err != nil {
				return nil, fmt.Errorf("sparse: %s:%d: %w", path, lineNo, err)
			}
			indices = append(indices, idx)
			values = append(values, val)
		}
		markers = append(markers, len(indices))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("sparse: read %s: %w", path, err)
	}

	batch := &Batch{Markers: markers, Indices: indices, Values: values}
	return batch, batch.Validate()
}

func parsePair(tok string) (idx uint32, val float32, err error) {
	i := strings.IndexByte(tok, ':')
	if i < 0 {
		return 0, 0, fmt.Errorf("malformed feature token %q", tok)
	}
	u, err := strconv.ParseUint(tok[:i], 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid feature index %q: %w", tok[:i], err)
	}
	v, err := strconv.ParseFloat(tok[i+1:], 32)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid feature value %q: %w", tok[i+1:], err)
	}
	return uint32(u), float32(v), nil
}
