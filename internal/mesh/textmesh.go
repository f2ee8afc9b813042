package mesh

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// decodePlainText parses the line-oriented vertex/face record format:
//
//	vertex <x> <y> <z>
//	face <a> <b> <c> [<d>]
//
// Face references are 1-based and may carry slash-separated texture/normal
// attributes; only the leading position index is consulted. Four-reference
// faces are split with the fan (v0,v1,v2) (v0,v2,v3). Blank lines and
// unknown directives are skipped.
func decodePlainText(data []byte) (*Mesh, error) {
	var sourcePositions [][3]float32
	var triangles [][3]int // triples of source vertex indices, 0-based

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "vertex":
			if len(fields) != 4 {
				return nil, fmt.Errorf("%w: line %d: vertex needs 3 coordinates", ErrMalformedAsset, lineNo)
			}
			var p [3]float32
			for i := 0; i < 3; i++ {
				v, err := strconv.ParseFloat(fields[i+1], 32)
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: bad coordinate %q", ErrMalformedAsset, lineNo, fields[i+1])
				}
				p[i] = float32(v)
			}
			sourcePositions = append(sourcePositions, p)

		case "face":
			refs := fields[1:]
			if len(refs) != 3 && len(refs) != 4 {
				return nil, fmt.Errorf("%w: line %d: face has %d references", ErrMalformedAsset, lineNo, len(refs))
			}

			idx := make([]int, len(refs))
			for i, ref := range refs {
				// Attributes after the first slash are recognized but dropped.
				if slash := strings.IndexByte(ref, '/'); slash >= 0 {
					ref = ref[:slash]
				}
				n, err := strconv.Atoi(ref)
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: bad vertex reference %q", ErrMalformedAsset, lineNo, refs[i])
				}
				n-- // 1-based to 0-based
				if n < 0 || n >= len(sourcePositions) {
					return nil, fmt.Errorf("%w: line %d: vertex reference %d out of range", ErrMalformedAsset, lineNo, n+1)
				}
				idx[i] = n
			}

			triangles = append(triangles, [3]int{idx[0], idx[1], idx[2]})
			if len(idx) == 4 {
				triangles = append(triangles, [3]int{idx[0], idx[2], idx[3]})
			}

		default:
			// Unknown directive, skip.
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedAsset, err)
	}

	if len(triangles) == 0 {
		return nil, fmt.Errorf("%w: no triangles", ErrMalformedAsset)
	}

	// Repack positions in first-use-in-triangle order so every index points
	// into a freshly ordered buffer. Corners sharing a source vertex get
	// duplicated positions; the denormalized layout keeps later per-face
	// normal derivation trivial.
	positions := make([][3]float32, 0, len(triangles)*3)
	indices := make([]uint32, 0, len(triangles)*3)
	for _, tri := range triangles {
		for _, src := range tri {
			indices = append(indices, uint32(len(positions)))
			positions = append(positions, sourcePositions[src])
		}
	}

	return &Mesh{Positions: positions, Indices: indices}, nil
}
