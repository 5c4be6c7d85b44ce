package parser

import "bytes"

// Format applies the deterministic cleanup pass run after serialization:
// trailing whitespace is stripped from each line and the file ends with a
// single newline. Formatting is best-effort and never a correctness gate;
// on any doubt the input is returned unchanged.
func Format(source []byte) []byte {
	if len(source) == 0 {
		return source
	}

	lines := bytes.Split(source, []byte("\n"))
	for i, line := range lines {
		lines[i] = bytes.TrimRight(line, " \t")
	}

	out := bytes.Join(lines, []byte("\n"))
	out = bytes.TrimRight(out, "\n")
	out = append(out, '\n')

	// A formatting pass that breaks the parse is worse than no formatting.
	if !Validate(out) {
		return source
	}
	return out
}
