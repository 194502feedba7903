package reportgen

import "time"

// Result is the outcome of one generation attempt. Callers check OK first;
// Err carries the typed failure when OK is false.
type Result struct {
	OK      bool
	PDF     []byte        // document bytes, nil on failure or file output
	Path    string        // output path for GenerateToFile
	Pages   int           // best-effort page count, 0 when unknown
	Elapsed time.Duration // wall time spent generating
	Err     error         // *GenerateError when OK is false
	Message string        // human-readable summary
}

func failure(op string, kind ErrorKind, err error, elapsed time.Duration) Result {
	gerr := newGenerateError(op, kind, err)
	return Result{
		Err:     gerr,
		Elapsed: elapsed,
		Message: gerr.Error(),
	}
}
