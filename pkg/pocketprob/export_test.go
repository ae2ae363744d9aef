package pocketprob

import "io"

// SetStderr sends warnings and errors to w until restore is called.
func SetStderr(w io.Writer) (restore func()) {
	old := stderr
	stderr = w
	return func() { stderr = old }
}
