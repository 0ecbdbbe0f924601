package article

import (
	"fmt"
	"io"
	"os"
)

func Fprint(w io.Writer, data ...any) {
	_, err := fmt.Fprint(w, data...)
	if err != nil {
		panic(err)
	}
}

func Fprintf(w io.Writer, format string, data ...any) {
	_, err := fmt.Fprintf(w, format, data...)
	if err != nil {
		panic(err)
	}
}

func Fprintln(w io.Writer, data ...any) {
	_, err := fmt.Fprintln(w, data...)
	if err != nil {
		panic(err)
	}
}

func ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
