package terminal

import (
	"os"
	"testing"
)

func TestIsInteractiveFalseWhenStdinIsPipe(t *testing.T) {
	reader, writer, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	t.Cleanup(func() {
		_ = reader.Close()
		_ = writer.Close()
	})

	original := os.Stdin
	os.Stdin = reader
	t.Cleanup(func() { os.Stdin = original })

	if IsInteractive() {
		t.Fatal("expected a pipe stdin to be reported as non-interactive")
	}
}
