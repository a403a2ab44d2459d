package ioexport

import (
	"io"
	"os"

	"github.com/cheggaaa/pb/v3"
)

// WithProgress wraps a file in a reader that shows a progress bar of
// read bytes on stderr. Files of unknown size (stdin, pipes) are
// returned as is. The returned function stops the bar.
func WithProgress(f *os.File, prefix string) (io.Reader, func()) {
	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() {
		return f, func() {}
	}

	bar := pb.New64(info.Size()).SetTemplate(pb.Full)
	bar.Set(pb.Bytes, true)
	bar.Set("prefix", prefix)
	bar.Set(pb.CleanOnFinish, true)
	bar.SetWriter(os.Stderr)
	bar.Start()
	return bar.NewProxyReader(f), func() { bar.Finish() }
}
