package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
)

// ImportProgress reports statement import progress, one step per file.
type ImportProgress struct {
	bar    *progressbar.ProgressBar
	writer io.Writer
}

// NewImportProgress creates a progress bar over total files.
func NewImportProgress(writer io.Writer, total int) *ImportProgress {
	if writer == nil {
		writer = os.Stdout
	}

	p := &ImportProgress{writer: writer}
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Importing statements...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(writer); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
	return p
}

// Describe sets the text shown next to the bar, typically the file name.
func (p *ImportProgress) Describe(file string) {
	p.bar.Describe(fmt.Sprintf("[cyan][bold]Importing[reset] %s", file))
}

// Step advances the bar by one file.
func (p *ImportProgress) Step() {
	if err := p.bar.Add(1); err != nil {
		slog.Warn("Failed to update progress bar", "error", err)
	}
}

// Finish completes the bar.
func (p *ImportProgress) Finish() {
	if err := p.bar.Finish(); err != nil {
		slog.Warn("Failed to finish progress bar", "error", err)
	}
}
