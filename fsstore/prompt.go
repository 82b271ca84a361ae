package fsstore

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	qrkit "github.com/ericlevine/qrkit"
)

// Fixed answers prompts without asking. An empty field cancels the prompt.
type Fixed struct {
	// SavePath answers save-location prompts. When it names an existing
	// directory, the suggested file name is placed inside it.
	SavePath string

	// Dir answers directory prompts.
	Dir string
}

var _ Prompter = Fixed{}

func (p Fixed) SaveLocation(ctx context.Context, defaultName string, filters []qrkit.FileFilter) (string, error) {
	if p.SavePath == "" {
		return "", qrkit.ErrCanceled
	}
	if fi, err := os.Stat(p.SavePath); err == nil && fi.IsDir() {
		return filepath.Join(p.SavePath, defaultName), nil
	}
	return p.SavePath, nil
}

func (p Fixed) Directory(ctx context.Context) (string, error) {
	if p.Dir == "" {
		return "", qrkit.ErrCanceled
	}
	return p.Dir, nil
}

// Terminal prompts on a line-oriented terminal. An empty answer accepts the
// default, while "-" or end of input cancels.
type Terminal struct {
	Out        io.Writer
	DefaultDir string

	mu sync.Mutex
	in *bufio.Reader
}

var _ Prompter = (*Terminal)(nil)

// NewTerminal creates a Terminal prompter reading answers from in.
func NewTerminal(in io.Reader, out io.Writer, defaultDir string) *Terminal {
	return &Terminal{Out: out, DefaultDir: defaultDir, in: bufio.NewReader(in)}
}

func (p *Terminal) SaveLocation(ctx context.Context, defaultName string, filters []qrkit.FileFilter) (string, error) {
	def := filepath.Join(p.DefaultDir, defaultName)
	var exts []string
	for _, f := range filters {
		exts = append(exts, strings.Join(f.Extensions, ","))
	}
	answer, err := p.ask(ctx, fmt.Sprintf("Save as (%s) [%s]: ", strings.Join(exts, " | "), def))
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return expandHome(answer), nil
}

func (p *Terminal) Directory(ctx context.Context) (string, error) {
	answer, err := p.ask(ctx, fmt.Sprintf("Export into directory [%s]: ", p.DefaultDir))
	if err != nil {
		return "", err
	}
	if answer == "" {
		if p.DefaultDir == "" {
			return "", qrkit.ErrCanceled
		}
		return p.DefaultDir, nil
	}
	return expandHome(answer), nil
}

// ask prints question and reads one line. Reading is not interruptible, so a
// canceled ctx is only observed before the prompt is shown.
func (p *Terminal) ask(ctx context.Context, question string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprint(p.Out, question)
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			fmt.Fprintln(p.Out)
			return "", qrkit.ErrCanceled
		}
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "-" {
		return "", qrkit.ErrCanceled
	}
	return line, nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
