package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tauraamui/pixrecord/pkg/log"
)

// printer is the recorder outlet of the console, one line per message.
type printer struct {
	mu  sync.Mutex
	out io.Writer
}

func newPrinter(out io.Writer) *printer {
	return &printer{out: out}
}

func (p *printer) Frames(n int) {
	p.Info("frames", n)
}

func (p *printer) Info(selector string, args ...interface{}) {
	var b strings.Builder
	b.WriteString(selector)
	for _, a := range args {
		fmt.Fprintf(&b, " %v", a)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, b.String())
}

type console struct {
	in        io.Reader
	out       io.Writer
	outputDir string
	prompt    bool
	submit    func(context.Context, string) error
}

// serve reads command lines until the input ends or ctx is done.
func (c console) serve(ctx context.Context) {
	scanner := bufio.NewScanner(c.in)
	for {
		if c.prompt {
			fmt.Fprint(c.out, "> ")
		}
		if !scanner.Scan() {
			return
		}
		line := c.resolve(scanner.Text())
		if err := c.submit(ctx, line); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			log.Error("%s: %v", strings.TrimSpace(line), err)
		}
	}
}

// resolve places relative file names inside the output directory.
func (c console) resolve(line string) string {
	fields := strings.Fields(line)
	if len(fields) < 2 || fields[0] != "file" || len(c.outputDir) == 0 {
		return line
	}
	name := strings.Join(fields[1:], " ")
	if filepath.IsAbs(name) {
		return line
	}
	return "file " + filepath.Join(c.outputDir, name)
}
