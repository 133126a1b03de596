package driver

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/ochronus/gocomppare/internal/services/comppare"
)

// printer writes human readable, colourised output. fatih/color turns the
// colours off by itself when stdout is not a terminal.
type printer struct {
	out     io.Writer
	ok      *color.Color
	fail    *color.Color
	heading *color.Color
}

func newPrinter(out io.Writer) *printer {
	return &printer{
		out:     out,
		ok:      color.New(color.FgGreen),
		fail:    color.New(color.FgRed),
		heading: color.New(color.FgCyan, color.Bold),
	}
}

func (p *printer) headingf(format string, args ...any) {
	p.heading.Fprintf(p.out, format+"\n", args...)
}

func (p *printer) successf(format string, args ...any) {
	p.ok.Fprintf(p.out, "OK: "+format+"\n", args...)
}

func (p *printer) errorf(format string, args ...any) {
	p.fail.Fprintf(p.out, "Error: "+format+"\n", args...)
}

func (p *printer) linef(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

func tokenPreview(token string) string {
	const n = 20
	if len(token) <= n {
		return token
	}
	return token[:n] + "..."
}

func (p *printer) folders(folders []comppare.Folder, depth int) {
	for _, f := range folders {
		prefix := "- "
		if depth > 0 {
			prefix = strings.Repeat("  ", depth) + "└── "
		}
		p.linef("%s%s (ID: %d)", prefix, f.Name, f.ID)
		p.folders(f.Subfolders, depth+1)
	}
}

func (p *printer) plans(plans []comppare.Plan) {
	for _, plan := range plans {
		if n, ok := plan.Folders(); ok {
			p.linef("- %s: R$ %s (%d folders)", plan.Name, plan.Price.StringFixed(2), n)
			continue
		}
		p.linef("- %s: R$ %s", plan.Name, plan.Price.StringFixed(2))
	}
}

func (p *printer) user(u comppare.UserProfile) {
	p.linef("Name: %s", u.FullName())
	p.linef("Email: %s", u.Email)
	if u.CPF != "" {
		p.linef("CPF: %s", u.CPF)
	}
}
