// internal/host/console.go
package host

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/tamzrod/rt22-antcn/internal/dispatch"
	"github.com/tamzrod/rt22-antcn/internal/result"
)

// Console is a bench host driven by text lines:
//
//	<mode> [class [records]]     issue a call
//	source <name> <ra> <dec>     set the pointing target (radians)
//	offset <az> <el>             set az/el offsets (radians)
//	class <n|0> <message...>     queue a pass-through message
//	read <n>                     print and remove the replies queued in class n
//	onsource                     print the on-source flag
//	quit                         stop
type Console struct {
	sc      *bufio.Scanner
	out     io.Writer
	state   *MemState
	classes *MemClasses

	okColor   *color.Color
	errColor  *color.Color
	infoColor *color.Color
}

func NewConsole(in io.Reader, out io.Writer, state *MemState, classes *MemClasses) *Console {
	c := &Console{
		sc:        bufio.NewScanner(in),
		out:       out,
		state:     state,
		classes:   classes,
		okColor:   color.New(color.FgHiGreen),
		errColor:  color.New(color.FgHiWhite),
		infoColor: color.New(color.FgCyan),
	}
	c.errColor.Add(color.BgRed)
	return c
}

// DisableColor forces plain output (pipes, tests).
func (c *Console) DisableColor() {
	c.okColor.DisableColor()
	c.errColor.DisableColor()
	c.infoColor.DisableColor()
}

// Wait reads lines until one of them is a call.
func (c *Console) Wait(ctx context.Context) (dispatch.Request, error) {
	for {
		if err := ctx.Err(); err != nil {
			return dispatch.Request{}, err
		}
		if !c.sc.Scan() {
			if err := c.sc.Err(); err != nil {
				return dispatch.Request{}, err
			}
			return dispatch.Request{}, io.EOF
		}

		line := strings.TrimSpace(c.sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		req, isCall, err := c.parse(line)
		if errors.Is(err, io.EOF) {
			return dispatch.Request{}, io.EOF
		}
		if err != nil {
			c.errColor.Fprintf(c.out, "! %v", err)
			fmt.Fprintln(c.out)
			continue
		}
		if isCall {
			return req, nil
		}
	}
}

func (c *Console) Deliver(rec result.Record) error {
	w := rec.Words()
	col := c.okColor
	if !rec.OK() {
		col = c.errColor
	}
	_, err := col.Fprintf(c.out, "=> %s [%d %d %d %d %d]", rec, w[0], w[1], w[2], w[3], w[4])
	fmt.Fprintln(c.out)
	return err
}

// parse handles one line; host-side commands are applied directly.
func (c *Console) parse(line string) (dispatch.Request, bool, error) {
	f := strings.Fields(line)

	switch strings.ToLower(f[0]) {
	case "quit", "exit":
		return dispatch.Request{}, false, io.EOF

	case "source":
		if len(f) != 4 {
			return dispatch.Request{}, false, fmt.Errorf("usage: source <name> <ra> <dec>")
		}
		ra, err1 := strconv.ParseFloat(f[2], 64)
		dec, err2 := strconv.ParseFloat(f[3], 64)
		if err1 != nil || err2 != nil {
			return dispatch.Request{}, false, fmt.Errorf("source: bad coordinates %q %q", f[2], f[3])
		}
		c.state.SetSource(Source{Name: f[1], RA: ra, Dec: dec})
		c.info("source %s ra=%v dec=%v", f[1], ra, dec)
		return dispatch.Request{}, false, nil

	case "offset":
		if len(f) != 3 {
			return dispatch.Request{}, false, fmt.Errorf("usage: offset <az> <el>")
		}
		az, err1 := strconv.ParseFloat(f[1], 64)
		el, err2 := strconv.ParseFloat(f[2], 64)
		if err1 != nil || err2 != nil {
			return dispatch.Request{}, false, fmt.Errorf("offset: bad values %q %q", f[1], f[2])
		}
		c.state.SetOffsets(az, el)
		c.info("offset az=%v el=%v", az, el)
		return dispatch.Request{}, false, nil

	case "class":
		if len(f) < 3 {
			return dispatch.Request{}, false, fmt.Errorf("usage: class <n|0> <message>")
		}
		n, err := strconv.Atoi(f[1])
		if err != nil || n < 0 {
			return dispatch.Request{}, false, fmt.Errorf("class: bad number %q", f[1])
		}
		msg := strings.Join(f[2:], " ")
		n = c.classes.Put(n, []byte(msg))
		c.info("class %d <- %q", n, msg)
		return dispatch.Request{}, false, nil

	case "read":
		if len(f) != 2 {
			return dispatch.Request{}, false, fmt.Errorf("usage: read <n>")
		}
		n, err := strconv.Atoi(f[1])
		if err != nil || n <= 0 {
			return dispatch.Request{}, false, fmt.Errorf("read: bad class %q", f[1])
		}
		msgs := c.classes.Drain(n)
		for _, m := range msgs {
			c.info("class %d -> %q", n, m)
		}
		c.info("class %d: %d message(s)", n, len(msgs))
		return dispatch.Request{}, false, nil

	case "onsource":
		c.info("onsource=%v", c.state.OnSource())
		return dispatch.Request{}, false, nil
	}

	nums := make([]int, 3)
	if len(f) > 3 {
		return dispatch.Request{}, false, fmt.Errorf("usage: <mode> [class [records]]")
	}
	for i, s := range f {
		v, err := strconv.Atoi(s)
		if err != nil {
			return dispatch.Request{}, false, fmt.Errorf("unknown command %q", line)
		}
		nums[i] = v
	}
	return dispatch.Request{Mode: nums[0], Class: nums[1], Records: nums[2]}, true, nil
}

func (c *Console) info(format string, a ...interface{}) {
	c.infoColor.Fprintf(c.out, format, a...)
	fmt.Fprintln(c.out)
}
