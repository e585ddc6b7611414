// Command bidicli resolves bidi runs for lines of text typed at a prompt.
//
// Input lines are taken as paragraphs. Lines starting with a colon are
// commands:
//
//	:dir ltr|rtl|auto|locale   set the paragraph direction
//	:width n                   wrap paragraphs at n positions (0 = no wrapping)
//	:testing on|off            upper case ASCII letters are RTL
//	:gpu on|off                record a draw command per run
//	:quit
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/bidiline/bidi"
	"github.com/npillmayer/bidiline/gpu"
	"github.com/npillmayer/bidiline/paragraph"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/pterm/pterm"
)

func tracer() tracing.Trace {
	return gtrace.CoreTracer
}

func main() {
	initDisplay()

	// command line flags
	tlevel := flag.String("trace", "Error", "Trace level [Debug|Info|Error]")
	dir := flag.String("dir", "auto", "Paragraph direction [ltr|rtl|auto|locale]")
	width := flag.Int("width", 0, "Wrap lines at width (0 = no wrapping)")
	testing := flag.Bool("testing", false, "Treat upper case ASCII as right-to-left")
	flag.Parse()

	// set up logging
	gtrace.CoreTracer = gologadapter.New()
	gtrace.GraphicsTracer = gologadapter.New()
	switch *tlevel {
	case "Debug":
		gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	case "Info":
		gtrace.CoreTracer.SetTraceLevel(tracing.LevelInfo)
	case "Error":
		gtrace.CoreTracer.SetTraceLevel(tracing.LevelError)
	default:
		pterm.Error.Printf("invalid trace level: %s\n", *tlevel)
		os.Exit(2)
	}
	gtrace.GraphicsTracer.SetTraceLevel(gtrace.CoreTracer.GetTraceLevel())
	pterm.Info.Println("Welcome to the bidi line CLI")

	repl, err := readline.New("bidi > ")
	if err != nil {
		tracer().Errorf("%v", err)
		os.Exit(3)
	}
	defer repl.Close()
	intp := &Intp{repl: repl, width: *width, testing: *testing, device: &gpu.Recorder{}}
	if err := intp.setDirection(*dir); err != nil {
		pterm.Error.Println(err)
		os.Exit(4)
	}
	pterm.Info.Println("Quit with <ctrl>D")
	intp.REPL()
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Intp is our interpreter object
type Intp struct {
	repl    *readline.Instance
	dir     paragraph.Option
	dirName string
	width   int
	testing bool
	useGPU  bool
	device  *gpu.Recorder
}

func (intp *Intp) String() string {
	return fmt.Sprintf("( dir=%s width=%d testing=%v gpu=%v )",
		intp.dirName, intp.width, intp.testing, intp.useGPU)
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		pterm.Println(intp.String())
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, ":") {
			quit, err := intp.execute(strings.Fields(line[1:]))
			if err != nil {
				pterm.Error.Println(err)
			}
			if quit {
				break
			}
			continue
		}
		if err := intp.resolve(line); err != nil {
			pterm.Error.Println(err)
		}
	}
	pterm.Info.Println("Good bye!")
}

var errUsage = errors.New("usage: :dir|:width|:testing|:gpu|:quit")

func (intp *Intp) execute(args []string) (quit bool, err error) {
	if len(args) == 0 {
		return false, errUsage
	}
	arg := ""
	if len(args) > 1 {
		arg = args[1]
	}
	switch args[0] {
	case "quit", "q":
		return true, nil
	case "dir":
		err = intp.setDirection(arg)
	case "width":
		var n int
		if n, err = strconv.Atoi(arg); err == nil && n < 0 {
			err = fmt.Errorf("width must not be negative: %d", n)
		}
		if err == nil {
			intp.width = n
		}
	case "testing":
		intp.testing, err = onOff(arg)
	case "gpu":
		intp.useGPU, err = onOff(arg)
	default:
		err = errUsage
	}
	return false, err
}

func (intp *Intp) setDirection(name string) error {
	switch strings.ToLower(name) {
	case "ltr":
		intp.dir = paragraph.Direction(bidi.LTR)
	case "rtl":
		intp.dir = paragraph.Direction(bidi.RTL)
	case "auto":
		intp.dir = paragraph.AutoDirection()
	case "locale":
		intp.dir = paragraph.DirectionFromLocale()
	default:
		return fmt.Errorf("unknown direction %q", name)
	}
	intp.dirName = strings.ToLower(name)
	return nil
}

func onOff(arg string) (bool, error) {
	switch arg {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	return false, fmt.Errorf("expected on|off, have %q", arg)
}

// --- Resolving -------------------------------------------------------------

func (intp *Intp) resolve(text string) error {
	p := paragraph.New(text, intp.dir, paragraph.Testing(intp.testing))
	tracer().Infof("paragraph direction is %s", p.Direction())
	lines, err := p.WrapLines(intp.width)
	if err != nil {
		return err
	}
	for i, line := range lines {
		pterm.Printf("line %d [%d,%d) %s: %s\n", i+1, line.Start, line.End, line.Direction, line.Visual())
		printRuns(line)
		if intp.useGPU {
			if err := intp.draw(line); err != nil {
				return err
			}
		}
	}
	return nil
}

func printRuns(line *paragraph.Line) {
	data := [][]string{
		{"Visual", "Start", "Stop", "Level", "Class", "Direction"},
	}
	for i, run := range line.Runs {
		class := run.Dir.String()
		if run == line.TrailingSpace {
			class += " (trailing)"
		}
		data = append(data, []string{
			strconv.Itoa(i),
			strconv.Itoa(run.Start),
			strconv.Itoa(run.Stop),
			strconv.Itoa(int(run.Level)),
			class,
			run.Direction().String(),
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		tracer().Errorf("%v", err)
	}
}

// draw records one draw command per run, in visual order, and waits for
// the command buffer to complete.
func (intp *Intp) draw(line *paragraph.Line) error {
	cb, err := intp.device.CreateCommandBuffer()
	if err != nil {
		return err
	}
	rp, err := cb.CreateRenderPass(&gpu.Texture{Handle: 1, Width: 1024, Height: 64})
	if err != nil {
		return err
	}
	for _, run := range line.Runs {
		err = rp.AddCommand(gpu.DrawCommand{
			Label:         fmt.Sprintf("run %d-%d/%d", run.Start, run.Stop, run.Level),
			Pipeline:      uint32(run.Direction()) + 1,
			VertexCount:   6,
			InstanceCount: run.Len(),
		})
		if err != nil {
			return err
		}
	}
	if err = rp.EncodeCommands(); err != nil {
		return err
	}
	done := make(chan gpu.Status, 1)
	if err = cb.SubmitCommands(func(s gpu.Status) { done <- s }); err != nil {
		return err
	}
	if s := <-done; s != gpu.StatusCompleted {
		return fmt.Errorf("command buffer %s", s)
	}
	subs := intp.device.Submissions()
	passes, err := gpu.Inspect(subs[len(subs)-1])
	if err != nil {
		return err
	}
	for _, pass := range passes {
		pterm.Printf("gpu %s pass on #%d: %s\n", pass.Kind, pass.Target, strings.Join(pass.Labels, ", "))
	}
	return nil
}
