// Package interactive provides the interactive command-line interface
// for vcpctl.
package interactive

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chzyer/readline"

	"github.com/vcp-protocol/vcp-go/pkg/gatt"
	"github.com/vcp-protocol/vcp-go/pkg/vcp"
	"github.com/vcp-protocol/vcp-go/pkg/wire"
)

// Controller handles interactive mode for vcpctl. The session is the
// loopback client session driving the local server; it may be nil when
// the tool runs server-only, which disables the control commands.
type Controller struct {
	session *vcp.Session
	binding *vcp.Binding
	rl      *readline.Instance

	mu       sync.Mutex
	watching bool
}

// New creates a new interactive controller handler. It installs the
// client event hooks on session, so call it before the session is
// attached.
func New(session *vcp.Session, binding *vcp.Binding) (*Controller, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "vcp> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	c := &Controller{
		session:  session,
		binding:  binding,
		rl:       rl,
		watching: true,
	}

	if session != nil {
		session.SetClientEvents(vcp.ClientEvents{
			VolumeState:       c.showVolumeState,
			VolumeFlags:       c.showVolumeFlags,
			VolumeOffsetState: c.showOffsetState,
			AudioLocation:     c.showAudioLocation,
			OutputDescription: c.showOutputDescription,
		})
	}

	return c, nil
}

// Stdout returns a writer that properly coordinates with the readline
// input. Use this for log output to avoid interfering with the prompt.
func (c *Controller) Stdout() io.Writer {
	return c.rl.Stdout()
}

// Stderr returns a writer that properly coordinates with the readline input.
func (c *Controller) Stderr() io.Writer {
	return c.rl.Stderr()
}

// Run starts the interactive command loop.
func (c *Controller) Run(ctx context.Context, cancel context.CancelFunc) {
	defer c.rl.Close()

	c.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			c.printHelp()

		case "state", "s":
			c.cmdState()

		case "up", "+":
			c.control(wire.RelativeVolumeUp.String(), func(result func(gatt.AttError)) error {
				return c.session.RelativeVolumeUp(result)
			})

		case "down", "-":
			c.control(wire.RelativeVolumeDown.String(), func(result func(gatt.AttError)) error {
				return c.session.RelativeVolumeDown(result)
			})

		case "uup":
			c.control(wire.UnmuteRelativeVolumeUp.String(), func(result func(gatt.AttError)) error {
				return c.session.UnmuteRelativeVolumeUp(result)
			})

		case "udown":
			c.control(wire.UnmuteRelativeVolumeDown.String(), func(result func(gatt.AttError)) error {
				return c.session.UnmuteRelativeVolumeDown(result)
			})

		case "set":
			c.cmdSet(args)

		case "mute", "m":
			c.control(wire.Mute.String(), func(result func(gatt.AttError)) error {
				return c.session.Mute(result)
			})

		case "unmute", "um":
			c.control(wire.Unmute.String(), func(result func(gatt.AttError)) error {
				return c.session.Unmute(result)
			})

		case "offset", "o":
			c.cmdOffset(args)

		case "raw":
			c.cmdRaw(args)

		case "watch":
			c.cmdWatch(args)

		case "quit", "exit", "q":
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return

		default:
			fmt.Fprintf(c.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (c *Controller) printHelp() {
	fmt.Fprintln(c.rl.Stdout(), `
VCP Commands:
  Volume:
    state               - Show server state and the client mirror
    up / down           - Relative volume up / down
    uup / udown         - Unmute, then relative volume up / down
    set <0..255>        - Set absolute volume
    mute / unmute       - Mute / unmute

  Offset:
    offset <-255..255>  - Set the volume offset

  Debug:
    raw <vcs|vocs> <hex...> - Write raw control-point bytes
    watch on|off            - Toggle notification display

  General:
    help                - Show this help
    quit                - Exit`)
}

// cmdState shows the authoritative server state and, when a client
// session is attached, the mirror it has built from reads and
// notifications.
func (c *Controller) cmdState() {
	w := c.rl.Stdout()

	st := c.binding.VolumeState()
	off := c.binding.OffsetState()

	fmt.Fprintln(w, "Server:")
	fmt.Fprintf(w, "  Volume:      %d (mute %t, counter %d)\n", st.Setting, st.Mute, st.Counter)
	fmt.Fprintf(w, "  Flags:       %s\n", c.binding.VolumeFlags())
	fmt.Fprintf(w, "  Offset:      %d (counter %d)\n", off.Offset, off.Counter)
	fmt.Fprintf(w, "  Location:    %s\n", c.binding.AudioLocation())
	fmt.Fprintf(w, "  Description: %s\n", c.binding.OutputDescription())

	if c.session == nil {
		return
	}

	fmt.Fprintln(w, "Client mirror:")
	if st, ok := c.session.VolumeState(); ok {
		fmt.Fprintf(w, "  Volume:      %d (mute %t, counter %d)\n", st.Setting, st.Mute, st.Counter)
	} else {
		fmt.Fprintln(w, "  Volume:      unknown")
	}
	if off, ok := c.session.VolumeOffsetState(); ok {
		fmt.Fprintf(w, "  Offset:      %d (counter %d)\n", off.Offset, off.Counter)
	} else {
		fmt.Fprintln(w, "  Offset:      unknown")
	}
}

// cmdSet handles the set command.
func (c *Controller) cmdSet(args []string) {
	setting, err := parseVolumeSetting(args)
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "%v\n", err)
		return
	}
	c.control(wire.SetAbsoluteVolume.String(), func(result func(gatt.AttError)) error {
		return c.session.SetAbsoluteVolume(setting, result)
	})
}

// cmdOffset handles the offset command.
func (c *Controller) cmdOffset(args []string) {
	offset, err := parseVolumeOffset(args)
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "%v\n", err)
		return
	}
	c.control(wire.SetVolumeOffset.String(), func(result func(gatt.AttError)) error {
		return c.session.SetVolumeOffset(offset, result)
	})
}

// cmdRaw writes arbitrary bytes to a control point. Change counters
// and opcodes are taken as given, so this is the way to provoke the
// error paths on purpose.
func (c *Controller) cmdRaw(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: raw <vcs|vocs> <hex-bytes>")
		return
	}

	pdu, err := parseRawPDU(args[1:])
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "%v\n", err)
		return
	}

	switch strings.ToLower(args[0]) {
	case "vcs":
		c.control("raw VCS write", func(result func(gatt.AttError)) error {
			return c.session.WriteVolumeControlPoint(pdu, result)
		})
	case "vocs":
		c.control("raw VOCS write", func(result func(gatt.AttError)) error {
			return c.session.WriteOffsetControlPoint(pdu, result)
		})
	default:
		fmt.Fprintf(c.rl.Stdout(), "Unknown service: %s (use vcs or vocs)\n", args[0])
	}
}

// cmdWatch handles the watch command.
func (c *Controller) cmdWatch(args []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(args) == 0 {
		fmt.Fprintf(c.rl.Stdout(), "watch is %s\n", onOff(c.watching))
		return
	}
	switch strings.ToLower(args[0]) {
	case "on":
		c.watching = true
	case "off":
		c.watching = false
	default:
		fmt.Fprintln(c.rl.Stdout(), "Usage: watch on|off")
	}
}

// control submits a command on the client session and reports the
// control-point outcome asynchronously.
func (c *Controller) control(name string, submit func(func(gatt.AttError)) error) {
	if c.session == nil {
		fmt.Fprintln(c.rl.Stdout(), "No client session (server-only mode)")
		return
	}
	if err := submit(c.result(name)); err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Error: %v\n", err)
	}
}

// result returns a completion callback that prints the control-point
// outcome above the prompt. Completions arrive on the client's event
// goroutine.
func (c *Controller) result(name string) func(gatt.AttError) {
	return func(code gatt.AttError) {
		if code.IsSuccess() {
			c.printAsync("%s: OK", name)
		} else {
			c.printAsync("%s failed: %v", name, code)
		}
	}
}

func (c *Controller) showVolumeState(st wire.VolumeState) {
	c.notify("Volume %d (mute %t, counter %d)", st.Setting, st.Mute, st.Counter)
}

func (c *Controller) showVolumeFlags(f wire.VolumeFlags) {
	c.notify("Volume flags %s", f)
}

func (c *Controller) showOffsetState(st wire.VolumeOffsetState) {
	c.notify("Offset %d (counter %d)", st.Offset, st.Counter)
}

func (c *Controller) showAudioLocation(loc wire.AudioLocation) {
	c.notify("Audio location %s", loc)
}

func (c *Controller) showOutputDescription(desc string) {
	c.notify("Output description %q", desc)
}

// notify prints a state update above the prompt unless watch is off.
func (c *Controller) notify(format string, args ...any) {
	c.mu.Lock()
	watching := c.watching
	c.mu.Unlock()
	if !watching {
		return
	}
	c.printAsync(format, args...)
}

// printAsync prints a line arriving outside the command loop and
// redraws the prompt under it.
func (c *Controller) printAsync(format string, args ...any) {
	fmt.Fprintf(c.rl.Stdout(), "\n[%s] %s\n",
		time.Now().Format("15:04:05"),
		fmt.Sprintf(format, args...))
	c.rl.Refresh()
}

// parseVolumeSetting parses the set command argument.
func parseVolumeSetting(args []string) (uint8, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("usage: set <0..255>")
	}
	v, err := strconv.ParseUint(args[0], 10, 8)
	if err != nil {
		return 0, fmt.Errorf("volume must be in 0..255")
	}
	return uint8(v), nil
}

// parseVolumeOffset parses the offset command argument.
func parseVolumeOffset(args []string) (int16, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("usage: offset <-255..255>")
	}
	v, err := strconv.ParseInt(args[0], 10, 16)
	if err != nil || v < -255 || v > 255 {
		return 0, fmt.Errorf("offset must be in -255..255")
	}
	return int16(v), nil
}

// parseRawPDU decodes hex byte arguments, given either as one string
// or as separate bytes.
func parseRawPDU(args []string) ([]byte, error) {
	joined := strings.Join(args, "")
	pdu, err := hex.DecodeString(joined)
	if err != nil {
		return nil, fmt.Errorf("invalid hex %q: %v", joined, err)
	}
	if len(pdu) == 0 {
		return nil, fmt.Errorf("empty PDU")
	}
	return pdu, nil
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
