// Package console is a scripted debug console. Each line is a tengo
// snippet evaluated against a small set of control functions.
package console

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/rs/zerolog"
)

var ErrNoClipboard = errors.New("console: clipboard unavailable")

// Controls is what the console can drive. Values returned by State and
// Config must be plain strings, numbers, bools, slices or maps.
type Controls interface {
	SwitchYear(year int) error
	MuteAudio()
	UnmuteAudio()
	ResetExperience() error
	State() map[string]any
	Config() map[string]any
}

// Console evaluates lines on the game loop. Lines arrive from a reader
// goroutine and wait in a channel until Drain. The reader never logs; its
// read error is handed to Drain so every log line comes from the loop.
type Console struct {
	controls  Controls
	log       zerolog.Logger
	out       io.Writer
	clipboard func([]byte) error

	lines   chan string
	readErr chan error
	once    sync.Once
	stop  chan struct{}
}

func New(controls Controls, logger zerolog.Logger, out io.Writer) *Console {
	if out == nil {
		out = io.Discard
	}
	return &Console{
		controls: controls,
		log:      logger,
		out:      out,
		lines:    make(chan string, 32),
		readErr:  make(chan error, 1),
		stop:     make(chan struct{}),
	}
}

// SetClipboard installs the writer used by copy_state.
func (c *Console) SetClipboard(write func([]byte) error) { c.clipboard = write }

// Listen reads lines from r until EOF or Close.
func (c *Console) Listen(r io.Reader) {
	go func() {
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			select {
			case c.lines <- line:
			case <-c.stop:
				return
			}
		}
		if err := scanner.Err(); err != nil {
			select {
			case c.readErr <- err:
			default:
			}
		}
	}()
}

// submit queues a line as if it had been typed.
func (c *Console) submit(line string) {
	select {
	case c.lines <- line:
	default:
		c.log.Warn().Str("line", line).Msg("console queue full, line dropped")
	}
}

// Drain evaluates every queued line. It must run on the game loop.
func (c *Console) Drain() {
	select {
	case err := <-c.readErr:
		c.log.Warn().Err(err).Msg("console input closed")
	default:
	}
	for {
		select {
		case line := <-c.lines:
			result, err := c.Exec(line)
			if err != nil {
				c.log.Warn().Err(err).Str("line", line).Msg("console")
				fmt.Fprintf(c.out, "error: %v\n", err)
				continue
			}
			if result != "" {
				fmt.Fprintln(c.out, result)
			}
		default:
			return
		}
	}
}

func (c *Console) Close() {
	c.once.Do(func() { close(c.stop) })
}

// Exec evaluates one line and returns its value as text. Expressions
// return their value; statements return an empty string.
func (c *Console) Exec(line string) (string, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", nil
	}

	compiled, err := c.compile("__result := (" + line + ")")
	if err != nil {
		compiled, err = c.compile(line)
		if err != nil {
			return "", err
		}
	}
	if err := compiled.Run(); err != nil {
		return "", err
	}
	if !compiled.IsDefined("__result") {
		return "", nil
	}
	v := compiled.Get("__result")
	if v.IsUndefined() {
		return "", nil
	}
	return v.String(), nil
}

func (c *Console) compile(src string) (*tengo.Compiled, error) {
	script := tengo.NewScript([]byte(src))
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	for name, fn := range c.functions() {
		if err := script.Add(name, fn); err != nil {
			return nil, err
		}
	}
	return script.Compile()
}

func (c *Console) functions() map[string]*tengo.UserFunction {
	return map[string]*tengo.UserFunction{
		"switch_year": {Name: "switch_year", Value: func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) != 1 {
				return nil, tengo.ErrWrongNumArguments
			}
			year, ok := objectAsInt(args[0])
			if !ok {
				return nil, tengo.ErrInvalidArgumentType{Name: "year", Expected: "int", Found: args[0].TypeName()}
			}
			if err := c.controls.SwitchYear(year); err != nil {
				return &tengo.Error{Value: &tengo.String{Value: err.Error()}}, nil
			}
			return tengo.TrueValue, nil
		}},
		"mute_audio": {Name: "mute_audio", Value: func(args ...tengo.Object) (tengo.Object, error) {
			c.controls.MuteAudio()
			return tengo.TrueValue, nil
		}},
		"unmute_audio": {Name: "unmute_audio", Value: func(args ...tengo.Object) (tengo.Object, error) {
			c.controls.UnmuteAudio()
			return tengo.TrueValue, nil
		}},
		"reset_experience": {Name: "reset_experience", Value: func(args ...tengo.Object) (tengo.Object, error) {
			if err := c.controls.ResetExperience(); err != nil {
				return &tengo.Error{Value: &tengo.String{Value: err.Error()}}, nil
			}
			return tengo.TrueValue, nil
		}},
		"get_state": {Name: "get_state", Value: func(args ...tengo.Object) (tengo.Object, error) {
			return tengo.FromInterface(c.controls.State())
		}},
		"get_config": {Name: "get_config", Value: func(args ...tengo.Object) (tengo.Object, error) {
			return tengo.FromInterface(c.controls.Config())
		}},
		"copy_state": {Name: "copy_state", Value: func(args ...tengo.Object) (tengo.Object, error) {
			if c.clipboard == nil {
				return &tengo.Error{Value: &tengo.String{Value: ErrNoClipboard.Error()}}, nil
			}
			data, err := json.MarshalIndent(c.controls.State(), "", "  ")
			if err != nil {
				return nil, err
			}
			if err := c.clipboard(data); err != nil {
				return &tengo.Error{Value: &tengo.String{Value: err.Error()}}, nil
			}
			return tengo.TrueValue, nil
		}},
	}
}

func objectAsInt(obj tengo.Object) (int, bool) {
	switch v := obj.(type) {
	case *tengo.Int:
		return int(v.Value), true
	case *tengo.Float:
		return int(v.Value), true
	case *tengo.String:
		n, err := strconv.Atoi(strings.TrimSpace(v.Value))
		return n, err == nil
	default:
		return 0, false
	}
}
