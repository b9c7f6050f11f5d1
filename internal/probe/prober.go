package probe

import (
	"errors"
	"fmt"
	"log"
)

// ErrProbeExhausted means every candidate command for a task failed the
// classifier on this device. It is a signal, not a fatal error: the device
// simply contributes no data for the task.
var ErrProbeExhausted = errors.New("all command variants exhausted")

// Executor runs one command against a connected device. It is satisfied by
// *session.Session.
type Executor interface {
	Execute(command string) (string, error)
}

// Prober walks a task's command variants against live sessions.
type Prober struct {
	// overrides replaces a task's built-in command list, for fleets with
	// known-odd platforms. Configured, not discovered.
	overrides map[Task][]string
}

// NewProber creates a prober using the built-in command lists.
func NewProber() *Prober {
	return &Prober{overrides: make(map[Task][]string)}
}

// Override replaces the candidate commands for a task.
func (p *Prober) Override(task Task, commands []string) {
	if len(commands) > 0 {
		p.overrides[task] = commands
	}
}

func (p *Prober) commands(task Task) []string {
	if cmds, ok := p.overrides[task]; ok {
		return cmds
	}
	return task.Commands()
}

// Probe executes candidate commands in order until one produces output the
// task's classifier accepts, and returns that output. Transport errors on a
// single command are logged and the next candidate is tried; they do not
// abort the probe. Returns ErrProbeExhausted when no candidate passes.
func (p *Prober) Probe(exec Executor, task Task) (string, error) {
	for _, command := range p.commands(task) {
		log.Printf("Probe: trying %q for %s", command, task)

		output, err := exec.Execute(command)
		if err != nil {
			log.Printf("Probe: command %q failed: %v", command, err)
			continue
		}

		if task.IsValid(output) {
			log.Printf("Probe: %q accepted for %s (%d bytes)", command, task, len(output))
			return output, nil
		}
	}

	return "", fmt.Errorf("%s: %w", task, ErrProbeExhausted)
}
