package runner

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"runtime"
	"strings"
	"unicode/utf16"

	"upkeep/internal/executor"
)

// Launch is the plan for executing one Invocation.
type Launch struct {
	// Preflight must succeed before Main starts. It is used to obtain
	// elevation up front, for example `sudo -v`.
	Preflight *executor.Command

	// Main runs the package manager.
	Main executor.Command

	// ElevationWrapped means Main is an elevation wrapper whose non-zero exit
	// only signals that elevation was refused.
	ElevationWrapped bool
}

// Shell turns an Invocation into a Launch.
type Shell interface {
	Build(inv Invocation) Launch
}

// DefaultShell returns the shell for the current platform.
func DefaultShell(binary, title string) Shell {
	if runtime.GOOS == "windows" {
		return &PowerShell{Binary: binary, Title: title, Admin: executor.IsRoot()}
	}
	return &PosixShell{Binary: binary, Title: title, Root: executor.IsRoot()}
}

// commandLine joins the binary and the verbatim argument string.
func commandLine(binary, args string) string {
	return strings.TrimSpace(binary + " " + args)
}

// PowerShell launches the package manager through powershell.exe.
type PowerShell struct {
	Binary string
	Title  string
	// Admin is true when this process already holds administrator rights.
	Admin bool
}

// Build implements Shell.
func (p *PowerShell) Build(inv Invocation) Launch {
	script := fmt.Sprintf("$host.ui.RawUI.WindowTitle = %s; %s", psQuote(p.Title), commandLine(p.Binary, inv.Args))
	if inv.PauseAfter && !inv.CaptureOutput {
		script += "; pause"
	}

	args := []string{"-NoProfile"}
	if inv.KeepConsoleOpen && !inv.CaptureOutput {
		args = append(args, "-NoExit")
	}

	if inv.Elevate && !p.Admin {
		return Launch{Main: p.runAs(args, script, inv.CaptureOutput), ElevationWrapped: true}
	}

	return Launch{Main: executor.Command{
		Name:       "powershell.exe",
		Args:       append(args, "-Command", script),
		NewConsole: !inv.CaptureOutput,
		Hidden:     inv.CaptureOutput,
	}}
}

// runAs wraps the script in Start-Process -Verb RunAs so Windows shows the
// UAC prompt. The inner script is passed encoded to avoid nested quoting.
func (p *PowerShell) runAs(args []string, script string, hidden bool) executor.Command {
	inner := append(args, "-EncodedCommand", encodeCommand(script))
	quoted := make([]string, len(inner))
	for i, a := range inner {
		quoted[i] = psQuote(a)
	}

	wrapper := fmt.Sprintf("Start-Process -FilePath powershell.exe -Verb RunAs -Wait -ErrorAction Stop -ArgumentList %s",
		strings.Join(quoted, ","))
	if hidden {
		wrapper += " -WindowStyle Hidden"
	}

	return executor.Command{
		Name:   "powershell.exe",
		Args:   []string{"-NoProfile", "-NonInteractive", "-Command", wrapper},
		Hidden: true,
	}
}

// psQuote returns s as a single-quoted PowerShell literal.
func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// encodeCommand produces the base64 UTF-16LE form expected by -EncodedCommand.
func encodeCommand(script string) string {
	units := utf16.Encode([]rune(script))
	buf := make([]byte, len(units)*2)
	for i, u := range units {
		binary.LittleEndian.PutUint16(buf[i*2:], u)
	}
	return base64.StdEncoding.EncodeToString(buf)
}

// PosixShell launches the package manager through sh, elevating with sudo.
type PosixShell struct {
	Binary string
	Title  string
	// Root is true when this process already runs as root.
	Root bool
}

// Build implements Shell.
func (p *PosixShell) Build(inv Invocation) Launch {
	script := commandLine(p.Binary, inv.Args)
	if !inv.CaptureOutput {
		// Captured runs have no terminal to title; the escape would end up in the output.
		script = fmt.Sprintf("printf '\\033]0;%%s\\007' %s; %s", shQuote(p.Title), script)
		if inv.PauseAfter {
			script += "; printf 'Press Enter to continue...'; read _"
		}
		if inv.KeepConsoleOpen {
			script += `; exec "${SHELL:-sh}"`
		}
	}

	if inv.Elevate && !p.Root {
		return Launch{
			Preflight: &executor.Command{Name: "sudo", Args: []string{"-v"}},
			Main:      executor.Command{Name: "sudo", Args: []string{"sh", "-c", script}},
		}
	}

	return Launch{Main: executor.Command{Name: "sh", Args: []string{"-c", script}}}
}

// shQuote returns s as a single-quoted shell word.
func shQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
