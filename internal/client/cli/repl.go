package cli

import (
	"bufio"
	"context"
	"fmt"
	"sort"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// handler runs one REPL command with the words that followed it.
type handler func(ctx context.Context, args []string) error

type command struct {
	usage string
	run   handler
}

// runREPL starts a simple read–eval–print loop.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to cmds. Unknown commands are reported back to the user, and a
// failing command prints its error without ending the loop. The loop exits
// on EOF or when the user types "exit" or "quit".
func runREPL(ctx context.Context, cmds map[string]command, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("wt %s> ", statusFn()))
		line, err := ReadLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "help":
			printlnFn(helpText(cmds))
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		c, ok := cmds[name]
		if !ok {
			printlnFn("Unknown command:", name)
			continue
		}
		if err := c.run(ctx, args); err != nil {
			printlnFn("error:", err)
		}
	}
}

func helpText(cmds map[string]command) string {
	names := make([]string, 0, len(cmds))
	for n := range cmds {
		names = append(names, n)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("Available commands:\n")
	for _, n := range names {
		fmt.Fprintf(&b, "  %-14s %s\n", n, cmds[n].usage)
	}
	b.WriteString("  help           this list\n  exit | quit    leave the program")
	return b.String()
}

// needArgs checks that a command got at least n words.
func needArgs(args []string, n int, usage string) error {
	if len(args) < n {
		return fmt.Errorf("usage: %s", usage)
	}
	return nil
}

func (a *App) commands() map[string]command {
	return map[string]command{
		"demands":      {"list work items", a.listDemands},
		"adddemand":    {"add a work item", a.addDemand},
		"editdemand":   {"<id> edit a work item", a.editDemand},
		"move":         {"<id> <status> change the status of a work item", a.moveDemand},
		"deldemand":    {"<id> delete a work item", a.deleteDemand},
		"vacations":    {"list vacations", a.listVacations},
		"addvacation":  {"add a vacation", a.addVacation},
		"editvacation": {"<id> edit a vacation", a.editVacation},
		"delvacation":  {"<id> delete a vacation", a.deleteVacation},
		"employees":    {"list employees", a.listEmployees},
		"addemployee":  {"add an employee", a.addEmployee},
		"editemployee": {"<id> edit an employee", a.editEmployee},
		"delemployee":  {"<id> delete an employee and their certificates", a.deleteEmployee},
		"certs":        {"[employee id] list certificates", a.listCertificates},
		"addcert":      {"add a certificate", a.addCertificate},
		"editcert":     {"<id> edit a certificate", a.editCertificate},
		"delcert":      {"<id> delete a certificate", a.deleteCertificate},
		"statuses":     {"list workflow statuses", a.listStatuses},
		"addstatus":    {"add a workflow status", a.addStatus},
		"editstatus":   {"<id> edit a workflow status", a.editStatus},
		"delstatus":    {"<id> delete a status, moving its items to the first one", a.deleteStatus},
		"analyze":      {"<employee id> compliance analysis", a.analyze},
		"report":       {"[file.xlsx] compliance report for everyone", a.report},
		"export":       {"<file.json> write a backup", a.export},
		"import":       {"<file.json> add the records of a backup", a.importBackup},
	}
}
