package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-md2mail/internal/assets"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // -o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	Values   []string // for enum flags
	FileGlob []string // extensions for file flags, without the dot
}

// commandDef describes a command for completion.
type commandDef struct {
	Name       string
	Desc       string
	Flags      []flagDef
	Args       []string // fixed argument values (e.g. shells)
	FileSuffix []string // extensions accepted as positional files
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string
	FileGlob []string
	IsDir    bool
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	"config":     {FileGlob: []string{"yaml", "yml"}},
	"style":      {FileGlob: []string{"css"}},
	"output":     {FileGlob: []string{"html", "eml"}},
	"asset-path": {IsDir: true},
}

// issueSuffixes are the extensions accepted for issue files.
var issueSuffixes = []string{"md", "markdown"}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
// Enriches with completion metadata from flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}
		if f.Value.Type() == "bool" {
			fd.Type = flagBool
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			switch {
			case len(meta.Values) > 0:
				fd.Type = flagEnum
				fd.Values = meta.Values
			case len(meta.FileGlob) > 0:
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			case meta.IsDir:
				fd.Type = flagDir
			}
		}
		if f.Name == "template" {
			fd.Type = flagEnum
			fd.Values = templateSetNames()
		}

		flags = append(flags, fd)
	})

	return flags
}

// templateSetNames lists the built-in template sets.
func templateSetNames() []string {
	return []string{assets.DefaultTemplateSetName, "plain"}
}

// getCommands returns the command registry for completion.
// Flags are extracted from the actual FlagSet.
func getCommands() []commandDef {
	render := func(name, desc string) commandDef {
		return commandDef{
			Name:       name,
			Desc:       desc,
			Flags:      extractFlagsFromFlagSet(newRenderFlagSet(name, &renderFlags{})),
			FileSuffix: issueSuffixes,
		}
	}

	return []commandDef{
		render(cmdHTML, "Render an issue to an HTML preview"),
		render(cmdEmail, "Render an issue to a MIME email message"),
		render(cmdCheck, "Validate an issue and report image advisories"),
		{
			Name: cmdCompletion,
			Desc: "Generate shell completion script",
			Args: []string{string(ShellBash), string(ShellZsh), string(ShellFish)},
		},
		{Name: cmdVersion, Desc: "Show version information"},
		{
			Name: cmdHelp,
			Desc: "Show help for a command",
			Args: []string{cmdHTML, cmdEmail, cmdCheck, cmdCompletion, cmdVersion},
		},
	}
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	var script string
	switch shell {
	case ShellBash:
		script = generateBash(getCommands())
	case ShellZsh:
		script = generateZsh(getCommands())
	case ShellFish:
		script = generateFish(getCommands())
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}
	_, err := io.WriteString(w, script)
	return err
}

func generateBash(cmds []commandDef) string {
	var b strings.Builder

	b.WriteString("# bash completion for md2mail\n")
	b.WriteString("_md2mail_completions() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n\n")
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=( $(compgen -W %q -- \"$cur\") )\n", strings.Join(commandNames(cmds), " "))
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n")
	b.WriteString("    case \"$cmd\" in\n")

	for _, c := range cmds {
		if len(c.Flags) == 0 && len(c.Args) == 0 && len(c.FileSuffix) == 0 {
			continue
		}
		fmt.Fprintf(&b, "        %s)\n", c.Name)

		if len(c.Flags) > 0 {
			b.WriteString("            case \"$prev\" in\n")
			for _, f := range c.Flags {
				if f.Type == flagBool {
					continue
				}
				fmt.Fprintf(&b, "                %s)\n", bashFlagPattern(f))
				switch f.Type {
				case flagEnum:
					fmt.Fprintf(&b, "                    COMPREPLY=( $(compgen -W %q -- \"$cur\") )\n", strings.Join(f.Values, " "))
				case flagFile:
					fmt.Fprintf(&b, "                    COMPREPLY=( $(compgen -f -X '%s' -- \"$cur\") )\n", bashExclude(f.FileGlob))
				case flagDir:
					b.WriteString("                    COMPREPLY=( $(compgen -d -- \"$cur\") )\n")
				default:
					b.WriteString("                    COMPREPLY=()\n")
				}
				b.WriteString("                    return\n")
				b.WriteString("                    ;;\n")
			}
			b.WriteString("            esac\n")
			b.WriteString("            if [[ \"$cur\" == -* ]]; then\n")
			fmt.Fprintf(&b, "                COMPREPLY=( $(compgen -W %q -- \"$cur\") )\n", strings.Join(flagWords(c.Flags), " "))
			b.WriteString("                return\n")
			b.WriteString("            fi\n")
		}

		switch {
		case len(c.Args) > 0:
			fmt.Fprintf(&b, "            COMPREPLY=( $(compgen -W %q -- \"$cur\") )\n", strings.Join(c.Args, " "))
		case len(c.FileSuffix) > 0:
			fmt.Fprintf(&b, "            COMPREPLY=( $(compgen -f -X '%s' -- \"$cur\") $(compgen -d -- \"$cur\") )\n", bashExclude(c.FileSuffix))
		}
		b.WriteString("            ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("shopt -s extglob\n")
	b.WriteString("complete -o filenames -F _md2mail_completions md2mail\n")
	return b.String()
}

// bashFlagPattern returns the case pattern matching a flag's spellings.
func bashFlagPattern(f flagDef) string {
	if f.Short != "" {
		return "-" + f.Short + "|--" + f.Long
	}
	return "--" + f.Long
}

// bashExclude builds a compgen -X filter keeping only the given extensions.
func bashExclude(exts []string) string {
	return "!*.@(" + strings.Join(exts, "|") + ")"
}

func generateZsh(cmds []commandDef) string {
	var b strings.Builder

	b.WriteString("#compdef md2mail\n\n")
	b.WriteString("_md2mail() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n")
	b.WriteString("        _describe 'command' commands\n")
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"${words[2]}\" in\n")

	for _, c := range cmds {
		if len(c.Flags) == 0 && len(c.Args) == 0 {
			continue
		}
		fmt.Fprintf(&b, "        %s)\n", c.Name)
		if len(c.Args) > 0 {
			fmt.Fprintf(&b, "            _values '%s' %s\n", c.Name, strings.Join(c.Args, " "))
			b.WriteString("            ;;\n")
			continue
		}
		b.WriteString("            _arguments \\\n")
		for _, f := range c.Flags {
			fmt.Fprintf(&b, "                %s \\\n", zshFlagSpec(f))
		}
		fmt.Fprintf(&b, "                '*:issue:_files -g \"%s\"'\n", globList(c.FileSuffix))
		b.WriteString("            ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("compdef _md2mail md2mail\n")
	return b.String()
}

// zshFlagSpec renders one _arguments spec.
func zshFlagSpec(f flagDef) string {
	desc := "[" + zshEscape(f.Desc) + "]"

	var action string
	switch f.Type {
	case flagBool:
	case flagEnum:
		action = ":" + f.Long + ":(" + strings.Join(f.Values, " ") + ")"
	case flagFile:
		action = ":file:_files -g \"" + globList(f.FileGlob) + "\""
	case flagDir:
		action = ":directory:_files -/"
	default:
		action = ":" + f.Long + ": "
	}

	if f.Short != "" {
		return fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'%s%s'", f.Short, f.Long, f.Short, f.Long, desc, action)
	}
	return fmt.Sprintf("'--%s%s%s'", f.Long, desc, action)
}

// zshEscape makes s safe inside a single-quoted _arguments description.
func zshEscape(s string) string {
	r := strings.NewReplacer(`'`, `'\''`, `[`, `\[`, `]`, `\]`, `:`, `\:`)
	return r.Replace(s)
}

func generateFish(cmds []commandDef) string {
	var b strings.Builder

	b.WriteString("# fish completion for md2mail\n\n")
	b.WriteString("function __fish_md2mail_needs_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -eq 1\n")
	b.WriteString("end\n\n")
	b.WriteString("function __fish_md2mail_using_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -gt 1; and test $argv[1] = $cmd[2]\n")
	b.WriteString("end\n\n")
	b.WriteString("complete -c md2mail -f\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c md2mail -n __fish_md2mail_needs_command -a %s -d '%s'\n", c.Name, fishEscape(c.Desc))
	}

	for _, c := range cmds {
		cond := fmt.Sprintf("'__fish_md2mail_using_command %s'", c.Name)
		for _, f := range c.Flags {
			var line strings.Builder
			fmt.Fprintf(&line, "complete -c md2mail -n %s", cond)
			if f.Short != "" {
				fmt.Fprintf(&line, " -s %s", f.Short)
			}
			fmt.Fprintf(&line, " -l %s", f.Long)
			switch f.Type {
			case flagBool:
			case flagEnum:
				fmt.Fprintf(&line, " -x -a '%s'", strings.Join(f.Values, " "))
			case flagFile:
				line.WriteString(" -r -F")
			case flagDir:
				line.WriteString(" -x -a '(__fish_complete_directories)'")
			default:
				line.WriteString(" -x")
			}
			fmt.Fprintf(&line, " -d '%s'\n", fishEscape(f.Desc))
			b.WriteString(line.String())
		}
		if len(c.Args) > 0 {
			fmt.Fprintf(&b, "complete -c md2mail -n %s -a '%s'\n", cond, strings.Join(c.Args, " "))
		}
		for _, ext := range c.FileSuffix {
			fmt.Fprintf(&b, "complete -c md2mail -n %s -k -a '(__fish_complete_suffix .%s)'\n", cond, ext)
		}
	}

	return b.String()
}

// fishEscape makes s safe inside a single-quoted fish string.
func fishEscape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}

// commandNames returns the names of cmds in registry order.
func commandNames(cmds []commandDef) []string {
	names := make([]string, 0, len(cmds))
	for _, c := range cmds {
		names = append(names, c.Name)
	}
	return names
}

// flagWords lists every spelling of the flags, sorted.
func flagWords(flags []flagDef) []string {
	var words []string
	for _, f := range flags {
		words = append(words, "--"+f.Long)
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
	}
	sort.Strings(words)
	return words
}

// globList joins extensions into a space-separated glob list.
func globList(exts []string) string {
	globs := make([]string, len(exts))
	for i, ext := range exts {
		globs[i] = "*." + ext
	}
	return strings.Join(globs, " ")
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2mail completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(md2mail completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (after compinit):")
	fmt.Fprintln(w, "    eval \"$(md2mail completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    md2mail completion fish > ~/.config/fish/completions/md2mail.fish")
}
