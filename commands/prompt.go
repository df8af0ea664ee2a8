package commands

import (
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/josephlewis42/lsh/core/vos"
)

const (
	EnvHome = "HOME"
	EnvUser = "USER"

	DefaultPrompt = `[lsh]->[\w]\$ `
)

var (
	unescapeOctal   = regexp.MustCompile(`\\0[0-7][0-7]?[0-7]?`)
	unescapeHex     = regexp.MustCompile(`\\x[0-9a-fA-F][0-9a-fA-F]?`)
	promptFields    = regexp.MustCompile(`\\[\\uhw$]`)
	unescapeReplace = strings.NewReplacer(
		`\n`, "\n", // newline
		`\r`, "\r", // carriage return
		`\t`, "\t", // horizontal tab
		`\\`, `\`, // backslash literal
		`\a`, "\a", // alert
		`\e`, "\033", // escape
	)
)

func unescape(s string) string {
	s = unescapeReplace.Replace(s)
	s = unescapeOctal.ReplaceAllStringFunc(s, func(arg string) string {
		out, err := strconv.ParseInt(arg[2:], 8, 16)
		if err != nil || out > 0x7f {
			return arg
		}
		return string(rune(out))
	})
	s = unescapeHex.ReplaceAllStringFunc(s, func(arg string) string {
		out, err := strconv.ParseInt(arg[2:], 16, 16)
		if err != nil || out > 0x7f {
			return arg
		}
		return string(rune(out))
	})
	return s
}

// Prompt renders the text shown before each line is read.
type Prompt struct {
	Template string

	color    *color.Color
	getwd    func() (string, error)
	hostname func() (string, error)
	getuid   func() int
}

// NewPrompt creates a prompt from a template. Color follows the fatih/color
// defaults until SetColorMode is called.
func NewPrompt(template string) *Prompt {
	return &Prompt{
		Template: template,
		color:    color.New(color.FgBlue, color.Bold),
		getwd:    os.Getwd,
		hostname: os.Hostname,
		getuid:   os.Getuid,
	}
}

// SetColorMode forces color on ("always") or off ("never"); anything else
// leaves the decision to the terminal detection of the color package.
func (p *Prompt) SetColorMode(mode string) {
	switch mode {
	case "always":
		p.color.EnableColor()
	case "never":
		p.color.DisableColor()
	}
}

// Render expands the template: \u is the user, \h the host, \w the working
// directory with the home directory shown as ~ and \$ is # for root. Escape
// sequences apply to the template only, never to the substituted values.
func (p *Prompt) Render(env vos.VEnv) string {
	template := p.Template
	if template == "" {
		template = DefaultPrompt
	}

	host, _ := p.hostname()
	pwd, err := p.getwd()
	if err != nil {
		pwd = env.Getenv(EnvPWD)
	}
	if home := env.Getenv(EnvHome); home != "" && (pwd == home || strings.HasPrefix(pwd, home+"/")) {
		pwd = "~" + strings.TrimPrefix(pwd, home)
	}
	sigil := "$"
	if p.getuid() == 0 {
		sigil = "#"
	}

	values := map[string]string{
		`\u`: env.Getenv(EnvUser),
		`\h`: host,
		`\w`: pwd,
		`\$`: sigil,
		`\\`: `\`,
	}

	var sb strings.Builder
	last := 0
	for _, loc := range promptFields.FindAllStringIndex(template, -1) {
		sb.WriteString(unescape(template[last:loc[0]]))
		sb.WriteString(values[template[loc[0]:loc[1]]])
		last = loc[1]
	}
	sb.WriteString(unescape(template[last:]))

	return p.color.Sprint(sb.String())
}
