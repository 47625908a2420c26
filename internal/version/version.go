package version

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/fatih/color"
)

// Version information for the gocst CLI.
// These variables can be overridden at build time via -ldflags.
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Banner renders the version line printed by `gocst version`. With colored
// set, the major, minor and patch numbers are highlighted.
func Banner(colored bool) string {
	var b strings.Builder
	b.WriteString("gocst ")
	b.WriteString(formatVersion(Version, colored))
	if GitCommit != "" {
		commit := GitCommit
		if len(commit) > 12 {
			commit = commit[:12]
		}
		fmt.Fprintf(&b, " (%s)", commit)
	}
	if BuildDate != "" {
		fmt.Fprintf(&b, " built %s", BuildDate)
	}
	fmt.Fprintf(&b, " %s/%s %s", runtime.GOOS, runtime.GOARCH, runtime.Version())
	return b.String()
}

func formatVersion(v string, colored bool) string {
	if !colored {
		return v
	}
	core, suffix, _ := strings.Cut(v, "-")
	parts := strings.SplitN(core, ".", 3)
	if len(parts) != 3 {
		return v
	}
	out := paint(majorColor, parts[0]) + "." + paint(minorColor, parts[1]) + "." + paint(patchColor, parts[2])
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}

func paint(c *color.Color, s string) string {
	// копия, чтобы не трогать глобальный NoColor и общие цвета
	cc := *c
	cc.EnableColor()
	return cc.Sprint(s)
}
