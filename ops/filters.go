package ops

import (
	"fmt"
	"strings"
)

// Silent-audio synthesis parameters. These are fixed regardless of what the
// sibling tracks actually contain; see DESIGN.md for the known mismatch risk.
const (
	silentSampleRate    = 44100
	silentChannelLayout = "stereo"
)

// atempoStages decomposes a tempo factor into a chain of stage factors the
// atempo filter accepts. atempo is limited to [0.5, 2.0] per instance, so
// factors outside that range become a chain whose product equals the request:
// 0.25 -> [0.5 0.5], 4 -> [2 2], 3 -> [2 1.5]. In-range factors yield exactly
// one stage.
func atempoStages(factor float64) []float64 {
	var stages []float64
	for factor > 2.0 {
		stages = append(stages, 2.0)
		factor /= 2.0
	}
	for factor < 0.5 {
		stages = append(stages, 0.5)
		factor /= 0.5
	}
	return append(stages, factor)
}

// atempoChain renders the stage list as a filter expression.
func atempoChain(factor float64) string {
	stages := atempoStages(factor)
	parts := make([]string, len(stages))
	for i, s := range stages {
		parts[i] = fmt.Sprintf("atempo=%g", s)
	}
	return strings.Join(parts, ",")
}

// panGains converts a single balance value in [-1, 1] into independent
// left/right gain coefficients. Negative values attenuate the right channel,
// positive values the left; zero leaves both at unity.
func panGains(pan float64) (left, right float64) {
	left, right = 1.0, 1.0
	if pan < 0 {
		right = 1.0 + pan
	} else if pan > 0 {
		left = 1.0 - pan
	}
	return left, right
}

// panFilter renders the stereo pan expression for a balance value.
func panFilter(pan float64) string {
	left, right := panGains(pan)
	return fmt.Sprintf("pan=stereo|c0=%g*c0|c1=%g*c1", left, right)
}

// escapeFilterText escapes a drawtext/subtitles string value so user text
// cannot terminate the filter expression.
func escapeFilterText(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`'`, `\'`,
		`:`, `\:`,
		`%`, `\%`,
		`,`, `\,`,
		`[`, `\[`,
		`]`, `\]`,
		`;`, `\;`,
	)
	return r.Replace(s)
}

// escapeFilterPath escapes a staged file path for use inside a filter
// argument (subtitles=...). Paths are server-generated, but ':' appears in
// Windows-style paths and must not split the option list.
func escapeFilterPath(p string) string {
	r := strings.NewReplacer(`\`, `/`, `:`, `\:`, `'`, `\'`)
	return r.Replace(p)
}

// fmtSeconds renders a seconds value for a filter or -ss/-t argument.
func fmtSeconds(v float64) string {
	return fmt.Sprintf("%.3f", v)
}
