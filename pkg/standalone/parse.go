package standalone

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
)

// ProgramName is the name shown in the usage synopsis.
const ProgramName = "mockd-standalone"

// Values holds the raw values collected for each flag of a registry.
type Values struct {
	specs map[string]FlagSpec
	raw   map[string][]string
}

// IsSet reports whether the flag appeared in the arguments.
func (v Values) IsSet(name string) bool {
	return len(v.raw[name]) > 0
}

// String returns the value of a string flag, or nil when absent.
func (v Values) String(name string) *string {
	vals := v.raw[name]
	if len(vals) == 0 {
		return nil
	}
	s := vals[len(vals)-1]
	return &s
}

// Strings returns every value of a repeatable flag in encounter order.
func (v Values) Strings(name string) []string {
	vals := v.raw[name]
	if len(vals) == 0 {
		return nil
	}
	out := make([]string, len(vals))
	copy(out, vals)
	return out
}

// Int returns the value of an int flag, or nil when absent.
func (v Values) Int(name string) *int {
	s := v.String(name)
	if s == nil {
		return nil
	}
	n, err := strconv.Atoi(*s)
	if err != nil {
		return nil
	}
	return &n
}

// Switch returns the value of a switch, falling back to its declared default.
func (v Values) Switch(name string) bool {
	if s := v.String(name); s != nil {
		b, _ := strconv.ParseBool(*s)
		return b
	}
	b, _ := strconv.ParseBool(v.specs[name].Default)
	return b
}

// flagValue adapts a FlagSpec to flag.Value. Values are checked against the
// declared kind as they are set.
type flagValue struct {
	spec   FlagSpec
	values []string
}

func (f *flagValue) String() string {
	if f == nil {
		return ""
	}
	return strings.Join(f.values, ",")
}

func (f *flagValue) Set(s string) error {
	if len(f.values) > 0 && !f.spec.Multiple {
		return errors.New("flag may only be given once")
	}
	switch f.spec.Kind {
	case KindInt:
		if _, err := strconv.Atoi(s); err != nil {
			return fmt.Errorf("%q is not an integer", s)
		}
	case KindSwitch:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return fmt.Errorf("%q is not a boolean", s)
		}
		s = strconv.FormatBool(b)
	}
	f.values = append(f.values, s)
	return nil
}

// IsBoolFlag lets the flag package accept switches without a value.
func (f *flagValue) IsBoolFlag() bool {
	return f.spec.Kind == KindSwitch
}

// ParseFlags parses args against registry. Flag names are case-sensitive and
// accepted as -Name value, -Name=value or --Name value. Every failure is a
// *ParseError; -h and -help yield one wrapping flag.ErrHelp.
func ParseFlags(registry []FlagSpec, args []string) (Values, error) {
	fs := flag.NewFlagSet(ProgramName, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	values := Values{
		specs: make(map[string]FlagSpec, len(registry)),
		raw:   make(map[string][]string, len(registry)),
	}
	collected := make([]*flagValue, 0, len(registry))
	for _, spec := range registry {
		fv := &flagValue{spec: spec}
		fs.Var(fv, spec.Name, spec.Description)
		values.specs[spec.Name] = spec
		collected = append(collected, fv)
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return Values{}, &ParseError{Message: "help requested", Err: err}
		}
		return Values{}, &ParseError{Message: err.Error(), Err: err}
	}
	if rest := fs.Args(); len(rest) > 0 {
		return Values{}, &ParseError{Message: fmt.Sprintf("unexpected argument %q", rest[0])}
	}

	for _, fv := range collected {
		if len(fv.values) == 0 {
			if !fv.spec.Optional {
				return Values{}, &ParseError{Message: fmt.Sprintf("missing required flag: -%s", fv.spec.Name)}
			}
			continue
		}
		values.raw[fv.spec.Name] = fv.values
	}
	return values, nil
}

// Parse parses the standalone server arguments into Options. On failure it
// writes the error message and the usage synopsis to usageOut before
// returning the error. A help request writes only the usage.
func Parse(args []string, usageOut io.Writer) (*Options, error) {
	registry := DefaultFlags()
	values, err := ParseFlags(registry, args)
	if err != nil {
		if usageOut != nil {
			if !IsHelp(err) {
				fmt.Fprintln(usageOut, err)
			}
			Usage(usageOut, registry)
		}
		return nil, err
	}
	opts := optionsFromValues(values)
	return &opts, nil
}

// Usage writes the usage synopsis for registry to w.
func Usage(w io.Writer, registry []FlagSpec) {
	fmt.Fprintf(w, "Usage: %s [flags]\n\nFlags:\n", ProgramName)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, spec := range registry {
		kind := spec.Kind.String()
		if spec.Multiple {
			kind += ", repeatable"
		}
		desc := spec.Description
		switch {
		case !spec.Optional:
			desc += " (required)"
		case spec.Default != "":
			desc += fmt.Sprintf(" (default %s)", spec.Default)
		}
		fmt.Fprintf(tw, "  -%s\t%s\t%s\n", spec.Name, kind, desc)
	}
	_ = tw.Flush()
}
