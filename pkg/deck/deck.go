// Package deck parses a line-oriented text description of a power
// distribution network. Every element line contributes one shunt branch
// across the supply; a .sweep directive fixes the analysis grid.
//
// Format:
//
//	* title line
//	plane P1 1in 1in 20in 10in 2mil er=4.7
//	cap   C1 100n 0.5n 0.039 via=10mil,62mil,20mil mount=1n n=10
//	via   V1 10mil 62mil 20mil
//	ind   L1 1n
//	res   R1 0.003
//	.sweep 10k 1G 100
//
// Values take engineering suffixes (k, meg, m, u, n, p, f) and board
// units (mil, in). Text after a '*' is a comment.
package deck

import (
	"bufio"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/edp1096/go2port/pkg/freq"
	"github.com/edp1096/go2port/pkg/oneport"
)

var ErrSyntax = errors.New("deck: syntax error")

// Deck is a parsed network description: a named set of shunt branches
// and the frequency grid to sweep them over.
type Deck struct {
	Title    string
	Branches []Branch
	Grid     *freq.Grid
}

// Branch is one parallel leg of the network.
type Branch struct {
	Name   string
	Device oneport.OnePort
}

// PDS combines every branch in parallel into the impedance seen at the
// supply node.
func (d *Deck) PDS() oneport.OnePort {
	z := d.Branches[0].Device
	for _, b := range d.Branches[1:] {
		z = oneport.Parallel(z, b.Device)
	}
	return z
}

var unitMap = map[string]float64{
	"T":   1e12,
	"G":   1e9,
	"meg": 1e6,
	"M":   1e6,
	"K":   1e3,
	"k":   1e3,
	"m":   1e-3,
	"u":   1e-6,
	"n":   1e-9,
	"p":   1e-12,
	"f":   1e-15,
	"mil": 2.54e-5,
	"in":  2.54e-2,
}

var valueRe = regexp.MustCompile(`^([-+]?\d*\.?\d+(?:[eE][-+]?\d+)?)(meg|mil|in|[TGMKkmunpf])?$`)

// ParseValue parses a number with an optional engineering or board-unit
// suffix.
func ParseValue(val string) (float64, error) {
	m := valueRe.FindStringSubmatch(strings.TrimSpace(val))
	if m == nil {
		return 0, fmt.Errorf("invalid value %q: %w", val, ErrSyntax)
	}

	num, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, err
	}

	if m[2] != "" {
		num *= unitMap[m[2]]
	}
	return num, nil
}

// Parse reads a deck from text. The first line is the title; a deck
// must declare at least one element and exactly one .sweep.
func Parse(input string) (*Deck, error) {
	scanner := bufio.NewScanner(strings.NewReader(input))
	d := &Deck{}

	lineNo := 0
	if scanner.Scan() {
		lineNo++
		d.Title = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(scanner.Text()), "*"))
	}

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		// strip trailing comment
		if idx := strings.Index(line, "*"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if err := d.parseLine(line); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}

	if len(d.Branches) == 0 {
		return nil, fmt.Errorf("deck declares no elements: %w", ErrSyntax)
	}
	if d.Grid == nil {
		return nil, fmt.Errorf("deck has no .sweep directive: %w", ErrSyntax)
	}
	return d, nil
}

func (d *Deck) parseLine(line string) error {
	fields := strings.Fields(line)
	if strings.HasPrefix(fields[0], ".") {
		return d.parseDirective(fields)
	}
	return d.parseElement(fields)
}

func (d *Deck) parseDirective(fields []string) error {
	switch strings.ToLower(fields[0]) {
	case ".sweep":
		if len(fields) != 4 {
			return fmt.Errorf(".sweep needs fstart, fstop and steps per decade: %w", ErrSyntax)
		}
		fstart, err := ParseValue(fields[1])
		if err != nil {
			return fmt.Errorf("invalid fstart: %w", err)
		}
		fstop, err := ParseValue(fields[2])
		if err != nil {
			return fmt.Errorf("invalid fstop: %w", err)
		}
		steps, err := strconv.Atoi(fields[3])
		if err != nil {
			return fmt.Errorf("invalid step count %q: %w", fields[3], ErrSyntax)
		}

		g, err := freq.Log(fstart, fstop, steps)
		if err != nil {
			return err
		}
		d.Grid = g
		return nil

	default:
		return fmt.Errorf("unknown directive %s: %w", fields[0], ErrSyntax)
	}
}

func (d *Deck) parseElement(fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("element needs a type, a name and a value: %w", ErrSyntax)
	}
	kind := strings.ToLower(fields[0])
	name := fields[1]

	var pos []float64
	params := make(map[string]string)
	for _, f := range fields[2:] {
		if k, v, ok := strings.Cut(f, "="); ok {
			params[strings.ToLower(k)] = v
			continue
		}
		x, err := ParseValue(f)
		if err != nil {
			return fmt.Errorf("element %s: %w", name, err)
		}
		pos = append(pos, x)
	}

	dev, err := buildDevice(kind, pos, params)
	if err != nil {
		return fmt.Errorf("element %s: %w", name, err)
	}

	if c, ok := params["n"]; ok {
		count, err := strconv.Atoi(c)
		if err != nil {
			return fmt.Errorf("element %s: invalid count %q: %w", name, c, ErrSyntax)
		}
		dev, err = oneport.RepeatParallel(dev, count)
		if err != nil {
			return fmt.Errorf("element %s: %w", name, err)
		}
	}

	d.Branches = append(d.Branches, Branch{Name: name, Device: dev})
	return nil
}

func buildDevice(kind string, pos []float64, params map[string]string) (oneport.OnePort, error) {
	switch kind {
	case "res":
		if len(pos) != 1 {
			return nil, fmt.Errorf("res takes one value: %w", ErrSyntax)
		}
		return oneport.NewResistor(pos[0])

	case "ind":
		if len(pos) != 1 {
			return nil, fmt.Errorf("ind takes one value: %w", ErrSyntax)
		}
		return oneport.NewInductor(pos[0])

	case "via":
		if len(pos) != 3 {
			return nil, fmt.Errorf("via takes drill, barrel and spacing: %w", ErrSyntax)
		}
		return oneport.NewViaPair(pos[0], pos[1], pos[2])

	case "cap":
		var dev oneport.OnePort
		var err error
		switch len(pos) {
		case 1:
			dev, err = oneport.NewCapacitor(pos[0])
		case 3:
			dev, err = oneport.NewBypass(pos[0], pos[1], pos[2])
		default:
			return nil, fmt.Errorf("cap takes c or c, esl, esr: %w", ErrSyntax)
		}
		if err != nil {
			return nil, err
		}

		if v, ok := params["via"]; ok {
			dims, err := parseTriple(v)
			if err != nil {
				return nil, err
			}
			via, err := oneport.NewViaPair(dims[0], dims[1], dims[2])
			if err != nil {
				return nil, err
			}
			dev = oneport.Series(dev, via)
		}
		if v, ok := params["mount"]; ok {
			l, err := ParseValue(v)
			if err != nil {
				return nil, err
			}
			lm, err := oneport.NewInductor(l)
			if err != nil {
				return nil, err
			}
			dev = oneport.Series(dev, lm)
		}
		return dev, nil

	case "plane":
		if len(pos) != 5 {
			return nil, fmt.Errorf("plane takes x, y, X, Y and gap: %w", ErrSyntax)
		}
		if v, ok := params["er"]; ok {
			er, err := ParseValue(v)
			if err != nil {
				return nil, err
			}
			return oneport.NewPlaneGrid(pos[0], pos[1], pos[2], pos[3], pos[4], er, 20, 20)
		}
		return oneport.NewPlane(pos[0], pos[1], pos[2], pos[3], pos[4])

	default:
		return nil, fmt.Errorf("unknown element type %q: %w", kind, ErrSyntax)
	}
}

func parseTriple(s string) ([3]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return [3]float64{}, fmt.Errorf("expected three comma-separated values, got %q: %w", s, ErrSyntax)
	}

	var out [3]float64
	for i, p := range parts {
		x, err := ParseValue(p)
		if err != nil {
			return [3]float64{}, err
		}
		out[i] = x
	}
	return out, nil
}
