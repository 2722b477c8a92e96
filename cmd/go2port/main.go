package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/edp1096/go2port/pkg/convert"
	"github.com/edp1096/go2port/pkg/deck"
	"github.com/edp1096/go2port/pkg/util"
)

var quiet = flag.Bool("q", false, "print only the impedance minimum")

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatal("Usage: go2port [-q] <deck_file>")
	}

	content, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("Error reading deck file: %v", err)
	}

	d, err := deck.Parse(string(content))
	if err != nil {
		log.Fatalf("Error parsing deck: %v", err)
	}

	z, err := d.PDS().Z(d.Grid)
	if err != nil {
		log.Fatalf("Error evaluating network: %v", err)
	}
	mag := convert.Magnitude(z)
	phase := convert.PhaseDeg(z)

	fmt.Printf("%s\n", d.Title)
	fmt.Printf("Branches: %d, sweep points: %d\n\n", len(d.Branches), d.Grid.Len())

	minIdx := 0
	for i := range mag {
		if mag[i] < mag[minIdx] {
			minIdx = i
		}
	}

	if !*quiet {
		fmt.Println("Frequency      Impedance")
		fmt.Println("--------------------------------------")
		for i := range mag {
			fmt.Printf("%s  %-14s %8.2f deg\n",
				util.FormatFrequency(d.Grid.Hz(i)),
				util.FormatValue(mag[i], "Ohm"),
				phase[i])
		}
		fmt.Println()
	}

	fmt.Printf("Minimum impedance: %s at %s\n",
		util.FormatValue(mag[minIdx], "Ohm"),
		util.FormatFrequency(d.Grid.Hz(minIdx)))
}
