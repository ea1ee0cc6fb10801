// genbasepoints generates the precomputed secp256k1 window table that
// the search kernel's windowed scalar multiplication loads at startup.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"ethvanity/gpu/basepoints"
)

func main() {
	outDir := flag.String("out", ".", "output directory for the base-point table files")
	flag.Parse()

	fmt.Println("Generating secp256k1 base-point window table...")

	start := time.Now()
	table := basepoints.Generate()

	fmt.Print("Verifying table... ")
	if err := table.Verify(); err != nil {
		fmt.Fprintf(os.Stderr, "FAILED: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("OK")

	xPath := *outDir + "/basepoints_x.bin"
	yPath := *outDir + "/basepoints_y.bin"

	fmt.Printf("Saving to %s and %s... ", xPath, yPath)
	if err := table.Save(xPath, yPath); err != nil {
		fmt.Fprintf(os.Stderr, "FAILED: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("OK")

	elapsed := time.Since(start)
	fmt.Printf("\nGeneration completed in %s\n", elapsed.Round(time.Millisecond))
	fmt.Printf("X table: %d bytes\n", len(table.X))
	fmt.Printf("Y table: %d bytes\n", len(table.Y))
}
