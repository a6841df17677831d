// Command labelstats summarizes a label CSV file: how many images carry
// each label code, using the chosen label set's names.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"image-labeler/internal/labels"
)

func main() {
	csvPath := flag.String("csv", "image_labels.csv", "Path to the label CSV file")
	setName := flag.String("labelset", "extended", "Label set variant: extended or reduced")
	flag.Parse()

	set, err := labels.SetByName(*setName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	if _, err := os.Stat(*csvPath); err != nil {
		fmt.Fprintf(os.Stderr, "Cannot read %s: %v\n", *csvPath, err)
		os.Exit(1)
	}

	store, err := labels.Open(*csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load labels: %v\n", err)
		os.Exit(1)
	}

	counts := make(map[string]int)
	for _, code := range store.All() {
		counts[code]++
	}

	codes := make([]string, 0, len(counts))
	for code := range counts {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	fmt.Printf("%s: %d labeled images\n", *csvPath, store.Count())
	for _, code := range codes {
		fmt.Printf("  %s (%s): %d\n", code, set.NameFor(code), counts[code])
	}
}
