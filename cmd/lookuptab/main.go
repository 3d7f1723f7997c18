// Command lookuptab builds or loads the phase lookup tables for a site
// and prints a summary of each table.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"

	"daslayout/internal/earthmodel"
	"daslayout/internal/lookup"
	"daslayout/internal/site"
)

func main() {
	var (
		sitePath  = flag.String("site", "", "site configuration yaml (built-in defaults when empty)")
		dataDir   = flag.String("data", "data", "lookup table cache directory")
		groupsArg = flag.String("groups", "p=p,P;s=s,S", "phase groups as name=phase,phase;name=...")
		modelPath = flag.String("model", "", "velocity model yaml (defaults to the site location)")
	)
	flag.Parse()

	s, err := loadSite(*sitePath)
	if err != nil {
		log.Fatalf("lookuptab: %v", err)
	}
	groups, err := parseGroups(*groupsArg)
	if err != nil {
		log.Fatalf("lookuptab: %v", err)
	}

	calc, err := lookup.NewCalculator(s.Lat, s.Lon,
		s.ReceiverDepthGrid.Values(), s.DistanceGrid.Values(), s.SourceDepthGrid.Values(),
		*dataDir)
	if err != nil {
		log.Fatalf("lookuptab: %v", err)
	}
	if *modelPath != "" {
		m, err := earthmodel.Load(*modelPath)
		if err != nil {
			log.Fatalf("lookuptab: %v", err)
		}
		calc.Tracer = m
	}

	tables, err := calc.Tables(groups)
	if err != nil {
		log.Fatalf("lookuptab: %v", err)
	}

	names := make([]string, 0, len(tables))
	for g := range tables {
		names = append(names, g)
	}
	sort.Strings(names)
	for _, g := range names {
		t := tables[g]
		finite, total := 0, len(t.ArrivalTime.Elements)
		for _, v := range t.ArrivalTime.Elements {
			if !math.IsNaN(v) {
				finite++
			}
		}
		log.Printf("lookuptab: %s: %dx%dx%d, %d/%d cells with arrivals",
			g, len(t.ReceiverDepth), len(t.Distance), len(t.SourceDepth), finite, total)
	}
}

func loadSite(path string) (*site.Site, error) {
	if path == "" {
		return site.Default(), nil
	}
	return site.Load(path)
}

// parseGroups splits "p=p,P;s=s,S" into named phase lists.
func parseGroups(arg string) (map[string][]earthmodel.Phase, error) {
	groups := make(map[string][]earthmodel.Phase)
	for _, part := range strings.Split(arg, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, list, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("bad group %q: want name=phase,phase", part)
		}
		var phases []earthmodel.Phase
		for _, p := range strings.Split(list, ",") {
			if p = strings.TrimSpace(p); p != "" {
				phases = append(phases, earthmodel.Phase(p))
			}
		}
		if len(phases) == 0 {
			return nil, fmt.Errorf("group %q has no phases", name)
		}
		groups[name] = phases
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("no phase groups in %q", arg)
	}
	return groups, nil
}
