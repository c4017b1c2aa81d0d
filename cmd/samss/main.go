package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/c-bruce/samss"
)

const defaultScenario = "~~unset~~"

var (
	scenario string
	resume   string
	verbose  bool
)

func init() {
	flag.StringVar(&scenario, "scenario", defaultScenario, "scenario TOML configuration file")
	flag.StringVar(&resume, "resume", "", "path to a saved Timestep snapshot to resume from, instead of building a fresh one")
	flag.BoolVar(&verbose, "verbose", false, "has no effect: the System always logs every integration step and every save")
}

func main() {
	flag.Parse()
	if scenario == defaultScenario {
		log.Fatal("no -scenario provided")
	}
	scenario = strings.TrimSuffix(scenario, ".toml")
	if err := samss.LoadConfig(scenario + ".toml"); err != nil {
		log.Fatalf("loading %s.toml: %s", scenario, err)
	}

	var ts *samss.Timestep
	if resume != "" {
		loaded, err := samss.LoadTimestep(resume)
		if err != nil {
			log.Fatalf("resuming from %s: %s", resume, err)
		}
		ts = loaded
	} else {
		ts = samss.NewTimestep()
	}

	scheme, err := samss.ConfiguredScheme()
	if err != nil {
		log.Fatalf("configured scheme: %s", err)
	}

	if dir := samss.SaveDir(); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("creating save dir %s: %s", dir, err)
		}
	}

	sys := samss.NewSystem(scenario, ts, samss.Dt(), samss.EndTime(), samss.SaveInterval(), scheme, samss.SaveDir())
	if err := sys.Simulate(); err != nil {
		log.Fatalf("simulation failed: %s", err)
	}
}
