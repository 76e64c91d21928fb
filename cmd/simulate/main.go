// Command simulate plays one game between two roster files and prints the
// box score.
package main

import (
	"encoding/json"
	"flag"
	"os"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/xtding233/hoops-sim/internal/coeff"
	"github.com/xtding233/hoops-sim/internal/config"
	"github.com/xtding233/hoops-sim/internal/dice"
	"github.com/xtding233/hoops-sim/internal/engine"
	"github.com/xtding233/hoops-sim/internal/roster"
)

func main() {
	var cfg config.Simulate
	if err := config.ParseEnv(&cfg); err != nil {
		config.Exitf("config: %v", err)
	}

	homePath := flag.String("home", "config/rosters/harbor.yaml", "home roster YAML")
	awayPath := flag.String("away", "config/rosters/summit.yaml", "away roster YAML")
	seedFlag := flag.String("seed", "", "game seed (random when empty)")
	version := flag.String("version", cfg.Version, "coefficient version")
	passMode := flag.String("pass-mode", "", "override pass.mode (coefficient or flat)")
	dir := flag.String("config-dir", cfg.ConfigDir, "directory holding coefficients/ overlays")
	events := flag.Bool("events", false, "print play-by-play")
	asJSON := flag.Bool("json", false, "print the full result as JSON")
	lang := flag.String("lang", "en", "number formatting language")
	flag.Parse()

	log, err := config.Logger(cfg.LogLevel)
	if err != nil {
		config.Exitf("config: %v", err)
	}

	home, err := roster.LoadTeam(*homePath)
	if err != nil {
		config.Exitf("home: %v", err)
	}
	away, err := roster.LoadTeam(*awayPath)
	if err != nil {
		config.Exitf("away: %v", err)
	}

	var seed uint64
	if *seedFlag == "" {
		if seed, err = dice.NewSeed(); err != nil {
			config.Exitf("seed: %v", err)
		}
	} else if seed, err = strconv.ParseUint(*seedFlag, 10, 64); err != nil {
		config.Exitf("seed %q: %v", *seedFlag, err)
	}

	o := coeff.Overrides{Version: version}
	if *passMode != "" {
		o.PassMode = passMode
	}
	c, err := coeff.NewLoader(*dir).Resolve(o)
	if err != nil {
		config.Exitf("coefficients: %v", err)
	}

	res, err := engine.Simulate(home, away, engine.Options{Seed: seed, Coefficients: c, Logger: log})
	if err != nil {
		config.Exitf("simulate: %v", err)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			config.Exitf("encode: %v", err)
		}
		return
	}

	tag, err := language.Parse(*lang)
	if err != nil {
		config.Exitf("lang %q: %v", *lang, err)
	}
	p := message.NewPrinter(tag)
	if *events {
		printEvents(p, os.Stdout, res)
	}
	printResult(p, os.Stdout, home, away, res)
}
