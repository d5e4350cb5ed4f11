package main

import (
	"fmt"
	"log"
	"os"

	"github.com/maseology/mmio"

	"github.com/jlant/waterpy"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Println("usage: run <model configuration file>")
		os.Exit(1)
	}

	fmt.Println("")
	tt := mmio.NewTimer()
	defer tt.Lap("\nrun complete")

	cfg, err := waterpy.LoadConfig(os.Args[1])
	if err != nil {
		log.Fatalln(err)
	}

	// load data
	b, err := waterpy.LoadBasinParams(cfg.InPath(cfg.ParametersBasinFile))
	if err != nil {
		log.Fatalln(err)
	}
	lt, err := waterpy.LoadLandTypeParams(cfg.InPath(cfg.ParametersLandTypeFile), cfg.LandType)
	if err != nil {
		log.Fatalln(err)
	}
	twi, err := waterpy.LoadTWI(cfg.InPath(cfg.TWIFile))
	if err != nil {
		log.Fatalln(err)
	}
	frc, err := waterpy.LoadTimeseries(cfg.InPath(cfg.TimeseriesFile), cfg.StartDate, cfg.EndDate)
	if err != nil {
		log.Fatalln(err)
	}
	tt.Print("load complete")

	// run model
	opts := cfg.Opts
	opts.Progress = true
	sim, err := waterpy.New(b, lt, twi, frc, opts)
	if err != nil {
		log.Fatalln(err)
	}
	o, err := sim.Run()
	if err != nil {
		log.Fatalln(err)
	}
	tt.Print("simulation complete")

	// write results
	mmio.MakeDir(cfg.OutputDir)
	if err := o.WriteCSV(cfg.OutPath(cfg.OutputFilename)); err != nil {
		log.Fatalln(err)
	}
	if err := o.WriteFDC(cfg.OutPath(cfg.OutputFilenameFDC)); err != nil {
		log.Fatalln(err)
	}
	if opts.WriteMatrices {
		if err := o.WriteMatrices(cfg.OutPath(cfg.OutputFilenameDeficits),
			cfg.OutPath(cfg.OutputFilenameUnsatZone),
			cfg.OutPath(cfg.OutputFilenameRootZone)); err != nil {
			log.Fatalln(err)
		}
	}
	o.Report()
}
