package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"git.solver4all.com/azaryc2s/sop"
	"github.com/gocarina/gocsv"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/host"
	"github.com/shirou/gopsutil/mem"
)

var (
	datasetF  sop.ArrayStringFlags
	squads    sop.ArrayIntFlags
	durations sop.ArrayIntFlags
	paramsF   *string
	outDir    *string
	workers   *int
	timeLimit *int
	logLvl    *int
)

type allocationRow struct {
	Marine   int    `csv:"marine"`
	Item     string `csv:"item"`
	Quantity int    `csv:"quantity"`
}

func main() {
	flag.Var(&datasetF, "dataset", "Path to an item dataset CSV. Can be passed multiple times")
	flag.Var(&squads, "squad", "Squad size to evaluate. Can be passed multiple times")
	flag.Var(&durations, "duration", "Mission duration in days. Can be passed multiple times")
	paramsF = flag.String("params", "optimization_parameters.csv", "Path to the parameter CSV")
	outDir = flag.String("out", "results", "Directory for the per-configuration result files")
	workers = flag.Int("workers", 1, "Number of configurations solved in parallel")
	timeLimit = flag.Int("timelimit", 60, "Time limit per configuration in seconds")
	logLvl = flag.Int("log", 2, "Level of the logging output. Higher value is more verbose. Range 1-4")

	flag.Parse()
	sop.InitLoggers(*logLvl)

	if len(datasetF) == 0 || len(squads) == 0 || len(durations) == 0 {
		sop.Log(1, "Need at least one -dataset, one -squad and one -duration")
		os.Exit(1)
	}

	// Parameters are shared by every configuration; nothing can run without them.
	params, err := sop.LoadParameters(*paramsF)
	if err != nil {
		sop.Log(1, "At %s: %s", *paramsF, err.Error())
		os.Exit(1)
	}

	var datasets []sop.Dataset
	for _, path := range datasetF {
		ds, err := sop.LoadItems(path)
		if err != nil {
			sop.Log(1, "At %s: %s", path, err.Error())
			os.Exit(1)
		}
		datasets = append(datasets, ds)
	}

	configs, err := sop.EnumerateConfigurations(datasets, squads, durations, params)
	if err != nil {
		sop.Log(1, err.Error())
		os.Exit(1)
	}
	if err := os.MkdirAll(*outDir, 0755); err != nil {
		sop.Log(1, "Couldn't create %s: %s", *outDir, err.Error())
		os.Exit(1)
	}

	hostStat, _ := host.Info()
	cpuStat, _ := cpu.Info()
	vmStat, _ := mem.VirtualMemory()
	system := sop.SysInfo{Platform: hostStat.Platform, CPU: cpuStat[0].ModelName, RAM: fmt.Sprintf("%d GB", (vmStat.Total / 1024 / 1024 / 1024))}

	sop.Log(2, "Running %d configurations on %d workers with a %ds time limit each", len(configs), *workers, *timeLimit)
	startTime := time.Now()
	results, err := sop.RunConfigurations(configs, params, sop.NewGurobiSolver(), sop.RunnerOptions{
		Workers:   *workers,
		TimeLimit: time.Duration(*timeLimit) * time.Second,
	})
	if err != nil {
		sop.Log(1, err.Error())
		os.Exit(1)
	}
	sop.Log(2, "\n---OPTIMIZATION DONE---\n\t Writing results now\n")

	fmt.Printf("Dataset,Squad,Duration,Status,Objective,Score,Time\n")
	for i := range results {
		res := &results[i]
		res.System = system
		writeResultFiles(res)
		score := "-"
		if res.Scored {
			score = fmt.Sprintf("%.4f", res.Score)
		}
		fmt.Printf("%s,%d,%d,%s,%.2f,%s,%s\n", res.Config.Dataset, res.Config.Squad, res.Config.Duration,
			res.Solution.Status, res.Solution.Objective, score, res.Solution.Time)
	}
	sop.Log(2, "Finished %d configurations in %s", len(results), time.Since(startTime).String())
}

func writeResultFiles(res *sop.Result) {
	base := fmt.Sprintf("%s_k%d_d%d", res.Config.Dataset, res.Config.Squad, res.Config.Duration)

	jsonPath := filepath.Join(*outDir, base+".json")
	if err := sop.WriteResult(jsonPath, res); err != nil {
		sop.Log(1, "At %s: %s", jsonPath, err.Error())
		return
	}

	if !res.Solution.HasAssignment {
		return
	}
	var rows []allocationRow
	for i, it := range res.Config.Items {
		for k, m := range res.Config.Marines {
			if qty := res.Solution.Assignment.Qty(i, k); qty > 0 {
				rows = append(rows, allocationRow{Marine: m.ID, Item: it.ID, Quantity: qty})
			}
		}
	}
	csvPath := filepath.Join(*outDir, base+".csv")
	f, err := os.Create(csvPath)
	if err != nil {
		sop.Log(1, "At %s: %s", csvPath, err.Error())
		return
	}
	defer f.Close()
	if err := gocsv.MarshalFile(&rows, f); err != nil {
		sop.Log(1, "At %s: %s", csvPath, err.Error())
	}
}
