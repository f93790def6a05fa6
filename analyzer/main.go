package main

import (
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"strings"

	"git.solver4all.com/azaryc2s/sop"
)

func main() {
	if len(os.Args) < 2 {
		log.Printf("No arguments passed!")
		return
	}
	dirName := os.Args[1]
	dir, err := ioutil.ReadDir(dirName)
	if err != nil {
		log.Printf("Couldn't open directory %s: %s\n", os.Args[1], err.Error())
		return
	}
	fmt.Printf("Dataset,Squad,Duration,Status,Objective,Bound,Gap,Score,Shortfalls,Time,Comment\n")
	for _, f := range dir {
		fileName := dirName + "/" + f.Name()
		if !strings.HasSuffix(fileName, ".json") {
			continue
		}
		res, err := sop.ReadResult(fileName)
		if err != nil {
			log.Printf("Couldn't read %s: %s\n", f.Name(), err.Error())
			return
		}
		comment := res.Comment
		if res.Solution.HasAssignment {
			if valid, validComment := sop.CheckSolutionValidity(&res.Config, res.Solution.Assignment); !valid {
				comment += fmt.Sprintf("ANALYZER: %s", validComment)
			}
		}
		gap := 0.0
		if res.Solution.Status == sop.StatusTimedOut && res.Solution.Objective != 0 {
			gap = 100.0 * (res.Solution.Bound - res.Solution.Objective) / res.Solution.Objective
		}
		score := "-"
		if res.Scored {
			score = fmt.Sprintf("%.4f", res.Score)
		}
		fmt.Printf("%s,%d,%d,%s,%.2f,%.2f,%.4f,%s,%d,%s,%s\n",
			res.Config.Dataset, res.Config.Squad, res.Config.Duration, res.Solution.Status,
			res.Solution.Objective, res.Solution.Bound, gap, score, len(res.ItemShortfalls),
			res.Solution.Time, comment)
	}
}
