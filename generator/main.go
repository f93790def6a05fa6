package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"math/rand"
	"os"
	"time"

	"git.solver4all.com/azaryc2s/sop"
	"github.com/gocarina/gocsv"
)

var categories = []string{"WATER", "FOOD", "AMMO", "MEDICAL", "SHELTER", "COMMS", "TOOLS", "CLOTHING"}

var itemCounts sop.ArrayIntFlags

func main() {
	flag.Var(&itemCounts, "n", "List of numbers of items per dataset")
	name := flag.String("name", "zarychta", "Name prefix for the generated datasets")
	count := flag.Int("count", 10, "Number of datasets per item count")
	maxAvail := flag.Int("avail", 40, "Max available quantity per item")
	maxValue := flag.Int("value", 100, "Max utility value per item")
	writeParams := flag.Bool("params", true, "Whether to also write a default parameter CSV")

	flag.Parse()

	if len(itemCounts) == 0 {
		log.Printf("No item counts passed!")
		return
	}

	rand.Seed(time.Now().UnixNano())
	for l := 0; l < *count; l++ {
		for i := 0; i < len(itemCounts); i++ {
			n := itemCounts[i]
			items := make([]sop.Item, n)
			for j := 0; j < n; j++ {
				it := sop.Item{
					ID:           fmt.Sprintf("item_%03d", j),
					Category:     categories[rand.Intn(len(categories))],
					Value:        float64(1 + rand.Intn(*maxValue)),
					Weight:       0.1 + rand.Float64()*9.9,
					Volume:       0.1 + rand.Float64()*4.9,
					Available:    1 + rand.Intn(*maxAvail),
					Shareable:    rand.Intn(2) == 1,
					Transferable: rand.Intn(2) == 1,
					Required:     rand.Intn(4) == 0, //roughly a quarter of the items is mission-critical
					MaxPerMarine: 1 + rand.Intn(6),
				}
				if it.Required {
					it.MinRequired = 1 + rand.Intn(2)
					if !it.Shareable && it.MinRequired > it.MaxPerMarine {
						it.MaxPerMarine = it.MinRequired
					}
					if it.Available < it.MinRequired {
						it.Available = it.MinRequired
					}
				}
				items[j] = it
			}

			fileName := fmt.Sprintf("%s_%d_%d.csv", *name, n, l)
			if err := writeItems(fileName, items); err != nil {
				log.Fatal(err)
			}
			fmt.Println(fileName)
		}
	}

	if *writeParams {
		if err := writeDefaultParams(fmt.Sprintf("%s_parameters.csv", *name)); err != nil {
			log.Fatal(err)
		}
	}
}

func writeItems(fileName string, items []sop.Item) error {
	f, err := os.Create(fileName)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.MarshalFile(&items, f)
}

func writeDefaultParams(fileName string) error {
	content := "Parameter,Value\n" +
		"w,1\n" +
		"q,1\n" +
		"beta,0.2\n" +
		"gamma,0.001\n" +
		"weight_cap,100\n" +
		"volume_cap,75\n" +
		"utility_mode,FLAT\n" +
		"soft_capacity,false\n"
	return ioutil.WriteFile(fileName, []byte(content), 0644)
}
