package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"strings"

	"github.com/gookit/color"

	"roomchat/moderation"
)

// Trains the toxicity model from a labeled dataset and writes the gob
// artifact the server loads at startup. One sample per line:
//
//	label<TAB>text
//
// where label is 0 (clean) or 1 (toxic).
func main() {
	dataPath := flag.String("data", "", "Path to the labeled TSV dataset")
	outPath := flag.String("out", "toxicity.gob", "Where to write the model artifact")
	features := flag.Int("features", 4096, "Feature vector size")
	epochs := flag.Int("epochs", 20, "Training epochs")
	rate := flag.Float64("rate", 0.1, "Learning rate")
	flag.Parse()

	if *dataPath == "" {
		log.Fatal("missing -data flag")
	}

	samples, err := loadDataset(*dataPath)
	if err != nil {
		log.Fatal("Error while loading dataset: ", err)
	}
	if len(samples) == 0 {
		log.Fatal("dataset is empty")
	}

	model := train(samples, *features, *epochs, *rate)
	if err := moderation.SaveModel(*outPath, model); err != nil {
		log.Fatal("Error while saving model: ", err)
	}

	color.Green.Printf("Trained on %d samples, model written to %s\n", len(samples), *outPath)
}

type sample struct {
	text  string
	label float64
}

func loadDataset(path string) ([]sample, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var samples []sample
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		label, text, found := strings.Cut(line, "\t")
		if !found || strings.TrimSpace(text) == "" {
			continue
		}
		switch strings.TrimSpace(label) {
		case "0":
			samples = append(samples, sample{text: text, label: 0})
		case "1":
			samples = append(samples, sample{text: text, label: 1})
		default:
			return nil, fmt.Errorf("bad label %q", label)
		}
	}
	return samples, scanner.Err()
}

// train fits a logistic regression with plain SGD over hashed binary
// features, the same representation the server scores with.
func train(samples []sample, features, epochs int, rate float64) *moderation.Model {
	model := &moderation.Model{
		Features: features,
		Weights:  make([]float64, features),
	}

	vectors := make([][]float64, len(samples))
	for i, s := range samples {
		vectors[i] = moderation.Features(s.text, features)
	}

	rng := rand.New(rand.NewSource(42))
	for epoch := 0; epoch < epochs; epoch++ {
		perm := rng.Perm(len(samples))
		var loss float64
		for _, i := range perm {
			z := model.Bias
			for j, w := range model.Weights {
				z += w * vectors[i][j]
			}
			pred := 1.0 / (1.0 + math.Exp(-z))
			grad := pred - samples[i].label

			model.Bias -= rate * grad
			for j := range model.Weights {
				if vectors[i][j] != 0 {
					model.Weights[j] -= rate * grad * vectors[i][j]
				}
			}
			loss += -samples[i].label*math.Log(pred+1e-9) - (1-samples[i].label)*math.Log(1-pred+1e-9)
		}
		log.Printf("epoch %d/%d, loss %.4f", epoch+1, epochs, loss/float64(len(samples)))
	}
	return model
}
