// Package main provides the born command for inspecting saved models and
// running predictions from the shell.
package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/learn/model"
)

const version = "v0.1.0"

const usage = `born - neural network toolkit

Commands:
  version                              Show version
  inspect -model FILE                  Show the task, targets, layers and metadata of a saved model
  predict -model FILE [-data CSV] [-proba]
                                       Predict one line per CSV row (stdin if -data is omitted)
`

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "born:", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stdout, usage)
		return nil
	}

	switch args[0] {
	case "version":
		fmt.Fprintf(stdout, "born %s\n", version)
		return nil
	case "inspect":
		return inspect(args[1:], stdout)
	case "predict":
		return predict(args[1:], stdin, stdout)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func inspect(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	path := fs.String("model", "", "saved model file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	m, err := loadModel(*path)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "task:    %s\n", m.Task())
	fmt.Fprintf(stdout, "targets: %v\n", m.Targets())
	fmt.Fprintf(stdout, "layers:  %s\n", m.Network())
	md := m.Metadata()
	for _, k := range slices.Sorted(maps.Keys(md)) {
		fmt.Fprintf(stdout, "meta:    %s=%s\n", k, md[k])
	}
	return nil
}

func predict(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("predict", flag.ContinueOnError)
	path := fs.String("model", "", "saved model file")
	data := fs.String("data", "", "CSV file with one observation per row")
	proba := fs.Bool("proba", false, "print class probabilities instead of the predicted class")
	if err := fs.Parse(args); err != nil {
		return err
	}
	m, err := loadModel(*path)
	if err != nil {
		return err
	}

	in := stdin
	if *data != "" {
		f, err := os.Open(*data)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	observations, err := readObservations(in)
	if err != nil {
		return err
	}

	if *proba {
		predictions, err := m.PredictProbabilityBatch(observations)
		if err != nil {
			return err
		}
		for _, p := range predictions {
			fmt.Fprintf(stdout, "%g %s\n", p.Prediction, formatProbabilities(p.Probabilities))
		}
		return nil
	}

	predictions, err := m.PredictBatch(observations)
	if err != nil {
		return err
	}
	for _, p := range predictions {
		fmt.Fprintf(stdout, "%g\n", p)
	}
	return nil
}

func loadModel(path string) (*model.Model, error) {
	if path == "" {
		return nil, errors.New("-model is required")
	}
	return model.LoadFile(path)
}

// readObservations parses headerless numeric CSV rows of equal width.
func readObservations(r io.Reader) (*mat.Dense, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read observations: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("no observations")
	}

	cols := len(records[0])
	values := make([]float64, 0, len(records)*cols)
	for i, record := range records {
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %d: %w", i+1, j+1, err)
			}
			values = append(values, v)
		}
	}
	return mat.NewDense(len(records), cols, values), nil
}

// formatProbabilities renders "class:probability" pairs for every output
// position in ascending order.
func formatProbabilities(probabilities map[float64]float64) string {
	out := make([]byte, 0, 12*len(probabilities))
	for k := range len(probabilities) {
		if k > 0 {
			out = append(out, ' ')
		}
		out = strconv.AppendInt(out, int64(k), 10)
		out = append(out, ':')
		out = strconv.AppendFloat(out, probabilities[float64(k)], 'f', 4, 64)
	}
	return string(out)
}
