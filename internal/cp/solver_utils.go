package cp

import (
	"encoding/json"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

// ConfigPath points to an optional JSON file mapping solver names to their
// executable paths; solvers missing from it are looked up on $PATH
var ConfigPath = "config.json"

func parseSolution(solverOutput string) SATSolution {
	resultLines := lo.Filter(strings.Split(solverOutput, "\n"), func(line string, _ int) bool {
		return len(line) > 0 && line[0] == 'v'
	})
	if len(resultLines) == 0 {
		return nil
	}

	values := lo.FilterMap(
		lo.Reduce(resultLines, func(splits []string, line string, _ int) []string {
			return append(splits, strings.Split(line[2:], " ")...)
		}, []string{}),
		func(valueStr string, _ int) (int64, bool) {
			if valueStr == "" {
				return 0, false
			}
			value, err := strconv.ParseInt(valueStr, 10, 64)
			if err != nil {
				log.Panicf("invalid literal in solver output: %v", err)
			}
			return value, true
		},
	)

	// Drop the terminating 0 literal
	if n := len(values); n > 0 && values[n-1] == 0 {
		values = values[:n-1]
	}
	return values
}

func executablePath(solver string) string {
	bytes, err := os.ReadFile(ConfigPath)
	if err != nil {
		return solver
	}

	var configJson map[string]any
	if err := json.Unmarshal(bytes, &configJson); err != nil {
		log.Fatalf("cannot read %v file: %v", ConfigPath, err)
	}

	var config map[string]string
	mapstructure.Decode(configJson, &config)

	if path, ok := config[solver]; ok {
		return path
	}
	return solver
}
