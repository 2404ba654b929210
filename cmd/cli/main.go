package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"slices"
	"strings"
	"time"

	"autotimetabler/internal/cp"
	"autotimetabler/internal/model"
)

var Days = map[int]string{
	1: "Monday",
	2: "Tuesday",
	3: "Wednesday",
	4: "Thursday",
	5: "Friday",
}

var (
	validSolvers  = []string{"kissat", "cadical", "cryptominisat", "backtrack"}
	validGapModes = []string{"both", "either"}
	solvers       = map[string]func() cp.Solver{
		"kissat":        cp.NewKissatSolver,
		"cadical":       cp.NewCadicalSolver,
		"cryptominisat": cp.NewCryptominisatSolver,
		"backtrack":     cp.NewBacktrackSolver,
	}
	gapModes = map[string]model.GapSemantics{
		"both":   model.GapBothPresent,
		"either": model.GapEitherPresent,
	}
)

func main() {
	// Define arguments
	solverPtr := flag.String("solver", "kissat", "SAT-Solver to use. Allowed values are: \"kissat\", \"cadical\", \"cryptominisat\", \"backtrack\", where \"kissat\" is the default")
	gapModePtr := flag.String("gap-mode", "both", `Semantics of the minimum-gap restriction. Allowed values are:
- "both" (the gap binds a too-close pair only when both periods are chosen, the default) and
- "either" (choosing either period of a too-close pair is forbidden, matching the legacy behavior)`)
	timeoutPtr := flag.Duration("timeout", 0, "Give up solving after this duration (e.g. 30s); 0 disables the limit")
	enumeratePtr := flag.Bool("enumerate", false, "Enumerate every feasible timetable and report the count")
	filePathPtr := flag.String("file", "", "Path to the input catalog file")
	outFilePathPtr := flag.String("out", "", "Path to the file where the timetable will be written as JSON; if empty, it'll be printed to the Standard Output")
	flag.Parse()
	solverStr := strings.ToLower(*solverPtr)
	gapMode := strings.ToLower(*gapModePtr)
	filePath := *filePathPtr
	outFile := *outFilePathPtr

	// Validate arguments
	if !slices.Contains(validSolvers, solverStr) {
		log.Fatalf("%v is not a valid solver", solverStr)
	} else if !slices.Contains(validGapModes, gapMode) {
		log.Fatalf("%v is not a valid gap mode", gapMode)
	} else if filePath == "" {
		log.Fatal("an input file must be specified")
	}

	// Extract input
	input, err := model.InputFromJson(filePath)
	if err != nil {
		log.Fatalf("cannot parse input file: %v", err)
	}

	ctx := context.Background()
	if *timeoutPtr > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeoutPtr)
		defer cancel()
	}

	timetabler := model.NewTimetabler(solvers[solverStr](), gapModes[gapMode])

	if *enumeratePtr {
		enumerate(ctx, timetabler, input)
		return
	}

	// Build timetable
	schedule, err := timetabler.Build(ctx, input)
	if errors.Is(err, model.ErrUnsatisfiable) {
		fmt.Println(cp.StatusInfeasible)
		os.Exit(20)
	} else if errors.Is(err, model.ErrTimeout) {
		fmt.Println(cp.StatusUnknown)
		os.Exit(2)
	} else if err != nil {
		log.Fatalf("an error occurred during timetable construction: %v", err)
	}

	// Verify timetable correctness
	if !timetabler.Verify(schedule, input) {
		os.Exit(15)
	}

	render(schedule, outFile)
}

func enumerate(ctx context.Context, timetabler model.Timetabler, input model.Input) {
	start := time.Now()
	schedules, err := timetabler.Enumerate(ctx, input)
	if errors.Is(err, model.ErrUnsatisfiable) {
		fmt.Println(cp.StatusInfeasible)
		os.Exit(20)
	} else if errors.Is(err, model.ErrTimeout) {
		fmt.Println(cp.StatusUnknown)
		os.Exit(2)
	} else if err != nil {
		log.Fatalf("an error occurred during timetable enumeration: %v", err)
	}

	fmt.Printf("%v\n", schedules[0].Status)
	fmt.Printf("Feasible timetables: %v (%v)\n", len(schedules), time.Since(start).Round(time.Millisecond))
	for i, schedule := range schedules {
		fmt.Printf("--- Timetable %v ---\n", i+1)
		printSchedule(schedule)
	}
}

func render(schedule *model.Schedule, outFile string) {
	if outFile == "" {
		fmt.Println(schedule.Status)
		printSchedule(schedule)
		return
	}

	bytes, err := json.MarshalIndent(schedule.Meetings, "", "  ")
	if err != nil {
		log.Fatalf("cannot serialize timetable: %v", err)
	}
	if err := os.WriteFile(outFile, bytes, 0644); err != nil {
		log.Fatalf("cannot write output file: %v", err)
	}
}

func printSchedule(schedule *model.Schedule) {
	for _, meeting := range schedule.Meetings {
		fmt.Printf("Day: %v, Start: %v, End: %v, Location: %v, Course: %v, Class: %v\n",
			Days[meeting.Day], meeting.Start, meeting.End, meeting.Location, meeting.Course, meeting.Class)
	}
}
