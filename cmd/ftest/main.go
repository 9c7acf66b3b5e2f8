// ftest runs the golden-file suite: every tests/*.fun source is compiled
// in-process and the assembly is compared against the .s file next to it.
// A .err file instead of a .s file means compilation must fail with
// exactly that diagnostic.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/google/go-cmp/cmp"

	"github.com/funlang/gfc/pkg/compiler"
	"github.com/funlang/gfc/pkg/config"
)

type FileTestResult struct {
	File    string
	Status  string // PASS, FAIL, SKIP, ERROR, UPDATED
	Message string
	Diff    string
}

var (
	testFiles = flag.String("test-files", "tests/*.fun", "Glob pattern(s) for files to test (space-separated).")
	skipFiles = flag.String("skip-files", "", "Files to skip (space-separated).")
	update    = flag.Bool("update", false, "Rewrite the golden files from the current compiler output.")
	jobs      = flag.Int("j", 4, "Number of parallel test jobs.")
	verbose   = flag.Bool("v", false, "Enable verbose logging.")
)

const (
	cRed    = "\x1b[91m"
	cYellow = "\x1b[93m"
	cGreen  = "\x1b[92m"
	cBold   = "\x1b[1m"
	cNone   = "\x1b[0m"
)

func main() {
	flag.Parse()
	log.SetFlags(0)

	files, err := expandGlobPatterns(*testFiles)
	if err != nil {
		log.Fatalf("%s[ERROR]%s Invalid glob pattern(s): %v\n", cRed, cNone, err)
	}
	if len(files) == 0 {
		log.Println("No test files found matching the pattern(s).")
		return
	}

	skipList := make(map[string]bool)
	for _, f := range strings.Fields(*skipFiles) {
		skipList[f] = true
	}

	tasks := make(chan string, len(files))
	resultsChan := make(chan *FileTestResult, len(files))
	var wg sync.WaitGroup

	for i := 0; i < *jobs; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for file := range tasks {
				resultsChan <- testFile(file)
			}
		}()
	}

	// Identical sources compile identically, so only the first of each
	// content hash is worth running.
	seenHashes := make(map[uint64]string)
	for _, file := range files {
		if skipList[file] {
			resultsChan <- &FileTestResult{File: file, Status: "SKIP", Message: "Explicitly skipped"}
			continue
		}
		content, err := os.ReadFile(file)
		if err != nil {
			resultsChan <- &FileTestResult{File: file, Status: "ERROR", Message: fmt.Sprintf("Failed to read file: %v", err)}
			continue
		}
		hash := xxhash.Sum64(content)
		if originalFile, seen := seenHashes[hash]; seen {
			resultsChan <- &FileTestResult{File: file, Status: "SKIP", Message: fmt.Sprintf("Content is identical to %s", originalFile)}
			continue
		}
		seenHashes[hash] = file
		tasks <- file
	}
	close(tasks)

	wg.Wait()
	close(resultsChan)

	var allResults []*FileTestResult
	for result := range resultsChan {
		allResults = append(allResults, result)
	}
	sort.Slice(allResults, func(i, j int) bool {
		return allResults[i].File < allResults[j].File
	})

	printSummary(allResults)
	for _, r := range allResults {
		if r.Status == "FAIL" || r.Status == "ERROR" {
			os.Exit(1)
		}
	}
}

func testFile(file string) *FileTestResult {
	source, err := os.ReadFile(file)
	if err != nil {
		return &FileTestResult{File: file, Status: "ERROR", Message: fmt.Sprintf("Could not read source: %v", err)}
	}

	asm, compileErr := compiler.Compile(string(source), config.NewConfig())

	base := strings.TrimSuffix(file, filepath.Ext(file))
	asmGolden := base + ".s"
	errGolden := base + ".err"

	if _, err := os.Stat(errGolden); err == nil {
		if compileErr == nil {
			return &FileTestResult{File: file, Status: "FAIL", Message: "Compilation succeeded, but a diagnostic was expected"}
		}
		return compareGolden(file, errGolden, compileErr.Error()+"\n")
	}

	if compileErr != nil {
		return &FileTestResult{File: file, Status: "FAIL", Message: fmt.Sprintf("Compilation failed: %v", compileErr)}
	}
	if _, err := os.Stat(asmGolden); err != nil && !*update {
		return &FileTestResult{File: file, Status: "SKIP", Message: fmt.Sprintf("No golden file %s (run with -update to create it)", asmGolden)}
	}
	return compareGolden(file, asmGolden, asm)
}

func compareGolden(file, goldenFile, got string) *FileTestResult {
	if *update {
		if err := os.WriteFile(goldenFile, []byte(got), 0o644); err != nil {
			return &FileTestResult{File: file, Status: "ERROR", Message: fmt.Sprintf("Could not write golden file %s: %v", goldenFile, err)}
		}
		return &FileTestResult{File: file, Status: "UPDATED", Message: goldenFile}
	}
	want, err := os.ReadFile(goldenFile)
	if err != nil {
		return &FileTestResult{File: file, Status: "ERROR", Message: fmt.Sprintf("Could not read golden file %s: %v", goldenFile, err)}
	}
	if diff := cmp.Diff(string(want), got); diff != "" {
		return &FileTestResult{File: file, Status: "FAIL", Message: "Output mismatch", Diff: diff}
	}
	return &FileTestResult{File: file, Status: "PASS"}
}

func expandGlobPatterns(patterns string) ([]string, error) {
	var files []string
	for _, pattern := range strings.Fields(patterns) {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}

func printSummary(results []*FileTestResult) {
	counts := make(map[string]int)
	for _, r := range results {
		counts[r.Status]++
		switch r.Status {
		case "PASS":
			if *verbose {
				fmt.Printf("%s[PASS]%s %s\n", cGreen, cNone, r.File)
			}
		case "UPDATED":
			fmt.Printf("%s[UPDATED]%s %s -> %s\n", cYellow, cNone, r.File, r.Message)
		case "SKIP":
			if *verbose {
				fmt.Printf("%s[SKIP]%s %s: %s\n", cYellow, cNone, r.File, r.Message)
			}
		default:
			fmt.Printf("%s[%s]%s %s: %s\n", cRed, r.Status, cNone, r.File, r.Message)
			if r.Diff != "" {
				fmt.Printf("%s(-want +got):%s\n%s\n", cBold, cNone, r.Diff)
			}
		}
	}
	fmt.Printf("\n%s%d passed%s, %s%d failed%s, %d skipped, %d updated, %d errors (%d total)\n",
		cGreen, counts["PASS"], cNone, cRed, counts["FAIL"], cNone,
		counts["SKIP"], counts["UPDATED"], counts["ERROR"], len(results))
}
