package ext2err

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/gocarina/gocsv"
)

// reasonRow is the CSV schema for reasons.csv, one row per taxonomy sentinel.
// Keeping the canonical CLI wording in a data file (rather than scattering
// fmt.Sprintf calls across every cmd/ package) means every front-end prints
// the identical `progname: path: reason` tail for a given failure class.
type reasonRow struct {
	Sentinel string `csv:"sentinel"`
	Reason   string `csv:"reason"`
}

//go:embed reasons.csv
var rawReasonsCSV string

var reasonsBySentinel map[string]string

func init() {
	reasonsBySentinel = make(map[string]string)
	reader := strings.NewReader(rawReasonsCSV)
	err := gocsv.UnmarshalToCallback(reader, func(row reasonRow) error {
		reasonsBySentinel[row.Sentinel] = row.Reason
		return nil
	})
	if err != nil {
		panic(fmt.Sprintf("ext2err: malformed reasons.csv: %s", err.Error()))
	}
}

// CLIReason returns the canonical short phrase for err's taxonomy class,
// suitable for the trailing component of `progname: path: reason`.
func CLIReason(err Error) string {
	reason, ok := reasonsBySentinel[string(err.Reason())]
	if ok {
		return reason
	}
	return err.Reason().Error()
}

// Diagnostic formats the standard `progname: path: reason` line this
// toolkit's CLI front-ends print to stderr on failure.
func Diagnostic(progname, path string, err Error) string {
	return fmt.Sprintf("%s: %s: %s", progname, path, CLIReason(err))
}
