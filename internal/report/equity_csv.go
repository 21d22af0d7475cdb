package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/quantx-lab/quantx/internal/types"
	"github.com/quantx-lab/quantx/pkg/errors"
)

// WriteEquityCSV writes the equity curve as a two-column CSV file.
func WriteEquityCSV(path string, curve types.EquityCurve) error {
	var b strings.Builder

	b.WriteString("date,equity\n")

	for _, point := range curve {
		fmt.Fprintf(&b, "%s,%.6f\n", point.Time.Format("2006-01-02"), point.Value)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return errors.Wrapf(errors.ErrCodeReportWriteFailed, err, "cannot write equity curve to %s", path)
	}

	return nil
}
