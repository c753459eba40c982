package cmd

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// sysinfoCmd prints host and runtime diagnostics, useful when reporting
// issues with large matching runs.
var sysinfoCmd = &cobra.Command{
	Use:   "sysinfo",
	Short: "Print host and runtime diagnostics",
	Run: func(cmd *cobra.Command, args []string) {
		hostname, _ := os.Hostname()

		writer := tabwriter.NewWriter(os.Stdout, 0, 4, 3, ' ', 0)
		fmt.Fprintf(writer, "go\t%s\n", runtime.Version())
		fmt.Fprintf(writer, "os\t%s\n", runtime.GOOS)
		fmt.Fprintf(writer, "arch\t%s\n", runtime.GOARCH)
		fmt.Fprintf(writer, "cpus\t%d\n", runtime.NumCPU())
		fmt.Fprintf(writer, "pointer bits\t%d\n", strconv.IntSize)
		fmt.Fprintf(writer, "hostname\t%s\n", hostname)
		writer.Flush()
	},
}

func init() {
	RootCmd.AddCommand(sysinfoCmd)
}
