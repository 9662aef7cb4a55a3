package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scottpeterman/termtelent-sub002/internal/session"
	"github.com/scottpeterman/termtelent-sub002/internal/sweep"
)

// Command to sweep subnets for crawl seed candidates
func sweepCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "sweep [cidr or address...]",
		Short: "Sweep subnets for hosts answering on the ssh port",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scanner, err := sweep.NewNmapScanner(args, port)

			if err != nil {
				return err
			}

			defer scanner.Stop()

			candidates, err := scanner.Scan()

			if err != nil {
				return err
			}

			for _, candidate := range candidates {
				if candidate.Hostname != "" {
					fmt.Printf("%s\t%s\n", candidate.IP, candidate.Hostname)
				} else {
					fmt.Println(candidate.IP)
				}
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&port, "port", session.DefaultPort, "port to probe on each host")

	return cmd
}
